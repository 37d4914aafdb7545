package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	assert.Equal(t, "json", codec.Name())

	name := "Alice"
	data, err := codec.Marshal(&UpdateParticipantRequest{ID: "p1", Name: &name})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Alice"}`, string(data))

	var req UpdateParticipantRequest
	require.NoError(t, codec.Unmarshal([]byte(`{"id":"p1","contribution":12.5}`), &req))
	assert.Nil(t, req.Name)
	require.NotNil(t, req.Contribution)
	assert.Equal(t, 12.5, *req.Contribution)

	var empty ListParticipantsRequest
	require.NoError(t, codec.Unmarshal(nil, &empty))
}

// authStub answers Login only.
type authStub struct{}

func (authStub) Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("not implemented"))
}

func (authStub) Login(_ context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return connect.NewResponse(&LoginResponse{User: &User{Email: req.Msg.Email}, Token: "t"}), nil
}

func (authStub) GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("not implemented"))
}

func TestAuthServiceBindings(t *testing.T) {
	path, handler := NewAuthServiceHandler(authStub{})
	assert.Equal(t, "/balance.v1.AuthService/", path)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewAuthServiceClient(server.Client(), server.URL)
	resp, err := client.Login(context.Background(), connect.NewRequest(&LoginRequest{Email: "a@b.c"}))
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", resp.Msg.User.Email)

	_, err = client.Register(context.Background(), connect.NewRequest(&RegisterRequest{}))
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))

	t.Run("plain JSON post", func(t *testing.T) {
		httpResp, err := http.Post(server.URL+AuthServiceLoginProcedure, "application/json", strings.NewReader(`{"email":"x@y.z"}`))
		require.NoError(t, err)
		defer httpResp.Body.Close()
		assert.Equal(t, http.StatusOK, httpResp.StatusCode)
	})

	t.Run("unknown procedure", func(t *testing.T) {
		httpResp, err := http.Post(server.URL+"/balance.v1.AuthService/Logout", "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		defer httpResp.Body.Close()
		assert.Equal(t, http.StatusNotFound, httpResp.StatusCode)
	})
}
