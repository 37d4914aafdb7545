package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/balanceapi/internal/auth"
	"github.com/mmynk/balanceapi/internal/metrics"
	"github.com/mmynk/balanceapi/internal/models"
)

type ping struct{}

// captureUser is a handler that echoes the caller identity.
func captureUser(seen *string) connect.UnaryFunc {
	return func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		*seen = GetUserID(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func requestWithAuth(header string) *connect.Request[ping] {
	req := connect.NewRequest(&ping{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	user := models.NewUser("alice@example.com", "Alice", "hash")
	token, err := jwtManager.Generate(user)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
	}{
		{name: "valid token", header: "Bearer " + token},
		{name: "case-insensitive scheme", header: "bearer " + token},
		{name: "missing header", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "bad token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequireAuth(jwtManager)(captureUser(&seen))
			_, err := handler(context.Background(), requestWithAuth(tt.header))
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
				assert.Empty(t, seen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, seen)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	user := models.NewUser("alice@example.com", "Alice", "hash")
	token, err := jwtManager.Generate(user)
	require.NoError(t, err)

	var seen string
	handler := OptionalAuth(jwtManager)(captureUser(&seen))

	_, err = handler(context.Background(), requestWithAuth(""))
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = handler(context.Background(), requestWithAuth("Bearer garbage"))
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = handler(context.Background(), requestWithAuth("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, user.ID, seen)
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	fail := func(err error) connect.UnaryFunc {
		return func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
			return nil, err
		}
	}

	_, err := LoggingInterceptor(logger)(fail(connect.NewError(connect.CodeNotFound, errors.New("participant not found"))))(context.Background(), requestWithAuth(""))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "code=not_found")

	buf.Reset()
	_, err = LoggingInterceptor(logger)(fail(errors.New("disk full")))(context.Background(), requestWithAuth(""))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	var seen string
	_, err = LoggingInterceptor(logger)(captureUser(&seen))(context.Background(), requestWithAuth(""))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `msg="RPC ok"`)
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New()
	var seen string

	_, err := MetricsInterceptor(m)(captureUser(&seen))(context.Background(), requestWithAuth(""))
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "ok")))

	failing := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bad"))
	}
	_, err = MetricsInterceptor(m)(failing)(context.Background(), requestWithAuth(""))
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCRequests.WithLabelValues("", "invalid_argument")))

	_, err = MetricsInterceptor(nil)(captureUser(&seen))(context.Background(), requestWithAuth(""))
	require.NoError(t, err)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limited := RateLimiter(ctx, RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	call := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/balance.v1.ParticipantService/ListParticipants", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001").Code)

	rec := call("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")

	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000").Code, "clients are limited independently")
}
