package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/balanceapi/internal/auth"
	"github.com/mmynk/balanceapi/internal/events"
	"github.com/mmynk/balanceapi/internal/metrics"
	"github.com/mmynk/balanceapi/internal/middleware"
	"github.com/mmynk/balanceapi/internal/storage/sqlite"
	"github.com/mmynk/balanceapi/pkg/api"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.BalancesRecalculated
	err    error
}

func (p *recordingPublisher) PublishRecalculated(_ context.Context, e *events.BalancesRecalculated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) triggers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Trigger
	}
	return out
}

type testEnv struct {
	participants api.ParticipantServiceClient
	expenses     api.ExpenseServiceClient
	auth         api.AuthServiceClient
	publisher    *recordingPublisher
	metrics      *metrics.Metrics
	jwtManager   *auth.JWTManager
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestServer serves all three services from a temp database. The
// participant and expense services require a token when requireAuth is set.
func setupTestServer(t *testing.T, requireAuth bool) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })

	logger := discardLogger()
	publisher := &recordingPublisher{}
	m := metrics.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	ledger := NewLedger(store, publisher, m, logger)

	guard := middleware.OptionalAuth(jwtManager)
	if requireAuth {
		guard = middleware.RequireAuth(jwtManager)
	}

	mux := http.NewServeMux()
	mux.Handle(api.NewParticipantServiceHandler(NewParticipantService(ledger, logger), connect.WithInterceptors(guard)))
	mux.Handle(api.NewExpenseServiceHandler(NewExpenseService(ledger, logger), connect.WithInterceptors(guard)))
	mux.Handle(api.NewAuthServiceHandler(
		NewAuthService(authenticator, store, jwtManager, logger),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		participants: api.NewParticipantServiceClient(server.Client(), server.URL),
		expenses:     api.NewExpenseServiceClient(server.Client(), server.URL),
		auth:         api.NewAuthServiceClient(server.Client(), server.URL),
		publisher:    publisher,
		metrics:      m,
		jwtManager:   jwtManager,
	}
}

func (e *testEnv) createParticipant(t *testing.T, name string, contribution float64) *api.Participant {
	t.Helper()
	resp, err := e.participants.CreateParticipant(context.Background(), connect.NewRequest(&api.CreateParticipantRequest{
		Name:         name,
		Contribution: contribution,
	}))
	require.NoError(t, err, "CreateParticipant %s", name)
	return resp.Msg.Participant
}

func (e *testEnv) balances(t *testing.T) map[string]float64 {
	t.Helper()
	resp, err := e.participants.ListParticipants(context.Background(), connect.NewRequest(&api.ListParticipantsRequest{}))
	require.NoError(t, err)
	out := make(map[string]float64, len(resp.Msg.Participants))
	for _, p := range resp.Msg.Participants {
		out[p.Name] = p.NetBalance
	}
	return out
}

func (e *testEnv) plan(t *testing.T) []string {
	t.Helper()
	resp, err := e.participants.GetSettlementPlan(context.Background(), connect.NewRequest(&api.GetSettlementPlanRequest{}))
	require.NoError(t, err)
	return resp.Msg.Instructions
}

func codeOf(err error) connect.Code {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code()
	}
	return connect.CodeUnknown
}
