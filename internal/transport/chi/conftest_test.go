package chi

import (
	"context"
	"net/http"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/siftlabs/docsift/internal/domain"
	healthuc "github.com/siftlabs/docsift/internal/usecase/health"
	"github.com/siftlabs/docsift/internal/usecase/ingest"
)

type mockAuth struct {
	registerFn func(ctx context.Context, reg domain.Registration) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, error)
	verifyFn   func(ctx context.Context, token string) (*domain.User, error)
}

func (m *mockAuth) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	return m.registerFn(ctx, reg)
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (string, error) {
	return m.loginFn(ctx, username, password)
}

func (m *mockAuth) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	return m.verifyFn(ctx, token)
}

type mockIngest struct {
	ingestFn func(ctx context.Context, raw map[string]any, sourcePath string) (*domain.Document, error)
	batchFn  func(ctx context.Context, docs []ingest.RawDocument) ingest.BatchResult
	deleteFn func(ctx context.Context, id string) bool
}

func (m *mockIngest) Ingest(ctx context.Context, raw map[string]any, sourcePath string) (*domain.Document, error) {
	return m.ingestFn(ctx, raw, sourcePath)
}

func (m *mockIngest) IngestBatch(ctx context.Context, docs []ingest.RawDocument) ingest.BatchResult {
	return m.batchFn(ctx, docs)
}

func (m *mockIngest) Delete(ctx context.Context, id string) bool {
	return m.deleteFn(ctx, id)
}

type mockSearch struct {
	fn func(ctx context.Context, q domain.SearchQuery) (domain.SearchResponse, error)
}

func (m *mockSearch) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchResponse, error) {
	return m.fn(ctx, q)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestRouter(t *testing.T, s *Server) http.Handler {
	t.Helper()
	r := chirouter.NewRouter()
	s.Routes(r)
	return r
}

func newTestServer(t *testing.T, auth AuthService, docs IngestService, search SearchService, health HealthService) *Server {
	t.Helper()
	return NewServer(auth, docs, search, health, zap.NewNop())
}
