package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"seacrew/internal/domain"
	"seacrew/internal/handler"
	"seacrew/internal/router"
	"seacrew/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	engine   *gin.Engine
	verifier *mocks.MockTokenVerifier
	records  *mocks.MockRecordService
	scans    *mocks.MockVerificationService
}

func newFixture() *fixture {
	f := &fixture{
		verifier: new(mocks.MockTokenVerifier),
		records:  new(mocks.MockRecordService),
		scans:    new(mocks.MockVerificationService),
	}
	f.verifier.On("Verify", "viewer-token").Return(&domain.Principal{UserID: uuid.New(), Role: domain.RoleViewer}, nil)
	f.verifier.On("Verify", "operator-token").Return(&domain.Principal{UserID: uuid.New(), Role: domain.RoleOperator}, nil)
	f.verifier.On("Verify", mock.Anything).Return(nil, domain.ErrUnauthorized)

	f.engine = router.Setup(f.verifier, router.Handlers{
		Record:       handler.NewRecordHandler(f.records),
		Verification: handler.NewVerificationHandler(f.scans, 0),
		Health:       handler.NewHealthHandler(handler.PingFunc(func(context.Context) error { return nil })),
	}, []string{"http://localhost:3000"})
	return f
}

func (f *fixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	f := newFixture()

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/swagger/doc.json", "").Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newFixture()
	path := "/api/v1/documents/" + uuid.NewString()

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, path, "forged").Code)
}

func TestRouter_RoleGates(t *testing.T) {
	f := newFixture()
	docID := uuid.New()
	f.scans.On("ListScans", mock.Anything, docID, 0, 20).Return([]domain.ScanAttempt{}, 0, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/documents/"+docID.String()+"/scans", "viewer-token").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/v1/documents/"+docID.String()+"/verify", "viewer-token").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/v1/crew-members", "viewer-token").Code)

	// Operators pass the gate and reach the handler's own validation.
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/v1/documents/"+docID.String()+"/verify", "operator-token").Code)
	f.scans.AssertNotCalled(t, "VerifyDocument", mock.Anything, mock.Anything)
}
