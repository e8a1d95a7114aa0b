package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vinyl-crate/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResponse), args.Error(1)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	args := m.Called(ctx, userID, current, next)
	return args.Error(0)
}

func (m *MockAuthService) ParseToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func okHandler(captured **model.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = UserFromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_ValidToken(t *testing.T) {
	auth := new(MockAuthService)
	user := &model.User{ID: uuid.New(), Email: "crate-digger@example.com", Roles: []string{model.RoleCustomer}}
	auth.On("ParseToken", mock.Anything, "good-token").Return(user, nil)

	var got *model.User
	handler := BearerAuth(auth, zerolog.Nop())(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user, got)
}

func TestBearerAuth_NoHeaderPassesAnonymously(t *testing.T) {
	auth := new(MockAuthService)

	var got *model.User
	handler := BearerAuth(auth, zerolog.Nop())(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/vinyls", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got)
	auth.AssertNotCalled(t, "ParseToken")
}

func TestBearerAuth_InvalidToken(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("ParseToken", mock.Anything, "bad-token").Return(nil, model.ErrInvalidCredentials)

	handler := BearerAuth(auth, zerolog.Nop())(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_MalformedHeader(t *testing.T) {
	auth := new(MockAuthService)

	handler := BearerAuth(auth, zerolog.Nop())(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	auth.AssertNotCalled(t, "ParseToken")
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(zerolog.Nop())(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user := &model.User{ID: uuid.New(), Roles: []string{model.RoleCustomer}}
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req = req.WithContext(WithUser(req.Context(), user))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(model.RoleAdmin, zerolog.Nop())(okHandler(nil))

	customer := &model.User{ID: uuid.New(), Roles: []string{model.RoleCustomer}}
	req := httptest.NewRequest(http.MethodDelete, "/api/orders/x", nil)
	req = req.WithContext(WithUser(req.Context(), customer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &model.User{ID: uuid.New(), Roles: []string{model.RoleAdmin}}
	req = httptest.NewRequest(http.MethodDelete, "/api/orders/x", nil)
	req = req.WithContext(WithUser(req.Context(), admin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(okHandler(nil))

	req := httptest.NewRequest(http.MethodOptions, "/api/vinyls", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/vinyls", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
