package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	api_middleware "github.com/SlawCzech/dev-me-up/api/middleware"
	"github.com/SlawCzech/dev-me-up/internal/apperrors"
	"github.com/SlawCzech/dev-me-up/internal/user"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

type testServer struct {
	echo   *echo.Echo
	repo   *user.MockUserRepository
	tokens *user.MockTokenService
	mailer *user.MockMailer
}

func newTestServer() *testServer {
	repo := &user.MockUserRepository{}
	tokens := &user.MockTokenService{}
	mailer := &user.MockMailer{}
	svc := user.NewAccountService(repo, tokens, mailer, "http://localhost:8080")

	e := echo.New()
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler

	api := e.Group("/api/v1")
	userHandler := NewUserHandler(svc)
	userHandler.RegisterPublicRoutes(api)
	NewAuthHandler(svc).RegisterAuthRoutes(api)

	protected := e.Group("/api/v1")
	protected.Use(api_middleware.SetupJWTMiddleware())
	userHandler.RegisterProtectedRoutes(protected)
	NewAdminHandler(svc).RegisterAdminRoutes(protected)

	return &testServer{echo: e, repo: repo, tokens: tokens, mailer: mailer}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func mustUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func accessToken(t *testing.T, id uint) string {
	t.Helper()
	token, err := user.GenerateJWT(id)
	assert.NoError(t, err)
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	s := newTestServer()
	s.repo.On("GetUserByEmail", mock.Anything, "a@x.com").Return(nil, nil)
	s.repo.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*user.User).ID = 7
		}).Return(nil)
	s.tokens.On("Issue", mock.Anything, user.PurposeActivation, uint(7)).Return("tok", nil)
	s.mailer.On("Send", "a@x.com", "Account Activation", mock.Anything).Return(nil)

	rec := s.do(http.MethodPost, "/api/v1/register",
		`{"email":"a@x.com","password":"pw12345678","username":"alice"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "pw12345678")
	s.mailer.AssertExpectations(t)
}

func TestRegisterEndpoint_MissingFields(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodPost, "/api/v1/register", `{"email":"a@x.com"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivateEndpoint(t *testing.T) {
	s := newTestServer()
	target := &user.User{ID: 7, Username: "alice"}
	s.repo.On("GetUser", mock.Anything, uint(7)).Return(target, nil)
	s.tokens.On("Verify", mock.Anything, user.PurposeActivation, uint(7), "tok").Return(true, nil)
	s.repo.On("UpdateUser", mock.Anything, target).Return(nil)

	rec := s.do(http.MethodGet, "/api/v1/activate/"+user.EncodeUID(7)+"/tok", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account activated successfully.")
	assert.True(t, target.IsActive)
}

func TestActivateEndpoint_InvalidLink(t *testing.T) {
	s := newTestServer()
	s.repo.On("GetUser", mock.Anything, uint(7)).Return(&user.User{ID: 7}, nil)
	s.tokens.On("Verify", mock.Anything, user.PurposeActivation, uint(7), "bad").Return(false, nil)

	rec := s.do(http.MethodGet, "/api/v1/activate/"+user.EncodeUID(7)+"/bad", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid activation link.")
}

func TestGetUserEndpoint_AsStaff(t *testing.T) {
	s := newTestServer()
	staff := &user.User{ID: 1, IsStaff: true, IsActive: true}
	s.repo.On("GetUser", mock.Anything, uint(1)).Return(staff, nil)
	s.repo.On("GetUser", mock.Anything, uint(7)).Return(&user.User{ID: 7, Email: "a@x.com", Username: "alice"}, nil)
	s.repo.On("FirstProfile", mock.Anything, uint(7)).Return(nil, nil)

	rec := s.do(http.MethodGet, "/api/v1/users/7", "", accessToken(t, 1))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "a@x.com", body["email"])
	assert.Nil(t, body["rank"])
	assert.Nil(t, body["games_played"])
}

func TestGetUserSummaryEndpoint(t *testing.T) {
	s := newTestServer()
	s.repo.On("GetUser", mock.Anything, uint(2)).Return(&user.User{ID: 2, IsActive: true}, nil)
	s.repo.On("GetUser", mock.Anything, uint(7)).Return(&user.User{ID: 7, Email: "a@x.com", Username: "alice"}, nil)

	// Minimal shape is readable across users, unlike the rich one.
	rec := s.do(http.MethodGet, "/api/v1/users/7/summary", "", accessToken(t, 2))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"id": float64(7), "username": "alice"}, body)
}

func TestGetUserSummaryEndpoint_NoToken(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodGet, "/api/v1/users/7/summary", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserEndpoint_ForbiddenForOtherUser(t *testing.T) {
	s := newTestServer()
	s.repo.On("GetUser", mock.Anything, uint(2)).Return(&user.User{ID: 2, IsActive: true}, nil)

	rec := s.do(http.MethodGet, "/api/v1/users/7", "", accessToken(t, 2))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetUserEndpoint_NoToken(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodGet, "/api/v1/users/7", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteUserEndpoint_ForbiddenForOtherUser(t *testing.T) {
	s := newTestServer()
	s.repo.On("GetUser", mock.Anything, uint(2)).Return(&user.User{ID: 2, IsActive: true}, nil)

	rec := s.do(http.MethodDelete, "/api/v1/users/7", "", accessToken(t, 2))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeactivateEndpoint_Idempotent(t *testing.T) {
	s := newTestServer()
	target := &user.User{ID: 7, Username: "alice", IsActive: true}
	s.repo.On("GetUser", mock.Anything, uint(7)).Return(target, nil)
	s.repo.On("UpdateUser", mock.Anything, target).Return(nil)

	token := accessToken(t, 7)

	rec := s.do(http.MethodPost, "/api/v1/users/deactivate/7", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice has been deactivated.")

	rec = s.do(http.MethodPost, "/api/v1/users/deactivate/7", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice is already deactivated.")
}

func TestCreateAnonymousUserEndpoint(t *testing.T) {
	s := newTestServer()
	s.repo.On("CreateAnonymousUser", mock.Anything).
		Return(&user.AnonymousUser{ID: mustUUID("7f9c82e4-6a1b-4f0e-9a64-2b3d1c5e8f00")}, nil)

	rec := s.do(http.MethodPost, "/api/v1/users/anonymous", "", "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "7f9c82e4-6a1b-4f0e-9a64-2b3d1c5e8f00")
}

func TestGenerateNicknameEndpoint(t *testing.T) {
	s := newTestServer()

	rec := s.do(http.MethodGet, "/api/v1/users/nickname", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, strings.Trim(rec.Body.String(), "\"\n"))
}

func TestPasswordResetRequestEndpoint_UnknownEmail(t *testing.T) {
	s := newTestServer()
	s.repo.On("GetUserByEmail", mock.Anything, "ghost@x.com").Return(nil, nil)

	rec := s.do(http.MethodPost, "/api/v1/users/password-reset", `{"email":"ghost@x.com"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User with this email does not exist.")
}

func TestPasswordResetConfirmEndpoint(t *testing.T) {
	s := newTestServer()
	target := &user.User{ID: 7, Password: "old-hash"}
	s.repo.On("GetUser", mock.Anything, uint(7)).Return(target, nil)
	s.tokens.On("Verify", mock.Anything, user.PurposePasswordReset, uint(7), "tok").Return(true, nil)
	s.repo.On("UpdateUser", mock.Anything, target).Return(nil)

	rec := s.do(http.MethodPost, "/api/v1/users/password-reset/"+user.EncodeUID(7)+"/tok",
		`{"password":"newpassword1","confirm_password":"newpassword1"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password has been successfully reset.")
}

func TestTokenObtainEndpoint_InvalidCredentials(t *testing.T) {
	s := newTestServer()
	s.repo.On("GetUserByEmail", mock.Anything, "a@x.com").Return(nil, nil)

	rec := s.do(http.MethodPost, "/api/v1/token", `{"email":"a@x.com","password":"whatever"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminListUsersEndpoint_NonStaff(t *testing.T) {
	s := newTestServer()
	s.repo.On("GetUser", mock.Anything, uint(2)).Return(&user.User{ID: 2, IsActive: true}, nil)

	rec := s.do(http.MethodGet, "/api/v1/admin/users", "", accessToken(t, 2))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminListUsersEndpoint_UnknownPrincipal(t *testing.T) {
	s := newTestServer()
	// Token for an account that no longer exists resolves to the same 401
	// the other protected handlers give.
	s.repo.On("GetUser", mock.Anything, uint(9)).Return(nil, nil)

	rec := s.do(http.MethodGet, "/api/v1/admin/users", "", accessToken(t, 9))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminListUsersEndpoint_Staff(t *testing.T) {
	s := newTestServer()
	staff := &user.User{ID: 1, IsStaff: true, IsActive: true}
	s.repo.On("GetUser", mock.Anything, uint(1)).Return(staff, nil)
	s.repo.On("ListUsers", mock.Anything, mock.Anything).
		Return([]user.User{{ID: 7, Email: "a@x.com", Username: "alice"}}, nil)
	s.repo.On("FirstProfile", mock.Anything, uint(7)).Return(nil, nil)

	rec := s.do(http.MethodGet, "/api/v1/admin/users?is_active=true", "", accessToken(t, 1))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")
}
