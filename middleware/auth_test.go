package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"legaldocs-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	userID uuid.UUID
	role   models.UserRole
	err    error
}

func (s *stubVerifier) VerifyAccessToken(token string) (uuid.UUID, models.UserRole, error) {
	if s.err != nil {
		return uuid.Nil, "", s.err
	}
	return s.userID, s.role, nil
}

func newAuthRouter(verifier TokenVerifier, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{RequireAuth(verifier)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserID(c).String(),
			"role":    string(Role(c)),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	userID := uuid.New()
	r := newAuthRouter(&stubVerifier{userID: userID, role: models.RoleInternalTeam})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "internal_team")
}

func TestRequireAuthAcceptsQueryToken(t *testing.T) {
	r := newAuthRouter(&stubVerifier{userID: uuid.New(), role: models.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/protected?token=some-token", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter(&stubVerifier{userID: uuid.New(), role: models.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	r := newAuthRouter(&stubVerifier{err: errors.New("expired")})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	r := newAuthRouter(&stubVerifier{userID: uuid.New(), role: models.RoleUser})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesEnforcesAllowList(t *testing.T) {
	verifier := &stubVerifier{userID: uuid.New(), role: models.RoleLawyer}
	r := newAuthRouter(verifier, models.RoleInternalTeam, models.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	verifier.role = models.RoleAdmin
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
