package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/pkg/apperror"
)

type fakeUserRepository struct {
	users map[string]*entity.User
}

func (f *fakeUserRepository) Create(context.Context, *entity.User) error { return nil }
func (f *fakeUserRepository) Update(context.Context, *entity.User) error { return nil }

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, apperror.ErrNotFound
}

func (f *fakeUserRepository) FindByUsername(context.Context, string) (*entity.User, error) {
	return nil, apperror.ErrNotFound
}

func (f *fakeUserRepository) FindRoleByName(context.Context, string) (*entity.Role, error) {
	return nil, apperror.ErrNotFound
}

func (f *fakeUserRepository) CountUsers(context.Context) (int64, error) { return 0, nil }

const testSecret = "test-secret"

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func setupRouter(repo *fakeUserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(repo, testSecret)

	router := gin.New()
	protected := router.Group("/", m.RequireAuth())
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	admin := protected.Group("/admin", m.RequireAdmin())
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func TestRequireAuthWithBearerToken(t *testing.T) {
	repo := &fakeUserRepository{users: map[string]*entity.User{}}
	router := setupRouter(repo)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, userID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body)
	}
}

func TestRequireAuthWithQueryToken(t *testing.T) {
	repo := &fakeUserRepository{users: map[string]*entity.User{}}
	router := setupRouter(repo)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/me?token="+signToken(t, userID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	router := setupRouter(&fakeUserRepository{users: map[string]*entity.User{}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	router := setupRouter(&fakeUserRepository{users: map[string]*entity.User{}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	router := setupRouter(&fakeUserRepository{users: map[string]*entity.User{}})

	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	adminID := uuid.New()
	memberID := uuid.New()
	repo := &fakeUserRepository{users: map[string]*entity.User{
		adminID.String():  {ID: adminID, Role: entity.Role{Name: entity.RoleAdmin}},
		memberID.String(): {ID: memberID, Role: entity.Role{Name: entity.RoleMember}},
	}}
	router := setupRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, adminID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200; body: %s", w.Code, w.Body)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, memberID))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("member status = %d, want 403", w.Code)
	}
}
