package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"coursebook/config"
	"coursebook/models"
	"coursebook/utils"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	f.users[id].PasswordHash = hash
	return nil
}

func newAuthRouter(t *testing.T, repo *fakeUserRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-secret"
	utils.AuthCacheClient = nil

	r := gin.New()
	r.GET("/whoami", AuthRequired(repo), func(c *gin.Context) {
		au, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no identity in context"})
			return
		}
		c.JSON(http.StatusOK, au)
	})
	r.GET("/admin-only", AuthRequired(repo), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func mintToken(t *testing.T, userID, email, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, email, role, time.Hour)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

func TestAuthRequiredRejectsBadHeaders(t *testing.T) {
	r := newAuthRouter(t, &fakeUserRepo{users: map[string]*models.User{}})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"empty bearer token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuthRequiredRejectsUnknownUser(t *testing.T) {
	r := newAuthRouter(t, &fakeUserRepo{users: map[string]*models.User{}})
	token := mintToken(t, "ghost", "ghost@example.com", "user")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(w.Body.String(), "Unknown user") {
		t.Errorf("body = %s, want an unknown-user message", w.Body.String())
	}
}

func TestAuthRequiredFlagsIncompleteIdentity(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "", Role: "user"},
	}}
	r := newAuthRouter(t, repo)
	token := mintToken(t, "u1", "", "user")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), "Identity record is incomplete") {
		t.Errorf("body = %s, want the incomplete-identity message", w.Body.String())
	}
}

func TestAuthRequiredDefaultsRole(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "ada@example.com", Role: ""},
	}}
	r := newAuthRouter(t, repo)
	token := mintToken(t, "u1", "ada@example.com", "")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var au models.AuthUser
	if err := json.Unmarshal(w.Body.Bytes(), &au); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if au.ID != "u1" || au.Email != "ada@example.com" || au.Role != "user" {
		t.Errorf("identity = %+v, want u1 with the default user role", au)
	}
}

func TestRequireAdmin(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "ada@example.com", Role: "user"},
		"a1": {ID: "a1", Email: "root@example.com", Role: "admin"},
	}}
	r := newAuthRouter(t, repo)

	tests := []struct {
		name     string
		userID   string
		role     string
		wantCode int
	}{
		{"regular user is forbidden", "u1", "user", http.StatusForbidden},
		{"admin passes", "a1", "admin", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token := mintToken(t, tc.userID, "", tc.role)
			req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}
