package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) LookupPrincipal(ctx context.Context, userID string) (Principal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(Principal), args.Error(1)
}

func TestRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)

	assert.True(t, RoleUser.Can(CapAuthenticated))
	assert.False(t, RoleUser.Can(CapAdmin))
	assert.True(t, RoleAdmin.Can(CapAdmin))
	assert.False(t, Role("ghost").Can(CapAuthenticated))

	assert.False(t, Principal{Role: RoleAdmin}.IsAdmin(), "principal without id has no capabilities")
	assert.True(t, Principal{UserID: "u1", Role: RoleAdmin}.IsAdmin())
}

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)

	token, err := m.GenerateAccessToken("user-1")
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other", time.Minute).ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		defer func() { m.now = time.Now }()
		_, err := m.ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ParseAndValidate("not.a.token")
		assert.Error(t, err)
	})
}

func TestPasswordHasher(t *testing.T) {
	h := NewBcryptPasswordHasherWithCost(1) // clamped to MinCost
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.Error(t, h.Compare(hash, "battery staple"))
}

func newTestRouter(m *JWTManager, lookup PrincipalLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authMw := AuthRequired(m, lookup)
	r.GET("/me", authMw, func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "role": p.Role})
	})
	r.GET("/admin", authMw, Require(CapAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	userToken, _ := m.GenerateAccessToken("user-1")
	adminToken, _ := m.GenerateAccessToken("admin-1")
	goneToken, _ := m.GenerateAccessToken("gone")
	brokenToken, _ := m.GenerateAccessToken("broken")

	lookup := new(MockLookup)
	lookup.On("LookupPrincipal", mock.Anything, "user-1").Return(Principal{UserID: "user-1", Role: RoleUser}, nil)
	lookup.On("LookupPrincipal", mock.Anything, "admin-1").Return(Principal{UserID: "admin-1", Role: RoleAdmin}, nil)
	lookup.On("LookupPrincipal", mock.Anything, "gone").Return(Principal{}, apperror.Unauthenticated("inactive"))
	lookup.On("LookupPrincipal", mock.Anything, "broken").Return(Principal{}, errors.New("db down"))

	r := newTestRouter(m, lookup)

	cases := []struct {
		name   string
		path   string
		header string
		code   int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"bad scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"user ok", "/me", "Bearer " + userToken, http.StatusOK},
		{"inactive user", "/me", "Bearer " + goneToken, http.StatusUnauthorized},
		{"lookup failure", "/me", "Bearer " + brokenToken, http.StatusInternalServerError},
		{"user on admin route", "/admin", "Bearer " + userToken, http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
		})
	}
}
