package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req catalog.CreateRequest) (*catalog.Offering, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offering), args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, id string) (*catalog.Offering, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offering), args.Error(1)
}

func (m *MockService) GetBySlug(ctx context.Context, slug string) (*catalog.Offering, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offering), args.Error(1)
}

func (m *MockService) List(ctx context.Context, filter catalog.Filter) ([]*catalog.Offering, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*catalog.Offering), args.Int(1), args.Error(2)
}

func (m *MockService) Update(ctx context.Context, id string, req catalog.UpdateRequest) (*catalog.Offering, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offering), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) Categories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockService) SetImage(ctx context.Context, id, image string) (*catalog.Offering, error) {
	args := m.Called(ctx, id, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offering), args.Error(1)
}

const serviceID = "6f1c2a5e-8a53-4c1e-9f3e-2b7d9c0a1e11"

func newTestRouter(svc catalog.Service, role auth.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		auth.SetPrincipal(c, auth.Principal{UserID: "u1", Role: role})
		c.Next()
	}
	RegisterRoutes(r.Group("/api"), NewHandler(svc, nil), fakeAuth, auth.Require(auth.CapAdmin))
	return r
}

func TestListServices(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, catalog.Filter{Category: "repair", Sort: "-price", Page: 2, PageSize: 5}).
		Return([]*catalog.Offering{{ID: serviceID, Name: "Brake Repair", Price: 3999}}, 6, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services?category=repair&sort=-price&page=2&limit=5", nil)
	newTestRouter(svc, auth.RoleUser).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items      []ServiceResponse `json:"items"`
		Total      int               `json:"total"`
		TotalPages int               `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 6, body.Total)
	assert.Equal(t, 2, body.TotalPages)
	require.Len(t, body.Items, 1)
	assert.Equal(t, []string{}, body.Items[0].Features)
}

func TestListServicesRejectsUnknownSort(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services?sort=rating", nil)
	newTestRouter(new(MockService), auth.RoleUser).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateService(t *testing.T) {
	t.Run("admin creates", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(r catalog.CreateRequest) bool {
			return r.Name == "Oil Change" && r.Price == 0 && r.Category == catalog.CategoryMaintenance
		})).Return(&catalog.Offering{ID: serviceID, Name: "Oil Change", Slug: "oil-change"}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(
			`{"name":"Oil Change","description":"d","category":"maintenance","price":0,"duration":30}`))
		req.Header.Set("Content-Type", "application/json")
		newTestRouter(svc, auth.RoleAdmin).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"slug":"oil-change"`)
	})

	t.Run("price is required", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(
			`{"name":"Oil Change","description":"d","category":"maintenance","duration":30}`))
		req.Header.Set("Content-Type", "application/json")
		newTestRouter(new(MockService), auth.RoleAdmin).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(`{}`))
		newTestRouter(new(MockService), auth.RoleUser).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, catalog.ErrNameTaken)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/services", strings.NewReader(
			`{"name":"Oil Change","description":"d","category":"maintenance","price":100,"duration":30}`))
		req.Header.Set("Content-Type", "application/json")
		newTestRouter(svc, auth.RoleAdmin).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestGetServiceBySlug(t *testing.T) {
	svc := new(MockService)
	svc.On("GetBySlug", mock.Anything, "oil-change").Return(nil, catalog.ErrNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/services/slug/oil-change", nil)
	newTestRouter(svc, auth.RoleUser).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
