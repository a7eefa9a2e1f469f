package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestNewPageResponse_EmptyItems(t *testing.T) {
	resp := NewPageResponse[string](nil, 1, 10, 0)
	assert.NotNil(t, resp.Items)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"page":1,"pageSize":10,"total":0,"totalPages":0}`, string(raw))
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"app error", apperror.Conflict("slot taken"), http.StatusConflict, "slot taken"},
		{"wrapped app error", fmt.Errorf("create: %w", apperror.NotFound("nope")), http.StatusNotFound, "nope"},
		{"plain error", errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
		{"internal", apperror.Internal(errors.New("db exploded")), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tc.err)

			assert.Equal(t, tc.code, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.body, body.Error)
		})
	}
}
