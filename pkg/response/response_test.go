package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coinctrl/coinctrl/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func record(write func(c *gin.Context)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)
	return w
}

func TestSuccessPaginatedShape(t *testing.T) {
	w := record(func(c *gin.Context) {
		response.SuccessPaginated(c, []string{"a", "b"}, 45, 2, 20)
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Items       []string `json:"items"`
			Total       int64    `json:"total"`
			Pages       int      `json:"pages"`
			CurrentPage int      `json:"current_page"`
			PerPage     int      `json:"per_page"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 0, body.Code)
	assert.Equal(t, []string{"a", "b"}, body.Data.Items)
	assert.Equal(t, int64(45), body.Data.Total)
	assert.Equal(t, 3, body.Data.Pages)
	assert.Equal(t, 2, body.Data.CurrentPage)
	assert.Equal(t, 20, body.Data.PerPage)

	// The list key is items; earlier clients used a per-resource name
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["data"], &data))
	assert.Contains(t, data, "items")
	assert.NotContains(t, data, "transactions")
}

func TestValidationFailedCarriesFieldMap(t *testing.T) {
	w := record(func(c *gin.Context) {
		response.ValidationFailed(c, map[string]string{"email": "email is invalid"})
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Errors map[string]string `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, -1, body.Code)
	assert.Equal(t, "email is invalid", body.Data.Errors["email"])
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{10, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, response.TotalPages(tc.total, tc.perPage))
	}
}
