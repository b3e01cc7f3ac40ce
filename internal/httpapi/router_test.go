package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"meal-grocer/internal/app"
	"meal-grocer/internal/config"
	"meal-grocer/internal/recipe"
	"meal-grocer/internal/shopping"
	"meal-grocer/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type testServer struct {
	t      *testing.T
	router *gin.Engine
	app    *app.App
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	a, err := app.Bootstrap(&config.Config{
		DatabasePath:      filepath.Join(dir, "api.db"),
		RecipeStoragePath: filepath.Join(dir, "recipes"),
		DefaultPlanDays:   7,
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	token, err := GenerateToken(testSecret, "house-1", time.Hour)
	require.NoError(t, err)

	return &testServer{
		t:      t,
		router: NewRouter(a, Options{JWTSecret: testSecret, CORSOrigins: []string{"http://localhost:5173"}}),
		app:    a,
		token:  token,
	}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"goroutines"`)
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"Missing", ""},
		{"WrongScheme", "Token abc"},
		{"Garbage", "Bearer invalid_token_xyz"},
		{"WrongSecret", "Bearer " + mustToken(t, []byte("other"), "house-1", time.Hour)},
		{"Expired", "Bearer " + mustToken(t, testSecret, "house-1", -time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/pantry", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func mustToken(t *testing.T, secret []byte, userID string, ttl time.Duration) string {
	t.Helper()
	token, err := GenerateToken(secret, userID, ttl)
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	token := mustToken(t, testSecret, "house-9", time.Hour)
	sub, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "house-9", sub)

	_, err = GenerateToken(testSecret, "", time.Hour)
	assert.Error(t, err)
}

func TestShoppingListFlow(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.app.SaveRecipe(t.Context(), recipe.Recipe{
		ID: "rice-bowl", Title: "Rice bowl", Servings: 2,
		Ingredients: []recipe.Ingredient{
			{Name: "Rice", Amount: 200, Unit: units.Gram},
			{Name: "water", Amount: 500, Unit: units.Milliliter},
		},
	}))

	w := s.do(http.MethodPost, "/api/plans", map[string]any{
		"days": []map[string]any{{
			"date":  "2024-03-11",
			"meals": []map[string]any{{"recipe_id": "rice-bowl", "servings": 4, "meal_type": "dinner"}},
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/pantry", map[string]any{"name": "rice", "amount": 100, "unit": "grams"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/shopping-list?from=2024-03-11&to=2024-03-17", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list shopping.CategorizedList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.TotalCount)
	require.Len(t, list.Categories[shopping.Pantry], 1)
	rice := list.Categories[shopping.Pantry][0]
	assert.Equal(t, "Rice", rice.Name)
	assert.Equal(t, 300.0, rice.Amount)
	assert.Len(t, list.Categories, len(shopping.Categories))
	assert.NotNil(t, list.Categories[shopping.Frozen])

	t.Run("MarkPurchased", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/shopping-list/items/"+rice.ID, map[string]any{"purchased": true})
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(http.MethodGet, "/api/shopping-list?from=2024-03-11", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var again shopping.CategorizedList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
		assert.True(t, again.Categories[shopping.Pantry][0].Purchased)
	})

	t.Run("MarkRequiresFlag", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/shopping-list/items/"+rice.ID, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BadDates", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/shopping-list?from=11-03-2024", nil).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/shopping-list?from=2024-03-11&to=nope", nil).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/shopping-list?from=2024-03-11&to=2024-03-01", nil).Code)
	})
}

func TestCreatePlanValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/plans", map[string]any{"days": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/plans", map[string]any{
		"days": []map[string]any{{"date": "2024-03-11", "meals": []map[string]any{{"servings": 2}}}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "recipe id is required")

	w = s.do(http.MethodPost, "/api/plans", map[string]any{"days": []map[string]any{{"date": "March 11"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPantryEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/pantry", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = s.do(http.MethodPost, "/api/pantry", map[string]any{"name": "milk", "amount": 1, "unit": "l", "expires_at": "2024-03-20"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID        string `json:"id"`
		ExpiresAt string `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.ExpiresAt, "2024-03-20")

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/pantry", map[string]any{"amount": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/pantry", map[string]any{"name": "x", "expires_at": "soon"}).Code)

	w = s.do(http.MethodGet, "/api/pantry", nil)
	assert.Contains(t, w.Body.String(), `"name":"milk"`)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/pantry/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/pantry/"+created.ID, nil).Code)
}
