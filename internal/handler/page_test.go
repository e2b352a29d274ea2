package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"dineout-frontend/internal/client"
	"dineout-frontend/internal/config"
	"dineout-frontend/internal/model"
	"dineout-frontend/internal/service"
	"dineout-frontend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecommender mimics the recommendation backend.
type fakeRecommender struct {
	cuisinesStatus int
	recommendCode  int
	recommendBody  string

	mu   sync.Mutex
	last model.FilterSelection
}

func (f *fakeRecommender) lastRequest() model.FilterSelection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeRecommender) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/cuisines":
		if f.cuisinesStatus != 0 {
			w.WriteHeader(f.cuisinesStatus)
			return
		}
		_, _ = w.Write([]byte(`["North Indian","Italian","Thai"]`))
	case "/recommend":
		var sel model.FilterSelection
		_ = json.NewDecoder(r.Body).Decode(&sel)
		f.mu.Lock()
		f.last = sel
		f.mu.Unlock()
		if f.recommendCode != 0 {
			w.WriteHeader(f.recommendCode)
		}
		_, _ = w.Write([]byte(f.recommendBody))
	default:
		http.NotFound(w, r)
	}
}

type testEnv struct {
	router  *gin.Engine
	backend *fakeRecommender
	pages   *service.PageService
}

func newTestEnv(t *testing.T, backend *fakeRecommender) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg, err := config.Load("")
	require.NoError(t, err)

	pages := service.NewPageServiceWithStorage(cfg.Page, client.New(srv.URL, 0), storage.NewMemoryStorage())
	t.Cleanup(func() { _ = pages.Close() })

	return &testEnv{
		router:  NewRouter(cfg, NewPageHandler(pages, 50*time.Millisecond)),
		backend: backend,
		pages:   pages,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createPage(t *testing.T) string {
	t.Helper()
	rec := e.do(httptest.NewRequest(http.MethodPost, "/api/pages", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var state model.PageState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state.ID
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestNewPageRedirects(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/pages/"))

	rec = env.do(httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="North Indian" selected>North Indian</option>`)
	assert.Contains(t, body, `<option value="Thai">Thai</option>`)
	assert.Contains(t, body, `<option value="Both">Both</option>`)
}

func TestShowUnknownPageStartsOver(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/pages/nope", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCuisineFailurePlaceholder(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{cuisinesStatus: http.StatusInternalServerError})
	id := env.createPage(t)

	page, err := env.pages.GetPage(id)
	require.NoError(t, err)
	s := page.Snapshot()
	require.Len(t, s.Cuisine.Options, 1)
	assert.Equal(t, model.CuisineErrorLabel, s.Cuisine.Options[0].Label)
	assert.Equal(t, model.LoadFailed, s.CuisineState)
}

func TestSubmitFormRedirectsToRenderedPage(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{
		recommendBody: `[{"Name":"Spice Route","Full_Address":"4 Park St","AverageCost":450,"Cuisines":"Thai","URL":"https://order.example/spice"}]`,
	})
	id := env.createPage(t)

	form := url.Values{
		"cuisine_input": {" Thai "},
		"cuisine":       {"Italian"},
		"budget":        {"500"},
		"rating":        {"3"},
		"veg":           {"No"},
		"order":         {"Order"},
	}
	req := httptest.NewRequest(http.MethodPost, "/pages/"+id+"/recommend", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := env.do(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/pages/"+id, rec.Header().Get("Location"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/pages/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h2>Spice Route</h2>")
	assert.Contains(t, body, "4 Park St")
	assert.Contains(t, body, "<strong>Average Cost:</strong> 450")
	assert.Contains(t, body, `href="https://order.example/spice"`)
	assert.Contains(t, body, `value=" Thai "`, "free text is kept as typed")

	assert.Equal(t, model.FilterSelection{
		PreferredCuisines: []string{"Thai"},
		Budget:            "500",
		MinRating:         "3",
		VegChoice:         "No",
		OrderChoice:       "Order",
	}, env.backend.lastRequest())
}

func TestSubmitFormUnknownPageStartsOver(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{})
	req := httptest.NewRequest(http.MethodPost, "/pages/missing/recommend", strings.NewReader("budget=100"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := env.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSubmitJSON(t *testing.T) {
	tests := []struct {
		name     string
		backend  *fakeRecommender
		wantKind model.ResultsKind
		wantText string
	}{
		{
			name:     "no results",
			backend:  &fakeRecommender{recommendBody: `[]`},
			wantKind: model.ResultsMessage,
			wantText: "No recommendations found.",
		},
		{
			name:     "backend error",
			backend:  &fakeRecommender{recommendCode: http.StatusInternalServerError, recommendBody: `{"error": "bad budget"}`},
			wantKind: model.ResultsError,
			wantText: "Error fetching recommendations: bad budget",
		},
		{
			name:     "backend error without message",
			backend:  &fakeRecommender{recommendCode: http.StatusBadGateway, recommendBody: `oops`},
			wantKind: model.ResultsError,
			wantText: "Error fetching recommendations: Unknown error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.backend)
			id := env.createPage(t)

			req := httptest.NewRequest(http.MethodPost, "/api/pages/"+id+"/recommend",
				strings.NewReader(`{"cuisine":"Italian","budget":"abc"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := env.do(req)

			require.Equal(t, http.StatusOK, rec.Code)
			var area model.ResultsArea
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &area))
			assert.Equal(t, tt.wantKind, area.Kind)
			assert.Equal(t, tt.wantText, area.Text)
			assert.Equal(t, []string{"Italian"}, env.backend.lastRequest().PreferredCuisines)
		})
	}
}

func TestSubmitJSONUnknownPage(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{})
	req := httptest.NewRequest(http.MethodPost, "/api/pages/missing/recommend", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAndDeletePage(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{})
	id := env.createPage(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/pages/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cuisine_state":"ready"`)

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/api/pages/"+id, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/pages/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsSendsCurrentResults(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{recommendBody: `[]`})
	id := env.createPage(t)

	_, err := env.pages.Submit(context.Background(), id, model.FormInput{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/pages/"+id+"/events", nil).WithContext(ctx)
	rec := env.do(req)

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: results\n")
	assert.Contains(t, body, "data: <p>No recommendations found.</p>")
	assert.Contains(t, body, "event: heartbeat\n")
}

func TestEventsUnknownPage(t *testing.T) {
	env := newTestEnv(t, &fakeRecommender{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/pages/missing/events", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
