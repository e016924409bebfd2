package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressops/wpgate/internal/archive"
	"github.com/pressops/wpgate/internal/cache"
	"github.com/pressops/wpgate/internal/config"
	"github.com/pressops/wpgate/internal/enrich"
	"github.com/pressops/wpgate/internal/middleware"
	"github.com/pressops/wpgate/internal/models"
	"github.com/pressops/wpgate/internal/wp"
)

const testAdminKey = "secret-admin-key"

// fakeWordPress serves the handful of REST routes the gateway talks to.
func fakeWordPress(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/posts":
			w.Write([]byte(`[
				{"id": 1, "slug": "alpha", "link": "https://example.com/alpha",
				 "title": {"rendered": "Alpha"}, "featured_media": 5},
				{"id": 2, "slug": "old-beta", "link": "https://example.com/beta",
				 "title": {"rendered": "Old Beta"}, "categories": [3]}
			]`))
		case r.URL.Path == "/pages" && r.URL.Query().Get("slug") == "beta":
			w.Write([]byte(`[
				{"id": 20, "slug": "beta", "link": "https://example.com/beta",
				 "title": {"rendered": "Fresh Beta"}, "categories": [7]}
			]`))
		case r.URL.Path == "/pages" && r.URL.Query().Get("slug") == "about":
			w.Write([]byte(`[
				{"id": 30, "slug": "about", "link": "https://example.com/about",
				 "title": {"rendered": "About"}, "featured_media": 5}
			]`))
		case r.URL.Path == "/pages":
			w.Write([]byte(`[]`))
		case r.URL.Path == "/media/5":
			w.Write([]byte(`{"id": 5, "media_details": {"sizes": {"full":
				{"source_url": "https://example.com/five-full.jpg"}}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func setupTestApp(t *testing.T, wpURL string) (*fiber.App, string) {
	t.Helper()

	log := zerolog.Nop()
	snapshotDir := t.TempDir()

	client := wp.NewClient(wp.Config{BaseURL: wpURL, Timeout: 5 * time.Second})
	images := cache.NewMemoryStore()
	resolver := enrich.NewResolver(client, &log, 4)
	enricher := enrich.NewEnricher(client, images, &log, 4)

	store, err := archive.NewFileStore(snapshotDir)
	require.NoError(t, err)

	cfg := &config.Config{AdminAPIKey: testAdminKey}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRoutes(app, NewHandlers(cfg, client, resolver, enricher, images, store))

	return app, snapshotDir
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string, header map[string]string) *http.Response {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "GET", "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestGetPostsPipeline(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "GET", "/api/v1/posts?per_page=2&fields=id,title,link&resolve=true&images=true", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count         int                   `json:"count"`
		Posts         []models.Post         `json:"posts"`
		RedirectStats *enrich.RedirectStats `json:"redirect_stats"`
		ImageStats    *enrich.ImageStats    `json:"image_stats"`
	}
	decodeBody(t, resp, &body)

	require.Equal(t, 2, body.Count)

	// First post passed through and picked up its featured image.
	assert.Equal(t, "alpha", body.Posts[0].Slug)
	assert.Equal(t, "https://example.com/five-full.jpg", body.Posts[0].Image)

	// Second post was replaced by the content at its link slug,
	// keeping the original title and categories.
	assert.Equal(t, 20, body.Posts[1].ID)
	assert.Equal(t, "beta", body.Posts[1].Slug)
	assert.Equal(t, "Old Beta", body.Posts[1].Title.Rendered)
	assert.Equal(t, []int{3}, body.Posts[1].Categories)

	require.NotNil(t, body.RedirectStats)
	assert.Equal(t, 1, body.RedirectStats.Passed)
	assert.Equal(t, 1, body.RedirectStats.Resolved)

	require.NotNil(t, body.ImageStats)
	assert.Equal(t, 1, body.ImageStats.Enriched)
}

func TestGetPostsPlain(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "GET", "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count         int                   `json:"count"`
		Posts         []models.Post         `json:"posts"`
		RedirectStats *enrich.RedirectStats `json:"redirect_stats"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, 2, body.Count)
	assert.Nil(t, body.RedirectStats, "stats only appear when the step runs")
	assert.Equal(t, "old-beta", body.Posts[1].Slug, "no resolution without resolve=true")
}

func TestGetPostsRejectsBadPerPage(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "GET", "/api/v1/posts?per_page=500", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetPageBySlug(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "GET", "/api/v1/pages/about", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.Post
	decodeBody(t, resp, &page)
	assert.Equal(t, 30, page.ID)
	assert.Equal(t, "about", page.Slug)
	assert.Empty(t, page.Image)
}

func TestGetPageBySlugWithImages(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "GET", "/api/v1/pages/about?images=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.Post
	decodeBody(t, resp, &page)
	assert.Equal(t, 30, page.ID)
	assert.Equal(t, "https://example.com/five-full.jpg", page.Image)
}

func TestGetPageBySlugNotFound(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "GET", "/api/v1/pages/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminAuth(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "POST", "/api/v1/admin/cache/clear", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/v1/admin/cache/clear", "",
		map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/v1/admin/cache/clear", "",
		map[string]string{"X-API-Key": testAdminKey})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestArchiveEndpoint(t *testing.T) {
	app, snapshotDir := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "POST", "/api/v1/admin/archive",
		`{"label": "daily", "per_page": 2}`,
		map[string]string{"X-API-Key": testAdminKey, "Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Key    string `json:"key"`
		Count  int    `json:"count"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, "archived", body.Status)
	assert.Equal(t, 2, body.Count)
	require.NotEmpty(t, body.Key)

	_, err := os.Stat(filepath.Join(snapshotDir, body.Key))
	assert.NoError(t, err, "snapshot file should exist")
}

func TestArchiveRejectsBadLabel(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "POST", "/api/v1/admin/archive",
		`{"label": "../escape"}`,
		map[string]string{"X-API-Key": testAdminKey, "Content-Type": "application/json"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app, _ := setupTestApp(t, fakeWordPress(t).URL)

	resp := doRequest(t, app, "GET", "/api/v1/everything", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
