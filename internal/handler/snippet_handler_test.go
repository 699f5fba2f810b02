package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pagesight/internal/handler"
)

func getSnippet(t *testing.T, h http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServeSnippet(t *testing.T) {
	h, site, cleanup := setupHandlerTest(t, handler.Options{PublicBaseURL: "https://collect.pagesight.dev"})
	defer cleanup()

	w := getSnippet(t, h, "/js/snippet?site_id="+site.PublicID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, `data-site-id="`+site.PublicID+`"`) {
		t.Fatalf("snippet missing site id attribute: %s", body)
	}
	if !strings.Contains(body, "https://collect.pagesight.dev/js/tracker.js") {
		t.Fatalf("snippet missing script source: %s", body)
	}
}

func TestServeSnippetRespectsDoNotTrack(t *testing.T) {
	h, site, cleanup := setupHandlerTest(t, handler.Options{})
	defer cleanup()

	w := getSnippet(t, h, "/js/snippet?site_id="+site.PublicID, map[string]string{"DNT": "1"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 under DNT, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("DNT response must carry no snippet: %s", w.Body.String())
	}
}

func TestServeSnippetExcludesLoggedInUsers(t *testing.T) {
	h, site, cleanup := setupHandlerTest(t, handler.Options{})
	defer cleanup()

	w := getSnippet(t, h, fmt.Sprintf("/js/snippet?site_id=%s&logged_in=1", site.PublicID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for logged-in exclusion, got %d", w.Code)
	}
}

func TestServeSnippetUnknownSite(t *testing.T) {
	h, _, cleanup := setupHandlerTest(t, handler.Options{})
	defer cleanup()

	w := getSnippet(t, h, "/js/snippet?site_id=missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown site, got %d", w.Code)
	}
}

func TestServeSnippetRequiresSiteID(t *testing.T) {
	h, _, cleanup := setupHandlerTest(t, handler.Options{})
	defer cleanup()

	w := getSnippet(t, h, "/js/snippet", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without site_id, got %d", w.Code)
	}
}
