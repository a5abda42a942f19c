package roster

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	mw "github.com/avasilyev/fundbot/pkg/middleware"
)

func newTestRouter() chi.Router {
	svc := NewService(newFakeStore())
	handler := NewHandler(svc, map[int64]bool{1: true})
	gate := mw.RequireCoordinator(map[int64]bool{1: true})

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Identity)
		r.Mount("/roster", handler.Routes(gate))
	})
	return r
}

func do(r chi.Router, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter()

	w := do(router, http.MethodPost, "/api/v1/roster/register", "10", `{"username":"alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"name_pending":true`) {
		t.Errorf("expected name prompt in response, got %s", w.Body.String())
	}

	// Name submission completes the flow.
	w = do(router, http.MethodPost, "/api/v1/roster/name", "10", `{"full_name":"  Alice  "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Submitting again without a prompt conflicts.
	w = do(router, http.MethodPost, "/api/v1/roster/name", "10", `{"full_name":"Alice"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 without a pending prompt, got %d", w.Code)
	}
}

func TestSubmitNameBlankIsBadRequest(t *testing.T) {
	router := newTestRouter()

	do(router, http.MethodPost, "/api/v1/roster/register", "10", `{"username":"alice"}`)

	w := do(router, http.MethodPost, "/api/v1/roster/name", "10", `{"full_name":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank name, got %d", w.Code)
	}
}

func TestListUsersCoordinatorOnly(t *testing.T) {
	router := newTestRouter()

	do(router, http.MethodPost, "/api/v1/roster/register", "10", `{"username":"alice","full_name":"Alice"}`)

	if w := do(router, http.MethodGet, "/api/v1/roster/users", "10", ""); w.Code != http.StatusForbidden {
		t.Errorf("non-coordinator list: expected 403, got %d", w.Code)
	}

	w := do(router, http.MethodGet, "/api/v1/roster/users", "1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("coordinator list: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Alice") {
		t.Errorf("expected Alice in listing, got %s", w.Body.String())
	}
}
