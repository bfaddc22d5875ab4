package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestRouter() (http.Handler, *fakeRepository) {
	repo := newFakeRepository()
	handler := NewHandler(NewService(repo))
	return handler.Routes(), repo
}

func doRequest(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreate(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/", `{"name":"Alice","email":"alice@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		Data UserResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Name != "Alice" {
		t.Errorf("name = %q, want %q", resp.Data.Name, "Alice")
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	router, _ := newTestRouter()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"invalid body", `{not json`, http.StatusBadRequest},
		{"missing name", `{"email":"a@example.com"}`, http.StatusBadRequest},
		{"missing email", `{"name":"Alice"}`, http.StatusBadRequest},
		{"bad email", `{"name":"Alice","email":"not-an-email"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/", tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerDuplicateEmail(t *testing.T) {
	router, _ := newTestRouter()

	doRequest(router, http.MethodPost, "/", `{"name":"Alice","email":"alice@example.com"}`)
	rec := doRequest(router, http.MethodPost, "/", `{"name":"Imposter","email":"alice@example.com"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d, body: %s", rec.Code, http.StatusConflict, rec.Body.String())
	}
}

func TestHandlerGetUpdateDelete(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/", `{"name":"Alice","email":"alice@example.com"}`)
	var created struct {
		Data UserResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	id := created.Data.ID

	rec = doRequest(router, http.MethodGet, fmt.Sprintf("/%d", id), "")
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(router, http.MethodPatch, fmt.Sprintf("/%d", id), `{"name":"Alice B"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("patch status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = doRequest(router, http.MethodDelete, fmt.Sprintf("/%d", id), "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doRequest(router, http.MethodGet, fmt.Sprintf("/%d", id), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = doRequest(router, http.MethodGet, "/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
