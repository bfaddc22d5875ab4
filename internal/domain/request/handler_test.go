package request

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sharekit/sharekit-api/internal/middleware"
)

type fakeStore struct {
	requests map[int64]*ItemRequest
	answers  map[int64][]ItemAnswer
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{requests: make(map[int64]*ItemRequest), answers: make(map[int64][]ItemAnswer), nextID: 1}
}

func (f *fakeStore) add(r ItemRequest) *ItemRequest {
	r.ID = f.nextID
	f.nextID++
	f.requests[r.ID] = &r
	return f.requests[r.ID]
}

func (f *fakeStore) Create(ctx context.Context, req *ItemRequest) error {
	req.ID = f.nextID
	f.nextID++
	req.CreatedAt = time.Now().UTC()
	stored := *req
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*ItemRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) sorted(keep func(*ItemRequest) bool) []ItemRequest {
	var out []ItemRequest
	for _, r := range f.requests {
		if keep(r) {
			out = append(out, *r)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func (f *fakeStore) ListByRequester(ctx context.Context, requesterID int64) ([]ItemRequest, error) {
	return f.sorted(func(r *ItemRequest) bool { return r.RequesterID == requesterID }), nil
}

func (f *fakeStore) ListOthers(ctx context.Context, requesterID int64, limit, offset int) ([]ItemRequest, error) {
	out := f.sorted(func(r *ItemRequest) bool { return r.RequesterID != requesterID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ItemsByRequest(ctx context.Context, requestID int64) ([]ItemAnswer, error) {
	return f.answers[requestID], nil
}

type fakeUsers struct {
	known map[int64]bool
}

func (f *fakeUsers) Exists(ctx context.Context, userID int64) (bool, error) {
	return f.known[userID], nil
}

func newTestRouter() (http.Handler, *fakeStore) {
	store := newFakeStore()
	users := &fakeUsers{known: map[int64]bool{1: true, 2: true}}
	handler := NewHandler(store, users)
	return handler.Routes(middleware.Identity()), store
}

func doRequest(router http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserHeader, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreate(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(router, http.MethodPost, "/", "1", `{"description":"Need a ladder for a weekend"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		Data ItemRequestResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Description != "Need a ladder for a weekend" {
		t.Errorf("description = %q", resp.Data.Description)
	}
	if resp.Data.Items == nil {
		t.Error("items must be an empty list, not null")
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	router, _ := newTestRouter()

	cases := []struct {
		name   string
		userID string
		body   string
		want   int
	}{
		{"missing identity header", "", `{"description":"x"}`, http.StatusBadRequest},
		{"missing description", "1", `{}`, http.StatusBadRequest},
		{"unknown user", "99", `{"description":"x"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/", tc.userID, tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerListOwn(t *testing.T) {
	router, store := newTestRouter()
	store.add(ItemRequest{Description: "mine", RequesterID: 1, CreatedAt: time.Now().Add(-time.Hour)})
	store.add(ItemRequest{Description: "also mine", RequesterID: 1, CreatedAt: time.Now()})
	store.add(ItemRequest{Description: "theirs", RequesterID: 2, CreatedAt: time.Now()})

	rec := doRequest(router, http.MethodGet, "/", "1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Data []ItemRequestResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("got %d requests, want 2", len(resp.Data))
	}
	if len(resp.Data) == 2 && resp.Data[0].Description != "also mine" {
		t.Errorf("newest request first, got %q", resp.Data[0].Description)
	}
}

func TestHandlerListOthers(t *testing.T) {
	router, store := newTestRouter()
	for i := 0; i < 15; i++ {
		store.add(ItemRequest{Description: fmt.Sprintf("request %d", i), RequesterID: 2, CreatedAt: time.Now().Add(time.Duration(i) * time.Minute)})
	}
	store.add(ItemRequest{Description: "own", RequesterID: 1, CreatedAt: time.Now()})

	rec := doRequest(router, http.MethodGet, "/all?from=0&size=10", "1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Data []ItemRequestResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 10 {
		t.Errorf("first page has %d requests, want 10", len(resp.Data))
	}

	rec = doRequest(router, http.MethodGet, "/all?from=10&size=10", "1", "")
	resp.Data = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 5 {
		t.Errorf("second page has %d requests, want 5", len(resp.Data))
	}
}

func TestHandlerListOthersBadPaging(t *testing.T) {
	router, _ := newTestRouter()

	for _, target := range []string{"/all?from=-1", "/all?size=0", "/all?from=abc"} {
		rec := doRequest(router, http.MethodGet, target, "1", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want %d", target, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestHandlerGetByID(t *testing.T) {
	router, store := newTestRouter()
	r := store.add(ItemRequest{Description: "need a drill", RequesterID: 2, CreatedAt: time.Now()})
	store.answers[r.ID] = []ItemAnswer{{ID: 5, Name: "Cordless drill", Available: true, OwnerID: 1, RequestID: r.ID}}

	rec := doRequest(router, http.MethodGet, fmt.Sprintf("/%d", r.ID), "1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Data ItemRequestResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Items) != 1 || resp.Data.Items[0].Name != "Cordless drill" {
		t.Errorf("items = %+v, want the answering item", resp.Data.Items)
	}

	rec = doRequest(router, http.MethodGet, "/999", "1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown request status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = doRequest(router, http.MethodGet, "/abc", "1", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
