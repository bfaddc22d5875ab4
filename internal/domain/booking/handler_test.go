package booking

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sharekit/sharekit-api/internal/middleware"
)

func newTestRouter(t *testing.T) (http.Handler, *fakeRepository) {
	t.Helper()
	svc, repo := newTestService()
	handler := NewHandler(svc)
	return handler.Routes(middleware.Identity()), repo
}

func doRequest(t *testing.T, router http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserHeader, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreate(t *testing.T) {
	router, _ := newTestRouter(t)

	body := fmt.Sprintf(`{"itemId":10,"start":%q,"end":%q}`,
		testNow.Add(24*time.Hour).Format(time.RFC3339),
		testNow.Add(48*time.Hour).Format(time.RFC3339))
	rec := doRequest(t, router, http.MethodPost, "/", "2", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp struct {
		Success bool            `json:"success"`
		Data    BookingResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Data.Status != StatusWaiting {
		t.Errorf("status = %s, want %s", resp.Data.Status, StatusWaiting)
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	start := testNow.Add(24 * time.Hour).Format(time.RFC3339)
	end := testNow.Add(48 * time.Hour).Format(time.RFC3339)

	cases := []struct {
		name   string
		userID string
		body   string
		want   int
	}{
		{"missing identity header", "", fmt.Sprintf(`{"itemId":10,"start":%q,"end":%q}`, start, end), http.StatusBadRequest},
		{"malformed identity header", "abc", fmt.Sprintf(`{"itemId":10,"start":%q,"end":%q}`, start, end), http.StatusBadRequest},
		{"invalid body", "2", `{not json`, http.StatusBadRequest},
		{"missing item id", "2", fmt.Sprintf(`{"start":%q,"end":%q}`, start, end), http.StatusBadRequest},
		{"unknown item", "2", fmt.Sprintf(`{"itemId":99,"start":%q,"end":%q}`, start, end), http.StatusNotFound},
		{"unknown user", "99", fmt.Sprintf(`{"itemId":10,"start":%q,"end":%q}`, start, end), http.StatusNotFound},
		{"owner books own item", "1", fmt.Sprintf(`{"itemId":10,"start":%q,"end":%q}`, start, end), http.StatusForbidden},
		{"end before start", "2", fmt.Sprintf(`{"itemId":10,"start":%q,"end":%q}`, end, start), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/", tc.userID, tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerDecide(t *testing.T) {
	router, repo := newTestRouter(t)
	b := repo.add(Booking{ItemID: 10, BookerID: 2, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour), Status: StatusWaiting})

	rec := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/%d?approved=true", b.ID), "1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// A second decision races against the applied one.
	rec = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/%d?approved=false", b.ID), "1", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("second decision status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestHandlerDecideErrors(t *testing.T) {
	router, repo := newTestRouter(t)
	b := repo.add(Booking{ItemID: 10, BookerID: 2, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour), Status: StatusWaiting})

	cases := []struct {
		name   string
		target string
		userID string
		want   int
	}{
		{"missing approved parameter", fmt.Sprintf("/%d", b.ID), "1", http.StatusBadRequest},
		{"bad approved parameter", fmt.Sprintf("/%d?approved=maybe", b.ID), "1", http.StatusBadRequest},
		{"bad booking id", "/abc?approved=true", "1", http.StatusBadRequest},
		{"unknown booking", "/999?approved=true", "1", http.StatusNotFound},
		{"booker decides", fmt.Sprintf("/%d?approved=true", b.ID), "2", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPatch, tc.target, tc.userID, "")
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerCancel(t *testing.T) {
	router, repo := newTestRouter(t)
	b := repo.add(Booking{ItemID: 10, BookerID: 2, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour), Status: StatusApproved})

	rec := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/%d/cancel", b.ID), "2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/%d/cancel", b.ID), "2", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("canceling canceled booking status = %d, want %d", rec.Code, http.StatusConflict)
	}

	b2 := repo.add(Booking{ItemID: 10, BookerID: 2, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour), Status: StatusWaiting})
	rec = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/%d/cancel", b2.ID), "1", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("owner cancel status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandlerGetByID(t *testing.T) {
	router, repo := newTestRouter(t)
	b := repo.add(Booking{ItemID: 10, BookerID: 2, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour), Status: StatusWaiting})

	for _, userID := range []string{"1", "2"} {
		rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/%d", b.ID), userID, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GetByID as user %s status = %d, want %d", userID, rec.Code, http.StatusOK)
		}
	}

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/%d", b.ID), "3", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("third party status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerLists(t *testing.T) {
	router, repo := newTestRouter(t)
	seedListFixture(repo)

	cases := []struct {
		name   string
		target string
		userID string
		count  int
	}{
		{"booker all", "/", "2", 5},
		{"booker future", "/?state=FUTURE", "2", 3},
		{"booker paged", "/?from=0&size=2", "2", 2},
		{"owner all", "/owner", "1", 5},
		{"owner waiting", "/owner?state=WAITING", "1", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, tc.target, tc.userID, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			var resp struct {
				Data []BookingResponse `json:"data"`
				Meta struct {
					Count int `json:"count"`
				} `json:"meta"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp.Data) != tc.count {
				t.Errorf("got %d bookings, want %d", len(resp.Data), tc.count)
			}
			if resp.Meta.Count != tc.count {
				t.Errorf("meta count = %d, want %d", resp.Meta.Count, tc.count)
			}
		})
	}
}

func TestHandlerListErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name   string
		target string
		want   int
	}{
		{"unknown state", "/?state=UNSUPPORTED_STATUS", http.StatusBadRequest},
		{"negative from", "/?from=-1", http.StatusBadRequest},
		{"zero size", "/?size=0", http.StatusBadRequest},
		{"non-numeric from", "/?from=abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, tc.target, "2", "")
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	rec := doRequest(t, router, http.MethodGet, "/", "99", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown subject status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
