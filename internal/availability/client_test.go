package availability

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 6000, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchDay_DecodesCourts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1294" {
			t.Errorf("path = %q, want /1294", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2025-07-07" {
			t.Errorf("date = %q, want 2025-07-07", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"available_courts": [
				{
					"name": "Court 1",
					"sport_ids": ["7"],
					"available_slots": [{"start": "2025-07-07T19:00:00-03:00"}]
				},
				{
					"name": "Court 2",
					"sport_ids": ["2", "7"],
					"available_slots": []
				}
			]
		}`))
	})

	courts, err := c.FetchDay(context.Background(), 1294, "2025-07-07")
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if len(courts) != 2 {
		t.Fatalf("courts = %d, want 2", len(courts))
	}
	if courts[0].Name != "Court 1" || len(courts[0].AvailableSlots) != 1 {
		t.Errorf("unexpected first court: %+v", courts[0])
	}
	if courts[0].AvailableSlots[0].Start != "2025-07-07T19:00:00-03:00" {
		t.Errorf("slot start = %q", courts[0].AvailableSlots[0].Start)
	}
}

func TestFetchDay_NonOKStatusIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	if _, err := c.FetchDay(context.Background(), 1294, "2025-07-07"); err == nil {
		t.Error("non-2xx response: want error")
	}
}

func TestFetchDay_MalformedBodyIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	if _, err := c.FetchDay(context.Background(), 1294, "2025-07-07"); err == nil {
		t.Error("malformed body: want error")
	}
}

func TestFetchDay_EmptyCourtsIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"available_courts": []}`))
	})

	courts, err := c.FetchDay(context.Background(), 1294, "2025-07-07")
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if len(courts) != 0 {
		t.Errorf("courts = %d, want 0", len(courts))
	}
}
