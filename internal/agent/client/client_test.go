package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	pkgerrors "github.com/Lakshan2000610/hr-notification/pkg/errors"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.AgentConfig{
		ServerURL:      serverURL,
		RequestTimeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestClient_Feed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/emp-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.Feed{
			Content: []domain.Content{{ID: "c-1", Title: "hello"}},
		})
	}))
	defer srv.Close()

	feed, err := newTestClient(srv.URL).Feed(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed.Content) != 1 || feed.Content[0].ID != "c-1" {
		t.Errorf("unexpected feed %+v", feed)
	}
}

func TestClient_PreferenceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "message preference not found"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Preference(context.Background(), "emp-1", "c-1")
	if !pkgerrors.IsNotFoundError(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestClient_SetMessageDelay(t *testing.T) {
	at := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["delay_choice"] != "Play within 1 hour" {
			t.Errorf("delay_choice = %q", body["delay_choice"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":      "Message delay set successfully",
			"display_time": at,
		})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).SetMessageDelay(context.Background(), "emp-1", "c-1", domain.DelayWithin1h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(at) {
		t.Errorf("display time = %v, want %v", got, at)
	}
}

func TestClient_RecordViewServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := newTestClient(srv.URL).RecordView(context.Background(), "c-1", "emp-1", 30)
	if !pkgerrors.IsTransientError(err) {
		t.Fatalf("expected transient error for unreachable server, got %v", err)
	}
}

func TestClient_RecordViewRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "viewed_duration cannot be negative"})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).RecordView(context.Background(), "c-1", "emp-1", -5)
	if !pkgerrors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClient_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).ReportStatus(context.Background(), &domain.StatusReport{EmployeeID: "emp-1"})
	if !pkgerrors.IsTransientError(err) {
		t.Fatalf("expected transient error for 500, got %v", err)
	}
}

func TestClient_Version(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"version": "2.0.0"})
	}))
	defer srv.Close()

	v, err := newTestClient(srv.URL).Version(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "2.0.0" {
		t.Errorf("version = %q", v)
	}
}
