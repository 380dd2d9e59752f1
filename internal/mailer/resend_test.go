package mailer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/mailer"
)

func TestSend(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	client := mailer.New("key-123", mailer.WithAPIBase(srv.URL))

	err := client.Send(context.Background(), domain.Email{
		From:    "noreply@example.org",
		To:      []string{"admin@example.org"},
		Subject: "Hello",
		HTML:    "<p>Body</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotAuth != "Bearer key-123" {
		t.Errorf("auth = %s", gotAuth)
	}
	if gotBody["from"] != "noreply@example.org" || gotBody["subject"] != "Hello" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := mailer.New("bad-key", mailer.WithAPIBase(srv.URL))

	if err := client.Send(context.Background(), domain.Email{To: []string{"x@example.org"}}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
