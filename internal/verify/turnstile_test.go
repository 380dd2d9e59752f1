package verify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/verify"
)

func TestVerify(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	v := verify.New("secret-1", verify.WithEndpoint(srv.URL))

	if err := v.Verify(context.Background(), "challenge-response"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if gotBody["secret"] != "secret-1" || gotBody["response"] != "challenge-response" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestVerifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := verify.New("secret-1", verify.WithEndpoint(srv.URL))

	if err := v.Verify(context.Background(), "bad-token"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	v := verify.New("secret-1")

	if err := v.Verify(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
