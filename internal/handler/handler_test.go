package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/handler"
	"github.com/artistsagainsttaupe/api/internal/repository/sqlite"
	"github.com/artistsagainsttaupe/api/internal/service"
)

const (
	testAdminToken = "test-admin-token"
	testPassword   = "password-123456"
)

// fakeStore is an in-memory domain.ImageStore recording calls.
type fakeStore struct {
	mu        sync.Mutex
	nextID    int
	deletes   []string
	uploadErr error
}

func (f *fakeStore) Upload(ctx context.Context, filename string, data []byte) (*domain.UploadedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.nextID++
	id := fmt.Sprintf("stored-%d", f.nextID)
	return &domain.UploadedImage{
		ID:       id,
		URL:      f.DeliveryURL(id, "public"),
		Variants: []string{f.DeliveryURL(id, "public")},
	}, nil
}

func (f *fakeStore) Delete(ctx context.Context, imageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, imageID)
	return nil
}

func (f *fakeStore) DeliveryURL(imageID, variant string) string {
	return "https://imagedelivery.net/testhash/" + imageID + "/" + variant
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []domain.Email
}

func (f *fakeMailer) Send(ctx context.Context, email domain.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return nil
}

type testEnv struct {
	mux    *http.ServeMux
	db     *sqlite.DB
	store  *fakeStore
	mailer *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := &fakeStore{}
	mail := &fakeMailer{}

	auth := service.NewAuthService(testAdminToken, "", testPassword)
	posts := service.NewPostService(db.Posts(), db.ImageReferences(), store,
		service.NewRefExtractor("imagedelivery.net"))
	galleries := service.NewGalleryService(db.Galleries(), db.GalleryImages(), db.ImageReferences(), store)
	contact := service.NewContactService(mail, nil, "noreply@example.org", "admin@example.org")

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, posts, galleries, contact, store,
		service.NewLoginLimiter(0, 3))

	return &testEnv{mux: mux, db: db, store: store, mailer: mail}
}

// doJSON performs a request with a JSON body. A nil body sends nothing.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}

	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// doMultipart performs an admin request carrying files under the given
// form field name.
func (e *testEnv) doMultipart(t *testing.T, path, field string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAdminToken)

	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func postBody(slug, content string) map[string]any {
	return map[string]any{
		"slug":    slug,
		"title":   "Title",
		"author":  "Author",
		"excerpt": "Excerpt",
		"content": content,
		"date":    "2026-02-01",
	}
}
