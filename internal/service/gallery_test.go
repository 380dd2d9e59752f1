package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/artistsagainsttaupe/api/internal/domain"
	"github.com/artistsagainsttaupe/api/internal/repository/sqlite"
	"github.com/artistsagainsttaupe/api/internal/service"
)

func newGalleryService(t *testing.T) (*service.GalleryService, *sqlite.DB, *fakeStore) {
	t.Helper()
	db := newServiceDB(t)
	store := &fakeStore{}
	svc := service.NewGalleryService(db.Galleries(), db.GalleryImages(), db.ImageReferences(), store)
	return svc, db, store
}

func mustCreateGallery(t *testing.T, svc *service.GalleryService, id string) {
	t.Helper()
	if err := svc.CreateGallery(context.Background(), &domain.Gallery{ID: id, Title: "Gallery " + id}); err != nil {
		t.Fatalf("CreateGallery %s: %v", id, err)
	}
}

func TestCreateGalleryValidation(t *testing.T) {
	svc, _, _ := newGalleryService(t)
	ctx := context.Background()

	if err := svc.CreateGallery(ctx, &domain.Gallery{Title: "No ID"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing id: got %v", err)
	}
	if err := svc.CreateGallery(ctx, &domain.Gallery{ID: "no-title"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing title: got %v", err)
	}
}

func TestUploadImagesAppendsAtEnd(t *testing.T) {
	svc, _, _ := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")

	// Seed the gallery at max sort order 5.
	seed, err := svc.UploadImages(ctx, "g1", []service.UploadFile{{Filename: "seed.jpg", Data: []byte("x")}})
	if err != nil || seed[0].Err != nil {
		t.Fatalf("seed upload: %v / %v", err, seed[0].Err)
	}
	if err := svc.UpdateImage(ctx, seed[0].Image.ID, "seed", 5); err != nil {
		t.Fatalf("UpdateImage: %v", err)
	}

	files := []service.UploadFile{
		{Filename: "one.jpg", Data: []byte("a")},
		{Filename: "two.jpg", Data: []byte("b")},
		{Filename: "three.jpg", Data: []byte("c")},
	}
	results, err := svc.UploadImages(ctx, "g1", files)
	if err != nil {
		t.Fatalf("UploadImages: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []int{6, 7, 8} {
		if results[i].Err != nil {
			t.Fatalf("file %d failed: %v", i, results[i].Err)
		}
		if got := results[i].Image.SortOrder; got != want {
			t.Errorf("file %d: sort order %d, want %d", i, got, want)
		}
	}

	// Titles derive from filenames without the extension.
	if results[0].Image.Title != "one" {
		t.Errorf("title = %q", results[0].Image.Title)
	}
}

func TestUploadImagesGalleryMissing(t *testing.T) {
	svc, _, _ := newGalleryService(t)

	_, err := svc.UploadImages(context.Background(), "ghost",
		[]service.UploadFile{{Filename: "a.jpg", Data: []byte("x")}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadImagesNoFiles(t *testing.T) {
	svc, _, _ := newGalleryService(t)
	mustCreateGallery(t, svc, "g1")

	_, err := svc.UploadImages(context.Background(), "g1", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadImagesStoreFailureLeavesNoRow(t *testing.T) {
	svc, db, store := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")

	store.uploadErr = errors.New("store unavailable")

	results, err := svc.UploadImages(ctx, "g1", []service.UploadFile{{Filename: "a.jpg", Data: []byte("x")}})
	if err != nil {
		t.Fatalf("UploadImages: %v", err)
	}
	if results[0].Err == nil {
		t.Fatal("expected a per-file error")
	}

	images, err := db.GalleryImages().ListByGallery(ctx, "g1")
	if err != nil {
		t.Fatalf("ListByGallery: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("expected no rows after failed upload, got %d", len(images))
	}
}

func TestUploadImagesPartialFailure(t *testing.T) {
	svc, _, store := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")

	ok, err := svc.UploadImages(ctx, "g1", []service.UploadFile{{Filename: "good.jpg", Data: []byte("x")}})
	if err != nil || ok[0].Err != nil {
		t.Fatalf("first upload: %v / %v", err, ok[0].Err)
	}

	store.uploadErr = errors.New("store unavailable")
	bad, err := svc.UploadImages(ctx, "g1", []service.UploadFile{{Filename: "bad.jpg", Data: []byte("y")}})
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if bad[0].Err == nil {
		t.Fatal("expected failure for second file")
	}

	// The earlier success is untouched.
	_, images, _ := svc.GetGallery(ctx, "g1")
	if len(images) != 1 || images[0].OriginalFilename != "good.jpg" {
		t.Fatalf("images = %+v", images)
	}
}

func TestReorder(t *testing.T) {
	svc, _, _ := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")

	var ids []string
	for i := 0; i < 3; i++ {
		res, err := svc.UploadImages(ctx, "g1", []service.UploadFile{
			{Filename: fmt.Sprintf("img-%d.jpg", i), Data: []byte("x")},
		})
		if err != nil || res[0].Err != nil {
			t.Fatalf("upload %d: %v / %v", i, err, res[0].Err)
		}
		ids = append(ids, res[0].Image.ID)
	}

	// Reverse the display order.
	results, err := svc.Reorder(ctx, "g1", []service.ReorderItem{
		{ImageID: ids[0], NewOrder: 3},
		{ImageID: ids[1], NewOrder: 2},
		{ImageID: ids[2], NewOrder: 1},
	})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	for _, r := range results {
		if !r.Updated || r.Err != nil {
			t.Fatalf("result %+v", r)
		}
	}

	_, images, err := svc.GetGallery(ctx, "g1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if images[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, images[i].ID, want)
		}
	}
}

func TestReorderForeignImage(t *testing.T) {
	svc, _, _ := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")
	mustCreateGallery(t, svc, "g2")

	res, err := svc.UploadImages(ctx, "g2", []service.UploadFile{{Filename: "other.jpg", Data: []byte("x")}})
	if err != nil || res[0].Err != nil {
		t.Fatalf("upload: %v / %v", err, res[0].Err)
	}
	foreignID := res[0].Image.ID

	// The pair names g1 but the image lives in g2; nothing changes.
	results, err := svc.Reorder(ctx, "g1", []service.ReorderItem{{ImageID: foreignID, NewOrder: 9}})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if results[0].Updated || results[0].Err != nil {
		t.Fatalf("expected not-updated with no error, got %+v", results[0])
	}

	_, images, _ := svc.GetGallery(ctx, "g2")
	if images[0].SortOrder == 9 {
		t.Fatal("foreign image was reordered")
	}
}

func TestReorderGalleryMissing(t *testing.T) {
	svc, _, _ := newGalleryService(t)

	_, err := svc.Reorder(context.Background(), "ghost", []service.ReorderItem{{ImageID: "x", NewOrder: 1}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteImage(t *testing.T) {
	svc, db, store := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")

	res, err := svc.UploadImages(ctx, "g1", []service.UploadFile{{Filename: "a.jpg", Data: []byte("x")}})
	if err != nil || res[0].Err != nil {
		t.Fatalf("upload: %v / %v", err, res[0].Err)
	}
	img := res[0].Image

	// A blog post also embeds this hosted image; its reference rows must
	// not survive the image.
	if err := db.Posts().Create(ctx, &domain.BlogPost{
		ID: "p1", Slug: "p1", Title: "T", Author: "A", Excerpt: "E",
		Content: "c", Date: "2026-01-01",
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := db.ImageReferences().Insert(ctx, domain.ImageReference{
		PostID: "p1", ImageID: img.StoreImageID, ImageURL: img.ImageURL,
	}); err != nil {
		t.Fatalf("insert ref: %v", err)
	}

	if err := svc.DeleteImage(ctx, "g1", img.ID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}

	deletes := store.deleted()
	if len(deletes) != 1 || deletes[0] != img.StoreImageID {
		t.Fatalf("store deletes = %v", deletes)
	}

	refs, err := db.ImageReferences().ListByPost(ctx, "p1")
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected blog references cleared, got %d", len(refs))
	}

	if _, err := db.GalleryImages().GetByID(ctx, img.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected row gone, got %v", err)
	}
}

func TestDeleteImageWrongGallery(t *testing.T) {
	svc, _, store := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")
	mustCreateGallery(t, svc, "g2")

	res, err := svc.UploadImages(ctx, "g1", []service.UploadFile{{Filename: "a.jpg", Data: []byte("x")}})
	if err != nil || res[0].Err != nil {
		t.Fatalf("upload: %v / %v", err, res[0].Err)
	}

	if err := svc.DeleteImage(ctx, "g2", res[0].Image.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for gallery mismatch, got %v", err)
	}
	if deletes := store.deleted(); len(deletes) != 0 {
		t.Fatalf("store should be untouched, got deletes %v", deletes)
	}
}

func TestDeleteGalleryReleasesAllImages(t *testing.T) {
	svc, db, store := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")

	res, err := svc.UploadImages(ctx, "g1", []service.UploadFile{
		{Filename: "a.jpg", Data: []byte("x")},
		{Filename: "b.jpg", Data: []byte("y")},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	want := map[string]bool{}
	for _, r := range res {
		if r.Err != nil {
			t.Fatalf("upload %s: %v", r.Filename, r.Err)
		}
		want[r.Image.StoreImageID] = true
	}

	if err := svc.DeleteGallery(ctx, "g1"); err != nil {
		t.Fatalf("DeleteGallery: %v", err)
	}

	for _, id := range store.deleted() {
		delete(want, id)
	}
	if len(want) != 0 {
		t.Fatalf("store images never deleted: %v", want)
	}

	if _, err := db.Galleries().GetByID(ctx, "g1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected gallery gone, got %v", err)
	}
}

func TestDeleteGallerySurvivesStoreFailure(t *testing.T) {
	svc, _, store := newGalleryService(t)
	ctx := context.Background()
	mustCreateGallery(t, svc, "g1")

	res, err := svc.UploadImages(ctx, "g1", []service.UploadFile{{Filename: "a.jpg", Data: []byte("x")}})
	if err != nil || res[0].Err != nil {
		t.Fatalf("upload: %v / %v", err, res[0].Err)
	}

	store.deleteErr = errors.New("store unavailable")

	if err := svc.DeleteGallery(ctx, "g1"); err != nil {
		t.Fatalf("DeleteGallery should succeed despite store failure: %v", err)
	}
}

func TestUpdateImageRequiresTitle(t *testing.T) {
	svc, _, _ := newGalleryService(t)

	err := svc.UpdateImage(context.Background(), "any", "", 1)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
