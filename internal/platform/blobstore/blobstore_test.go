package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/surveyfax/surveyfax/internal/platform/auth"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func seedReport(t *testing.T, store BlobStore, rid, fileName, content string) *BlobMetadata {
	t.Helper()
	meta := BlobMetadata{
		FileName:         fileName,
		ContentType:      ContentTypePDF,
		OrganizationRID:  rid,
		OrganizationName: "Org " + rid,
		Pages:            2,
		CreatedBy:        "test-user",
	}
	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("seedReport: %v", err)
	}
	return result
}

// ---------------------------------------------------------------------------
// Store tests
// ---------------------------------------------------------------------------

func TestInMemoryBlobStore_Upload(t *testing.T) {
	store := NewInMemoryBlobStore()
	content := "%PDF-1.3 fake"

	result, err := store.Upload(context.Background(), BlobMetadata{
		FileName:         "acme.pdf",
		OrganizationRID:  "rid-1",
		OrganizationName: "Acme",
		Pages:            3,
		CreatedBy:        "user-1",
	}, strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if result.ContentType != ContentTypePDF {
		t.Errorf("expected default ContentType=%s, got %s", ContentTypePDF, result.ContentType)
	}
	if result.Size != int64(len(content)) {
		t.Errorf("expected Size=%d, got %d", len(content), result.Size)
	}
	if result.CreatedAt.IsZero() {
		t.Fatal("expected non-zero CreatedAt")
	}
	if result.Pages != 3 || result.OrganizationRID != "rid-1" {
		t.Errorf("unexpected metadata: %+v", result)
	}
}

func TestInMemoryBlobStore_Download(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploaded := seedReport(t, store, "r1", "report.pdf", "binary-content-here")

	rc, meta, err := store.Download(context.Background(), uploaded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("error reading content: %v", err)
	}
	if string(data) != "binary-content-here" {
		t.Errorf("unexpected content %q", string(data))
	}
	if meta.FileName != "report.pdf" {
		t.Errorf("expected FileName=report.pdf, got %s", meta.FileName)
	}
}

func TestInMemoryBlobStore_NotFound(t *testing.T) {
	store := NewInMemoryBlobStore()
	ctx := context.Background()

	if _, _, err := store.Download(ctx, "nonexistent-id"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("Download: expected ErrBlobNotFound, got %v", err)
	}
	if _, err := store.GetMetadata(ctx, "nonexistent-id"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("GetMetadata: expected ErrBlobNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "nonexistent-id"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("Delete: expected ErrBlobNotFound, got %v", err)
	}
}

func TestInMemoryBlobStore_Delete(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploaded := seedReport(t, store, "r1", "a.pdf", "x")

	if err := store.Delete(context.Background(), uploaded.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.GetMetadata(context.Background(), uploaded.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound after delete, got %v", err)
	}
}

func TestInMemoryBlobStore_ListByOrganization(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedReport(t, store, "r1", "a.pdf", "1")
	seedReport(t, store, "r1", "b.pdf", "2")
	seedReport(t, store, "r2", "c.pdf", "3")

	items, total, err := store.List(context.Background(), ListParams{OrganizationRID: "r1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 results, got total=%d len=%d", total, len(items))
	}
}

func TestInMemoryBlobStore_ListNewestFirst(t *testing.T) {
	store := NewInMemoryBlobStore()
	first := seedReport(t, store, "r1", "first.pdf", "1")
	time.Sleep(2 * time.Millisecond)
	second := seedReport(t, store, "r1", "second.pdf", "2")

	items, _, err := store.List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("expected newest first, got %s then %s", items[0].FileName, items[1].FileName)
	}
}

func TestInMemoryBlobStore_ListPaging(t *testing.T) {
	store := NewInMemoryBlobStore()
	for i := 0; i < 5; i++ {
		seedReport(t, store, "r1", fmt.Sprintf("%d.pdf", i), "x")
	}

	items, total, err := store.List(context.Background(), ListParams{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item on the last page, got %d", len(items))
	}

	items, _, _ = store.List(context.Background(), ListParams{Offset: 10})
	if len(items) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(items))
	}
}

func TestInMemoryBlobStore_ListByFileNameAndDate(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedReport(t, store, "r1", "Acme-Corp.pdf", "1")
	seedReport(t, store, "r1", "globex.pdf", "2")

	items, _, _ := store.List(context.Background(), ListParams{FileName: "acme"})
	if len(items) != 1 || items[0].FileName != "Acme-Corp.pdf" {
		t.Errorf("expected case-insensitive file name match, got %v", items)
	}

	future := time.Now().Add(time.Hour)
	items, total, _ := store.List(context.Background(), ListParams{CreatedAfter: &future})
	if total != 0 || len(items) != 0 {
		t.Errorf("expected no reports created after %v, got %d", future, total)
	}
}

func TestInMemoryBlobStore_Upload_Validation(t *testing.T) {
	store := NewInMemoryBlobStore()
	ctx := context.Background()

	if _, err := store.Upload(ctx, BlobMetadata{}, strings.NewReader("x")); !errors.Is(err, ErrMissingFileName) {
		t.Errorf("expected ErrMissingFileName, got %v", err)
	}
	if _, err := store.Upload(ctx, BlobMetadata{FileName: "a.exe", ContentType: "application/x-msdownload"}, strings.NewReader("x")); !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("expected ErrInvalidContentType, got %v", err)
	}
	big := bytes.NewReader(make([]byte, MaxFileSize+1))
	if _, err := store.Upload(ctx, BlobMetadata{FileName: "big.pdf"}, big); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestInMemoryBlobStore_SHA256Hash(t *testing.T) {
	store := NewInMemoryBlobStore()
	content := "deterministic content"
	result := seedReport(t, store, "r1", "hash.pdf", content)

	expected := fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
	if result.Hash != expected {
		t.Errorf("expected hash %s, got %s", expected, result.Hash)
	}
}

func TestInMemoryBlobStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryBlobStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			meta, err := store.Upload(context.Background(), BlobMetadata{FileName: fmt.Sprintf("%d.pdf", i)}, strings.NewReader("x"))
			if err != nil {
				t.Errorf("upload %d: %v", i, err)
				return
			}
			if _, err := store.GetMetadata(context.Background(), meta.ID); err != nil {
				t.Errorf("get %d: %v", i, err)
			}
			store.List(context.Background(), ListParams{})
		}(i)
	}
	wg.Wait()

	_, total, _ := store.List(context.Background(), ListParams{})
	if total != 50 {
		t.Errorf("expected 50 reports, got %d", total)
	}
}

// ---------------------------------------------------------------------------
// Handler tests
// ---------------------------------------------------------------------------

func newTestServer(store BlobStore) *echo.Echo {
	e := echo.New()
	e.Use(auth.DevAuthMiddleware())
	NewBlobHandler(store).RegisterRoutes(e.Group("/api/v1"))
	return e
}

func TestBlobHandler_Download(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploaded := seedReport(t, store, "r1", "acme.pdf", "%PDF-1.3")
	e := newTestServer(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+uploaded.ID, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "%PDF-1.3" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != ContentTypePDF {
		t.Errorf("expected Content-Type %s, got %s", ContentTypePDF, got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "acme.pdf") {
		t.Errorf("expected file name in Content-Disposition, got %s", got)
	}
}

func TestBlobHandler_GetMetadata(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploaded := seedReport(t, store, "r1", "acme.pdf", "x")
	e := newTestServer(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+uploaded.ID+"/metadata", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var meta BlobMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if meta.ID != uploaded.ID || meta.OrganizationRID != "r1" {
		t.Errorf("unexpected metadata %+v", meta)
	}
}

func TestBlobHandler_NotFound(t *testing.T) {
	e := newTestServer(NewInMemoryBlobStore())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/reports/missing"},
		{http.MethodGet, "/api/v1/reports/missing/metadata"},
		{http.MethodDelete, "/api/v1/reports/missing"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.path, rec.Code)
		}
		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body.Code != http.StatusNotFound || body.Message != ErrBlobNotFound.Error() {
			t.Errorf("unexpected error body %+v", body)
		}
	}
}

func TestBlobHandler_Delete(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploaded := seedReport(t, store, "r1", "acme.pdf", "x")
	e := newTestServer(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reports/"+uploaded.ID, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if _, err := store.GetMetadata(context.Background(), uploaded.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Error("expected report to be deleted")
	}
}

func TestBlobHandler_List(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedReport(t, store, "r1", "a.pdf", "1")
	seedReport(t, store, "r1", "b.pdf", "2")
	seedReport(t, store, "r2", "c.pdf", "3")
	e := newTestServer(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?rid=r1&limit=1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data    []BlobMetadata `json:"data"`
		Total   int            `json:"total"`
		Limit   int            `json:"limit"`
		HasMore bool           `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Total != 2 || len(resp.Data) != 1 || !resp.HasMore {
		t.Errorf("unexpected page: total=%d len=%d has_more=%v", resp.Total, len(resp.Data), resp.HasMore)
	}
}

func TestBlobHandler_List_BadTimestamp(t *testing.T) {
	e := newTestServer(NewInMemoryBlobStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?created_after=yesterday", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBlobHandler_RequiresRole(t *testing.T) {
	e := echo.New()
	NewBlobHandler(NewInMemoryBlobStore()).RegisterRoutes(e.Group("/api/v1"))

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/v1/reports/some-id", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403 without roles, got %d", method, rec.Code)
		}
	}
}
