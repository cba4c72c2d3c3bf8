package blob

import (
	"bytes"
	"context"
	"crypto/md5"  //nolint:gosec
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/chino-io/chino-go/internal/api"
	"github.com/chino-io/chino-go/internal/auth"
	"github.com/chino-io/chino-go/internal/config"
	"github.com/chino-io/chino-go/internal/output"
)

// fakeBlobServer implements the start/chunk/commit wire protocol with
// strict offset checking.
type fakeBlobServer struct {
	mu      sync.Mutex
	nextID  int
	uploads map[string]*bytes.Buffer
	chunks  map[string][]int64 // lengths per upload, in arrival order

	corruptDigest bool
}

func newFakeBlobServer() *fakeBlobServer {
	return &fakeBlobServer{
		uploads: make(map[string]*bytes.Buffer),
		chunks:  make(map[string][]int64),
	}
}

func (f *fakeBlobServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/blobs":
		f.handleStart(w, r)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/v1/blobs/"):
		f.handleChunk(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/blobs/commit":
		f.handleCommit(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/blobs/"):
		f.handleDownload(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/v1/blobs/"):
		fmt.Fprint(w, `{"result":"success","data":null}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"result":"error","message":"not found","data":null}`)
	}
}

func (f *fakeBlobServer) handleStart(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.nextID++
	id := fmt.Sprintf("up-%d", f.nextID)
	f.uploads[id] = &bytes.Buffer{}
	f.mu.Unlock()
	fmt.Fprintf(w, `{"result":"success","data":{"blob":{"upload_id":%q}}}`, id)
}

func (f *fakeBlobServer) handleChunk(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/blobs/")
	offset, _ := strconv.ParseInt(r.Header.Get("offset"), 10, 64)
	length, _ := strconv.ParseInt(r.Header.Get("length"), 10, 64)
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	buf, ok := f.uploads[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"result":"error","message":"unknown upload","data":null}`)
		return
	}
	if offset != int64(buf.Len()) || length != int64(len(body)) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"result":"error","message":"offset mismatch: got %d want %d","data":null}`, offset, buf.Len())
		return
	}
	buf.Write(body)
	f.chunks[id] = append(f.chunks[id], length)
	fmt.Fprintf(w, `{"result":"success","data":{"blob":{"upload_id":%q,"offset":%d}}}`, id, buf.Len())
}

func (f *fakeBlobServer) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UploadID string `json:"upload_id"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	buf, ok := f.uploads[req.UploadID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"result":"error","message":"unknown upload","data":null}`)
		return
	}

	content := buf.Bytes()
	sha := sha1.Sum(content) //nolint:gosec
	if f.corruptDigest {
		sha[0] ^= 0xff
	}
	sum := md5.Sum(content) //nolint:gosec

	fmt.Fprintf(w, `{"result":"success","data":{"blob":{"blob_id":"blob-%s","sha1":%q,"md5":%q,"bytes":%d}}}`,
		req.UploadID, hex.EncodeToString(sha[:]), hex.EncodeToString(sum[:]), len(content))
}

func (f *fakeBlobServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/blobs/")

	f.mu.Lock()
	defer f.mu.Unlock()
	for upID, buf := range f.uploads {
		if "blob-"+upID == id {
			w.Header().Set("Content-Disposition", `attachment; filename=stored.bin`)
			w.Write(buf.Bytes())
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, `{"result":"error","message":"not found","data":null}`)
}

func (f *fakeBlobServer) content(uploadID string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads[uploadID].Bytes()
}

func newTestEngine(t *testing.T, fake *fakeBlobServer, chunkSize int) *Engine {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.CustomerID = "cust"
	cfg.CustomerKey = "key"

	client := api.NewClient(cfg, auth.NewManager(cfg, srv.Client()), nil)
	return NewEngine(client, chunkSize, nil)
}

func TestUploadChunkSequencing(t *testing.T) {
	fake := newFakeBlobServer()
	engine := newTestEngine(t, fake, 8)

	content := []byte("abcdefghijklmnopqrstuvwxy") // 25 bytes -> 8+8+8+1
	sess := NewSession()
	handle, err := engine.UploadSession(context.Background(), sess, "doc-1", "photo", "x.bin", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	lengths := fake.chunks[sess.UploadID]
	want := []int64{8, 8, 8, 1}
	if len(lengths) != len(want) {
		t.Fatalf("chunk lengths = %v, want %v", lengths, want)
	}
	var total int64
	for i, l := range lengths {
		if l != want[i] {
			t.Errorf("chunk %d length = %d, want %d", i, l, want[i])
		}
		total += l
	}
	if total != int64(len(content)) {
		t.Errorf("total transmitted = %d, want %d", total, len(content))
	}
	if sess.Offset != int64(len(content)) {
		t.Errorf("final offset = %d, want %d", sess.Offset, len(content))
	}
	if handle.Size != int64(len(content)) {
		t.Errorf("handle size = %d", handle.Size)
	}
	if sess.State() != StateCommitted {
		t.Errorf("session state = %v, want committed", sess.State())
	}
}

func TestUploadSingleChunkWhenFileSmaller(t *testing.T) {
	fake := newFakeBlobServer()
	engine := newTestEngine(t, fake, 1024)

	content := []byte("tiny")
	sess := NewSession()
	if _, err := engine.UploadSession(context.Background(), sess, "doc-1", "f", "t.bin", bytes.NewReader(content)); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	lengths := fake.chunks[sess.UploadID]
	if len(lengths) != 1 || lengths[0] != int64(len(content)) {
		t.Errorf("chunk lengths = %v, want one chunk of %d", lengths, len(content))
	}
}

func TestUploadRoundTrip(t *testing.T) {
	fake := newFakeBlobServer()
	engine := newTestEngine(t, fake, 16)

	content := make([]byte, 1000)
	for i := range content {
		content[i] = byte(i % 251)
	}

	handle, err := engine.UploadReader(context.Background(), "doc-1", "f", "data.bin", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	// Reported digest matches one computed independently.
	want := sha1.Sum(content) //nolint:gosec
	if handle.SHA1 != hex.EncodeToString(want[:]) {
		t.Errorf("sha1 = %s, want %s", handle.SHA1, hex.EncodeToString(want[:]))
	}

	filename, got, err := engine.Download(context.Background(), handle.BlobID)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if filename != "stored.bin" {
		t.Errorf("filename = %q", filename)
	}
	if !bytes.Equal(got, content) {
		t.Error("downloaded bytes differ from uploaded bytes")
	}
}

func TestUploadIntegrityViolation(t *testing.T) {
	fake := newFakeBlobServer()
	fake.corruptDigest = true
	engine := newTestEngine(t, fake, 32)

	sess := NewSession()
	_, err := engine.UploadSession(context.Background(), sess, "doc-1", "f", "x.bin", strings.NewReader("payload"))

	var typed *output.Error
	if !errors.As(err, &typed) || typed.Code != output.CodeIntegrity {
		t.Fatalf("error = %v, want integrity violation", err)
	}
	if sess.State() != StateAborted {
		t.Errorf("session state = %v, want aborted", sess.State())
	}
}

func TestUploadMissingFileIsPrecondition(t *testing.T) {
	fake := newFakeBlobServer()
	engine := newTestEngine(t, fake, 32)

	_, err := engine.Upload(context.Background(), "doc-1", "f", filepath.Join(t.TempDir(), "absent.bin"))

	var typed *output.Error
	if !errors.As(err, &typed) || typed.Code != output.CodePrecondition {
		t.Fatalf("error = %v, want local precondition", err)
	}
	if fake.nextID != 0 {
		t.Error("no start call should reach the server for a missing file")
	}
}

func TestUploadFromFile(t *testing.T) {
	fake := newFakeBlobServer()
	engine := newTestEngine(t, fake, 64)

	path := filepath.Join(t.TempDir(), "report.pdf")
	content := []byte("pdf-ish content")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	handle, err := engine.Upload(context.Background(), "doc-1", "attachment", path)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if handle.BlobID == "" {
		t.Error("handle should carry a blob id")
	}
}

func TestConcurrentIndependentSessions(t *testing.T) {
	fake := newFakeBlobServer()
	engine := newTestEngine(t, fake, 8)

	contentA := bytes.Repeat([]byte("A"), 100)
	contentB := bytes.Repeat([]byte("B"), 77)

	sessA, sessB := NewSession(), NewSession()
	var g errgroup.Group
	g.Go(func() error {
		_, err := engine.UploadSession(context.Background(), sessA, "doc-a", "f", "a.bin", bytes.NewReader(contentA))
		return err
	})
	g.Go(func() error {
		_, err := engine.UploadSession(context.Background(), sessB, "doc-b", "f", "b.bin", bytes.NewReader(contentB))
		return err
	})
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent uploads failed: %v", err)
	}

	if !bytes.Equal(fake.content(sessA.UploadID), contentA) {
		t.Error("session A content corrupted")
	}
	if !bytes.Equal(fake.content(sessB.UploadID), contentB) {
		t.Error("session B content corrupted")
	}
	if sessA.Offset != 100 || sessB.Offset != 77 {
		t.Errorf("offsets = %d/%d, want 100/77", sessA.Offset, sessB.Offset)
	}
}

func TestDelete(t *testing.T) {
	fake := newFakeBlobServer()
	engine := newTestEngine(t, fake, 8)

	if err := engine.Delete(context.Background(), "blob-x"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestDispositionFilename(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{`attachment; filename=photo.jpg`, "photo.jpg"},
		{`attachment; filename="with space.txt"`, "with space.txt"},
		{"", ""},
		{"attachment", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := dispositionFilename(tt.header); got != tt.expected {
				t.Errorf("dispositionFilename(%q) = %q, want %q", tt.header, got, tt.expected)
			}
		})
	}
}
