// Package blob implements chunked, integrity-checked transfer of large
// binary objects that cannot travel as a single JSON payload.
package blob

import (
	"context"
	"crypto/md5"  //nolint:gosec // G501: md5 is part of the server's digest contract
	"crypto/sha1" //nolint:gosec // G505: sha1 is the commit-compared digest of the wire protocol
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/chino-io/chino-go/internal/api"
	"github.com/chino-io/chino-go/internal/output"
)

// State tracks an upload session through its lifecycle.
type State int

const (
	StateIdle State = iota
	StateStarted
	StateChunking
	StateCommitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateChunking:
		return "chunking"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "idle"
	}
}

// Handle identifies a completed upload. It is used as a foreign key from
// a document field to the stored binary.
type Handle struct {
	BlobID     string `json:"blob_id"`
	DocumentID string `json:"document_id,omitempty"`
	SHA1       string `json:"sha1"`
	MD5        string `json:"md5,omitempty"`
	Size       int64  `json:"bytes"`
}

// Session is the client-side state of one in-progress upload. Chunks for
// a session must be sent strictly in sequence; independent sessions may
// proceed concurrently.
type Session struct {
	UploadID string
	Offset   int64

	state State
	sha1  hash.Hash
	md5   hash.Hash
}

// NewSession creates an idle upload session.
func NewSession() *Session {
	return &Session{
		state: StateIdle,
		sha1:  sha1.New(), //nolint:gosec
		md5:   md5.New(),  //nolint:gosec
	}
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Engine orchestrates blob uploads and downloads over the dispatcher.
type Engine struct {
	client    *api.Client
	chunkSize int
	logger    *slog.Logger
}

// NewEngine creates a transfer engine. chunkSize bounds the bytes sent
// per exchange; values below one byte fall back to the default.
func NewEngine(client *api.Client, chunkSize int, logger *slog.Logger) *Engine {
	if chunkSize <= 0 {
		chunkSize = 12 * 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{client: client, chunkSize: chunkSize, logger: logger}
}

// Upload transfers the file at path into the given document field.
// A missing or unreadable source file fails before any network call.
func (e *Engine) Upload(ctx context.Context, documentID, field, path string) (*Handle, error) {
	f, err := os.Open(path) //nolint:gosec // G304: Path is caller-supplied by design
	if err != nil {
		return nil, output.ErrPrecondition(fmt.Sprintf("cannot open source file: %v", err))
	}
	defer f.Close()

	return e.UploadReader(ctx, documentID, field, filepath.Base(path), f)
}

// UploadReader transfers the reader's content under the given filename.
func (e *Engine) UploadReader(ctx context.Context, documentID, field, filename string, r io.Reader) (*Handle, error) {
	return e.UploadSession(ctx, NewSession(), documentID, field, filename, r)
}

// UploadSession runs the full start → chunk× → commit protocol on the
// given session. The session is consumed: it ends Committed or Aborted
// and must not be reused.
func (e *Engine) UploadSession(ctx context.Context, sess *Session, documentID, field, filename string, r io.Reader) (*Handle, error) {
	if err := e.start(ctx, sess, documentID, field, filename); err != nil {
		return nil, err
	}

	// Bounded reads: each iteration reports an exact byte count, and
	// end-of-stream is an explicit signal rather than a sentinel value.
	buf := make([]byte, e.chunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if cerr := e.sendChunk(ctx, sess, buf[:n]); cerr != nil {
				return nil, cerr
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
	}

	return e.commit(ctx, sess)
}

func (e *Engine) start(ctx context.Context, sess *Session, documentID, field, filename string) error {
	data, err := e.client.Post(ctx, "blobs", map[string]string{
		"document_id": documentID,
		"field":       field,
		"file_name":   filename,
	})
	if err != nil {
		return err
	}

	var payload struct {
		Blob struct {
			UploadID string `json:"upload_id"`
		} `json:"blob"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Blob.UploadID == "" {
		return output.ErrTransport(fmt.Errorf("blob start returned no upload_id"))
	}

	sess.UploadID = payload.Blob.UploadID
	sess.state = StateStarted
	e.logger.Debug("blob upload started", "upload_id", sess.UploadID, "file", filename)
	return nil
}

func (e *Engine) sendChunk(ctx context.Context, sess *Session, window []byte) error {
	length := int64(len(window))
	_, err := e.client.Call(ctx, api.Spec{
		Verb: api.VerbChunk,
		Path: "blobs/" + sess.UploadID,
		Chunk: &api.ChunkMeta{
			Data:   window,
			Offset: sess.Offset,
			Length: length,
		},
	})
	if err != nil {
		// A failed or timed-out chunk leaves the session mid-transfer;
		// the caller decides whether to retry or abandon.
		return err
	}

	sess.Offset += length
	sess.sha1.Write(window)
	sess.md5.Write(window)
	sess.state = StateChunking
	e.logger.Debug("blob chunk sent", "upload_id", sess.UploadID, "offset", sess.Offset, "length", length)
	return nil
}

func (e *Engine) commit(ctx context.Context, sess *Session) (*Handle, error) {
	data, err := e.client.Post(ctx, "blobs/commit", map[string]string{"upload_id": sess.UploadID})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Blob Handle `json:"blob"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, output.ErrTransport(fmt.Errorf("invalid commit response: %w", err))
	}

	local := hex.EncodeToString(sess.sha1.Sum(nil))
	if local != payload.Blob.SHA1 {
		// The server holds bytes that do not match what was sent; the
		// remote object must not be treated as usable data.
		sess.state = StateAborted
		return nil, output.ErrIntegrity(local, payload.Blob.SHA1)
	}

	sess.state = StateCommitted
	e.logger.Debug("blob upload committed", "upload_id", sess.UploadID, "blob_id", payload.Blob.BlobID, "bytes", sess.Offset)
	return &payload.Blob, nil
}

// Download retrieves a blob whole. The server returns the object in a
// single response whose Content-Disposition header names the file.
func (e *Engine) Download(ctx context.Context, blobID string) (string, []byte, error) {
	resp, err := e.client.Execute(ctx, api.Spec{Verb: api.VerbGet, Path: "blobs/" + blobID, Raw: true})
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode != 200 {
		return "", nil, output.ErrAPI(resp.StatusCode, fmt.Sprintf("blob download failed (HTTP %d)", resp.StatusCode))
	}

	filename := dispositionFilename(resp.Headers.Get("Content-Disposition"))
	return filename, resp.Body, nil
}

/// Delete removes a stored blob. No session state is involved: sessions
// only exist for in-progress uploads.
func (e *Engine) Delete(ctx context.Context, blobID string) error {
	_, err := e.client.Delete(ctx, "blobs/"+blobID, nil)
	return err
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
