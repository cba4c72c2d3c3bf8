// Package api provides the authenticated request dispatcher for the
// Chino document-storage API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chino-io/chino-go/internal/auth"
	"github.com/chino-io/chino-go/internal/config"
	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/version"
)

// Header names for chunk transport metadata.
const (
	headerOffset = "offset"
	headerLength = "length"
)

// Client dispatches classified requests against the API.
type Client struct {
	httpClient *http.Client
	auth       *auth.Manager
	cfg        *config.Config
	logger     *slog.Logger
}

// NewClient creates a new API client. The dispatcher itself never
// retries; retry policy is a caller concern.
func NewClient(cfg *config.Config, authMgr *auth.Manager, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		auth:   authMgr,
		cfg:    cfg,
		logger: logger,
	}
}

// HTTPClient exposes the underlying transport so the auth manager can
// share timeout and connection settings.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Auth returns the auth manager backing this client.
func (c *Client) Auth() *auth.Manager {
	return c.auth
}

// Get dispatches a GET and collapses the classification into (data, error).
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.Call(ctx, Spec{Verb: VerbGet, Path: path, Params: params})
}

// Post dispatches a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Call(ctx, Spec{Verb: VerbPost, Path: path, Body: body})
}

// Put dispatches a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Call(ctx, Spec{Verb: VerbPut, Path: path, Body: body})
}

// Delete dispatches a DELETE.
func (c *Client) Delete(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.Call(ctx, Spec{Verb: VerbDelete, Path: path, Params: params})
}

// Call executes the spec and collapses declared errors and fails into
// typed errors. Void successes return a nil payload with a nil error.
func (c *Client) Call(ctx context.Context, spec Spec) (json.RawMessage, error) {
	resp, err := c.Execute(ctx, spec)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Execute performs one HTTP exchange for the spec and classifies the
// outcome. Transport failures (connect, timeout, unparseable envelope)
// surface as errors; declared server errors and fails come back inside
// the Response.
func (c *Client) Execute(ctx context.Context, spec Spec) (*Response, error) {
	if spec.Verb == VerbChunk {
		if spec.Chunk == nil {
			return nil, output.ErrPrecondition("chunk dispatch requires offset and length metadata")
		}
		if spec.Chunk.Length != int64(len(spec.Chunk.Data)) {
			return nil, output.ErrPrecondition(fmt.Sprintf(
				"chunk length %d does not match payload size %d", spec.Chunk.Length, len(spec.Chunk.Data)))
		}
	}

	req, err := c.buildRequest(ctx, spec)
	if err != nil {
		return nil, err
	}

	c.auth.Material().Apply(req)

	c.logger.Debug("api request", "verb", string(spec.Verb), "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, output.ErrTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.ErrTransport(err)
	}

	c.logger.Debug("api response", "status", resp.StatusCode, "bytes", len(body))

	if spec.Raw {
		return &Response{
			Outcome:    OutcomeSuccess,
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Body:       body,
		}, nil
	}

	return classify(resp.StatusCode, body, resp.Header)
}

func (c *Client) buildRequest(ctx context.Context, spec Spec) (*http.Request, error) {
	u := c.buildURL(spec.Path, spec.Params)

	var (
		bodyReader  io.Reader
		contentType string
		method      = string(spec.Verb)
	)

	switch {
	case spec.Verb == VerbChunk:
		method = http.MethodPut
		bodyReader = bytes.NewReader(spec.Chunk.Data)
		contentType = "application/octet-stream"
	case spec.Form != nil:
		bodyReader = strings.NewReader(spec.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case spec.Body != nil:
		payload := spec.Body
		if p, ok := payload.(Payloader); ok {
			payload = p.APIPayload()
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if spec.Verb == VerbChunk {
		req.Header.Set(headerOffset, strconv.FormatInt(spec.Chunk.Offset, 10))
		req.Header.Set(headerLength, strconv.FormatInt(spec.Chunk.Length, 10))
	}

	return req, nil
}

func (c *Client) buildURL(path string, params url.Values) string {
	path = strings.TrimPrefix(path, "/")
	u := c.cfg.APIBase() + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
