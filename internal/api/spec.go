package api

import (
	"net/url"
)

// Verb is the logical operation of a request. Verbs map onto HTTP methods,
// except VerbChunk which is a binary PUT carrying offset/length metadata.
type Verb string

const (
	VerbGet    Verb = "GET"
	VerbPost   Verb = "POST"
	VerbPut    Verb = "PUT"
	VerbPatch  Verb = "PATCH"
	VerbDelete Verb = "DELETE"
	VerbChunk  Verb = "CHUNK"
)

// Payloader is the serialization capability for structured request bodies.
// Types that need control over their wire shape implement it; plain maps
// and structs pass through encoding/json unchanged.
type Payloader interface {
	APIPayload() any
}

// ChunkMeta carries the transport metadata of one upload chunk. It travels
// as headers alongside the raw bytes, never inside a JSON body.
type ChunkMeta struct {
	Data   []byte
	Offset int64
	Length int64
}

// Spec describes one logical API call. A Spec is built once, dispatched
// once, and never reused.
type Spec struct {
	Verb   Verb
	Path   string
	Params url.Values

	// Body is a JSON-marshalable payload (optionally a Payloader).
	// Mutually exclusive with Form and Chunk.
	Body any

	// Form is a form-encoded body, used by the auth endpoints.
	Form url.Values

	// Chunk is required when Verb is VerbChunk.
	Chunk *ChunkMeta

	// Raw bypasses response classification and returns the unprocessed
	// status, headers and body. Used by the blob download path, which
	// needs response headers.
	Raw bool
}
