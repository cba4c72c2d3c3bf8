package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Format selects how results are rendered.
type Format string

const (
	FormatAuto  Format = "auto"  // JSON envelope when piped, plain summary on a TTY
	FormatJSON  Format = "json"  // JSON envelope
	FormatQuiet Format = "quiet" // data only, no envelope
	FormatPlain Format = "plain" // human-readable summary + pretty data
)

// Writer renders command results and errors.
type Writer struct {
	stdout io.Writer
	stderr io.Writer
	format Format
}

// NewWriter creates a writer for the given format.
func NewWriter(format Format) *Writer {
	return &Writer{stdout: os.Stdout, stderr: os.Stderr, format: format}
}

// NewWriterTo creates a writer with explicit streams (for testing).
func NewWriterTo(stdout, stderr io.Writer, format Format) *Writer {
	return &Writer{stdout: stdout, stderr: stderr, format: format}
}

// envelope is the JSON wrapper emitted around command output.
type envelope struct {
	OK      bool            `json:"ok"`
	Summary string          `json:"summary,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *errorBody      `json:"error,omitempty"`
}

type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Hint    string          `json:"hint,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OK renders a successful result.
func (w *Writer) OK(data any, summary string) error {
	raw, err := marshalData(data)
	if err != nil {
		return err
	}

	switch w.format {
	case FormatQuiet:
		if raw != nil {
			fmt.Fprintln(w.stdout, string(raw))
		}
		return nil
	case FormatPlain:
		if summary != "" {
			fmt.Fprintln(w.stdout, summary)
		}
		if raw != nil {
			pretty, err := json.MarshalIndent(json.RawMessage(raw), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(w.stdout, string(pretty))
		}
		return nil
	default:
		return json.NewEncoder(w.stdout).Encode(envelope{OK: true, Summary: summary, Data: raw})
	}
}

// Err renders an error result to stderr.
func (w *Writer) Err(err error) error {
	e := AsError(err)

	if w.format == FormatPlain || w.format == FormatQuiet {
		fmt.Fprintf(w.stderr, "error: %s\n", e.Error())
		return nil
	}

	return json.NewEncoder(w.stderr).Encode(envelope{
		OK: false,
		Error: &errorBody{
			Code:    e.Code,
			Message: e.Message,
			Hint:    e.Hint,
			Data:    e.Data,
		},
	})
}

func marshalData(data any) (json.RawMessage, error) {
	if data == nil {
		return nil, nil
	}
	if raw, ok := data.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return b, nil
}
