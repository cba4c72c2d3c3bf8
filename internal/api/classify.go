package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chino-io/chino-go/internal/output"
)

// Outcome is the classification of a server response.
type Outcome int

const (
	// OutcomeSuccess is an OK status with a data payload.
	OutcomeSuccess Outcome = iota
	// OutcomeVoid is an OK status without a recognizable data payload.
	// Callers treat it as a boolean true; delete and similar operations
	// rely on this signal.
	OutcomeVoid
	// OutcomeError is an envelope with result "error": the server rejected
	// the request as invalid, unauthorized, or conflicting.
	OutcomeError
	// OutcomeFail is an envelope with result "fail": a declared server-side
	// failure carrying a structured data payload.
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeVoid:
		return "void"
	case OutcomeError:
		return "error"
	case OutcomeFail:
		return "fail"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Response is a classified API response.
type Response struct {
	Outcome    Outcome
	StatusCode int
	Headers    http.Header

	// Data holds the envelope's payload field: the success payload, or
	// the structured data of a declared failure.
	Data json.RawMessage

	// Message holds the declared error message when Outcome is OutcomeError.
	Message string

	// Body is the unprocessed response body, populated only for raw
	// dispatches which bypass classification.
	Body []byte
}

// OK reports whether the response is a success (with or without data).
func (r *Response) OK() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomeVoid
}

// Err converts a declared error or fail outcome into a typed error.
// Success and void outcomes return nil.
func (r *Response) Err() error {
	switch r.Outcome {
	case OutcomeError:
		switch r.StatusCode {
		case http.StatusUnauthorized:
			return output.ErrAuth(r.Message)
		case http.StatusForbidden:
			return output.ErrForbidden(r.Message)
		case http.StatusNotFound:
			return &output.Error{
				Code:       output.CodeNotFound,
				Message:    r.Message,
				HTTPStatus: r.StatusCode,
			}
		}
		return output.ErrAPI(r.StatusCode, r.Message)
	case OutcomeFail:
		return output.ErrFail(r.StatusCode, r.Data)
	default:
		return nil
	}
}

// Decode unmarshals the success payload into v.
func (r *Response) Decode(v any) error {
	if r.Data == nil {
		return fmt.Errorf("response has no data payload")
	}
	return json.Unmarshal(r.Data, v)
}

// envelope is the wire wrapper of every non-raw response.
type envelope struct {
	Result  string          `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// classify turns an HTTP status and body into exactly one outcome.
// An unparseable envelope on a non-OK status is a transport fault: the
// failure cannot be attributed to application logic.
func classify(statusCode int, body []byte, headers http.Header) (*Response, error) {
	resp := &Response{StatusCode: statusCode, Headers: headers}

	if statusCode == http.StatusOK {
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
			// OK without an interpretable data field degrades to a void
			// success rather than a fault.
			resp.Outcome = OutcomeVoid
			return resp, nil
		}
		resp.Outcome = OutcomeSuccess
		resp.Data = env.Data
		return resp, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, output.ErrTransport(fmt.Errorf("unparseable response (HTTP %d)", statusCode))
	}

	switch env.Result {
	case "error":
		resp.Outcome = OutcomeError
		resp.Message = env.Message
	case "fail":
		resp.Outcome = OutcomeFail
		resp.Data = env.Data
	default:
		resp.Outcome = OutcomeError
		resp.Message = fmt.Sprintf("unexpected response (HTTP %d): %s", statusCode, string(body))
	}
	return resp, nil
}
