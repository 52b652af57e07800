package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Sentinel errors, one per JSON-RPC error code.
var (
	ErrParse          = errors.New("parse error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrMethodNotFound = errors.New("method not found")
	ErrInvalidParams  = errors.New("invalid params")
	ErrInternal       = errors.New("internal error")
)

// Request is a method call of a peer.
type Request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the answer to a Request. Exactly one of Result and Error is set.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Error is a protocol error, carrying a JSON-RPC error code.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Data == "" {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Data)
}

// ErrorFrom converts an error into a protocol error. The error code is
// derived from the sentinel error err wraps, defaulting to CodeInternalError.
func ErrorFrom(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	code, sentinel := CodeInternalError, ErrInternal
	switch {
	case errors.Is(err, ErrParse):
		code, sentinel = CodeParseError, ErrParse
	case errors.Is(err, ErrInvalidRequest):
		code, sentinel = CodeInvalidRequest, ErrInvalidRequest
	case errors.Is(err, ErrMethodNotFound):
		code, sentinel = CodeMethodNotFound, ErrMethodNotFound
	case errors.Is(err, ErrInvalidParams):
		code, sentinel = CodeInvalidParams, ErrInvalidParams
	}
	e := &Error{Code: code, Message: sentinel.Error()}
	if err != sentinel {
		e.Data = err.Error()
	}
	return e
}

// ParseRequest decodes a single request message.
func ParseRequest(msg []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(req.ID) == 0 || bytes.Equal(req.ID, []byte("null")) {
		return &req, fmt.Errorf("%w: missing id", ErrInvalidRequest)
	}
	if req.Method == "" {
		return &req, fmt.Errorf("%w: missing method", ErrInvalidRequest)
	}
	return &req, nil
}

// Required is implemented by parameter types with mandatory fields.
// Required returns the JSON names of these fields.
type Required interface {
	Required() []string
}

// Validator is implemented by parameter types which check their values
// after decoding.
type Validator interface {
	Validate() error
}

// DecodeParams decodes the parameters of a request into a value of type T.
// Absent parameters are treated as an empty object. Parameters which are
// not a JSON object, have fields of the wrong type, or miss a field
// declared by T's Required method result in an error wrapping
// ErrInvalidParams.
func DecodeParams[T any](params json.RawMessage) (T, error) {
	var v T
	if len(params) == 0 || bytes.Equal(params, []byte("null")) {
		params = json.RawMessage("{}")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(params, &fields); err != nil {
		return v, fmt.Errorf("%w: params must be an object", ErrInvalidParams)
	}
	if err := json.Unmarshal(params, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if r, ok := any(&v).(Required); ok {
		for _, name := range r.Required() {
			if f, found := fields[name]; !found || bytes.Equal(f, []byte("null")) {
				return v, fmt.Errorf("%w: missing required field %q", ErrInvalidParams, name)
			}
		}
	}
	if val, ok := any(&v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return v, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
	}
	return v, nil
}
