package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrNetwork matches every *NetworkError via errors.Is.
var ErrNetwork = errors.New("network error: unable to connect to the server")

// NetworkError is a transport failure: the server could not be reached or
// the connection broke before a response arrived.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s (%s %s): %v", ErrNetwork, e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// HTTPError is a non-2xx response. Detail carries the server's "detail"
// message when the body had one.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// maxRawDetail bounds how many bytes of a non-JSON body become a Detail.
const maxRawDetail = 200

// detailFrom extracts {"detail": ...}. A non-string detail (validation
// error lists) is returned as compact JSON. Bodies that are not JSON are
// returned trimmed.
func detailFrom(body []byte) string {
	var eb struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &eb); err != nil {
		return truncate(strings.TrimSpace(string(body)), maxRawDetail)
	}
	if len(eb.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}
	return string(eb.Detail)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
