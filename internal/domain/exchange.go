package domain

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// CallErrorKind is a high-level classification of transport errors.
type CallErrorKind string

const (
	CallErrorUnknown CallErrorKind = "unknown"
	CallErrorTimeout CallErrorKind = "timeout"
	CallErrorDNS     CallErrorKind = "dns"
	CallErrorConn    CallErrorKind = "connection"
	CallErrorHTTP    CallErrorKind = "http"
	CallErrorFault   CallErrorKind = "fault"
)

// CallError represents a structured error produced by a remote call.
type CallError struct {
	Kind    CallErrorKind
	Message string
}

// NewCallError classifies err. It returns nil for a nil error.
func NewCallError(err error) *CallError {
	if err == nil {
		return nil
	}

	kind := CallErrorUnknown
	var dnsErr *net.DNSError
	var netErr net.Error
	var opErr *net.OpError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = CallErrorTimeout
	case errors.As(err, &dnsErr):
		kind = CallErrorDNS
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = CallErrorTimeout
	case errors.As(err, &opErr):
		kind = CallErrorConn
	case IsKind(err, KindRemote):
		kind = CallErrorFault
	case strings.Contains(strings.ToLower(err.Error()), "connection refused"):
		kind = CallErrorConn
	}

	return &CallError{Kind: kind, Message: err.Error()}
}

// Exchange is one persisted request/response pair, kept for reproducibility.
type Exchange struct {
	ID         string    `json:"id"`
	Action     Action    `json:"action"`
	RecordType string    `json:"record_type,omitempty"`
	Endpoint   string    `json:"endpoint"`
	StartedAt  time.Time `json:"started_at"`
	LatencyMS  int64     `json:"latency_ms"`

	StatusCode int  `json:"status_code"`
	Success    bool `json:"success"`

	RequestHeaders map[string][]string `json:"request_headers,omitempty"`
	Request        string              `json:"request"`
	Response       string              `json:"response,omitempty"`
	Truncated      bool                `json:"truncated,omitempty"`

	Error *CallError `json:"error,omitempty"`
}
