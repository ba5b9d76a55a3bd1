package httpclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// Request describes an outgoing call with a pre-encoded body.
type Request struct {
	Method      string
	URL         string
	Headers     domain.Headers
	Body        []byte
	ContentType string
}

// BuildRequest builds an HTTP request from a Request. Method defaults to POST.
func BuildRequest(ctx context.Context, spec Request) (*http.Request, error) {
	if strings.TrimSpace(spec.URL) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("url is required"),
		}
	}

	method := spec.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, spec.URL, bytes.NewReader(spec.Body))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	if spec.ContentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", spec.ContentType)
	}

	return req, nil
}
