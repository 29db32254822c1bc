package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxErrorBody = 64 << 10

// Observer is told about every finished remote call.
type Observer interface {
	ObserveCall(service, operation string, d time.Duration, err error)
}

// Observers fans a call out to several observers.
type Observers []Observer

func (o Observers) ObserveCall(service, operation string, d time.Duration, err error) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveCall(service, operation, d, err)
		}
	}
}

type Option func(*httpTransport)

func WithObserver(o Observer) Option {
	return func(t *httpTransport) { t.observer = o }
}

// WithHTTPClient replaces the default client; its Timeout is left untouched.
func WithHTTPClient(c *http.Client) Option {
	return func(t *httpTransport) { t.client = c }
}

type httpTransport struct {
	service  string
	baseURL  string
	client   *http.Client
	log      *logrus.Logger
	observer Observer
}

func newTransport(service, baseURL string, timeout time.Duration, logger *logrus.Logger, opts []Option) *httpTransport {
	t := &httpTransport{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type response struct {
	StatusCode int
	Body       []byte
}

func (r *response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// apiError is the failure body both stores send.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorMessage returns the server supplied error or message field, else fallback.
func errorMessage(body []byte, fallback string) string {
	var e apiError
	if len(body) > 0 && json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return fallback
}

func encodeJSON(payload any) (io.Reader, error) {
	if payload == nil {
		return nil, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// send performs one request and reads the whole body. Only transport level
// failures are returned as errors; status handling is left to the caller.
func (t *httpTransport) send(ctx context.Context, method, path, contentType string, body io.Reader) (*response, error) {
	url := t.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		t.log.Errorf("%s: Failed to create %s request for %s: %v", t.name(), method, url, err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	t.log.WithField("request_id", requestID).Debugf("%s: %s %s", t.name(), method, url)
	resp, err := t.client.Do(req)
	if err != nil {
		t.log.WithField("request_id", requestID).Errorf("%s: Failed to execute %s %s: %v", t.name(), method, url, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		t.log.WithField("request_id", requestID).Errorf("%s: Failed to read response of %s %s: %v", t.name(), method, url, err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := data
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		t.log.WithField("request_id", requestID).Warnf("%s: %s %s returned status %d. Response body: %s", t.name(), method, url, resp.StatusCode, string(snippet))
	}
	return &response{StatusCode: resp.StatusCode, Body: data}, nil
}

// observe is deferred with a pointer to the named error result.
func (t *httpTransport) observe(operation string, start time.Time, errp *error) {
	if t.observer != nil {
		t.observer.ObserveCall(t.service, operation, time.Since(start), *errp)
	}
}

func (t *httpTransport) name() string {
	switch t.service {
	case ServiceCatalog:
		return "CatalogClient"
	case ServiceOrders:
		return "OrderClient"
	}
	return "Client"
}
