// Package analysis talks to the remote file analysis endpoint.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/file-analyzer/backend/internal/models"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client posts analysis requests. It never retries.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client with the given overall request timeout.
func NewClient(timeout time.Duration) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client on top of an existing http.Client.
func NewClientWithHTTP(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{httpClient: hc}
}

// Submit sends req to endpoint and interprets the response.
//
// Errors are *TransportError for network failures and non-2xx statuses,
// *ProtocolError for bodies of the wrong shape, and *ServiceError when the
// service rejected the file.
func (c *Client) Submit(ctx context.Context, req *models.AnalysisRequest, endpoint string) (*models.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: errorField(raw)}
	}

	return interpret(raw)
}

// interpret turns a 2xx body into a result or a typed error.
func interpret(raw []byte) (*models.AnalysisResult, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ProtocolError{Reason: "body is not JSON", Err: err}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &ProtocolError{Reason: "body is not a JSON object"}
	}

	// Non-proxy API Gateway integrations hand back the Lambda envelope.
	if env, ok := unwrapEnvelope(obj); ok {
		if env.status < 200 || env.status > 299 {
			if msg, ok := env.body["error"].(string); ok {
				return nil, &ServiceError{Message: msg}
			}
			return nil, &TransportError{StatusCode: env.status}
		}
		obj = env.body
	}

	violations, err := validateResponse(obj)
	if err != nil {
		return nil, &ProtocolError{Reason: "schema validation failed", Err: err}
	}
	if len(violations) > 0 {
		return nil, &ProtocolError{Reason: joinViolations(violations)}
	}

	if msg, ok := obj["error"].(string); ok {
		return nil, &ServiceError{Message: msg}
	}

	return &models.AnalysisResult{
		FileType: obj["fileType"].(string),
		Summary:  obj["summary"].(string),
	}, nil
}

type envelope struct {
	status int
	body   map[string]any
}

func unwrapEnvelope(obj map[string]any) (envelope, bool) {
	status, ok := obj["statusCode"].(float64)
	if !ok {
		return envelope{}, false
	}
	bodyStr, ok := obj["body"].(string)
	if !ok {
		return envelope{}, false
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(bodyStr), &body); err != nil {
		return envelope{}, false
	}
	return envelope{status: int(status), body: body}, true
}

// errorField pulls a string "error" field out of a JSON body, if any.
func errorField(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Error
}
