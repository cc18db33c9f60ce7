// Package api is the HTTP client for the reporting backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vannoppenjarno/automatic-reporting/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client calls the backend REST API. Every call attaches the bearer
// credential from the session store; a call without a credential fails
// before any request is made. Calls are single-shot and never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *session.Store
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, creds *session.Store) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
	}
}

// Call performs one request against the backend. Extra headers are merged in
// but can never override Authorization or Content-Type. Non-2xx statuses come
// back as *APIError with the parsed body attached; a body that does not parse
// as JSON (on success or failure) degrades to an empty JSON object.
func (c *Client) Call(ctx context.Context, method, path string, body any, extra http.Header) (json.RawMessage, error) {
	token, ok := c.creds.Get()
	if !ok {
		return nil, ErrNoCredential
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range extra {
		req.Header[http.CanonicalHeaderKey(k)] = vs
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	parsed := json.RawMessage("{}")
	if len(bytes.TrimSpace(data)) > 0 && json.Valid(data) {
		parsed = json.RawMessage(data)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Data: parsed}
	}
	return parsed, nil
}

// TalkingProducts lists the products the caller may query. The previous
// list should be replaced wholesale with the result.
func (c *Client) TalkingProducts(ctx context.Context) ([]Product, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/me/talking-products", nil, nil)
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Ask sends one question to the assistant. An empty productID is sent as an
// explicit null, scoping the question to all products.
func (c *Client) Ask(ctx context.Context, question, productID string) (AskResponse, error) {
	req := AskRequest{Question: question}
	if productID != "" {
		req.TalkingProductID = &productID
	}
	raw, err := c.Call(ctx, http.MethodPost, "/ask", req, nil)
	if err != nil {
		return AskResponse{}, err
	}
	var resp AskResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return AskResponse{}, fmt.Errorf("decode answer: %w", err)
	}
	return resp, nil
}
