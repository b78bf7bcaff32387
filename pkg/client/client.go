// Package client is a Go client for the Folio HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the requested collection, entry, or page
// does not exist.
var ErrNotFound = errors.New("not found")

// APIError is an RFC 7807 problem returned by the service.
type APIError struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Status int          `json:"status"`
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("folio: %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("folio: %d %s", e.Status, e.Title)
}

// Is matches ErrNotFound for 404 problems.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to a Folio service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a new Client
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}

	// Set defaults
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		http:    &http.Client{Timeout: config.Timeout},
	}, nil
}

// Health returns the service health status
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "/api/v1/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Collections lists every collection with its entry count
func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	var out []Collection
	if err := c.get(ctx, "/api/v1/collections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Entries lists a collection in display order
func (c *Client) Entries(ctx context.Context, collection string, params ListParams) (*EntryList, error) {
	q := url.Values{}
	if params.Tag != "" {
		q.Set("tag", params.Tag)
	}
	if params.Featured {
		q.Set("featured", "true")
	}
	if params.Drafts {
		q.Set("drafts", "true")
	}

	var out EntryList
	if err := c.get(ctx, "/api/v1/collections/"+url.PathEscape(collection)+"/entries", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Entry fetches one entry with its rendered body. Drafts are only returned
// when drafts is true.
func (c *Client) Entry(ctx context.Context, collection, slug string, drafts bool) (*EntryDetail, error) {
	q := url.Values{}
	if drafts {
		q.Set("drafts", strconv.FormatBool(drafts))
	}

	// Slugs may contain "/", which stays a path separator.
	segments := strings.Split(slug, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	var out EntryDetail
	path := "/api/v1/collections/" + url.PathEscape(collection) + "/entries/" + strings.Join(segments, "/")
	if err := c.get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate checks a record against a collection schema without storing it.
// A record that fails returns an *APIError whose Errors lists each field.
func (c *Client) Validate(ctx context.Context, collection string, record map[string]any) (*Validated, error) {
	var out Validated
	path := "/api/v1/collections/" + url.PathEscape(collection) + "/validate"
	if err := c.send(ctx, http.MethodPost, path, nil, record, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pages lists the metadata of every static page
func (c *Client) Pages(ctx context.Context) ([]Page, error) {
	var out []Page
	if err := c.get(ctx, "/api/v1/pages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Page fetches the metadata of one static page
func (c *Client) Page(ctx context.Context, id string) (*Page, error) {
	var out Page
	if err := c.get(ctx, "/api/v1/pages/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reload asks the service to rescan its content tree. A rejected load is
// not an error; inspect ReloadResult.Applied and Failures.
func (c *Client) Reload(ctx context.Context) (*ReloadResult, error) {
	var out ReloadResult
	err := c.send(ctx, http.MethodPost, "/api/v1/reload", nil, nil, &out,
		http.StatusOK, http.StatusUnprocessableEntity)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, nil, out, http.StatusOK)
}

// send performs a request and decodes the body into out when the status is
// one of ok. Any other status is decoded as an *APIError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, ok ...int) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	for _, status := range ok {
		if resp.StatusCode == status {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}
	}
	return decodeProblem(resp)
}

func decodeProblem(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	if err := json.Unmarshal(data, apiErr); err != nil {
		apiErr.Detail = strings.TrimSpace(string(data))
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}
