// Package sanity implements content.DocumentStore over the Sanity Content
// Lake HTTP API.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/creamcroissant/shopadmin/internal/content"
)

// Queries longer than this are sent as POST bodies.
const maxGETQueryLength = 11264

// Options configures the client.
type Options struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	Timeout    time.Duration
	APIHost    string
	CDNHost    string
	// BaseURL replaces the https://<project>.<host> origin for both reads and writes.
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to one dataset of one project.
type Client struct {
	queryOrigin  string
	mutateOrigin string
	dataset      string
	version      string
	token        string
	client       *http.Client
}

var _ content.DocumentStore = (*Client)(nil)

// NewClient validates options and returns a ready client.
func NewClient(opts Options) (*Client, error) {
	dataset := strings.TrimSpace(opts.Dataset)
	if dataset == "" {
		return nil, fmt.Errorf("%w: dataset is required", content.ErrNotConfigured)
	}
	var queryOrigin, mutateOrigin string
	if base := strings.TrimSuffix(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		queryOrigin, mutateOrigin = base, base
	} else {
		project := strings.TrimSpace(opts.ProjectID)
		if project == "" {
			return nil, fmt.Errorf("%w: project id is required", content.ErrNotConfigured)
		}
		apiHost := firstNonEmpty(opts.APIHost, "api.sanity.io")
		cdnHost := firstNonEmpty(opts.CDNHost, "apicdn.sanity.io")
		mutateOrigin = "https://" + project + "." + apiHost
		queryOrigin = mutateOrigin
		if opts.UseCDN && opts.Token == "" {
			queryOrigin = "https://" + project + "." + cdnHost
		}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		queryOrigin:  queryOrigin,
		mutateOrigin: mutateOrigin,
		dataset:      dataset,
		version:      normalizeVersion(opts.APIVersion),
		token:        strings.TrimSpace(opts.Token),
		client:       httpClient,
	}, nil
}

type queryResponse struct {
	Ms     int             `json:"ms"`
	Query  string          `json:"query"`
	Result json.RawMessage `json:"result"`
}

// Fetch runs a GROQ query and decodes the result field into dest.
func (c *Client) Fetch(ctx context.Context, query string, params content.Params, dest any) error {
	if c == nil {
		return content.ErrNotConfigured
	}
	endpoint := c.queryOrigin + "/" + c.version + "/data/query/" + url.PathEscape(c.dataset)

	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode param %s: %w", name, err)
		}
		values.Set("$"+strings.TrimPrefix(name, "$"), string(encoded))
	}

	var req *http.Request
	var err error
	if encoded := values.Encode(); len(encoded) <= maxGETQueryLength {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+encoded, nil)
	} else {
		body, mErr := json.Marshal(map[string]any{"query": query, "params": params})
		if mErr != nil {
			return fmt.Errorf("encode query body: %w", mErr)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	var resp queryResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if dest == nil || len(resp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Result, dest); err != nil {
		return fmt.Errorf("decode query result: %w", err)
	}
	return nil
}

// Mutation is one entry of a mutate request.
type Mutation struct {
	Patch  *PatchMutation  `json:"patch,omitempty"`
	Delete *DeleteMutation `json:"delete,omitempty"`
}

// PatchMutation sets fields on a document.
type PatchMutation struct {
	ID  string         `json:"id"`
	Set map[string]any `json:"set,omitempty"`
}

// DeleteMutation removes a document.
type DeleteMutation struct {
	ID string `json:"id"`
}

// MutationResult is the store's answer to a committed transaction.
type MutationResult struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

// Mutate commits mutations as one transaction.
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (*MutationResult, error) {
	if c == nil {
		return nil, content.ErrNotConfigured
	}
	if len(mutations) == 0 {
		return &MutationResult{}, nil
	}
	body, err := json.Marshal(map[string]any{"mutations": mutations})
	if err != nil {
		return nil, fmt.Errorf("encode mutations: %w", err)
	}
	endpoint := c.mutateOrigin + "/" + c.version + "/data/mutate/" + url.PathEscape(c.dataset) + "?returnIds=true&visibility=sync"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result MutationResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Patch sets fields on one document and commits.
func (c *Client) Patch(ctx context.Context, id string, set map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document id is required / 文档 ID 不能为空")
	}
	_, err := c.Mutate(ctx, Mutation{Patch: &PatchMutation{ID: id, Set: set}})
	return err
}

// Delete removes one document.
func (c *Client) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document id is required / 文档 ID 不能为空")
	}
	_, err := c.Mutate(ctx, Mutation{Delete: &DeleteMutation{ID: id}})
	return err
}

// Ping issues a trivial query.
func (c *Client) Ping(ctx context.Context) error {
	var now string
	return c.Fetch(ctx, "now()", nil, &now)
}

func (c *Client) do(req *http.Request, dest any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "shopadmin")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, body)
	}
	if dest == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError understands both the structured {"error":{...}} body and the
// flat {"error":"...","message":"..."} form.
func decodeError(status int, body []byte) error {
	apiErr := &content.APIError{StatusCode: status}
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		apiErr.Description = strings.TrimSpace(string(body))
		if apiErr.Description == "" {
			apiErr.Description = http.StatusText(status)
		}
		return apiErr
	}
	var detail struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		apiErr.Type = detail.Type
		apiErr.Description = detail.Description
		return apiErr
	}
	var flat string
	if err := json.Unmarshal(envelope.Error, &flat); err == nil {
		apiErr.Type = flat
	}
	apiErr.Description = envelope.Message
	if apiErr.Description == "" {
		apiErr.Description = http.StatusText(status)
	}
	return apiErr
}

func normalizeVersion(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		v = "2023-05-03"
	}
	return "v" + v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
