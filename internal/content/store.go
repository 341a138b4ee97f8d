// Package content holds the document-store abstraction orders are read from
// and written to, plus helpers shared by its implementations.
package content

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by stores missing mandatory settings.
var ErrNotConfigured = errors.New("content: store not configured / 内容存储未配置")

// Params are named query parameters, referenced as $name inside a query.
type Params map[string]any

// DocumentStore is the minimal client surface the admin needs from a hosted
// document store.
type DocumentStore interface {
	// Fetch runs query and decodes its result into dest.
	Fetch(ctx context.Context, query string, params Params, dest any) error
	// Patch sets the given fields on one document and commits the change.
	Patch(ctx context.Context, id string, set map[string]any) error
	// Delete removes one document.
	Delete(ctx context.Context, id string) error
	// Ping checks that the store answers queries.
	Ping(ctx context.Context) error
}

// APIError is a non-2xx answer from the store.
type APIError struct {
	StatusCode  int
	Type        string
	Description string
}

func (e *APIError) Error() string {
	if e == nil {
		return "content: api error"
	}
	if e.Type != "" {
		return fmt.Sprintf("content: %s (%d): %s", e.Type, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("content: status %d: %s", e.StatusCode, e.Description)
}

// IsNotFound reports whether err is a store answer for a missing document.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}
