// Package store talks to the key-value table that mirrors documents. A
// document is a row keyed by its header holding the text as one blob.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var ErrNotFound = errors.New("document not found")

type Store interface {
	ListHeaders(ctx context.Context, table string) (Headers, error)
	// GetContent fails with ErrNotFound when no document carries header.
	GetContent(ctx context.Context, table, header string) (string, error)
	Create(ctx context.Context, table, header, content string) error
	Update(ctx context.Context, table, header, content string) error
}

// Headers is the set of document titles present in a table.
type Headers map[string]struct{}

func NewHeaders(headers ...string) Headers {
	h := make(Headers, len(headers))
	for _, header := range headers {
		h[header] = struct{}{}
	}
	return h
}

func (h Headers) Contains(header string) bool {
	_, ok := h[header]
	return ok
}

func (h Headers) Sorted() []string {
	list := make([]string, 0, len(h))
	for header := range h {
		list = append(list, header)
	}
	sort.Strings(list)
	return list
}

// StatusError is returned when the remote answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

const (
	BackendSupabase = "supabase"
	BackendDisk     = "disk"
)

type Options struct {
	Backend     string
	SupabaseURL string
	APIKey      string
	DiskPath    string
}

// Open builds the store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSupabase, "":
		return NewSupabase(opts.SupabaseURL, opts.APIKey, nil)
	case BackendDisk:
		if opts.DiskPath == "" {
			return nil, errors.New("store: disk backend needs a path")
		}
		return NewDisk(opts.DiskPath), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}
