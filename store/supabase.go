package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
)

const defaultTimeout = 30 * time.Second

// Supabase is a client for a PostgREST table with a unique text column
// "header" and a text column "content".
type Supabase struct {
	baseURL string
	headers map[string]string
	next    http.RoundTripper
	timeout time.Duration
}

type note struct {
	Header  string `json:"header"`
	Content string `json:"content"`
}

type contentPatch struct {
	Content string `json:"content"`
}

// NewSupabase returns a client for the REST endpoint at baseURL. Requests
// go through next, http.DefaultTransport when nil.
func NewSupabase(baseURL, apiKey string, next http.RoundTripper) (*Supabase, error) {
	if baseURL == "" {
		return nil, errors.New("supabase: url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	if next == nil {
		next = http.DefaultTransport
	}
	return &Supabase{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: map[string]string{
			"apikey":        apiKey,
			"Authorization": "Bearer " + apiKey,
		},
		next:    next,
		timeout: defaultTimeout,
	}, nil
}

// rest builds a PostgREST client whose requests are bound to ctx.
func (s *Supabase) rest(ctx context.Context) (*postgrest.Client, error) {
	c := postgrest.NewClient(s.baseURL, "", s.headers)
	if c.ClientError != nil {
		return nil, fmt.Errorf("supabase: %w", c.ClientError)
	}
	c.Transport.Parent = statusTransport{ctx: ctx, next: s.next}
	return c, nil
}

// statusTransport binds requests to a context and turns every non-2xx answer
// into a *StatusError, whatever the body looks like.
type statusTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req.WithContext(t.ctx))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return nil, &StatusError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

func (s *Supabase) execute(ctx context.Context, query func(*postgrest.Client) *postgrest.FilterBuilder) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	c, err := s.rest(ctx)
	if err != nil {
		return nil, err
	}
	data, _, err := query(c).Execute()
	return data, err
}

func (s *Supabase) ListHeaders(ctx context.Context, table string) (Headers, error) {
	data, err := s.execute(ctx, func(c *postgrest.Client) *postgrest.FilterBuilder {
		return c.From(table).Select("header", "", false)
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	var notes []note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("list %s: decode: %w", table, err)
	}
	h := make(Headers, len(notes))
	for _, n := range notes {
		h[n.Header] = struct{}{}
	}
	return h, nil
}

func (s *Supabase) GetContent(ctx context.Context, table, header string) (string, error) {
	data, err := s.execute(ctx, func(c *postgrest.Client) *postgrest.FilterBuilder {
		return c.From(table).Select("header,content", "", false).Eq("header", header)
	})
	if err != nil {
		return "", fmt.Errorf("get %s/%s: %w", table, header, err)
	}
	var notes []note
	if err := json.Unmarshal(data, &notes); err != nil {
		return "", fmt.Errorf("get %s/%s: decode: %w", table, header, err)
	}
	if len(notes) == 0 {
		return "", fmt.Errorf("%s/%s: %w", table, header, ErrNotFound)
	}
	return notes[0].Content, nil
}

func (s *Supabase) Create(ctx context.Context, table, header, content string) error {
	_, err := s.execute(ctx, func(c *postgrest.Client) *postgrest.FilterBuilder {
		return c.From(table).Insert(note{Header: header, Content: content}, false, "", "minimal", "")
	})
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", table, header, err)
	}
	return nil
}

func (s *Supabase) Update(ctx context.Context, table, header, content string) error {
	_, err := s.execute(ctx, func(c *postgrest.Client) *postgrest.FilterBuilder {
		return c.From(table).Update(contentPatch{Content: content}, "minimal", "").Eq("header", header)
	})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", table, header, err)
	}
	return nil
}
