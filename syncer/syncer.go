// Package syncer decides how a document reaches the store: as a new row when
// its header was not in the table at startup, as an update otherwise.
package syncer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"termnotes/buffer"
	"termnotes/store"
)

type Kind int

const (
	Create Kind = iota
	Update
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Operation struct {
	Kind    Kind
	Header  string
	Content string
}

type Syncer struct {
	store   store.Store
	table   string
	headers store.Headers

	log *log.Logger
}

// New fetches the header list once. It is not refreshed afterwards, so a
// header created during the session is still treated as new.
func New(ctx context.Context, s store.Store, table string, log *log.Logger) (*Syncer, error) {
	headers, err := s.ListHeaders(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("list headers of %s: %w", table, err)
	}
	log.Printf("Fetched %d headers from table %s", len(headers), table)
	return &Syncer{store: s, table: table, headers: headers, log: log}, nil
}

func (s *Syncer) Headers() store.Headers {
	return s.headers
}

// Serialize joins the content rows, each terminated by a newline.
func Serialize(buf *buffer.Buffer) string {
	var sb strings.Builder
	for _, line := range buf.ContentRows() {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (s *Syncer) plan(header, content string) Operation {
	op := Operation{Kind: Create, Header: header, Content: content}
	if s.headers.Contains(header) {
		op.Kind = Update
	}
	return op
}

func (s *Syncer) Plan(buf *buffer.Buffer) Operation {
	return s.plan(buf.Header(), Serialize(buf))
}

func (s *Syncer) Save(ctx context.Context, buf *buffer.Buffer) (Operation, error) {
	op := s.Plan(buf)
	return op, s.apply(ctx, op)
}

// Push stores content under header with the same create-or-update rule as
// Save.
func (s *Syncer) Push(ctx context.Context, header, content string) (Operation, error) {
	op := s.plan(header, content)
	return op, s.apply(ctx, op)
}

func (s *Syncer) apply(ctx context.Context, op Operation) error {
	s.log.Printf("Saving %q to %s (%v, %d bytes)", op.Header, s.table, op.Kind, len(op.Content))
	var err error
	switch op.Kind {
	case Update:
		err = s.store.Update(ctx, s.table, op.Header, op.Content)
	default:
		err = s.store.Create(ctx, s.table, op.Header, op.Content)
	}
	if err != nil {
		return fmt.Errorf("%v %q: %w", op.Kind, op.Header, err)
	}
	return nil
}

// Load returns the content rows stored under header, or a single empty row
// when the header is unknown.
func (s *Syncer) Load(ctx context.Context, header string) ([]string, error) {
	if !s.headers.Contains(header) {
		return []string{""}, nil
	}
	content, err := s.store.GetContent(ctx, s.table, header)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", header, err)
	}
	s.log.Printf("Loaded %q from %s (%d bytes)", header, s.table, len(content))
	return strings.Split(content, "\n"), nil
}

// Fetch returns the raw content stored under header.
func (s *Syncer) Fetch(ctx context.Context, header string) (string, error) {
	content, err := s.store.GetContent(ctx, s.table, header)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", header, err)
	}
	return content, nil
}
