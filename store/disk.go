package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Disk keeps documents on the local file system, one file per document.
// Table and header are base64url encoded into the file name so any title is
// a valid key.
type Disk struct {
	d *diskv.Diskv
}

func NewDisk(basePath string) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (s *Disk) ListHeaders(ctx context.Context, table string) (Headers, error) {
	h := make(Headers)
	prefix := tablePrefix(table)
	var decodeErr error
	// keep draining the channel on errors, the walker only stops on cancel
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		header, err := decode(strings.TrimPrefix(key, prefix))
		if err != nil {
			decodeErr = errors.Join(decodeErr, fmt.Errorf("%s: %w", key, err))
			continue
		}
		h[header] = struct{}{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return h, nil
}

func (s *Disk) GetContent(_ context.Context, table, header string) (string, error) {
	val, err := s.d.Read(toKey(table, header))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s/%s: %w", table, header, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (s *Disk) Create(_ context.Context, table, header, content string) error {
	return s.d.Write(toKey(table, header), []byte(content))
}

func (s *Disk) Update(_ context.Context, table, header, content string) error {
	key := toKey(table, header)
	if !s.d.Has(key) {
		return fmt.Errorf("%s/%s: %w", table, header, ErrNotFound)
	}
	return s.d.Write(key, []byte(content))
}

func tablePrefix(table string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(table)) + "."
}

// toKey makes `table.header`
func toKey(table, header string) string {
	return tablePrefix(table) + base64.RawURLEncoding.EncodeToString([]byte(header))
}

func decode(s string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
