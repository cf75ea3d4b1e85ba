package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"termnotes/config"
	"termnotes/store"
	"termnotes/syncer"
)

var version = "dev"

type options struct {
	configPath string
	backend    string
	table      string
}

func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "termnotes",
		Short:         "Edit a note in the terminal and mirror it to a key-value store.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/termnotes/config.yaml)")
	flags.StringVar(&o.backend, "backend", "", `store backend, "supabase" or "disk"`)
	flags.StringVar(&o.table, "table", "", "table holding the documents")

	addEdit(cmd, o)
	addList(cmd, o)
	addPull(cmd, o)
	addPush(cmd, o)
	addVersion(cmd)
	return cmd
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.backend != "" {
		if err := cfg.Override("backend", o.backend); err != nil {
			return nil, err
		}
	}
	if o.table != "" {
		if err := cfg.Override("table", o.table); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// NewLogger opens the log file for appending. The terminal belongs to the
// editor, so nothing is logged there.
func NewLogger(path string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}
	return log.New(file, "", log.LstdFlags|log.Lshortfile), file, nil
}

type env struct {
	cfg    *config.Config
	log    *log.Logger
	notes  *syncer.Syncer
	closer io.Closer
}

func (e *env) Close() {
	e.cfg.Cleanup()
	e.closer.Close()
}

// setup loads the config, opens the log and fetches the header list.
func (o *options) setup(ctx context.Context) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	v := cfg.Values()
	logger, closer, err := NewLogger(v.LogFile)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	s, err := store.Open(store.Options{
		Backend:     v.Backend,
		SupabaseURL: v.Supabase.URL,
		APIKey:      v.Supabase.APIKey,
		DiskPath:    v.Disk.Path,
	})
	if err != nil {
		closer.Close()
		return nil, err
	}
	notes, err := syncer.New(ctx, s, v.Table, logger)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &env{cfg: cfg, log: logger, notes: notes, closer: closer}, nil
}
