package config

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

//go:embed config.yaml
var config embed.FS

const (
	confName  = "config.yaml"
	envPrefix = "TERMNOTES"
)

type EditorConfig struct {
	DefaultTitle     string `mapstructure:"default_title"`
	PlaceholderTitle string `mapstructure:"placeholder_title"`
	NormalFg         string `mapstructure:"normal_fg"`
	NormalBg         string `mapstructure:"normal_bg"`
	HighlightFg      string `mapstructure:"highlight_fg"`
	HighlightBg      string `mapstructure:"highlight_bg"`
}

type SupabaseConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

type DiskConfig struct {
	Path string `mapstructure:"path"`
}

type Values struct {
	Backend  string         `mapstructure:"backend"`
	Table    string         `mapstructure:"table"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Disk     DiskConfig     `mapstructure:"disk"`
	Editor   EditorConfig   `mapstructure:"editor"`
	LogFile  string         `mapstructure:"log_file"`
}

type Config struct {
	v       *viper.Viper
	dir     string
	file    string
	watcher *fsnotify.Watcher

	mu       sync.RWMutex
	values   Values
	reloaded chan struct{}
}

// Dir is $XDG_CONFIG_HOME/termnotes, or ~/.termnotes without XDG.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "termnotes"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".termnotes"), nil
}

// Load reads the config file at path. With an empty path the file in Dir()
// is used and created from the embedded defaults when missing.
func Load(path string) (*Config, error) {
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, fmt.Errorf("locate config directory: %w", err)
		}
		path = filepath.Join(dir, confName)
		if err := writeConfigIfMissing(dir, path); err != nil {
			return nil, err
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		v:        viper.New(),
		dir:      filepath.Dir(abs),
		file:     abs,
		reloaded: make(chan struct{}, 1),
	}
	setDefaults(cfg.v)
	cfg.v.SetConfigFile(abs)
	cfg.v.SetEnvPrefix(envPrefix)
	cfg.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.v.AutomaticEnv()

	if err := cfg.readConfigIntoMemory(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "supabase")
	v.SetDefault("table", "notes")
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.api_key", "")
	v.SetDefault("disk.path", "store")
	v.SetDefault("editor.default_title", "Fisk")
	v.SetDefault("editor.placeholder_title", "Banan")
	v.SetDefault("editor.normal_fg", "white")
	v.SetDefault("editor.normal_bg", "black")
	v.SetDefault("editor.highlight_fg", "black")
	v.SetDefault("editor.highlight_bg", "white")
	v.SetDefault("log_file", "termnotes.log")
}

func writeConfigIfMissing(dir, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	content, err := fs.ReadFile(config, confName)
	if err != nil {
		return fmt.Errorf("read embedded config file: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (cfg *Config) readConfigIntoMemory() error {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	if err := cfg.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", cfg.file, err)
	}
	return cfg.decode()
}

// decode refreshes values from viper. The caller holds mu.
func (cfg *Config) decode() error {
	var values Values
	if err := cfg.v.Unmarshal(&values); err != nil {
		return fmt.Errorf("decode config file %s: %w", cfg.file, err)
	}
	values.Disk.Path = cfg.resolve(values.Disk.Path)
	values.LogFile = cfg.resolve(values.LogFile)
	cfg.values = values
	return nil
}

func (cfg *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.dir, path)
}

func (cfg *Config) File() string {
	return cfg.file
}

func (cfg *Config) Values() Values {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.values
}

func (cfg *Config) Editor() EditorConfig {
	return cfg.Values().Editor
}

// Override replaces single values, e.g. from command line flags. Overrides
// survive reloads.
func (cfg *Config) Override(key string, value any) error {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	cfg.v.Set(key, value)
	return cfg.decode()
}

// Reloaded receives a value after the file was re-read by Watch.
func (cfg *Config) Reloaded() <-chan struct{} {
	return cfg.reloaded
}

// Watch re-reads the config file whenever it is written, until ctx is done.
func (cfg *Config) Watch(ctx context.Context, log *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	// editors replace files on save, so watch the directory
	if err := watcher.Add(cfg.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config directory: %w", err)
	}
	cfg.watcher = watcher

	go cfg.rereadConfigOnFileChange(ctx, log)
	return nil
}

func (cfg *Config) rereadConfigOnFileChange(ctx context.Context, log *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-cfg.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cfg.file || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if err := cfg.readConfigIntoMemory(); err != nil {
				log.Printf("Could not reload config: %v", err)
				continue
			}
			log.Printf("Reloaded config from %s", cfg.file)
			select {
			case cfg.reloaded <- struct{}{}:
			default:
			}
		case err, ok := <-cfg.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher: %v", err)
		}
	}
}

func (cfg *Config) Cleanup() {
	if cfg.watcher != nil {
		cfg.watcher.Close()
	}
}
