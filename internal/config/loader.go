package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Store reads the settings file, persists replacements and watches the file
// for external edits. The format follows the extension: .yaml/.yml or JSON.
type Store struct {
	path     string
	log      *slog.Logger
	mu       sync.RWMutex
	current  *Settings
	onChange []func(*Settings)
}

// NewStore creates a Store and performs the initial load. A missing file
// yields Default().
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("settings path %s: %w", path, err)
	}
	s := &Store{path: abs, log: logger}
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current = cfg
	return s, nil
}

// Path returns the absolute settings file path.
func (s *Store) Path() string { return s.path }

// Settings returns the current settings. Callers must not mutate it.
func (s *Store) Settings() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnChange registers a callback invoked whenever the file is reloaded.
func (s *Store) OnChange(fn func(*Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Save writes cfg to a stage file, renames it over the settings file and
// makes it current, creating the settings directory if needed. Subscribers
// are not notified; the caller already has cfg.
func (s *Store) Save(cfg *Settings) error {
	data, err := encode(cfg, s.path)
	if err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	stage := s.path + ".stage"
	if err := os.WriteFile(stage, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", stage, err)
	}
	if err := os.Rename(stage, s.path); err != nil {
		return fmt.Errorf("replace settings %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	return nil
}

// Watch starts a background goroutine that reloads the settings when the
// file is written or replaced. The directory is watched because Save and most
// editors replace the file by rename. Call the returned stop function to clean up.
func (s *Store) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings watcher: %w", err)
	}
	if err := s.ensureDir(); err != nil {
		w.Close()
		return nil, err
	}
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("settings watcher add %s: %w", dir, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != s.path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if _, err := s.Reload(); err != nil {
						s.log.Warn("settings reload failed, keeping previous settings", "path", s.path, "err", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn("settings watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the settings file.
func (s *Store) Reload() (*Settings, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = cfg
	callbacks := make([]func(*Settings), len(s.onChange))
	copy(callbacks, s.onChange)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

func (s *Store) ensureDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir %s: %w", dir, err)
	}
	return nil
}

func (s *Store) load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("settings file not found, using defaults", "path", s.path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", s.path, err)
	}
	cfg, err := Decode(data, s.path)
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	return cfg, nil
}

// Decode parses settings in the format implied by name's extension.
// Fields missing from data keep their Default() values.
func Decode(data []byte, name string) (*Settings, error) {
	cfg := Default()
	var err error
	if isYAML(name) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func encode(cfg *Settings, name string) ([]byte, error) {
	if isYAML(name) {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("encode settings: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
