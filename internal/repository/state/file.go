package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/plugin-logger/internal/config"
	"github.com/oshokin/plugin-logger/internal/domain/session"
)

// Repository defines persistence operations for the last run.
type Repository interface {
	Load(ctx context.Context) (*session.Run, error)
	Save(ctx context.Context, run *session.Run) error
}

// FileRepository persists the last run to a YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the state file.
	path string
	// mu protects concurrent access to the state file.
	mu sync.Mutex
}

// record is the on-disk form of a run.
type record struct {
	Started  time.Time `yaml:"started"`
	Stopped  time.Time `yaml:"stopped,omitempty"`
	Hostname string    `yaml:"hostname,omitempty"`
	Username string    `yaml:"username,omitempty"`
	Archive  string    `yaml:"archive,omitempty"`
	Number   int       `yaml:"number"`
	Ticks    int       `yaml:"ticks"`
	Clean    bool      `yaml:"clean"`
}

// ErrNotFound is returned when the state file does not exist yet.
var ErrNotFound = errors.New("state not found")

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the last run from disk.
func (r *FileRepository) Load(_ context.Context) (*session.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var rec record
	if err = yaml.Unmarshal(contents, &rec); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return fromRecord(&rec), nil
}

// Save writes the run to disk, replacing the previous one.
func (r *FileRepository) Save(_ context.Context, run *session.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(toRecord(run))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}

// fromRecord converts the on-disk record into the domain Run model.
func fromRecord(rec *record) *session.Run {
	var actor *session.Actor
	if rec.Hostname != "" || rec.Username != "" {
		actor = &session.Actor{
			Hostname: rec.Hostname,
			Username: rec.Username,
		}
	}

	return &session.Run{
		Started: rec.Started,
		Stopped: rec.Stopped,
		Actor:   actor,
		Archive: rec.Archive,
		Number:  rec.Number,
		Ticks:   rec.Ticks,
		Clean:   rec.Clean,
	}
}

// toRecord converts the domain Run model into its on-disk record.
func toRecord(run *session.Run) *record {
	rec := &record{
		Started: run.Started,
		Stopped: run.Stopped,
		Archive: run.Archive,
		Number:  run.Number,
		Ticks:   run.Ticks,
		Clean:   run.Clean,
	}

	if run.Actor != nil {
		rec.Hostname = run.Actor.Hostname
		rec.Username = run.Actor.Username
	}

	return rec
}
