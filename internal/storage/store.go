package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	dayLayout  = "2006-01-02"
	fileLayout = "15-04-05"
)

// ErrMalformedBody is returned by Save when the payload is not valid JSON.
var ErrMalformedBody = errors.New("response body is not valid JSON")

// Store owns the output tree: one folder per day under BaseDir, one JSON file
// per saved response.
type Store struct {
	BaseDir string

	fs  afero.Fs
	now func() time.Time
}

func NewStore(fs afero.Fs, baseDir string) *Store {
	return &Store{BaseDir: baseDir, fs: fs, now: time.Now}
}

func NewOSStore(baseDir string) *Store {
	return NewStore(afero.NewOsFs(), baseDir)
}

func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Setup ensures BaseDir/YYYY-MM-DD exists and returns it.
func (s *Store) Setup() (string, error) {
	if err := s.fs.MkdirAll(s.BaseDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	dir := filepath.Join(s.BaseDir, s.now().Format(dayLayout))
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dated directory: %w", err)
	}
	return dir, nil
}

// Save writes payload to dir/HH-MM-SS.json through a temp file and rename. A
// second save within the same second gets a -1, -2, ... suffix instead of
// replacing the first.
func (s *Store) Save(dir, payload string) (string, error) {
	if !json.Valid([]byte(payload)) {
		return "", ErrMalformedBody
	}

	path, err := s.freePath(dir, s.now().Format(fileLayout))
	if err != nil {
		return "", err
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(payload), 0o644); err != nil {
		return "", fmt.Errorf("write response: %w", err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return "", fmt.Errorf("write response: %w", err)
	}
	return path, nil
}

func (s *Store) freePath(dir, stem string) (string, error) {
	candidate := filepath.Join(dir, stem+".json")
	for i := 1; ; i++ {
		exists, err := afero.Exists(s.fs, candidate)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d.json", stem, i))
	}
}
