package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

type fileStore struct {
	baseDir string
}

// NewFileStore creates a Store that keeps one JSON file per key.
// If baseDir is empty, uses ~/.ssg/
func NewFileStore(baseDir string) (Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".ssg")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("file store initialized")

	return &fileStore{baseDir: baseDir}, nil
}

func (s *fileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.baseDir, key+".json"), nil
}

// Load reads the file for key
func (s *fileStore) Load(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Save writes the file for key atomically
func (s *fileStore) Save(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key
func (s *fileStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Ping checks that the storage directory is still reachable
func (s *fileStore) Ping(_ context.Context) error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("storage directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", s.baseDir)
	}
	return nil
}
