package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// FileStore keeps one JSON file per session under a directory.
type FileStore struct {
	dir string
	log *zap.SugaredLogger
}

// NewFileStore opens (creating if needed) the session directory. A nil
// logger disables logging.
func NewFileStore(dir string, log *zap.SugaredLogger) (*FileStore, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: creating %s: %w", dir, err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

// path maps an ID to its file. IDs carrying path separators never resolve.
func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Put(_ context.Context, st State) error {
	path, err := s.path(st.ID)
	if err != nil {
		return fmt.Errorf("session: bad id %q", st.ID)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding %s: %w", st.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Errorf("write session %s: %v", st.ID, err)
		return fmt.Errorf("session: writing %s: %w", st.ID, err)
	}
	s.log.Infof("session %s saved", st.ID)
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (State, error) {
	path, err := s.path(id)
	if err != nil {
		return State{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("session: reading %s: %w", id, err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("session: decoding %s: %w", id, err)
	}
	return st, nil
}

// List returns every stored session, most recently updated first. Files
// that no longer decode are skipped.
func (s *FileStore) List(_ context.Context) ([]State, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("session: listing %s: %w", s.dir, err)
	}
	var states []State
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.log.Warnf("read session file %s: %v", entry.Name(), err)
			continue
		}
		var st State
		if err := json.Unmarshal(data, &st); err != nil {
			s.log.Warnf("decode session file %s: %v", entry.Name(), err)
			continue
		}
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].UpdatedAt.After(states[j].UpdatedAt)
	})
	return states, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); os.IsNotExist(err) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("session: deleting %s: %w", id, err)
	}
	s.log.Infof("session %s deleted", id)
	return nil
}
