package json

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"encoding/json"
	"fmt"
	"go.uber.org/zap"
	"os"
	"sync"
)

const formatVersion = 1

type document struct {
	Version int               `json:"version"`
	Modes   map[string]string `json:"modes"`
	Locks   map[string]string `json:"locks"`
}

type StateStore struct {
	file *os.File
	lock sync.Mutex
	log  *zap.SugaredLogger
}

func NewStateStore(filename string, log *zap.SugaredLogger) (*StateStore, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &StateStore{
		file: file,
		log:  log,
	}, nil
}

func (s *StateStore) Close() error {
	return s.file.Close()
}

func (s *StateStore) Load() (ongeul.StateSnapshot, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	snapshot := ongeul.NewStateSnapshot()

	info, err := s.file.Stat()
	if err != nil {
		return snapshot, fmt.Errorf("stat file: %w", err)
	}
	if info.Size() == 0 {
		return snapshot, nil
	}

	_, err = s.file.Seek(0, 0)
	if err != nil {
		return snapshot, fmt.Errorf("seek to start of file: %w", err)
	}

	var doc document
	err = json.NewDecoder(s.file).Decode(&doc)
	if err != nil {
		return snapshot, fmt.Errorf("decode json: %w", err)
	}

	s.copyValid(doc.Modes, snapshot.Modes)
	s.copyValid(doc.Locks, snapshot.Locks)

	return snapshot, nil
}

func (s *StateStore) copyValid(in map[string]string, out map[ongeul.TargetID]ongeul.Mode) {
	for key, value := range in {
		id, err := ongeul.ParseTargetID(key)
		if err != nil {
			s.log.Warnw("skipping stored entry", "key", key, "error", err)
			continue
		}
		mode, err := ongeul.ParseMode(value)
		if err != nil {
			s.log.Warnw("skipping stored entry", "key", key, "error", err)
			continue
		}
		out[id] = mode
	}
}

func (s *StateStore) Save(snapshot ongeul.StateSnapshot) error {
	doc := document{
		Version: formatVersion,
		Modes:   make(map[string]string, len(snapshot.Modes)),
		Locks:   make(map[string]string, len(snapshot.Locks)),
	}
	for id, mode := range snapshot.Modes {
		doc.Modes[string(id)] = mode.String()
	}
	for id, mode := range snapshot.Locks {
		doc.Locks[string(id)] = mode.String()
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	_, err := s.file.Seek(0, 0)
	if err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	err = s.file.Truncate(0)
	if err != nil {
		return fmt.Errorf("truncate file: %w", err)
	}

	enc := json.NewEncoder(s.file)
	err = enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	err = s.file.Sync()
	if err != nil {
		return fmt.Errorf("sync file: %w", err)
	}

	return nil
}
