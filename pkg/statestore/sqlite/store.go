package sqlite

import (
	"codeberg.org/ongeul/ongeul/pkg/ongeul"
	"codeberg.org/ongeul/ongeul/pkg/statestore/sqlite/migrations"
	"context"
	"database/sql"
	"fmt"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type StateStore struct {
	db      *sql.DB
	querier *Queries
	log     *zap.SugaredLogger
}

func NewStateStore(filename string, log *zap.SugaredLogger) (*StateStore, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &StateStore{
		db:      db,
		querier: New(db),
		log:     log,
	}, nil
}

func (s *StateStore) Close() error {
	return s.db.Close()
}

func (s *StateStore) Load() (ongeul.StateSnapshot, error) {
	ctx := context.Background()
	snapshot := ongeul.NewStateSnapshot()

	modes, err := s.querier.ListModes(ctx)
	if err != nil {
		return snapshot, fmt.Errorf("sqlite select modes: %w", err)
	}
	for _, row := range modes {
		s.put(snapshot.Modes, row.App, row.Mode)
	}

	locks, err := s.querier.ListLocks(ctx)
	if err != nil {
		return snapshot, fmt.Errorf("sqlite select locks: %w", err)
	}
	for _, row := range locks {
		s.put(snapshot.Locks, row.App, row.ModeAtLock)
	}

	return snapshot, nil
}

func (s *StateStore) put(out map[ongeul.TargetID]ongeul.Mode, app, mode string) {
	id, err := ongeul.ParseTargetID(app)
	if err != nil {
		s.log.Warnw("skipping stored row", "app", app, "error", err)
		return
	}
	parsed, err := ongeul.ParseMode(mode)
	if err != nil {
		s.log.Warnw("skipping stored row", "app", app, "error", err)
		return
	}
	out[id] = parsed
}

// Save replaces the stored state with snapshot in one transaction.
func (s *StateStore) Save(snapshot ongeul.StateSnapshot) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := s.querier.WithTx(tx)

	if err := q.DeleteModes(ctx); err != nil {
		return fmt.Errorf("sqlite delete modes: %w", err)
	}
	if err := q.DeleteLocks(ctx); err != nil {
		return fmt.Errorf("sqlite delete locks: %w", err)
	}

	for id, mode := range snapshot.Modes {
		if err := q.InsertMode(ctx, InsertModeParams{App: string(id), Mode: mode.String()}); err != nil {
			return fmt.Errorf("sqlite insert mode: %w", err)
		}
	}
	for id, mode := range snapshot.Locks {
		if err := q.InsertLock(ctx, InsertLockParams{App: string(id), ModeAtLock: mode.String()}); err != nil {
			return fmt.Errorf("sqlite insert lock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
