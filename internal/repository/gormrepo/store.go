package gormrepo

import (
	"context"
	"errors"
	"strings"

	"raidboard/backend/internal/repository"

	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of repository.Store.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection (or transaction) in a Store.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		panic("gormrepo: db cannot be nil")
	}
	return &Store{db: db}
}

func (s *Store) Rooms() repository.RoomRepository             { return &roomRepo{db: s.db} }
func (s *Store) Memberships() repository.MembershipRepository { return &membershipRepo{db: s.db} }
func (s *Store) Reviews() repository.ReviewRepository         { return &reviewRepo{db: s.db} }
func (s *Store) Logs() repository.LogRepository               { return &logRepo{db: s.db} }

// InTx runs fn inside one database transaction. The Store passed to fn is
// bound to that transaction, so row locks taken through it hold until fn
// returns.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	msg := err.Error()
	if strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key") {
		return repository.ErrDuplicateEntry
	}
	if strings.Contains(msg, "SQLSTATE 40001") || strings.Contains(msg, "deadlock") {
		return repository.ErrLockConflict
	}
	return err
}
