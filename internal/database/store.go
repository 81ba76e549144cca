package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventPublisher receives every journaled event after it has been written.
type EventPublisher interface {
	PublishEvent(userID int64, eventData []byte)
}

type Store struct {
	pool      *pgxpool.Pool
	publisher EventPublisher
	*Queries
}

func NewStore(pool *pgxpool.Pool, publisher EventPublisher) *Store {
	return &Store{
		pool:      pool,
		publisher: publisher,
		Queries:   New(pool),
	}
}

func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := New(tx)
	err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}
