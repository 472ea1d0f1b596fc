package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/desertthunder/morningcharge/internal/shared"
)

// Entry is one row of the key/value store.
type Entry struct {
	Key       string
	Value     []byte
	Version   int
	UpdatedAt time.Time
}

// KVRepository persists JSON documents by key with a per-key version.
//
// Every write bumps the version so read-modify-write callers can detect a
// concurrent writer with [KVRepository.CompareAndSwap].
type KVRepository struct {
	db       *sql.DB
	attempts int
}

// NewKVRepository creates a new KVRepository with the given database connection
func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db, attempts: 5}
}

// Get returns the entry for key, or [shared.ErrNotFound].
func (r *KVRepository) Get(key string) (Entry, error) {
	query := `SELECT key, value, version, updated_at FROM kv_store WHERE key = ?`

	var (
		e     Entry
		value string
	)
	err := r.db.QueryRow(query, key).Scan(&e.Key, &value, &e.Version, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: key %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	e.Value = []byte(value)
	return e, nil
}

// Put writes value unconditionally.
func (r *KVRepository) Put(key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = kv_store.version + 1,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, string(value), time.Now()); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}
	return nil
}

// CompareAndSwap writes value only if the stored version equals version.
// A version of 0 means the key must not exist yet.
func (r *KVRepository) CompareAndSwap(key string, value []byte, version int) error {
	var (
		result sql.Result
		err    error
	)

	if version == 0 {
		query := `
			INSERT INTO kv_store (key, value, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT(key) DO NOTHING
		`
		result, err = r.db.Exec(query, key, string(value), time.Now())
	} else {
		query := `
			UPDATE kv_store
			SET value = ?, version = version + 1, updated_at = ?
			WHERE key = ? AND version = ?
		`
		result, err = r.db.Exec(query, string(value), time.Now(), key, version)
	}
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: key %s at version %d", shared.ErrVersionConflict, key, version)
	}

	return nil
}

// Update applies fn to the current value of key and stores the result,
// retrying from a fresh read when another writer got there first.
//
// fn receives nil when the key does not exist.
func (r *KVRepository) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	retryer := retry.New[struct{}](retry.Config{
		MaxAttempts:   r.attempts,
		InitialDelay:  5 * time.Millisecond,
		BackoffPolicy: retry.BackoffExponential,
	})

	_, err := retryer.Do(ctx, func(ctx context.Context) (struct{}, error) {
		var (
			current []byte
			version int
		)

		entry, err := r.Get(key)
		switch {
		case err == nil:
			current, version = entry.Value, entry.Version
		case !errors.Is(err, shared.ErrNotFound):
			return struct{}{}, err
		}

		next, err := fn(current)
		if err != nil {
			return struct{}{}, err
		}

		return struct{}{}, r.CompareAndSwap(key, next, version)
	})
	if err != nil {
		return fmt.Errorf("failed to update key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *KVRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Keys lists keys starting with prefix in ascending order.
func (r *KVRepository) Keys(prefix string) ([]string, error) {
	query := `SELECT key FROM kv_store WHERE substr(key, 1, ?) = ? ORDER BY key ASC`

	rows, err := r.db.Query(query, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return keys, nil
}
