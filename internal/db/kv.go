package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetValue returns the value stored under key. found is false when the key
// has never been written or was deleted.
func (d *DB) GetValue(ctx context.Context, key string) (value []byte, found bool, err error) {
	q := fmt.Sprintf("SELECT value FROM kv_store WHERE key = %s", d.driver.Placeholder(1))
	err = d.driver.QueryRow(ctx, q, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// PutValue inserts or replaces the value stored under key.
func (d *DB) PutValue(ctx context.Context, key string, value []byte) error {
	q := fmt.Sprintf(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (%s, %s, %s)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, d.driver.Placeholder(1), d.driver.Placeholder(2), d.driver.Now())
	if value == nil {
		value = []byte{}
	}
	if _, err := d.driver.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// DeleteValue removes key. Deleting a missing key is not an error.
func (d *DB) DeleteValue(ctx context.Context, key string) error {
	q := fmt.Sprintf("DELETE FROM kv_store WHERE key = %s", d.driver.Placeholder(1))
	if _, err := d.driver.Exec(ctx, q, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
