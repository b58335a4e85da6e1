package repository

import (
	"database/sql"

	"movie-explorer/internal/timeutil"
)

// KVRepository is the durable key/value adapter the stores persist through.
// Each logical entity owns a disjoint key and is read and written as a
// whole value; there are no partial updates and no cross-key transactions.
type KVRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new KVRepository
func NewKVRepository(sqliteDB *SQLiteDB) *KVRepository {
	return &KVRepository{db: sqliteDB.db}
}

// Get returns the value stored under key, and whether it exists.
func (r *KVRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`
		SELECT value FROM app_state WHERE key = ?
	`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set overwrites the whole value stored under key.
func (r *KVRepository) Set(key, value string) error {
	now := timeutil.Now()
	_, err := r.db.Exec(`
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, now)
	return err
}

// Remove deletes the value stored under key. Removing a missing key is not an error.
func (r *KVRepository) Remove(key string) error {
	_, err := r.db.Exec(`DELETE FROM app_state WHERE key = ?`, key)
	return err
}
