package repositories

import (
	"database/sql"
	"fmt"
)

// MappingStore defines the persistence operations the matching engine
// needs for input-track to catalog-track id mappings.
//
// Every mutation is its own durable write. Losing the last in-memory
// edit on an abrupt close is acceptable; losing several is not, so
// there is no batching.
type MappingStore interface {
	// Load returns the full persisted mapping, loaded once at session start.
	Load() (map[string]string, error)
	// Set upserts one input-id to output-id entry.
	Set(inputID, outputID string) error
	// Remove deletes the entry for inputID, if any.
	Remove(inputID string) error
}

// MappingRepository implements [MappingStore] on SQLite.
type MappingRepository struct {
	db *sql.DB
}

// NewMappingRepository creates a mapping repository backed by db.
func NewMappingRepository(db *sql.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

func (r *MappingRepository) Load() (map[string]string, error) {
	rows, err := r.db.Query("SELECT input_id, output_id FROM id_mappings")
	if err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}
	defer rows.Close()

	mapping := make(map[string]string)
	for rows.Next() {
		var inputID, outputID string
		if err := rows.Scan(&inputID, &outputID); err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		mapping[inputID] = outputID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mappings: %w", err)
	}

	return mapping, nil
}

func (r *MappingRepository) Set(inputID, outputID string) error {
	_, err := r.db.Exec(
		`INSERT INTO id_mappings (input_id, output_id) VALUES (?, ?)
		 ON CONFLICT (input_id) DO UPDATE SET output_id = excluded.output_id`,
		inputID, outputID,
	)
	if err != nil {
		return fmt.Errorf("failed to persist mapping: %w", err)
	}
	return nil
}

func (r *MappingRepository) Remove(inputID string) error {
	if _, err := r.db.Exec("DELETE FROM id_mappings WHERE input_id = ?", inputID); err != nil {
		return fmt.Errorf("failed to remove mapping: %w", err)
	}
	return nil
}
