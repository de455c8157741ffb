// ABOUTME: Entity CRUD and existence probes over the SQLite store
// ABOUTME: Backs the orchestrator's "does matching data exist" check and reindexing
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hearthkit/hearth/internal/models"
)

// ErrEntityNotFound is returned when an entity id does not exist
var ErrEntityNotFound = errors.New("entity not found")

// SaveEntity inserts or updates an entity, returning its id
func (db *DB) SaveEntity(entity *models.Entity) (int64, error) {
	fields, err := marshalFields(entity.Fields)
	if err != nil {
		return 0, fmt.Errorf("encoding fields: %w", err)
	}

	now := time.Now().UTC()
	if entity.ID == 0 {
		result, err := db.conn.Exec(
			`INSERT INTO entities (entity_type, household_id, user_id, title, body, fields, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			string(entity.Type), entity.HouseholdID, nullableID(entity.UserID),
			entity.Title, entity.Body, fields, now, now,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting entity: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading insert id: %w", err)
		}
		entity.ID = id
		return id, nil
	}

	result, err := db.conn.Exec(
		`UPDATE entities SET entity_type = ?, household_id = ?, user_id = ?, title = ?, body = ?, fields = ?, updated_at = ?
		 WHERE id = ?`,
		string(entity.Type), entity.HouseholdID, nullableID(entity.UserID),
		entity.Title, entity.Body, fields, now, entity.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating entity %d: %w", entity.ID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, ErrEntityNotFound
	}
	return entity.ID, nil
}

// GetEntity loads one entity by id
func (db *DB) GetEntity(id int64) (*models.Entity, error) {
	row := db.conn.QueryRow(
		`SELECT id, entity_type, household_id, user_id, title, body, fields, created_at, updated_at
		 FROM entities WHERE id = ?`, id,
	)
	entity, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntityNotFound
	}
	return entity, err
}

// DeleteEntity removes an entity by id
func (db *DB) DeleteEntity(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM entities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entity %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrEntityNotFound
	}
	return nil
}

// ListEntities returns every entity of a household, optionally by type
func (db *DB) ListEntities(householdID int64, entityType models.DocumentType) ([]*models.Entity, error) {
	query := `SELECT id, entity_type, household_id, user_id, title, body, fields, created_at, updated_at
	          FROM entities WHERE household_id = ?`
	args := []any{householdID}
	if entityType != "" {
		query += ` AND entity_type = ?`
		args = append(args, string(entityType))
	}
	query += ` ORDER BY id`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var entities []*models.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// HasEntities reports whether any entity of the given type exists for the
// household, scoped to the user when one is set. The orchestrator uses
// this to tell "not indexed yet" apart from "no such data".
func (db *DB) HasEntities(householdID int64, entityType models.DocumentType, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM entities WHERE household_id = ? AND entity_type = ?`
	args := []any{householdID, string(entityType)}
	if userID != 0 {
		// Household-level records (no owner) still count for a scoped user
		query += ` AND (user_id IS NULL OR user_id = ?)`
		args = append(args, userID)
	}
	query += `)`

	var exists bool
	if err := db.conn.QueryRow(query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking entity existence: %w", err)
	}
	return exists, nil
}

// EntityCount returns the number of entities in a household
func (db *DB) EntityCount(householdID int64) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM entities WHERE household_id = ?`, householdID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting entities: %w", err)
	}
	return count, nil
}

// scanner abstracts sql.Row and sql.Rows for scanEntity
type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(s scanner) (*models.Entity, error) {
	var entity models.Entity
	var entityType string
	var userID sql.NullInt64
	var fields sql.NullString

	err := s.Scan(&entity.ID, &entityType, &entity.HouseholdID, &userID,
		&entity.Title, &entity.Body, &fields, &entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		return nil, err
	}

	entity.Type = models.DocumentType(entityType)
	if userID.Valid {
		entity.UserID = userID.Int64
	}
	if fields.Valid && fields.String != "" {
		if err := json.Unmarshal([]byte(fields.String), &entity.Fields); err != nil {
			return nil, fmt.Errorf("decoding fields for entity %d: %w", entity.ID, err)
		}
	}
	return &entity, nil
}

func marshalFields(fields map[string]string) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// nullableID maps the zero user id to NULL so household-level records
// are distinguishable in SQL
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
