// ABOUTME: SQLite schema for the household entity source of truth
// ABOUTME: Entities are the relational records the vector index is derived from
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Household entities (health logs, recipes, pantry items, goals)
CREATE TABLE IF NOT EXISTS entities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    household_id INTEGER NOT NULL,
    user_id INTEGER,
    title TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    fields TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entities_household ON entities(household_id);
CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(household_id, entity_type);
CREATE INDEX IF NOT EXISTS idx_entities_user ON entities(household_id, user_id);
`
