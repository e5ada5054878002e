/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storyflow/internal/flow"
)

// language=SQL
// dialect=SQLite
const upsertPositionSQL = `INSERT INTO positions(script_path, node_key, x, y, updated_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(script_path, node_key) DO UPDATE SET x=excluded.x, y=excluded.y, updated_at=excluded.updated_at`

// language=SQL
// dialect=SQLite
const selectPositionsSQL = `SELECT node_key, x, y FROM positions WHERE script_path = ?`

// language=SQL
// dialect=SQLite
const deletePositionSQL = `DELETE FROM positions WHERE script_path = ? AND node_key = ?`

// language=SQL
// dialect=SQLite
const deleteScriptPositionsSQL = `DELETE FROM positions WHERE script_path = ?`

// SavePositions upserts canvas positions for one script. The key is the
// label name for scene nodes and the statement id for everything else, which
// is the same keying flow.ApplyPositions expects.
func SavePositions(ctx context.Context, db *sql.DB, scriptPath string, positions map[string]flow.XY) error {
	if db == nil {
		return errors.New("nil db")
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, pos := range positions {
		if _, err := tx.ExecContext(ctx, upsertPositionSQL, scriptPath, key, pos.X, pos.Y, now); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// LoadPositions returns all saved positions of a script, ready to feed into
// flow.ApplyPositions. A script without saved positions yields an empty map.
func LoadPositions(ctx context.Context, db *sql.DB, scriptPath string) (map[string]flow.XY, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	rows, err := db.QueryContext(ctx, selectPositionsSQL, scriptPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]flow.XY)
	for rows.Next() {
		var key string
		var x, y float64
		if err := rows.Scan(&key, &x, &y); err != nil {
			return nil, err
		}
		out[key] = flow.XY{X: x, Y: y}
	}
	return out, rows.Err()
}

// DeletePosition removes one node's saved position.
func DeletePosition(ctx context.Context, db *sql.DB, scriptPath, nodeKey string) error {
	if db == nil {
		return errors.New("nil db")
	}
	_, err := db.ExecContext(ctx, deletePositionSQL, scriptPath, nodeKey)
	return err
}

// DeleteScriptPositions removes every saved position of a script, typically
// when the script leaves the project.
func DeleteScriptPositions(ctx context.Context, db *sql.DB, scriptPath string) error {
	if db == nil {
		return errors.New("nil db")
	}
	_, err := db.ExecContext(ctx, deleteScriptPositionsSQL, scriptPath)
	return err
}
