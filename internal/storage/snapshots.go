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
)

// language=SQL
// dialect=SQLite
const insertEditSnapshotSQL = `INSERT INTO edit_snapshots(script_path, ts, blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestEditSnapshotSQL = `SELECT ts, blob FROM edit_snapshots WHERE script_path = ? ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listEditSnapshotsSQL = `SELECT ts, blob FROM edit_snapshots WHERE script_path = ? ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneEditSnapshotsSQL = `DELETE FROM edit_snapshots WHERE script_path = ? AND id NOT IN (
	SELECT id FROM edit_snapshots WHERE script_path = ? ORDER BY ts DESC LIMIT ?
)`

// EditSnapshot is one persisted pre-edit AST state of a script.
type EditSnapshot struct {
	TS   time.Time
	Blob []byte
}

// SaveEditSnapshot persists an encoded AST with a timestamp. The index
// database is ephemeral and derived; this history backs change tracking
// across sessions, not canonical storage.
func SaveEditSnapshot(ctx context.Context, db *sql.DB, scriptPath string, blob []byte, ts time.Time) error {
	if db == nil {
		return errors.New("nil db")
	}
	_, err := db.ExecContext(ctx, insertEditSnapshotSQL, scriptPath, ts.UTC().Format(time.RFC3339Nano), blob)
	return err
}

// LatestEditSnapshot returns a script's most recent snapshot, or ok=false.
func LatestEditSnapshot(ctx context.Context, db *sql.DB, scriptPath string) (EditSnapshot, bool, error) {
	if db == nil {
		return EditSnapshot{}, false, errors.New("nil db")
	}
	var tsStr string
	var blob []byte
	err := db.QueryRowContext(ctx, selectLatestEditSnapshotSQL, scriptPath).Scan(&tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return EditSnapshot{}, false, nil
	}
	if err != nil {
		return EditSnapshot{}, false, err
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return EditSnapshot{Blob: blob}, true, nil
	}
	return EditSnapshot{TS: ts, Blob: blob}, true, nil
}

// ListEditSnapshots returns up to limit most recent snapshots, newest first.
func ListEditSnapshots(ctx context.Context, db *sql.DB, scriptPath string, limit int) ([]EditSnapshot, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	rows, err := db.QueryContext(ctx, listEditSnapshotsSQL, scriptPath, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []EditSnapshot
	for rows.Next() {
		var tsStr string
		var blob []byte
		if err := rows.Scan(&tsStr, &blob); err != nil {
			return nil, err
		}
		ts, perr := time.Parse(time.RFC3339Nano, tsStr)
		if perr != nil {
			ts = time.Time{}
		}
		out = append(out, EditSnapshot{TS: ts, Blob: blob})
	}
	return out, rows.Err()
}

// PruneEditSnapshots keeps only the newest keep snapshots of a script.
func PruneEditSnapshots(ctx context.Context, db *sql.DB, scriptPath string, keep int) error {
	if db == nil {
		return errors.New("nil db")
	}
	_, err := db.ExecContext(ctx, pruneEditSnapshotsSQL, scriptPath, scriptPath, keep)
	return err
}
