/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists project state on disk. The canonical artifact is
// the story.json manifest at the project root, written transactionally with
// timestamped backups and validated against a JSON Schema. Everything else
// (saved canvas positions, edit snapshots) lives in an ephemeral SQLite
// index under .storyflow/ and can be regenerated or deleted at any time.
package storage
