/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Encode serializes the script to its JSON interchange form.
func Encode(s *Script) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode script: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses the JSON interchange form into a Script and assigns ids to
// any statements that lack one.
func Decode(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	s.EnsureIDs()
	return &s, nil
}

// Hash returns the deterministic content hash of the script. Any mutation of
// the tree (including retargeting a jump or reordering a body) changes it.
func Hash(s *Script) string {
	data, err := json.Marshal(s)
	if err != nil {
		// Marshal of this tree cannot fail; keep a distinct value just in case.
		return "unhashable"
	}
	return HashBytes(data)
}

// HashBytes returns the hex SHA-256 digest of raw content, used as the
// change-detection signal for cached file content.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
