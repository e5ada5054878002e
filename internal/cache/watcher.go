/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cache

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	applog "storyflow/internal/log"
)

// Watch invalidates cache entries when the watched files change on disk
// (an external editor touching an open script). Call the returned stop
// function to clean up.
func (c *Cache) Watch(paths ...string) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cache watcher: %w", err)
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, fmt.Errorf("cache watcher add %s: %w", p, err)
		}
	}

	logger := applog.WithComponent("cache")
	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) {
					c.Invalidate(ev.Name)
					logger.Debug("file changed on disk, entry dropped",
						slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				}
			case <-w.Errors:
				// Watcher errors are not actionable here; the next explicit
				// Invalidate covers any missed event.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}
