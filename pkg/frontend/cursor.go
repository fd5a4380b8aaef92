// Copyright 2023 Memgrid
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frontend

import (
	"sync"

	"github.com/memgrid/memgrid/pkg/vm/engine"
)

// cursorEntry pairs an exclusively owned cursor with its positioned
// iterator. It lives from a successful execute until the explicit close,
// fetch never removes it, not even on exhaustion.
type cursorEntry struct {
	queryID uint64
	cursor  engine.Cursor
	iter    engine.Iterator
}

// CursorRegistry maps query ids to their cursor entries. Single-key get,
// put and delete are individually atomic; Count is a separate read, so a
// caller combining Count with Put does not get one atomic admission step.
type CursorRegistry struct {
	mu      sync.RWMutex
	cursors map[uint64]*cursorEntry
}

func NewCursorRegistry() *CursorRegistry {
	return &CursorRegistry{
		cursors: make(map[uint64]*cursorEntry),
	}
}

func (r *CursorRegistry) Get(queryID uint64) (*cursorEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cursors[queryID]
	return entry, ok
}

func (r *CursorRegistry) Put(entry *cursorEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursors[entry.queryID] = entry
}

// Delete removes the entry if present. Deleting an absent id is a no-op.
func (r *CursorRegistry) Delete(queryID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cursors, queryID)
}

func (r *CursorRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cursors)
}

// Drain empties the registry and returns the removed entries, used during
// dispatcher teardown.
func (r *CursorRegistry) Drain() []*cursorEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]*cursorEntry, 0, len(r.cursors))
	for _, entry := range r.cursors {
		entries = append(entries, entry)
	}
	r.cursors = make(map[uint64]*cursorEntry)
	return entries
}
