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

package memoryengine

import (
	"context"
	"sync"

	"github.com/memgrid/memgrid/pkg/common/mgerr"
	"github.com/memgrid/memgrid/pkg/vm/engine"
)

type memCursor struct {
	cols []engine.Attribute
	rows [][]any

	mu     sync.Mutex
	pos    int
	closed bool
}

var (
	_ engine.Cursor   = new(memCursor)
	_ engine.Iterator = new(memCursor)
)

func (c *memCursor) Columns() []engine.Attribute {
	return c.cols
}

// Iterator returns the cursor itself positioned at the first row. The
// snapshot was taken at query time, the iterator never re-reads the table.
func (c *memCursor) Iterator() engine.Iterator {
	return c
}

func (c *memCursor) HasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.pos < len(c.rows)
}

func (c *memCursor) Next() ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, mgerr.NewInternalError("cursor is closed")
	}
	if c.pos >= len(c.rows) {
		return nil, mgerr.NewInternalError("no more rows")
	}
	row := c.rows[c.pos]
	c.pos++
	return row, nil
}

func (c *memCursor) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
