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

// Package engine defines the surface the gateway consumes from the
// underlying data grid: collection resolution, field-query execution and
// schema discovery. Execute, iterator advancement and cursor release may
// block on network or storage I/O.
package engine

import "context"

// Attribute describes one field of a table: its name and the type name
// reported to drivers.
type Attribute struct {
	Name string
	Type string
}

// TableDescriptor is the catalog metadata of one table registered under a
// collection.
type TableDescriptor struct {
	Name       string
	Attributes []Attribute
}

// Iterator walks the rows of a cursor. It keeps its position between
// calls, so consecutive reads partition the result set exactly once.
type Iterator interface {
	// HasNext reports whether another row can be read.
	HasNext() bool
	// Next returns the next row as an ordered sequence of field values.
	Next() ([]any, error)
}

// Cursor is a server-side handle over a streamed query result set.
type Cursor interface {
	// Columns returns the per-field metadata of the executed query.
	Columns() []Attribute
	// Iterator returns a freshly positioned iterator over the rows.
	Iterator() Iterator
	// Close releases the resources held by the cursor.
	Close(ctx context.Context) error
}

// Database is a named collection inside the grid.
type Database interface {
	Name() string
	// Query executes a parameterized field query and returns its cursor.
	Query(ctx context.Context, sql string, args []any) (Cursor, error)
	// TableDescriptors enumerates the schema descriptors of the collection.
	TableDescriptors(ctx context.Context) ([]TableDescriptor, error)
}

// Engine is the gateway's view of the grid.
type Engine interface {
	// Database resolves a collection by name.
	Database(ctx context.Context, name string) (Database, error)
	// DatabaseNames enumerates all known collection names.
	DatabaseNames(ctx context.Context) ([]string, error)
}
