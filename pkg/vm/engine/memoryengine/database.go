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
	"sort"
	"strings"
	"sync"

	"github.com/memgrid/memgrid/pkg/common/mgerr"
	"github.com/memgrid/memgrid/pkg/vm/engine"
)

type Database struct {
	name   string
	mu     sync.RWMutex
	tables map[string]*Table
}

type Table struct {
	name  string
	attrs []engine.Attribute
	rows  [][]any
}

var _ engine.Database = new(Database)

func (d *Database) Name() string {
	return d.name
}

// CreateTable registers a table with the given attributes.
func (d *Database) CreateTable(name string, attrs []engine.Attribute) (*Table, error) {
	if name == "" {
		return nil, mgerr.NewInvalidInput("no table name")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tables[name]; ok {
		return nil, mgerr.NewInvalidInput("table %s already exists", name)
	}
	t := &Table{
		name:  name,
		attrs: append([]engine.Attribute(nil), attrs...),
	}
	d.tables[name] = t
	return t, nil
}

// Insert appends rows to a table. Rows must match the attribute count.
func (d *Database) Insert(table string, rows ...[]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tables[table]
	if !ok {
		return mgerr.NewInvalidInput("no such table: %s", table)
	}
	for _, row := range rows {
		if len(row) != len(t.attrs) {
			return mgerr.NewInvalidInput("row has %d values, table %s has %d attributes",
				len(row), table, len(t.attrs))
		}
		t.rows = append(t.rows, row)
	}
	return nil
}

func (d *Database) TableDescriptors(ctx context.Context) ([]engine.TableDescriptor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	descs := make([]engine.TableDescriptor, 0, len(d.tables))
	for _, t := range d.tables {
		descs = append(descs, engine.TableDescriptor{
			Name:       t.name,
			Attributes: append([]engine.Attribute(nil), t.attrs...),
		})
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
	return descs, nil
}

// Query answers "SELECT ... FROM <table>" by streaming the full table.
// Positional arguments are accepted for interface parity and left unbound,
// this engine does not filter.
func (d *Database) Query(ctx context.Context, sql string, args []any) (engine.Cursor, error) {
	table, err := tableOfQuery(sql)
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tables[table]
	if !ok {
		return nil, mgerr.NewInvalidInput("no such table: %s", table)
	}
	rows := make([][]any, len(t.rows))
	copy(rows, t.rows)
	return &memCursor{
		cols: append([]engine.Attribute(nil), t.attrs...),
		rows: rows,
	}, nil
}

// tableOfQuery pulls the table name out of the FROM clause. Two-part
// names keep only the table part, surrounding quotes are dropped.
func tableOfQuery(sql string) (string, error) {
	fields := strings.Fields(sql)
	for i, f := range fields {
		if strings.EqualFold(f, "from") && i+1 < len(fields) {
			table := strings.TrimRight(fields[i+1], ";")
			table = strings.Trim(table, `"`)
			if j := strings.Index(table, "."); j >= 0 {
				table = table[j+1:]
			}
			if table != "" {
				return table, nil
			}
			break
		}
	}
	return "", mgerr.NewInvalidInput("cannot find table in query: %s", sql)
}
