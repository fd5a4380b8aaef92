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

// Package memoryengine is a process-local engine backing the gateway in
// tests and single-node deployments. It stores collections and tables in
// memory and answers the projection-free query shape the gateway itself
// issues. It is not a SQL engine.
package memoryengine

import (
	"context"
	"sort"
	"sync"

	"github.com/memgrid/memgrid/pkg/common/mgerr"
	"github.com/memgrid/memgrid/pkg/vm/engine"
)

type Engine struct {
	mu  sync.RWMutex
	dbs map[string]*Database
}

var _ engine.Engine = new(Engine)

func New() *Engine {
	return &Engine{
		dbs: make(map[string]*Database),
	}
}

// CreateDatabase registers an empty collection. Creating an existing name
// is an error.
func (e *Engine) CreateDatabase(name string) (*Database, error) {
	if name == "" {
		return nil, mgerr.NewInvalidInput("no collection name")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.dbs[name]; ok {
		return nil, mgerr.NewInvalidInput("collection %s already exists", name)
	}
	db := &Database{
		name:   name,
		tables: make(map[string]*Table),
	}
	e.dbs[name] = db
	return db, nil
}

func (e *Engine) Database(ctx context.Context, name string) (engine.Database, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	db, ok := e.dbs[name]
	if !ok {
		return nil, mgerr.NewBadDB(name)
	}
	return db, nil
}

func (e *Engine) DatabaseNames(ctx context.Context) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.dbs))
	for name := range e.dbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
