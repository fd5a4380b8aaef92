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
	"context"
	"sync"

	"github.com/fagongzi/goetty/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/memgrid/memgrid/pkg/common/busylock"
	"github.com/memgrid/memgrid/pkg/common/mgerr"
	"github.com/memgrid/memgrid/pkg/config"
	"github.com/memgrid/memgrid/pkg/logutil"
)

// RoutineManager tracks the live driver connections and owns the shared
// request handler plus the lifecycle guard protecting it.
type RoutineManager struct {
	mu      sync.Mutex
	ctx     context.Context
	clients map[goetty.IOSession]*Routine
	pu      *config.ParameterUnit

	busy    *busylock.BusyLock
	handler *RequestHandler

	//pool running the connection loops
	pool *ants.Pool
}

func NewRoutineManager(ctx context.Context, pu *config.ParameterUnit) (*RoutineManager, error) {
	pool, err := ants.NewPool(int(pu.SV.SessionWorkers), ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	busy := busylock.New()
	rm := &RoutineManager{
		ctx:     ctx,
		clients: make(map[goetty.IOSession]*Routine),
		pu:      pu,
		busy:    busy,
		handler: NewRequestHandler(pu, busy),
		pool:    pool,
	}
	return rm, nil
}

func (rm *RoutineManager) getRoutine(rs goetty.IOSession) *Routine {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.clients[rs]
}

func (rm *RoutineManager) setRoutine(rs goetty.IOSession, r *Routine) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.clients[rs] = r
}

// clientCount returns the count of the live connections.
func (rm *RoutineManager) clientCount() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.clients)
}

// Created runs when a driver connects: the routine is registered and its
// loop submitted to the worker pool.
func (rm *RoutineManager) Created(rs goetty.IOSession) {
	logutil.Debugf("get the connection from %s", rs.RemoteAddress())
	routine := NewRoutine(rm.ctx, rs, rm.handler)
	if err := rm.pool.Submit(routine.Loop); err != nil {
		logutil.Errorf("connection %d rejected, worker pool exhausted. error:%v", rs.ID(), err)
		routine.Quit()
		_ = rs.Close()
		return
	}
	rm.setRoutine(rs, routine)
}

// Closed runs when the io is closed, it cleans the routine up.
func (rm *RoutineManager) Closed(rs goetty.IOSession) {
	rm.mu.Lock()
	routine, ok := rm.clients[rs]
	if ok {
		delete(rm.clients, rs)
	}
	rm.mu.Unlock()

	if routine != nil {
		routine.Quit()
	}
	logutil.Debugf("the connection %d:%s has been cleaned", rs.ID(), rs.RemoteAddress())
}

// Handler hands one decoded request to the connection's routine. It runs
// in the read goroutine of the session.
func (rm *RoutineManager) Handler(rs goetty.IOSession, msg any, received uint64) error {
	req, ok := msg.(*Request)
	if !ok {
		return mgerr.NewInternalError("message is not a request")
	}

	routine := rm.getRoutine(rs)
	if routine == nil {
		return mgerr.NewInternalError("routine does not exist for connection %d", rs.ID())
	}

	select {
	case routine.requestChan <- req:
		return nil
	case <-routine.cancelRoutineCtx.Done():
		return routine.cancelRoutineCtx.Err()
	}
}

// Shutdown blocks new requests, waits for the in-flight ones, releases
// the remaining cursors and stops the connection loops.
func (rm *RoutineManager) Shutdown(ctx context.Context) {
	rm.busy.Block()
	rm.handler.Close(ctx)

	rm.mu.Lock()
	routines := make([]*Routine, 0, len(rm.clients))
	for _, routine := range rm.clients {
		routines = append(routines, routine)
	}
	rm.clients = make(map[goetty.IOSession]*Routine)
	rm.mu.Unlock()

	for _, routine := range routines {
		routine.Quit()
	}
	rm.pool.Release()
}
