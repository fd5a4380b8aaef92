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

	"github.com/memgrid/memgrid/pkg/config"
	"github.com/memgrid/memgrid/pkg/logutil"
)

// GridServer is the network front of the gateway: it accepts driver
// connections, frames and decodes their commands and feeds them to the
// routine manager.
type GridServer struct {
	addr string
	app  goetty.NetApplication
	rm   *RoutineManager
	pu   *config.ParameterUnit

	mu      sync.Mutex
	running bool
}

func NewGridServer(ctx context.Context, addr string, pu *config.ParameterUnit) (*GridServer, error) {
	rm, err := NewRoutineManager(ctx, pu)
	if err != nil {
		return nil, err
	}

	app, err := goetty.NewApplication(addr, rm.Handler,
		goetty.WithAppLogger(logutil.GetGlobalLogger()),
		goetty.WithAppSessionAware(rm),
		goetty.WithAppSessionOptions(
			goetty.WithSessionCodec(NewGridCodec()),
			goetty.WithSessionLogger(logutil.GetGlobalLogger()),
		),
	)
	if err != nil {
		return nil, err
	}

	return &GridServer{
		addr: addr,
		app:  app,
		rm:   rm,
		pu:   pu,
	}, nil
}

func (gs *GridServer) GetRoutineManager() *RoutineManager {
	return gs.rm
}

func (gs *GridServer) Start() error {
	logutil.Infof("server listening on %s", gs.addr)
	gs.mu.Lock()
	gs.running = true
	gs.mu.Unlock()
	return gs.app.Start()
}

// Stop first lets the lifecycle guard drain the in-flight requests, then
// tears the transport down.
func (gs *GridServer) Stop(ctx context.Context) error {
	gs.mu.Lock()
	if !gs.running {
		gs.mu.Unlock()
		return nil
	}
	gs.running = false
	gs.mu.Unlock()

	gs.rm.Shutdown(ctx)
	return gs.app.Stop()
}
