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
	"time"

	"github.com/fagongzi/goetty/v2"

	"github.com/memgrid/memgrid/pkg/logutil"
)

// Routine serves one driver connection. Requests from the IO layer go
// through the request channel and are handled one at a time by Loop, the
// shared RequestHandler does the actual work.
type Routine struct {
	rs      goetty.IOSession
	handler *RequestHandler

	//channel of request
	requestChan chan *Request

	cancelRoutineCtx  context.Context
	cancelRoutineFunc context.CancelFunc
}

func NewRoutine(ctx context.Context, rs goetty.IOSession, handler *RequestHandler) *Routine {
	cancelRoutineCtx, cancelRoutineFunc := context.WithCancel(ctx)
	return &Routine{
		rs:                rs,
		handler:           handler,
		requestChan:       make(chan *Request, 1),
		cancelRoutineCtx:  cancelRoutineCtx,
		cancelRoutineFunc: cancelRoutineFunc,
	}
}

func (routine *Routine) getConnID() uint64 {
	return routine.rs.ID()
}

// Loop reads requests from the channel and responds in order until the
// routine context is canceled.
func (routine *Routine) Loop() {
	for {
		var req *Request
		select {
		case <-routine.cancelRoutineCtx.Done():
			return
		case req = <-routine.requestChan:
		}

		reqBegin := time.Now()

		resp := routine.handler.ExecRequest(routine.cancelRoutineCtx, req)
		if resp != nil {
			if err := routine.rs.Write(resp, goetty.WriteOptions{Flush: true}); err != nil {
				logutil.Errorf("routine send response failed. connection:%d error:%v",
					routine.getConnID(), err)
			}
		}

		logutil.Debugf("connection %d handled %s in %s",
			routine.getConnID(), req.GetCmd(), time.Since(reqBegin))
	}
}

// Quit stops the loop. The IO session is closed by the transport layer.
func (routine *Routine) Quit() {
	routine.cancelRoutineFunc()
}
