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
	"strings"
	"sync/atomic"

	"github.com/memgrid/memgrid/pkg/common/busylock"
	"github.com/memgrid/memgrid/pkg/common/mgerr"
	"github.com/memgrid/memgrid/pkg/config"
	"github.com/memgrid/memgrid/pkg/defines"
	"github.com/memgrid/memgrid/pkg/logutil"
)

// RequestHandler executes decoded driver commands against the grid
// engine. One instance serves all connections of a gateway, it must be
// safe under concurrent ExecRequest calls. It owns the cursor registry;
// the registry is created with the handler and torn down with it.
type RequestHandler struct {
	pu      *config.ParameterUnit
	busy    *busylock.BusyLock
	cursors *CursorRegistry

	//query id sequence, never reused within the handler's lifetime
	queryID atomic.Uint64
}

func NewRequestHandler(pu *config.ParameterUnit, busy *busylock.BusyLock) *RequestHandler {
	return &RequestHandler{
		pu:      pu,
		busy:    busy,
		cursors: NewCursorRegistry(),
	}
}

// ExecRequest handles one command and always returns a response
// envelope. The busy permit is released on every exit path; a panicking
// handler is converted into a failed response instead of unwinding
// through the connection loop.
func (h *RequestHandler) ExecRequest(ctx context.Context, req *Request) (resp *Response) {
	if !h.busy.TryEnter() {
		return NewErrorResponse(req.GetCmd(),
			mgerr.NewShutdownInProgress(req.GetCmd().String()))
	}
	defer h.busy.Leave()

	defer func() {
		if e := recover(); e != nil {
			logutil.Errorf("request handler panic. cmd:%s err:%v", req.GetCmd(), e)
			resp = NewErrorResponse(req.GetCmd(), mgerr.NewInternalError("%v", e))
		}
	}()

	switch req.GetCmd() {
	case CmdHandshake:
		return h.handleHandshake(req)
	case CmdExecuteQuery:
		return h.executeQuery(ctx, req)
	case CmdFetchQuery:
		return h.fetchQuery(req)
	case CmdCloseQuery:
		return h.closeQuery(ctx, req)
	case CmdGetColumnsMeta:
		return h.getColumnsMeta(ctx, req)
	case CmdGetTablesMeta:
		return h.getTablesMeta(ctx, req)
	default:
		return NewErrorResponse(req.GetCmd(),
			mgerr.NewNotSupported("unsupported request: %d", uint8(req.GetCmd())))
	}
}

// Close releases every cursor still registered. Called once when the
// gateway tears the handler down, after the busy lock blocked.
func (h *RequestHandler) Close(ctx context.Context) {
	for _, entry := range h.cursors.Drain() {
		if err := entry.cursor.Close(ctx); err != nil {
			logutil.Errorf("close cursor %d during shutdown. error:%v", entry.queryID, err)
		}
	}
}

func (h *RequestHandler) handleHandshake(req *Request) *Response {
	hs, ok := req.GetData().(*HandshakeRequest)
	if !ok {
		return NewErrorResponse(CmdHandshake, mgerr.NewInvalidInput("invalid handshake payload"))
	}

	if hs.Version == defines.ClientProtocolVersion {
		return NewSuccessResponse(CmdHandshake, &HandshakeResult{Accepted: true})
	}

	// Not a hard error: the driver gets the fields it needs to decide
	// whether to renegotiate.
	logutil.Infof("protocol version mismatch. client:%d server:%d",
		hs.Version, defines.ClientProtocolVersion)
	return NewSuccessResponse(CmdHandshake, &HandshakeResult{
		Accepted:          false,
		ProtoVersionSince: defines.ClientProtocolVersionSince,
		ServerVersion:     h.pu.SV.MemVersion,
	})
}

func (h *RequestHandler) executeQuery(ctx context.Context, req *Request) *Response {
	exec, ok := req.GetData().(*QueryExecuteRequest)
	if !ok {
		return NewErrorResponse(CmdExecuteQuery, mgerr.NewInvalidInput("invalid execute payload"))
	}

	// The count read and the later Put are deliberately separate steps:
	// concurrent executes may transiently push the registry above the
	// limit. Existing drivers depend on this admission behavior.
	max := int(h.pu.SV.MaxOpenCursors)
	if current := h.cursors.Count(); current >= max {
		return NewErrorResponse(CmdExecuteQuery, mgerr.NewTooManyCursors(max, current))
	}

	// The id is consumed even when execution fails below, it is never
	// handed out twice.
	queryID := h.queryID.Add(1)

	logutil.Debugf("execute query. id:%d collection:%s sql:%s",
		queryID, exec.Collection, h.printableQuery(exec.SQL))

	db, err := h.pu.StorageEngine.Database(ctx, exec.Collection)
	if err != nil {
		h.cursors.Delete(queryID)
		return NewErrorResponse(CmdExecuteQuery, err)
	}

	cursor, err := db.Query(ctx, exec.SQL, exec.Args)
	if err != nil {
		h.cursors.Delete(queryID)
		return NewErrorResponse(CmdExecuteQuery, err)
	}

	h.cursors.Put(&cursorEntry{
		queryID: queryID,
		cursor:  cursor,
		iter:    cursor.Iterator(),
	})

	return NewSuccessResponse(CmdExecuteQuery, &QueryExecuteResult{
		QueryID: queryID,
		Columns: cursor.Columns(),
	})
}

func (h *RequestHandler) fetchQuery(req *Request) *Response {
	fetch, ok := req.GetData().(*QueryFetchRequest)
	if !ok {
		return NewErrorResponse(CmdFetchQuery, mgerr.NewInvalidInput("invalid fetch payload"))
	}

	entry, ok := h.cursors.Get(fetch.QueryID)
	if !ok {
		return NewErrorResponse(CmdFetchQuery, mgerr.NewQueryNotFound(fetch.QueryID))
	}

	rows := make([][]any, 0, fetch.PageSize)
	for i := int64(0); i < fetch.PageSize && entry.iter.HasNext(); i++ {
		row, err := entry.iter.Next()
		if err != nil {
			// registry state stays as it is, the driver may retry or close
			return NewErrorResponse(CmdFetchQuery, err)
		}
		rows = append(rows, row)
	}

	// The entry survives even when the iterator is exhausted; only an
	// explicit close removes it.
	return NewSuccessResponse(CmdFetchQuery, &QueryFetchResult{
		QueryID:  fetch.QueryID,
		Rows:     rows,
		LastPage: !entry.iter.HasNext(),
	})
}

func (h *RequestHandler) closeQuery(ctx context.Context, req *Request) *Response {
	cls, ok := req.GetData().(*QueryCloseRequest)
	if !ok {
		return NewErrorResponse(CmdCloseQuery, mgerr.NewInvalidInput("invalid close payload"))
	}

	entry, ok := h.cursors.Get(cls.QueryID)
	if !ok {
		return NewErrorResponse(CmdCloseQuery, mgerr.NewQueryNotFound(cls.QueryID))
	}

	// The entry is removed whether or not the release succeeds, a second
	// close of the same id always reports not found.
	err := entry.cursor.Close(ctx)
	h.cursors.Delete(cls.QueryID)
	if err != nil {
		return NewErrorResponse(CmdCloseQuery, err)
	}

	return NewSuccessResponse(CmdCloseQuery, &QueryCloseResult{QueryID: cls.QueryID})
}

func (h *RequestHandler) getColumnsMeta(ctx context.Context, req *Request) *Response {
	cm, ok := req.GetData().(*ColumnsMetaRequest)
	if !ok {
		return NewErrorResponse(CmdGetColumnsMeta, mgerr.NewInvalidInput("invalid columns meta payload"))
	}

	var collection, table string
	if i := strings.Index(cm.Table, "."); i >= 0 {
		// two-part table name, split on the first dot
		collection = trimQuotes(cm.Table[:i])
		table = cm.Table[i+1:]
	} else {
		collection = trimQuotes(cm.Collection)
		table = cm.Table
	}

	db, err := h.pu.StorageEngine.Database(ctx, collection)
	if err != nil {
		return NewErrorResponse(CmdGetColumnsMeta, err)
	}
	descs, err := db.TableDescriptors(ctx)
	if err != nil {
		return NewErrorResponse(CmdGetColumnsMeta, err)
	}

	metas := make([]ColumnMeta, 0)
	for _, desc := range descs {
		if desc.Name != table {
			continue
		}
		for _, attr := range desc.Attributes {
			if !matchesPattern(attr.Name, cm.Column) {
				continue
			}
			meta := ColumnMeta{
				Collection: cm.Collection,
				Table:      desc.Name,
				Column:     attr.Name,
				Type:       attr.Type,
			}
			if !containsColumnMeta(metas, meta) {
				metas = append(metas, meta)
			}
		}
	}

	return NewSuccessResponse(CmdGetColumnsMeta, &ColumnsMetaResult{Columns: metas})
}

func (h *RequestHandler) getTablesMeta(ctx context.Context, req *Request) *Response {
	tm, ok := req.GetData().(*TablesMetaRequest)
	if !ok {
		return NewErrorResponse(CmdGetTablesMeta, mgerr.NewInvalidInput("invalid tables meta payload"))
	}

	schemaPattern := trimQuotes(tm.Schema)

	names, err := h.pu.StorageEngine.DatabaseNames(ctx)
	if err != nil {
		return NewErrorResponse(CmdGetTablesMeta, err)
	}

	metas := make([]TableMeta, 0)
	for _, name := range names {
		if !matchesPattern(name, schemaPattern) {
			continue
		}

		db, err := h.pu.StorageEngine.Database(ctx, name)
		if err != nil {
			return NewErrorResponse(CmdGetTablesMeta, err)
		}
		descs, err := db.TableDescriptors(ctx)
		if err != nil {
			return NewErrorResponse(CmdGetTablesMeta, err)
		}

		for _, desc := range descs {
			if !matchesPattern(desc.Name, tm.Table) {
				continue
			}
			// only tables exist in the grid, views do not
			if !matchesPattern("TABLE", tm.TableType) {
				continue
			}
			meta := TableMeta{
				Catalog: tm.Catalog,
				Schema:  name,
				Table:   desc.Name,
				Type:    "TABLE",
			}
			if !containsTableMeta(metas, meta) {
				metas = append(metas, meta)
			}
		}
	}

	return NewSuccessResponse(CmdGetTablesMeta, &TablesMetaResult{Tables: metas})
}

func containsColumnMeta(metas []ColumnMeta, meta ColumnMeta) bool {
	for _, m := range metas {
		if m == meta {
			return true
		}
	}
	return false
}

func containsTableMeta(metas []TableMeta, meta TableMeta) bool {
	for _, m := range metas {
		if m == meta {
			return true
		}
	}
	return false
}

// printableQuery truncates the query for the log according to
// lengthOfQueryPrinted.
func (h *RequestHandler) printableQuery(sql string) string {
	n := h.pu.SV.LengthOfQueryPrinted
	if n < 0 || int64(len(sql)) <= n {
		return sql
	}
	return sql[:n]
}
