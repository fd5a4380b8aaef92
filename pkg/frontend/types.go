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

// Package frontend is the server side of the memgrid SQL driver protocol:
// it takes decoded commands, executes them against the grid engine, keeps
// the open cursors between fetch round-trips and answers catalog queries.
package frontend

import (
	"github.com/memgrid/memgrid/pkg/vm/engine"
)

// CmdType tags the decoded driver commands. The set is closed, an
// unrecognized tag is answered with a failed response.
type CmdType uint8

const (
	CmdHandshake CmdType = iota + 1
	CmdExecuteQuery
	CmdFetchQuery
	CmdCloseQuery
	CmdGetColumnsMeta
	CmdGetTablesMeta
)

func (c CmdType) String() string {
	switch c {
	case CmdHandshake:
		return "HANDSHAKE"
	case CmdExecuteQuery:
		return "EXECUTE_SQL_QUERY"
	case CmdFetchQuery:
		return "FETCH_SQL_QUERY"
	case CmdCloseQuery:
		return "CLOSE_SQL_QUERY"
	case CmdGetColumnsMeta:
		return "GET_COLUMNS_META"
	case CmdGetTablesMeta:
		return "GET_TABLES_META"
	default:
		return "UNKNOWN"
	}
}

// Request is a decoded driver command.
type Request struct {
	//the command type
	cmd CmdType
	//the command-specific payload
	data any
}

func NewRequest(cmd CmdType, data any) *Request {
	return &Request{cmd: cmd, data: data}
}

func (req *Request) GetCmd() CmdType {
	return req.cmd
}

func (req *Request) SetCmd(cmd CmdType) {
	req.cmd = cmd
}

func (req *Request) GetData() any {
	return req.data
}

func (req *Request) SetData(data any) {
	req.data = data
}

// ResponseStatus is the status of the uniform response envelope. There is
// no third value.
type ResponseStatus uint8

const (
	StatusSuccess ResponseStatus = 0
	StatusFailed  ResponseStatus = 1
)

// Response is the uniform envelope handed back to the encoder: Success
// with a command-specific result, or Failed with one message string.
type Response struct {
	cmd    CmdType
	status ResponseStatus
	//result on success, error message string on failure
	data any
}

func NewSuccessResponse(cmd CmdType, data any) *Response {
	return &Response{cmd: cmd, status: StatusSuccess, data: data}
}

func NewErrorResponse(cmd CmdType, err error) *Response {
	return &Response{cmd: cmd, status: StatusFailed, data: err.Error()}
}

func (resp *Response) GetCmd() CmdType {
	return resp.cmd
}

func (resp *Response) GetStatus() ResponseStatus {
	return resp.status
}

func (resp *Response) GetData() any {
	return resp.data
}

// ErrorMessage returns the message of a failed response.
func (resp *Response) ErrorMessage() string {
	if resp.status != StatusFailed {
		return ""
	}
	msg, _ := resp.data.(string)
	return msg
}

// HandshakeRequest carries the protocol version the driver declared.
type HandshakeRequest struct {
	Version int64
}

// HandshakeResult reports whether the declared version is accepted. On a
// mismatch it carries the fields the driver needs to renegotiate; the
// envelope status stays Success, a version mismatch is informational.
type HandshakeResult struct {
	Accepted bool
	// ProtoVersionSince is the first release speaking the current protocol.
	ProtoVersionSince string
	// ServerVersion is the human readable gateway version.
	ServerVersion string
}

// QueryExecuteRequest asks to run a field query against a collection.
type QueryExecuteRequest struct {
	Collection string
	SQL        string
	Args       []any
}

// QueryExecuteResult carries the cursor id and the per-field metadata of
// the executed query.
type QueryExecuteResult struct {
	QueryID uint64
	Columns []engine.Attribute
}

// QueryFetchRequest asks for the next page of an open cursor.
type QueryFetchRequest struct {
	QueryID  uint64
	PageSize int64
}

// QueryFetchResult carries one page of rows. LastPage is true iff the
// iterator reported no further rows right after this fetch.
type QueryFetchResult struct {
	QueryID  uint64
	Rows     [][]any
	LastPage bool
}

// QueryCloseRequest releases an open cursor.
type QueryCloseRequest struct {
	QueryID uint64
}

type QueryCloseResult struct {
	QueryID uint64
}

// ColumnsMetaRequest filters column metadata. Table may be a plain name or
// a two-part "collection.table" identifier; Column is a wildcard pattern,
// empty matches everything.
type ColumnsMetaRequest struct {
	Collection string
	Table      string
	Column     string
}

type ColumnsMetaResult struct {
	Columns []ColumnMeta
}

// TablesMetaRequest filters table metadata with wildcard patterns. Catalog
// is carried through to the result unfiltered.
type TablesMetaRequest struct {
	Catalog   string
	Schema    string
	Table     string
	TableType string
}

type TablesMetaResult struct {
	Tables []TableMeta
}

// ColumnMeta describes one column to the driver. Equality is structural.
type ColumnMeta struct {
	Collection string
	Table      string
	Column     string
	Type       string
}

// TableMeta describes one table to the driver. Equality is structural.
type TableMeta struct {
	Catalog string
	Schema  string
	Table   string
	Type    string
}
