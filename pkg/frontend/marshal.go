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
	"encoding/binary"
	"math"

	"github.com/memgrid/memgrid/pkg/common/mgerr"
)

// Wire value type tags. Driver arguments and row values travel as one
// type byte followed by the value.
const (
	wireNil     uint8 = 0
	wireBool    uint8 = 1
	wireInt64   uint8 = 2
	wireFloat64 uint8 = 3
	wireString  uint8 = 4
)

// binReader reads the little-endian command payload. The error sticks:
// after the first short read every accessor returns zero values.
type binReader struct {
	data []byte
	pos  int
	err  error
}

func (r *binReader) fail() {
	if r.err == nil {
		r.err = mgerr.NewInvalidInput("malformed request payload")
	}
}

func (r *binReader) readUint8() uint8 {
	if r.err != nil || r.pos+1 > len(r.data) {
		r.fail()
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *binReader) readInt32() int32 {
	if r.err != nil || r.pos+4 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return int32(v)
}

func (r *binReader) readUint64() uint64 {
	if r.err != nil || r.pos+8 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}

func (r *binReader) readInt64() int64 {
	return int64(r.readUint64())
}

// readString reads an int32 length followed by the bytes. A negative
// length is the absent string, it decodes to "".
func (r *binReader) readString() string {
	n := r.readInt32()
	if r.err != nil || n < 0 {
		return ""
	}
	if r.pos+int(n) > len(r.data) {
		r.fail()
		return ""
	}
	v := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return v
}

func (r *binReader) readValue() any {
	switch t := r.readUint8(); t {
	case wireNil:
		return nil
	case wireBool:
		return r.readUint8() != 0
	case wireInt64:
		return r.readInt64()
	case wireFloat64:
		return math.Float64frombits(r.readUint64())
	case wireString:
		return r.readString()
	default:
		r.fail()
		return nil
	}
}

type binWriter struct {
	data []byte
}

func (w *binWriter) writeUint8(v uint8) {
	w.data = append(w.data, v)
}

func (w *binWriter) writeBool(v bool) {
	if v {
		w.writeUint8(1)
	} else {
		w.writeUint8(0)
	}
}

func (w *binWriter) writeInt32(v int32) {
	w.data = binary.LittleEndian.AppendUint32(w.data, uint32(v))
}

func (w *binWriter) writeUint64(v uint64) {
	w.data = binary.LittleEndian.AppendUint64(w.data, v)
}

func (w *binWriter) writeString(v string) {
	w.writeInt32(int32(len(v)))
	w.data = append(w.data, v...)
}

func (w *binWriter) writeValue(v any) error {
	switch x := v.(type) {
	case nil:
		w.writeUint8(wireNil)
	case bool:
		w.writeUint8(wireBool)
		w.writeBool(x)
	case int:
		w.writeUint8(wireInt64)
		w.writeUint64(uint64(int64(x)))
	case int32:
		w.writeUint8(wireInt64)
		w.writeUint64(uint64(int64(x)))
	case int64:
		w.writeUint8(wireInt64)
		w.writeUint64(uint64(x))
	case float32:
		w.writeUint8(wireFloat64)
		w.writeUint64(math.Float64bits(float64(x)))
	case float64:
		w.writeUint8(wireFloat64)
		w.writeUint64(math.Float64bits(x))
	case string:
		w.writeUint8(wireString)
		w.writeString(x)
	case []byte:
		w.writeUint8(wireString)
		w.writeString(string(x))
	default:
		return mgerr.NewInternalError("unsupported value type %T", v)
	}
	return nil
}

// DecodeRequest turns one framed payload into a Request. An unknown
// command tag is not a decode error: the request travels on with a nil
// payload and the dispatcher answers it with "unsupported request".
func DecodeRequest(data []byte) (*Request, error) {
	r := &binReader{data: data}
	cmd := CmdType(r.readUint8())

	var payload any
	switch cmd {
	case CmdHandshake:
		payload = &HandshakeRequest{
			Version: r.readInt64(),
		}
	case CmdExecuteQuery:
		exec := &QueryExecuteRequest{
			Collection: r.readString(),
			SQL:        r.readString(),
		}
		n := r.readInt32()
		if n > 0 {
			exec.Args = make([]any, 0, n)
			for i := int32(0); i < n && r.err == nil; i++ {
				exec.Args = append(exec.Args, r.readValue())
			}
		}
		payload = exec
	case CmdFetchQuery:
		payload = &QueryFetchRequest{
			QueryID:  r.readUint64(),
			PageSize: int64(r.readInt32()),
		}
	case CmdCloseQuery:
		payload = &QueryCloseRequest{
			QueryID: r.readUint64(),
		}
	case CmdGetColumnsMeta:
		payload = &ColumnsMetaRequest{
			Collection: r.readString(),
			Table:      r.readString(),
			Column:     r.readString(),
		}
	case CmdGetTablesMeta:
		payload = &TablesMetaRequest{
			Catalog:   r.readString(),
			Schema:    r.readString(),
			Table:     r.readString(),
			TableType: r.readString(),
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return NewRequest(cmd, payload), nil
}

// EncodeResponse turns a response envelope into one framed payload.
func EncodeResponse(resp *Response) ([]byte, error) {
	w := &binWriter{}
	w.writeUint8(uint8(resp.GetStatus()))
	if resp.GetStatus() == StatusFailed {
		w.writeString(resp.ErrorMessage())
		return w.data, nil
	}

	w.writeUint8(uint8(resp.GetCmd()))
	switch d := resp.GetData().(type) {
	case *HandshakeResult:
		w.writeBool(d.Accepted)
		w.writeString(d.ProtoVersionSince)
		w.writeString(d.ServerVersion)
	case *QueryExecuteResult:
		w.writeUint64(d.QueryID)
		w.writeInt32(int32(len(d.Columns)))
		for _, col := range d.Columns {
			w.writeString(col.Name)
			w.writeString(col.Type)
		}
	case *QueryFetchResult:
		w.writeUint64(d.QueryID)
		w.writeInt32(int32(len(d.Rows)))
		for _, row := range d.Rows {
			w.writeInt32(int32(len(row)))
			for _, v := range row {
				if err := w.writeValue(v); err != nil {
					return nil, err
				}
			}
		}
		w.writeBool(d.LastPage)
	case *QueryCloseResult:
		w.writeUint64(d.QueryID)
	case *ColumnsMetaResult:
		w.writeInt32(int32(len(d.Columns)))
		for _, meta := range d.Columns {
			w.writeString(meta.Collection)
			w.writeString(meta.Table)
			w.writeString(meta.Column)
			w.writeString(meta.Type)
		}
	case *TablesMetaResult:
		w.writeInt32(int32(len(d.Tables)))
		for _, meta := range d.Tables {
			w.writeString(meta.Catalog)
			w.writeString(meta.Schema)
			w.writeString(meta.Table)
			w.writeString(meta.Type)
		}
	default:
		return nil, mgerr.NewInternalError("unsupported response payload %T", resp.GetData())
	}
	return w.data, nil
}
