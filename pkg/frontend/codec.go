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
	"io"

	"github.com/fagongzi/goetty/v2/buf"
	"github.com/fagongzi/goetty/v2/codec"
	"github.com/fagongzi/goetty/v2/codec/length"

	"github.com/memgrid/memgrid/pkg/common/mgerr"
)

// gridCodec frames messages with a 4-byte length field. Inbound frames
// decode into *Request, outbound *Response values encode into one frame.
type gridCodec struct {
	encoder codec.Codec
	decoder codec.Codec
}

func NewGridCodec() codec.Codec {
	bc := &baseCodec{}
	return &gridCodec{encoder: bc, decoder: length.New(bc)}
}

func (c *gridCodec) Decode(in *buf.ByteBuf) (any, bool, error) {
	return c.decoder.Decode(in)
}

func (c *gridCodec) Encode(data any, out *buf.ByteBuf, conn io.Writer) error {
	return c.encoder.Encode(data, out, conn)
}

type baseCodec struct{}

func (c *baseCodec) Decode(in *buf.ByteBuf) (any, bool, error) {
	data := in.ReadMarkedData()
	req, err := DecodeRequest(data)
	if err != nil {
		return nil, false, err
	}
	return req, true, nil
}

func (c *baseCodec) Encode(data any, out *buf.ByteBuf, conn io.Writer) error {
	resp, ok := data.(*Response)
	if !ok {
		return mgerr.NewInternalError("not support %T %+v", data, data)
	}
	payload, err := EncodeResponse(resp)
	if err != nil {
		return err
	}

	// 4 bytes frame size
	out.WriteInt(len(payload))
	out.MustWrite(payload)
	return nil
}
