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

package mgerr

import (
	"errors"
	"fmt"
)

const (
	// Ok is not an error.
	Ok uint16 = 0

	// Group 1: internal errors
	ErrStart        uint16 = 20100
	ErrInternal     uint16 = 20101
	ErrNotSupported uint16 = 20105

	// Group 2: invalid input
	ErrInvalidInput uint16 = 20301

	// Group 3: unexpected state
	ErrBadDB              uint16 = 20402
	ErrQueryNotFound      uint16 = 20410
	ErrTooManyCursors     uint16 = 20411
	ErrShutdownInProgress uint16 = 20412
	ErrEngine             uint16 = 20413
)

// Error is the uniform error of the grid gateway. The code classifies the
// failure, the message is what gets shipped to the driver.
type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.code == e.code
}

func newError(code uint16, format string, args ...any) *Error {
	return &Error{
		code:    code,
		message: fmt.Sprintf(format, args...),
	}
}

func NewInternalError(format string, args ...any) *Error {
	return newError(ErrInternal, format, args...)
}

func NewNotSupported(format string, args ...any) *Error {
	return newError(ErrNotSupported, format, args...)
}

func NewInvalidInput(format string, args ...any) *Error {
	return newError(ErrInvalidInput, format, args...)
}

// NewBadDB reports an unknown collection name.
func NewBadDB(name string) *Error {
	return newError(ErrBadDB, "collection does not exist: %s", name)
}

// NewQueryNotFound reports an unknown query id. Fetch and Close share
// this exact message, client drivers match on it.
func NewQueryNotFound(id uint64) *Error {
	return newError(ErrQueryNotFound, "cursor not found for id %d", id)
}

// NewTooManyCursors reports that the open-cursor ceiling is reached. The
// message carries both the configured maximum and the observed count.
func NewTooManyCursors(max, current int) *Error {
	return newError(ErrTooManyCursors,
		"too many open cursors (either close other open cursors or increase the limit "+
			"through maxOpenCursors) [maximum=%d, current=%d]", max, current)
}

func NewShutdownInProgress(cmd string) *Error {
	return newError(ErrShutdownInProgress,
		"failed to handle request because node is stopping: %s", cmd)
}

// NewEngine wraps an error surfaced by the query engine. The engine message
// is kept as-is, the gateway never rewrites it.
func NewEngine(err error) *Error {
	return newError(ErrEngine, "%s", err.Error())
}

// IsMgErrCode reports whether err is a gateway error carrying the code.
func IsMgErrCode(err error, code uint16) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.code == code
}
