// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// Archive record related, caused by the bytes or values handed in
	ErrUnknownIdentifier  = newArchiveError("unknown type identifier", 100, false, WithErrorType(InputError))
	ErrTruncatedBuffer    = newArchiveError("truncated buffer", 101, false, WithErrorType(InputError))
	ErrMalformedLength    = newArchiveError("malformed length", 102, false, WithErrorType(InputError))
	ErrInvalidEncoding    = newArchiveError("invalid encoding", 103, false, WithErrorType(InputError))
	ErrIdentifierTooLong  = newArchiveError("identifier too long", 104, false, WithErrorType(InputError))
	ErrUnsupportedElement = newArchiveError("unsupported element", 105, false, WithErrorType(InputError))
	ErrDuplicateKey       = newArchiveError("duplicate map key", 106, false, WithErrorType(InputError))
	ErrNestingTooDeep     = newArchiveError("nesting too deep", 107, false, WithErrorType(InputError))
	ErrRestoreFailed      = newArchiveError("restore procedure failed", 108, false)
	ErrRecordTooLarge     = newArchiveError("record too large", 109, false, WithErrorType(InputError))

	// Registry related
	ErrRegistryFrozen = newArchiveError("registry is frozen", 200, false)

	// Frame related
	ErrFrameTooLarge = newArchiveError("frame too large", 300, false, WithErrorType(InputError))

	// Worker pool related
	ErrPoolOverloaded = newArchiveError("worker pool overloaded", 400, true)

	// IO related
	ErrIoFailed      = newArchiveError("IO failed", 1001, false)
	ErrIoUnexpectEOF = newArchiveError("unexpected EOF", 1002, true)

	// Parameter related
	ErrParameterInvalid  = newArchiveError("invalid parameter", 1100, false)
	ErrParameterMissing  = newArchiveError("missing parameter", 1101, false)
	ErrParameterTooLarge = newArchiveError("parameter too large", 1102, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to archiveError
	errUnexpected = newArchiveError("unexpected error", (1<<16)-1, false)

	// General
	ErrOperationNotSupported = newArchiveError("unsupported operation", 3000, false)
)

type errorOption func(*archiveError)

func WithDetail(detail string) errorOption {
	return func(err *archiveError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *archiveError) {
		err.errType = etype
	}
}

type archiveError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newArchiveError(msg string, code int32, retriable bool, options ...errorOption) archiveError {
	err := archiveError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e archiveError) code() int32 {
	return e.errCode
}

func (e archiveError) Error() string {
	return e.msg
}

func (e archiveError) Detail() string {
	return e.detail
}

func (e archiveError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(archiveError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
