//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

// Package errors defines the errno-coded errors of the hub client. Two
// errors match under Is when their errnos are equal, whatever they wrap.
package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	KErrNoConnection = uint32(iota + 1)
	KErrBusy
	KErrClosed
	KErrPayloadTooLarge
)

var (
	ErrNoConnection    = NewError("no connection", KErrNoConnection)
	ErrBusy            = NewError("busy", KErrBusy)
	ErrClosed          = NewError("connection closed", KErrClosed)
	ErrPayloadTooLarge = NewError("payload too large", KErrPayloadTooLarge)
)

type Error struct {
	what  string
	errno uint32
	cause error
}

func NewError(what string, errno uint32) *Error {
	return &Error{what: what, errno: errno}
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{what: e.what, errno: e.errno, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %s", e.what, e.errno, e.cause)
	}
	return fmt.Sprintf("%s (%d)", e.what, e.errno)
}

func (e *Error) ErrNo() uint32 {
	return e.errno
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.errno == e.errno
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
