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

package errors

import (
	"io"
	"testing"
)

func TestWrapKeepsIdentity(t *testing.T) {
	err := ErrClosed.Wrap(io.EOF)
	if !Is(err, ErrClosed) {
		t.Error("wrapped error does not match ErrClosed")
	}
	if !Is(err, io.EOF) {
		t.Error("cause not reachable")
	}
	if Is(err, ErrBusy) {
		t.Error("matched a different errno")
	}
	if err.ErrNo() != KErrClosed {
		t.Errorf("errno %d", err.ErrNo())
	}
	if s := err.Error(); s != "connection closed (3): EOF" {
		t.Errorf("unexpected message %q", s)
	}
}
