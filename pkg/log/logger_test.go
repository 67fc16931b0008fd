/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package log

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gotest.tools/v3/assert"
)

func TestIsNopLogger(t *testing.T) {
	assert.Assert(t, isNopLogger(zap.NewNop()), "nop logger not detected")
	l, err := zap.NewDevelopment()
	assert.NilError(t, err, "dev logger creation failed")
	assert.Assert(t, !isNopLogger(l), "dev logger misdetected as nop")
}

func TestLoggerLevel(t *testing.T) {
	assert.Assert(t, Logger() != nil, "no logger returned")
	InitAndSetLevel(zapcore.DebugLevel)
	assert.Assert(t, IsDebugEnabled(), "debug level was not applied")
	InitAndSetLevel(zapcore.InfoLevel)
	assert.Assert(t, !IsDebugEnabled(), "info level was not applied")
}
