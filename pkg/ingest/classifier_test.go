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

package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/sparkview/sparkview-core/pkg/cache"
)

func TestClassifierDefaults(t *testing.T) {
	rc := NewReasonClassifier()
	tests := []struct {
		reason string
		want   cache.TaskEvent
	}{
		{"Success", cache.SucceedTask},
		{"TaskKilled: another attempt succeeded", cache.KillTask},
		{"TaskCommitDenied", cache.KillTask},
		{"ExceptionFailure: java.lang.OutOfMemoryError: Java heap space", cache.FailTask},
		{"FetchFailed: BlockManagerId(1, worker-1, 7337)", cache.FailTask},
		{"ExecutorLostFailure: executor 3 lost", cache.FailTask},
		{"SomeBrandNewReason", cache.FailTask},
		// "Success" must be an exact match, not a substring
		{"Successor", cache.FailTask},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, rc.Classify(tc.reason), "reason %q", tc.reason)
	}
}

func TestClassifierFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
rules:
  - contains: OutOfMemoryError
    outcome: killed
  - contains: Denied
    outcome: failed
`
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o600))
	rc, err := LoadReasonClassifier(path)
	assert.NilError(t, err, "loading rules failed")
	assert.Equal(t, cache.KillTask, rc.Classify("java.lang.OutOfMemoryError"))
	assert.Equal(t, cache.FailTask, rc.Classify("TaskCommitDenied"), "file replaces defaults wholesale")
	assert.Equal(t, cache.SucceedTask, rc.Classify("Success"))
}

func TestClassifierBadConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadReasonClassifier(filepath.Join(dir, "missing.yaml"))
	assert.Assert(t, err != nil, "missing file must fail")

	bad := filepath.Join(dir, "bad.yaml")
	assert.NilError(t, os.WriteFile(bad, []byte("rules:\n  - contains: x\n    outcome: exploded\n"), 0o600))
	_, err = LoadReasonClassifier(bad)
	assert.Assert(t, err != nil, "unknown outcome must fail")

	empty := filepath.Join(dir, "empty.yaml")
	assert.NilError(t, os.WriteFile(empty, []byte("rules: []\n"), 0o600))
	_, err = LoadReasonClassifier(empty)
	assert.Assert(t, err != nil, "empty rule table must fail")
}
