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
package dao

// DiagnosticsDAOInfo reports the tally of the load run backing the
// current state, lines skipped and anomalies included.
type DiagnosticsDAOInfo struct {
	SessionID    string `json:"sessionID"`
	LinesRead    int64  `json:"linesRead"`
	Decoded      int64  `json:"decoded"`
	Malformed    int64  `json:"malformed"`
	Unrecognized int64  `json:"unrecognized"`
	Skipped      int64  `json:"skipped"`
	Anomalies    int64  `json:"anomalies"`
	Completed    bool   `json:"completed"`
}
