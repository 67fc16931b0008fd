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

type TaskDAOInfo struct {
	TaskID         int64  `json:"taskID"`
	Index          int    `json:"index"`
	Attempt        int    `json:"attempt"`
	PartitionID    int    `json:"partitionID"`
	StageID        int    `json:"stageID"`
	StageAttemptID int    `json:"stageAttemptID"`
	ExecutorID     string `json:"executorID"`
	Host           string `json:"host"`
	Locality       string `json:"locality,omitempty"`
	Speculative    bool   `json:"speculative"`
	Status         string `json:"status"`
	LaunchTime     int64  `json:"launchTime"`
	FinishTime     *int64 `json:"finishTime,omitempty"`
	Duration       string `json:"duration,omitempty"`
	FailureReason  string `json:"failureReason,omitempty"`

	// flat metric columns for a task table, empty when never reported
	ExecutorRunTime string `json:"executorRunTime,omitempty"`
	JVMGCTime       string `json:"jvmGcTime,omitempty"`
	InputBytes      string `json:"inputBytes,omitempty"`
	OutputBytes     string `json:"outputBytes,omitempty"`
	ShuffleRead     string `json:"shuffleRead,omitempty"`
	ShuffleWrite    string `json:"shuffleWrite,omitempty"`
	MemorySpilled   string `json:"memorySpilled,omitempty"`
	DiskSpilled     string `json:"diskSpilled,omitempty"`
}
