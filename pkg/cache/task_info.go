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

package cache

import (
	"github.com/looplab/fsm"
)

// TaskInfo is one task attempt. It belongs to exactly one stage attempt
// and exactly one executor, both referenced by identifier.
type TaskInfo struct {
	TaskID         int64
	Attempt        int
	Index          int
	PartitionID    int
	StageID        int
	StageAttemptID int
	ExecutorID     string
	Host           string
	Locality       string
	Speculative    bool
	LaunchTime     int64
	FinishTime     *int64
	FailureReason  *string
	Metrics        *TaskMetrics // nil until reported by a task-end event

	stateMachine *fsm.FSM
}

func NewTaskInfo(taskID int64) *TaskInfo {
	return &TaskInfo{
		TaskID:       taskID,
		stateMachine: newTaskState(),
	}
}

func (t *TaskInfo) CurrentState() string {
	return t.stateMachine.Current()
}

func (t *TaskInfo) HandleTaskEvent(event TaskEvent) error {
	return t.stateMachine.Event(event.String(), t.TaskID)
}

// Duration returns the task wall time in ms and whether it is known.
func (t *TaskInfo) Duration() (int64, bool) {
	if t.FinishTime == nil || t.LaunchTime == 0 {
		return 0, false
	}
	d := *t.FinishTime - t.LaunchTime
	if d < 0 {
		return 0, false
	}
	return d, true
}

// TaskMetrics is the metrics bundle reported on task-end. A later report
// for the same attempt replaces the bundle wholesale.
type TaskMetrics struct {
	ExecutorDeserializeTime int64
	ExecutorRunTime         int64
	ExecutorCPUTime         int64
	ResultSize              int64
	JVMGCTime               int64
	ResultSerializationTime int64
	MemoryBytesSpilled      int64
	DiskBytesSpilled        int64
	PeakExecutionMemory     int64
	Input                   *InputMetrics
	Output                  *OutputMetrics
	ShuffleRead             *ShuffleReadMetrics
	ShuffleWrite            *ShuffleWriteMetrics
}

type InputMetrics struct {
	BytesRead   int64
	RecordsRead int64
}

type OutputMetrics struct {
	BytesWritten   int64
	RecordsWritten int64
}

type ShuffleReadMetrics struct {
	RemoteBlocksFetched int64
	LocalBlocksFetched  int64
	FetchWaitTime       int64
	RemoteBytesRead     int64
	LocalBytesRead      int64
	RecordsRead         int64
}

type ShuffleWriteMetrics struct {
	BytesWritten   int64
	WriteTime      int64
	RecordsWritten int64
}
