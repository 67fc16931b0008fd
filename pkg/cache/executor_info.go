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

// ExecutorInfo is one worker process. Removed executors are kept so task
// attribution stays resolvable for the whole session. Cumulative task
// metrics are not stored here, they are computed from the tasks on read
// so replayed task-end corrections can never make them drift.
type ExecutorInfo struct {
	ExecutorID    string
	Host          string
	TotalCores    int
	MaxMemory     *int64
	AddTime       *int64
	RemoveTime    *int64
	RemovedReason *string

	stateMachine *fsm.FSM
}

func NewExecutorInfo(executorID string) *ExecutorInfo {
	return &ExecutorInfo{
		ExecutorID:   executorID,
		stateMachine: newExecutorState(),
	}
}

func (e *ExecutorInfo) CurrentState() string {
	return e.stateMachine.Current()
}

func (e *ExecutorInfo) HandleExecutorEvent(event ExecutorEvent) error {
	return e.stateMachine.Event(event.String(), e.ExecutorID)
}
