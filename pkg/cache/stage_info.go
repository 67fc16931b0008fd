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
	"fmt"

	"github.com/looplab/fsm"
)

// StageInfo is one attempt of a stage. Retries of the same stage id are
// separate StageInfo objects ordered by attempt number.
type StageInfo struct {
	StageID        int
	AttemptID      int
	Name           string
	NumTasks       int // expected task count, 0 when never reported
	ParentIDs      []int
	RDDInfos       []RDDInfo
	Details        string
	SubmissionTime *int64
	CompletionTime *int64
	FailureReason  *string

	taskIDs      []int64
	stateMachine *fsm.FSM
}

// RDDInfo describes one RDD computed by a stage.
type RDDInfo struct {
	RDDID               int
	Name                string
	StorageLevel        string
	NumPartitions       int
	NumCachedPartitions int
	MemorySize          int64
	DiskSize            int64
}

func NewStageInfo(stageID, attemptID int) *StageInfo {
	return &StageInfo{
		StageID:      stageID,
		AttemptID:    attemptID,
		Name:         fmt.Sprintf("Stage %d", stageID),
		stateMachine: newStageState(),
	}
}

func (s *StageInfo) CurrentState() string {
	return s.stateMachine.Current()
}

func (s *StageInfo) HandleStageEvent(event StageEvent) error {
	return s.stateMachine.Event(event.String(), fmt.Sprintf("%d.%d", s.StageID, s.AttemptID))
}

// AddTaskID records a task attempt that ran in this stage attempt,
// first-seen order, duplicates dropped.
func (s *StageInfo) AddTaskID(taskID int64) {
	for _, id := range s.taskIDs {
		if id == taskID {
			return
		}
	}
	s.taskIDs = append(s.taskIDs, taskID)
}

func (s *StageInfo) TaskIDs() []int64 {
	ids := make([]int64, len(s.taskIDs))
	copy(ids, s.taskIDs)
	return ids
}
