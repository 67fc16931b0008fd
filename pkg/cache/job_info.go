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

// JobInfo holds one job of the application. Jobs reference the stages they
// own by identifier only; the stage objects live in the Store.
type JobInfo struct {
	JobID          int
	Name           string
	SubmissionTime *int64
	CompletionTime *int64
	FailureReason  *string

	stageIDs     []int
	stateMachine *fsm.FSM
}

func NewJobInfo(jobID int) *JobInfo {
	return &JobInfo{
		JobID:        jobID,
		Name:         fmt.Sprintf("Job %d", jobID),
		stateMachine: newJobState(),
	}
}

func (j *JobInfo) CurrentState() string {
	return j.stateMachine.Current()
}

func (j *JobInfo) HandleJobEvent(event JobEvent) error {
	return j.stateMachine.Event(event.String(), j.JobID)
}

// AddStageID records ownership of a stage identifier, keeping first-seen
// order and dropping duplicates.
func (j *JobInfo) AddStageID(stageID int) {
	for _, id := range j.stageIDs {
		if id == stageID {
			return
		}
	}
	j.stageIDs = append(j.stageIDs, stageID)
}

func (j *JobInfo) StageIDs() []int {
	ids := make([]int, len(j.stageIDs))
	copy(ids, j.stageIDs)
	return ids
}
