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
	"go.uber.org/zap"

	"github.com/sparkview/sparkview-core/pkg/log"
)

// ----------------------------------
// application events
// ----------------------------------
type ApplicationEvent int

const (
	RunApplication ApplicationEvent = iota
	FinishApplication
)

func (ae ApplicationEvent) String() string {
	return [...]string{"RunApplication", "FinishApplication"}[ae]
}

// ----------------------------------
// application states
// ----------------------------------
type ApplicationState int

const (
	ApplicationRunning ApplicationState = iota
	ApplicationFinished
)

func (as ApplicationState) String() string {
	return [...]string{"Running", "Finished"}[as]
}

func newApplicationState() *fsm.FSM {
	return fsm.NewFSM(
		ApplicationRunning.String(), fsm.Events{
			{
				Name: RunApplication.String(),
				Src:  []string{ApplicationRunning.String()},
				Dst:  ApplicationRunning.String(),
			}, {
				Name: FinishApplication.String(),
				Src:  []string{ApplicationRunning.String()},
				Dst:  ApplicationFinished.String(),
			},
		},
		fsm.Callbacks{
			"enter_state": func(event *fsm.Event) {
				log.Logger().Debug("application state transition",
					zap.Any("applicationID", event.Args[0]),
					zap.String("source", event.Src),
					zap.String("destination", event.Dst),
					zap.String("event", event.Event))
			},
		},
	)
}

// ----------------------------------
// job events and states
// ----------------------------------
type JobEvent int

const (
	SucceedJob JobEvent = iota
	FailJob
)

func (je JobEvent) String() string {
	return [...]string{"SucceedJob", "FailJob"}[je]
}

type JobState int

const (
	JobRunning JobState = iota
	JobSucceeded
	JobFailed
)

func (js JobState) String() string {
	return [...]string{"Running", "Succeeded", "Failed"}[js]
}

func newJobState() *fsm.FSM {
	return fsm.NewFSM(
		JobRunning.String(), fsm.Events{
			{
				Name: SucceedJob.String(),
				Src:  []string{JobRunning.String()},
				Dst:  JobSucceeded.String(),
			}, {
				Name: FailJob.String(),
				Src:  []string{JobRunning.String()},
				Dst:  JobFailed.String(),
			},
		},
		fsm.Callbacks{
			"enter_state": func(event *fsm.Event) {
				log.Logger().Debug("job state transition",
					zap.Any("jobID", event.Args[0]),
					zap.String("source", event.Src),
					zap.String("destination", event.Dst),
					zap.String("event", event.Event))
			},
		},
	)
}

// ----------------------------------
// stage attempt events and states
// ----------------------------------
type StageEvent int

const (
	SubmitStage StageEvent = iota
	CompleteStage
	FailStage
	SkipStage
)

func (se StageEvent) String() string {
	return [...]string{"SubmitStage", "CompleteStage", "FailStage", "SkipStage"}[se]
}

type StageState int

const (
	StagePending StageState = iota
	StageActive
	StageComplete
	StageFailed
	StageSkipped
)

func (ss StageState) String() string {
	return [...]string{"Pending", "Active", "Complete", "Failed", "Skipped"}[ss]
}

func newStageState() *fsm.FSM {
	return fsm.NewFSM(
		StagePending.String(), fsm.Events{
			{
				Name: SubmitStage.String(),
				Src:  []string{StagePending.String(), StageActive.String()},
				Dst:  StageActive.String(),
			}, {
				// completion without a preceding submit happens in
				// truncated logs, the attempt goes terminal either way
				Name: CompleteStage.String(),
				Src:  []string{StagePending.String(), StageActive.String()},
				Dst:  StageComplete.String(),
			}, {
				Name: FailStage.String(),
				Src:  []string{StagePending.String(), StageActive.String()},
				Dst:  StageFailed.String(),
			}, {
				Name: SkipStage.String(),
				Src:  []string{StagePending.String(), StageActive.String()},
				Dst:  StageSkipped.String(),
			},
		},
		fsm.Callbacks{
			"enter_state": func(event *fsm.Event) {
				log.Logger().Debug("stage state transition",
					zap.Any("stage", event.Args[0]),
					zap.String("source", event.Src),
					zap.String("destination", event.Dst),
					zap.String("event", event.Event))
			},
		},
	)
}

// ----------------------------------
// task attempt events and states
// ----------------------------------
type TaskEvent int

const (
	SucceedTask TaskEvent = iota
	FailTask
	KillTask
)

func (te TaskEvent) String() string {
	return [...]string{"SucceedTask", "FailTask", "KillTask"}[te]
}

type TaskState int

const (
	TaskRunning TaskState = iota
	TaskSuccess
	TaskFailed
	TaskKilled
)

func (ts TaskState) String() string {
	return [...]string{"Running", "Success", "Failed", "Killed"}[ts]
}

/// Terminal events accept terminal sources: a replayed task-end is a
// correction and overwrites the earlier outcome.
func newTaskState() *fsm.FSM {
	anyTaskState := []string{
		TaskRunning.String(),
		TaskSuccess.String(),
		TaskFailed.String(),
		TaskKilled.String(),
	}
	return fsm.NewFSM(
		TaskRunning.String(), fsm.Events{
			{
				Name: SucceedTask.String(),
				Src:  anyTaskState,
				Dst:  TaskSuccess.String(),
			}, {
				Name: FailTask.String(),
				Src:  anyTaskState,
				Dst:  TaskFailed.String(),
			}, {
				Name: KillTask.String(),
				Src:  anyTaskState,
				Dst:  TaskKilled.String(),
			},
		},
		fsm.Callbacks{
			"enter_state": func(event *fsm.Event) {
				log.Logger().Debug("task state transition",
					zap.Any("taskID", event.Args[0]),
					zap.String("source", event.Src),
					zap.String("destination", event.Dst),
					zap.String("event", event.Event))
			},
		},
	)
}

// ----------------------------------
// executor events and states
// ----------------------------------
type ExecutorEvent int

const (
	RemoveExecutor ExecutorEvent = iota
)

func (ee ExecutorEvent) String() string {
	return [...]string{"RemoveExecutor"}[ee]
}

type ExecutorState int

const (
	ExecutorActive ExecutorState = iota
	ExecutorRemoved
)

func (es ExecutorState) String() string {
	return [...]string{"Active", "Removed"}[es]
}

func newExecutorState() *fsm.FSM {
	return fsm.NewFSM(
		ExecutorActive.String(), fsm.Events{
			{
				Name: RemoveExecutor.String(),
				Src:  []string{ExecutorActive.String()},
				Dst:  ExecutorRemoved.String(),
			},
		},
		fsm.Callbacks{
			"enter_state": func(event *fsm.Event) {
				log.Logger().Debug("executor state transition",
					zap.Any("executorID", event.Args[0]),
					zap.String("source", event.Src),
					zap.String("destination", event.Dst),
					zap.String("event", event.Event))
			},
		},
	)
}
