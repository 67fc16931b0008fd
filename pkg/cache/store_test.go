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
	"testing"

	"gotest.tools/v3/assert"
)

func TestStoreApplicationUniqueness(t *testing.T) {
	store := NewStore()
	assert.Assert(t, store.Application() == nil, "empty store must not fabricate an application")

	app := NewApplicationInfo("app-1")
	assert.NilError(t, store.SetApplication(app))
	// setting the same object again is a no-op
	assert.NilError(t, store.SetApplication(app))

	err := store.SetApplication(NewApplicationInfo("app-2"))
	assert.Assert(t, err != nil, "second application must be rejected")
	assert.Equal(t, "app-1", store.Application().ApplicationID)
}

func TestStoreJobSubmissionOrder(t *testing.T) {
	store := NewStore()
	for _, id := range []int{2, 0, 1} {
		assert.NilError(t, store.AddJob(NewJobInfo(id)))
	}
	err := store.AddJob(NewJobInfo(2))
	assert.Assert(t, err != nil, "duplicate job must be rejected")

	jobs := store.Jobs()
	assert.Equal(t, 3, len(jobs))
	// submission order, not id order
	assert.Equal(t, 2, jobs[0].JobID)
	assert.Equal(t, 0, jobs[1].JobID)
	assert.Equal(t, 1, jobs[2].JobID)
	assert.Assert(t, store.GetJob(5) == nil, "lookup of unknown job must return nil")
}

func TestStoreStageAttemptOrdering(t *testing.T) {
	store := NewStore()
	assert.NilError(t, store.AddStage(NewStageInfo(1, 1)))
	assert.NilError(t, store.AddStage(NewStageInfo(0, 0)))
	assert.NilError(t, store.AddStage(NewStageInfo(1, 0)))
	err := store.AddStage(NewStageInfo(1, 1))
	assert.Assert(t, err != nil, "duplicate stage attempt must be rejected")

	stages := store.Stages()
	assert.Equal(t, 3, len(stages))
	assert.Equal(t, 0, stages[0].StageID)
	assert.Equal(t, 1, stages[1].StageID)
	assert.Equal(t, 0, stages[1].AttemptID)
	assert.Equal(t, 1, stages[2].AttemptID)

	attempts := store.StageAttempts(1)
	assert.Equal(t, 2, len(attempts))
	assert.Equal(t, 0, attempts[0].AttemptID)
	assert.Equal(t, 1, attempts[1].AttemptID)
}

func TestStoreTaskLaunchOrder(t *testing.T) {
	store := NewStore()
	mkTask := func(id int64, launch int64) *TaskInfo {
		task := NewTaskInfo(id)
		task.LaunchTime = launch
		task.StageID = 0
		return task
	}
	assert.NilError(t, store.AddTask(mkTask(5, 300)))
	assert.NilError(t, store.AddTask(mkTask(3, 100)))
	assert.NilError(t, store.AddTask(mkTask(4, 100)))

	tasks := store.Tasks()
	assert.Equal(t, 3, len(tasks))
	assert.Equal(t, int64(3), tasks[0].TaskID, "ties on launch time break by task id")
	assert.Equal(t, int64(4), tasks[1].TaskID)
	assert.Equal(t, int64(5), tasks[2].TaskID)

	// a corrected launch time must reorder the index
	task := store.GetTask(5)
	old := task.LaunchTime
	task.LaunchTime = 50
	store.ReindexTask(task, old)
	tasks = store.Tasks()
	assert.Equal(t, int64(5), tasks[0].TaskID, "reindexed task not reordered")
}

func TestStoreTasksForStage(t *testing.T) {
	store := NewStore()
	for i := int64(0); i < 4; i++ {
		task := NewTaskInfo(i)
		task.LaunchTime = 1000 + i
		task.StageID = int(i % 2)
		assert.NilError(t, store.AddTask(task))
	}
	stage0 := store.TasksForStage(0, 0)
	assert.Equal(t, 2, len(stage0))
	assert.Equal(t, int64(0), stage0[0].TaskID)
	assert.Equal(t, int64(2), stage0[1].TaskID)
	assert.Equal(t, 0, len(store.TasksForStage(7, 0)))
}

func TestStoreExecutorsKeptAfterRemoval(t *testing.T) {
	store := NewStore()
	ex := NewExecutorInfo("1")
	assert.NilError(t, store.AddExecutor(ex))
	assert.NilError(t, store.AddExecutor(NewExecutorInfo("2")))
	err := store.AddExecutor(NewExecutorInfo("1"))
	assert.Assert(t, err != nil, "duplicate executor must be rejected")

	assert.NilError(t, ex.HandleExecutorEvent(RemoveExecutor))
	execs := store.Executors()
	assert.Equal(t, 2, len(execs), "removed executor must stay visible")
	assert.Equal(t, ExecutorRemoved.String(), execs[0].CurrentState())
	assert.Equal(t, "1", execs[0].ExecutorID, "executors keep add order")
}

func TestEnvironmentLastWinsPerCategory(t *testing.T) {
	store := NewStore()
	store.SetEnvironmentCategory(CategorySpark, map[string]string{"spark.master": "local", "spark.app.name": "a"})
	store.SetEnvironmentCategory(CategorySystem, map[string]string{"java.version": "17"})
	// second update overwrites spark wholesale, system is not re-sent
	store.SetEnvironmentCategory(CategorySpark, map[string]string{"spark.master": "yarn"})

	env := store.Environment()
	spark := env.Category(CategorySpark)
	assert.Equal(t, 1, len(spark))
	assert.Equal(t, "spark.master", spark[0].Name)
	assert.Equal(t, "yarn", spark[0].Value)
	system := env.Category(CategorySystem)
	assert.Equal(t, 1, len(system), "category not re-sent must be retained")
}

func TestObjectStateTransitions(t *testing.T) {
	app := NewApplicationInfo("app-1")
	assert.Equal(t, ApplicationRunning.String(), app.CurrentState())
	assert.NilError(t, app.HandleApplicationEvent(FinishApplication))
	assert.Equal(t, ApplicationFinished.String(), app.CurrentState())
	err := app.HandleApplicationEvent(FinishApplication)
	assert.Assert(t, err != nil, "finished application cannot finish again")

	job := NewJobInfo(0)
	assert.Equal(t, JobRunning.String(), job.CurrentState())
	assert.NilError(t, job.HandleJobEvent(FailJob))
	assert.Equal(t, JobFailed.String(), job.CurrentState())

	stage := NewStageInfo(0, 0)
	assert.Equal(t, StagePending.String(), stage.CurrentState())
	assert.NilError(t, stage.HandleStageEvent(SubmitStage))
	assert.Equal(t, StageActive.String(), stage.CurrentState())
	assert.NilError(t, stage.HandleStageEvent(CompleteStage))
	err = stage.HandleStageEvent(SkipStage)
	assert.Assert(t, err != nil, "completed stage cannot be skipped")

	// pending stage completes directly when the submit was lost
	stage = NewStageInfo(1, 0)
	assert.NilError(t, stage.HandleStageEvent(FailStage))
	assert.Equal(t, StageFailed.String(), stage.CurrentState())
}

func TestTaskStateCorrections(t *testing.T) {
	task := NewTaskInfo(1)
	assert.Equal(t, TaskRunning.String(), task.CurrentState())
	assert.NilError(t, task.HandleTaskEvent(SucceedTask))
	// replayed terminal event is a correction, not an error
	assert.NilError(t, task.HandleTaskEvent(FailTask))
	assert.Equal(t, TaskFailed.String(), task.CurrentState())
	assert.NilError(t, task.HandleTaskEvent(KillTask))
	assert.Equal(t, TaskKilled.String(), task.CurrentState())
}

func TestJobStageOwnershipDeduplicated(t *testing.T) {
	job := NewJobInfo(0)
	job.AddStageID(1)
	job.AddStageID(2)
	job.AddStageID(1)
	assert.DeepEqual(t, []int{1, 2}, job.StageIDs())

	stage := NewStageInfo(1, 0)
	stage.AddTaskID(10)
	stage.AddTaskID(10)
	stage.AddTaskID(11)
	assert.DeepEqual(t, []int64{10, 11}, stage.TaskIDs())
}
