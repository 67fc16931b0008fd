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
	"testing"

	"gotest.tools/v3/assert"

	"github.com/sparkview/sparkview-core/pkg/cache"
	"github.com/sparkview/sparkview-core/pkg/events"
)

func newTestCorrelator() (*Correlator, *cache.Store, *Diagnostics) {
	store := cache.NewStore()
	diags := &Diagnostics{}
	return NewCorrelator(store, nil, diags), store, diags
}

func i64(v int64) *int64 { return &v }
func str(v string) *string { return &v }

func appStart(id string) *events.ApplicationStart {
	return &events.ApplicationStart{AppID: id, AppName: "app", Timestamp: 1000, User: "spark", SparkVersion: "3.5.0"}
}

func taskStart(taskID int64, stageID, attempt int, exec string, launch int64) *events.TaskStart {
	return &events.TaskStart{
		StageID:        stageID,
		StageAttemptID: attempt,
		TaskInfo: events.TaskInfoRecord{
			TaskID:     taskID,
			LaunchTime: launch,
			ExecutorID: exec,
			Host:       "worker-" + exec,
		},
	}
}

func taskEnd(taskID int64, stageID, attempt int, exec string, launch, finish int64, reason string, m *events.TaskMetricsRecord) *events.TaskEnd {
	return &events.TaskEnd{
		StageID:        stageID,
		StageAttemptID: attempt,
		TaskEndReason:  &events.TaskEndReasonRecord{Reason: reason},
		TaskInfo: events.TaskInfoRecord{
			TaskID:     taskID,
			LaunchTime: launch,
			ExecutorID: exec,
			FinishTime: i64(finish),
		},
		TaskMetrics: m,
	}
}

func TestSuccessfulRun(t *testing.T) {
	c, store, diags := newTestCorrelator()

	c.Apply(appStart("app-1"))
	c.Apply(&events.JobStart{JobID: 0, SubmissionTime: i64(1100), StageIDs: []int{0}})
	c.Apply(&events.StageSubmitted{StageInfo: events.StageInfoRecord{
		StageID: 0, StageAttemptID: 0, StageName: "collect", NumberOfTasks: 2, SubmissionTime: i64(1200),
	}})
	c.Apply(taskStart(0, 0, 0, "1", 1300))
	c.Apply(taskStart(1, 0, 0, "1", 1310))
	c.Apply(taskEnd(0, 0, 0, "1", 1300, 1400, "Success", nil))
	c.Apply(taskEnd(1, 0, 0, "1", 1310, 1450, "Success", nil))
	c.Apply(&events.StageCompleted{StageInfo: events.StageInfoRecord{
		StageID: 0, StageAttemptID: 0, NumberOfTasks: 2, CompletionTime: i64(1500),
	}})
	c.Apply(&events.JobEnd{JobID: 0, CompletionTime: i64(1600), JobResult: &events.JobResult{Result: "JobSucceeded"}})
	c.Apply(&events.ApplicationEnd{Timestamp: 1700})

	assert.Equal(t, "Finished", store.Application().CurrentState())
	assert.Equal(t, "Succeeded", store.GetJob(0).CurrentState())
	stage := store.GetStage(0, 0)
	assert.Equal(t, "Complete", stage.CurrentState())
	agg := store.StageAggregate(0, 0)
	assert.Equal(t, 2, agg.TaskCounts.Success)
	assert.Equal(t, 0, agg.TaskCounts.Failed)
	assert.Equal(t, int64(0), diags.Anomalies)
}

func TestFailedRun(t *testing.T) {
	c, store, _ := newTestCorrelator()

	c.Apply(appStart("app-1"))
	c.Apply(&events.JobStart{JobID: 0, SubmissionTime: i64(1100), StageIDs: []int{0}})
	c.Apply(&events.StageSubmitted{StageInfo: events.StageInfoRecord{
		StageID: 0, StageAttemptID: 0, NumberOfTasks: 2, SubmissionTime: i64(1200),
	}})
	c.Apply(taskStart(0, 0, 0, "1", 1300))
	c.Apply(taskStart(1, 0, 0, "1", 1310))
	c.Apply(taskEnd(0, 0, 0, "1", 1300, 1400, "Success", nil))
	oom := &events.TaskEnd{
		StageID: 0, StageAttemptID: 0,
		TaskEndReason: &events.TaskEndReasonRecord{
			Reason:  "ExceptionFailure",
			Message: str("java.lang.OutOfMemoryError: Java heap space"),
		},
		TaskInfo: events.TaskInfoRecord{TaskID: 1, LaunchTime: 1310, ExecutorID: "1", FinishTime: i64(1500)},
	}
	c.Apply(oom)
	c.Apply(&events.StageCompleted{StageInfo: events.StageInfoRecord{
		StageID: 0, StageAttemptID: 0, CompletionTime: i64(1500),
		FailureReason: str("Job aborted due to stage failure"),
	}})
	c.Apply(&events.JobEnd{JobID: 0, CompletionTime: i64(1600), JobResult: &events.JobResult{Result: "JobFailed"}})

	task := store.GetTask(1)
	assert.Equal(t, "Failed", task.CurrentState())
	assert.Equal(t, "ExceptionFailure: java.lang.OutOfMemoryError: Java heap space", *task.FailureReason)
	stage := store.GetStage(0, 0)
	assert.Equal(t, "Failed", stage.CurrentState())
	assert.Equal(t, "Job aborted due to stage failure", *stage.FailureReason)
	job := store.GetJob(0)
	assert.Equal(t, "Failed", job.CurrentState())
	assert.Equal(t, "JobFailed", *job.FailureReason)
}

func TestTaskCountMatchesTaskStarts(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(appStart("app-1"))
	// task events before any stage event: the stage is created pending
	for id := int64(0); id < 5; id++ {
		c.Apply(taskStart(id, 2, 0, "1", 1000+id))
	}
	stage := store.GetStage(2, 0)
	assert.Assert(t, stage != nil, "stage must be created on first task reference")
	assert.Equal(t, "Pending", stage.CurrentState())
	assert.Equal(t, 5, len(stage.TaskIDs()))
	assert.Equal(t, 5, len(store.TasksForStage(2, 0)))
}

func TestTaskEndReplayIsIdempotent(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(appStart("app-1"))
	c.Apply(taskStart(0, 0, 0, "1", 1000))

	end := taskEnd(0, 0, 0, "1", 1000, 2000, "Success", &events.TaskMetricsRecord{
		ExecutorRunTime:    900,
		MemoryBytesSpilled: 64,
	})
	c.Apply(end)
	first := store.Snapshot()
	c.Apply(end)
	second := store.Snapshot()

	assert.DeepEqual(t, first.Tasks, second.Tasks)
	assert.DeepEqual(t, first.Stages, second.Stages)
	assert.DeepEqual(t, first.Executors, second.Executors)

	// a different replay is a correction that overwrites wholesale
	c.Apply(taskEnd(0, 0, 0, "1", 1000, 2000, "Success", &events.TaskMetricsRecord{ExecutorRunTime: 1}))
	task := store.GetTask(0)
	assert.Equal(t, int64(1), task.Metrics.ExecutorRunTime)
	assert.Equal(t, int64(0), task.Metrics.MemoryBytesSpilled)
}

func TestSupersededStageAttemptSkipped(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(appStart("app-1"))
	c.Apply(&events.StageSubmitted{StageInfo: events.StageInfoRecord{StageID: 1, StageAttemptID: 0}})
	// attempt 0 never completes, attempt 1 supersedes it
	c.Apply(&events.StageSubmitted{StageInfo: events.StageInfoRecord{StageID: 1, StageAttemptID: 1}})

	assert.Equal(t, "Skipped", store.GetStage(1, 0).CurrentState())
	assert.Equal(t, "Active", store.GetStage(1, 1).CurrentState())

	// an attempt that did complete is left alone by later attempts
	c.Apply(&events.StageCompleted{StageInfo: events.StageInfoRecord{StageID: 1, StageAttemptID: 1}})
	c.Apply(&events.StageSubmitted{StageInfo: events.StageInfoRecord{StageID: 1, StageAttemptID: 2}})
	assert.Equal(t, "Complete", store.GetStage(1, 1).CurrentState())
}

func TestExecutorRemovedNeverAdded(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(appStart("app-1"))
	c.Apply(&events.ExecutorRemoved{Timestamp: 5000, ExecutorID: "9", RemovedReason: "Container preempted"})

	exec := store.GetExecutor("9")
	assert.Assert(t, exec != nil, "removal must create the executor")
	assert.Equal(t, "Removed", exec.CurrentState())
	assert.Equal(t, "", exec.Host, "host stays unknown")
	assert.Equal(t, 0, exec.TotalCores)
	assert.Equal(t, "Container preempted", *exec.RemovedReason)
	assert.Equal(t, int64(5000), *exec.RemoveTime)
}

func TestExecutorPlaceholderFromTask(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(appStart("app-1"))
	c.Apply(taskStart(0, 0, 0, "7", 1000))

	exec := store.GetExecutor("7")
	assert.Assert(t, exec != nil, "task must create its executor")
	assert.Equal(t, "Active", exec.CurrentState())
	assert.Equal(t, "worker-7", exec.Host, "host learned from the task record")
}

func TestDuplicateApplicationStart(t *testing.T) {
	c, store, diags := newTestCorrelator()
	c.Apply(appStart("app-1"))
	c.Apply(appStart("app-2"))

	assert.Equal(t, "app-1", store.Application().ApplicationID, "first application context wins")
	assert.Equal(t, int64(1), diags.Anomalies)
}

func TestApplicationEndBeforeStart(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(&events.ApplicationEnd{Timestamp: 9000})

	app := store.Application()
	assert.Assert(t, app != nil, "end event must finalize a placeholder")
	assert.Equal(t, "Finished", app.CurrentState())
	assert.Equal(t, int64(9000), *app.EndTime)
	assert.Assert(t, app.StartTime == nil, "start stays unknown")

	// the late start fills in the identity
	c.Apply(appStart("app-1"))
	assert.Equal(t, "app-1", app.ApplicationID)
	assert.Equal(t, int64(1000), *app.StartTime)
	assert.Equal(t, "Finished", app.CurrentState())
}

func TestJobEndBeforeJobStart(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(appStart("app-1"))
	c.Apply(&events.JobEnd{JobID: 3, CompletionTime: i64(2000), JobResult: &events.JobResult{Result: "JobSucceeded"}})

	job := store.GetJob(3)
	assert.Assert(t, job != nil, "job-end must create a placeholder job")
	assert.Equal(t, "Succeeded", job.CurrentState())
	assert.Assert(t, job.SubmissionTime == nil)
}

func TestEnvironmentUpdateLastWins(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(&events.EnvironmentUpdate{
		SparkProperties:  map[string]string{"spark.master": "local", "spark.executor.memory": "1g"},
		SystemProperties: map[string]string{"java.version": "17"},
	})
	c.Apply(&events.EnvironmentUpdate{
		SparkProperties: map[string]string{"spark.master": "yarn"},
	})

	env := store.Environment()
	spark := env.Category(cache.CategorySpark)
	assert.Equal(t, 1, len(spark))
	assert.Equal(t, "yarn", spark[0].Value)
	assert.Equal(t, 1, len(env.Category(cache.CategorySystem)), "category not re-sent is retained")
}

func TestJobOwnsStagesFromStageInfos(t *testing.T) {
	c, store, _ := newTestCorrelator()
	c.Apply(appStart("app-1"))
	c.Apply(&events.JobStart{JobID: 1, StageInfos: []events.StageInfoRecord{{StageID: 4}, {StageID: 5}}})
	assert.DeepEqual(t, []int{4, 5}, store.GetJob(1).StageIDs())
}
