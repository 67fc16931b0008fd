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
	"go.uber.org/zap"

	"github.com/sparkview/sparkview-core/pkg/cache"
	"github.com/sparkview/sparkview-core/pkg/events"
	"github.com/sparkview/sparkview-core/pkg/log"
	"github.com/sparkview/sparkview-core/pkg/metrics"
)

const jobSucceededResult = "JobSucceeded"

// Correlator routes decoded events into the store. Events referencing an
// unknown parent create it in placeholder form instead of being rejected:
// truncated or reordered logs must still reconstruct as much as possible.
// One event is applied to completion before the next starts.
type Correlator struct {
	store      *cache.Store
	classifier *ReasonClassifier
	diags      *Diagnostics
}

func NewCorrelator(store *cache.Store, classifier *ReasonClassifier, diags *Diagnostics) *Correlator {
	if classifier == nil {
		classifier = NewReasonClassifier()
	}
	return &Correlator{
		store:      store,
		classifier: classifier,
		diags:      diags,
	}
}

// Apply mutates the store with one event. Content-level anomalies are
// absorbed and tallied, never returned: the only caller-visible failures
// live in the loader's source handling.
func (c *Correlator) Apply(ev events.Event) {
	switch e := ev.(type) {
	case *events.ApplicationStart:
		c.applyApplicationStart(e)
	case *events.ApplicationEnd:
		c.applyApplicationEnd(e)
	case *events.JobStart:
		c.applyJobStart(e)
	case *events.JobEnd:
		c.applyJobEnd(e)
	case *events.StageSubmitted:
		c.applyStageSubmitted(e)
	case *events.StageCompleted:
		c.applyStageCompleted(e)
	case *events.TaskStart:
		c.applyTaskStart(e)
	case *events.TaskEnd:
		c.applyTaskEnd(e)
	case *events.ExecutorAdded:
		c.applyExecutorAdded(e)
	case *events.ExecutorRemoved:
		c.applyExecutorRemoved(e)
	case *events.EnvironmentUpdate:
		c.applyEnvironmentUpdate(e)
	}
}

func (c *Correlator) anomaly(msg string, fields ...zap.Field) {
	if c.diags != nil {
		c.diags.Anomalies++
	}
	metrics.SourceAnomalies.Inc()
	log.Logger().Warn(msg, fields...)
}

func (c *Correlator) applyApplicationStart(e *events.ApplicationStart) {
	app := c.store.Application()
	if app != nil && app.ApplicationID != "" {
		// identifiers are scoped to one application per stream; keep the
		// first context and flag the rest
		c.anomaly("duplicate application start, keeping first application",
			zap.String("kept", app.ApplicationID),
			zap.String("ignored", e.AppID))
		return
	}
	if app == nil {
		app = cache.NewApplicationInfo(e.AppID)
		if err := c.store.SetApplication(app); err != nil {
			c.anomaly("application could not be stored", zap.Error(err))
			return
		}
	}
	app.ApplicationID = e.AppID
	app.Name = e.AppName
	app.AttemptID = e.AppAttemptID
	app.User = e.User
	app.SparkVersion = e.SparkVersion
	ts := e.Timestamp
	app.StartTime = &ts
}

func (c *Correlator) applyApplicationEnd(e *events.ApplicationEnd) {
	app := c.store.Application()
	if app == nil {
		// end before start: finalize a placeholder with only the end known
		app = cache.NewApplicationInfo("")
		if err := c.store.SetApplication(app); err != nil {
			c.anomaly("application could not be stored", zap.Error(err))
			return
		}
	}
	ts := e.Timestamp
	app.EndTime = &ts
	if err := app.HandleApplicationEvent(cache.FinishApplication); err != nil {
		c.anomaly("application end replayed", zap.Error(err))
	}
}

func (c *Correlator) job(jobID int) *cache.JobInfo {
	job := c.store.GetJob(jobID)
	if job == nil {
		job = cache.NewJobInfo(jobID)
		if err := c.store.AddJob(job); err != nil {
			c.anomaly("job could not be stored", zap.Error(err))
		}
	}
	return job
}

// stage fetches or creates one stage attempt. A newly created attempt
// supersedes older attempts of the same stage id that never went terminal:
// they are reported skipped, never active.
func (c *Correlator) stage(stageID, attemptID int) *cache.StageInfo {
	stage := c.store.GetStage(stageID, attemptID)
	if stage != nil {
		return stage
	}
	for _, prev := range c.store.StageAttempts(stageID) {
		if prev.AttemptID >= attemptID {
			continue
		}
		switch prev.CurrentState() {
		case cache.StagePending.String(), cache.StageActive.String():
			if err := prev.HandleStageEvent(cache.SkipStage); err != nil {
				c.anomaly("superseded stage attempt could not be skipped", zap.Error(err))
			}
		}
	}
	stage = cache.NewStageInfo(stageID, attemptID)
	if err := c.store.AddStage(stage); err != nil {
		c.anomaly("stage could not be stored", zap.Error(err))
	}
	return stage
}

func (c *Correlator) executor(executorID string) *cache.ExecutorInfo {
	exec := c.store.GetExecutor(executorID)
	if exec == nil {
		// task events may reference executors the log never introduced
		exec = cache.NewExecutorInfo(executorID)
		if err := c.store.AddExecutor(exec); err != nil {
			c.anomaly("executor could not be stored", zap.Error(err))
		}
	}
	return exec
}

func (c *Correlator) applyJobStart(e *events.JobStart) {
	job := c.job(e.JobID)
	job.SubmissionTime = e.SubmissionTime
	stageIDs := e.StageIDs
	if len(stageIDs) == 0 {
		for _, si := range e.StageInfos {
			stageIDs = append(stageIDs, si.StageID)
		}
	}
	for _, id := range stageIDs {
		job.AddStageID(id)
	}
}

func (c *Correlator) applyJobEnd(e *events.JobEnd) {
	job := c.job(e.JobID)
	job.CompletionTime = e.CompletionTime
	result := e.ResultString()
	jobEvent := cache.FailJob
	if result == jobSucceededResult {
		jobEvent = cache.SucceedJob
	} else {
		reason := result
		if reason == "" {
			reason = "job result not reported"
		}
		job.FailureReason = &reason
	}
	if err := job.HandleJobEvent(jobEvent); err != nil {
		c.anomaly("job end replayed", zap.Int("jobID", e.JobID), zap.Error(err))
	}
}

func (c *Correlator) applyStageSubmitted(e *events.StageSubmitted) {
	rec := e.StageInfo
	stage := c.stage(rec.StageID, rec.StageAttemptID)
	fillStageInfo(stage, rec)
	if err := stage.HandleStageEvent(cache.SubmitStage); err != nil {
		c.anomaly("stage submitted after going terminal",
			zap.Int("stageID", rec.StageID),
			zap.Int("attemptID", rec.StageAttemptID),
			zap.Error(err))
	}
}

func (c *Correlator) applyStageCompleted(e *events.StageCompleted) {
	rec := e.StageInfo
	stage := c.stage(rec.StageID, rec.StageAttemptID)
	fillStageInfo(stage, rec)
	stage.CompletionTime = rec.CompletionTime
	stageEvent := cache.CompleteStage
	// presence of a failure reason is the completion/failure discriminator
	if rec.FailureReason != nil {
		stageEvent = cache.FailStage
	}
	if err := stage.HandleStageEvent(stageEvent); err != nil {
		c.anomaly("stage completion replayed",
			zap.Int("stageID", rec.StageID),
			zap.Int("attemptID", rec.StageAttemptID),
			zap.Error(err))
	}
}

// fillStageInfo copies descriptive fields from a stage record. Events
// carry the full description each time, later records refresh it.
func fillStageInfo(stage *cache.StageInfo, rec events.StageInfoRecord) {
	if rec.StageName != "" {
		stage.Name = rec.StageName
	}
	if rec.NumberOfTasks > 0 {
		stage.NumTasks = rec.NumberOfTasks
	}
	if rec.ParentIDs != nil {
		stage.ParentIDs = append([]int(nil), rec.ParentIDs...)
	}
	if rec.Details != "" {
		stage.Details = rec.Details
	}
	if rec.SubmissionTime != nil {
		stage.SubmissionTime = rec.SubmissionTime
	}
	if rec.FailureReason != nil {
		stage.FailureReason = rec.FailureReason
	}
	if len(rec.RDDInfos) > 0 {
		rdds := make([]cache.RDDInfo, 0, len(rec.RDDInfos))
		for _, r := range rec.RDDInfos {
			rdds = append(rdds, cache.RDDInfo{
				RDDID:               r.RDDID,
				Name:                r.Name,
				StorageLevel:        string(r.StorageLevel),
				NumPartitions:       r.NumberOfPartitions,
				NumCachedPartitions: r.NumCachedPartitions,
				MemorySize:          r.MemorySize,
				DiskSize:            r.DiskSize,
			})
		}
		stage.RDDInfos = rdds
	}
}

func (c *Correlator) applyTaskStart(e *events.TaskStart) {
	rec := e.TaskInfo
	task := c.store.GetTask(rec.TaskID)
	if task == nil {
		task = cache.NewTaskInfo(rec.TaskID)
		task.LaunchTime = rec.LaunchTime
		if err := c.store.AddTask(task); err != nil {
			c.anomaly("task could not be stored", zap.Error(err))
			return
		}
	} else if task.LaunchTime != rec.LaunchTime && rec.LaunchTime != 0 {
		old := task.LaunchTime
		task.LaunchTime = rec.LaunchTime
		c.store.ReindexTask(task, old)
	}
	c.fillTask(task, e.StageID, e.StageAttemptID, rec)
}

func (c *Correlator) applyTaskEnd(e *events.TaskEnd) {
	rec := e.TaskInfo
	task := c.store.GetTask(rec.TaskID)
	if task == nil {
		// task-end without task-start, reconstruct from the end record
		task = cache.NewTaskInfo(rec.TaskID)
		task.LaunchTime = rec.LaunchTime
		if err := c.store.AddTask(task); err != nil {
			c.anomaly("task could not be stored", zap.Error(err))
			return
		}
	}
	c.fillTask(task, e.StageID, e.StageAttemptID, rec)
	task.FinishTime = rec.FinishTime

	reason := e.ReasonString()
	outcome := c.classifier.Classify(reason)
	if outcome == cache.SucceedTask {
		task.FailureReason = nil
	} else {
		task.FailureReason = &reason
	}
	if err := task.HandleTaskEvent(outcome); err != nil {
		c.anomaly("task outcome could not be applied",
			zap.Int64("taskID", rec.TaskID), zap.Error(err))
	}
	// the end report replaces any earlier metrics wholesale, replays of
	// the same event are therefore idempotent
	task.Metrics = convertMetrics(e.TaskMetrics)
}

// fillTask binds a task to its stage attempt and executor and refreshes
// the descriptive fields every record carries.
func (c *Correlator) fillTask(task *cache.TaskInfo, stageID, stageAttemptID int, rec events.TaskInfoRecord) {
	task.Attempt = rec.Attempt
	task.Index = rec.Index
	task.PartitionID = rec.PartitionID
	task.StageID = stageID
	task.StageAttemptID = stageAttemptID
	if rec.Locality != "" {
		task.Locality = rec.Locality
	}
	task.Speculative = rec.Speculative
	if rec.Host != "" {
		task.Host = rec.Host
	}

	stage := c.stage(stageID, stageAttemptID)
	stage.AddTaskID(task.TaskID)

	if rec.ExecutorID != "" {
		task.ExecutorID = rec.ExecutorID
		exec := c.executor(rec.ExecutorID)
		if exec.Host == "" {
			exec.Host = rec.Host
		}
	}
}

func convertMetrics(rec *events.TaskMetricsRecord) *cache.TaskMetrics {
	if rec == nil {
		return nil
	}
	m := &cache.TaskMetrics{
		ExecutorDeserializeTime: rec.ExecutorDeserializeTime,
		ExecutorRunTime:         rec.ExecutorRunTime,
		ExecutorCPUTime:         rec.ExecutorCPUTime,
		ResultSize:              rec.ResultSize,
		JVMGCTime:               rec.JVMGCTime,
		ResultSerializationTime: rec.ResultSerializationTime,
		MemoryBytesSpilled:      rec.MemoryBytesSpilled,
		DiskBytesSpilled:        rec.DiskBytesSpilled,
		PeakExecutionMemory:     rec.PeakExecutionMemory,
	}
	if rec.InputMetrics != nil {
		m.Input = &cache.InputMetrics{
			BytesRead:   rec.InputMetrics.BytesRead,
			RecordsRead: rec.InputMetrics.RecordsRead,
		}
	}
	if rec.OutputMetrics != nil {
		m.Output = &cache.OutputMetrics{
			BytesWritten:   rec.OutputMetrics.BytesWritten,
			RecordsWritten: rec.OutputMetrics.RecordsWritten,
		}
	}
	if rec.ShuffleReadMetrics != nil {
		m.ShuffleRead = &cache.ShuffleReadMetrics{
			RemoteBlocksFetched: rec.ShuffleReadMetrics.RemoteBlocksFetched,
			LocalBlocksFetched:  rec.ShuffleReadMetrics.LocalBlocksFetched,
			FetchWaitTime:       rec.ShuffleReadMetrics.FetchWaitTime,
			RemoteBytesRead:     rec.ShuffleReadMetrics.RemoteBytesRead,
			LocalBytesRead:      rec.ShuffleReadMetrics.LocalBytesRead,
			RecordsRead:         rec.ShuffleReadMetrics.TotalRecordsRead,
		}
	}
	if rec.ShuffleWriteMetrics != nil {
		m.ShuffleWrite = &cache.ShuffleWriteMetrics{
			BytesWritten:   rec.ShuffleWriteMetrics.BytesWritten,
			WriteTime:      rec.ShuffleWriteMetrics.WriteTime,
			RecordsWritten: rec.ShuffleWriteMetrics.RecordsWritten,
		}
	}
	return m
}

func (c *Correlator) applyExecutorAdded(e *events.ExecutorAdded) {
	exec := c.executor(e.ExecutorID)
	exec.Host = e.ExecutorInfo.Host
	exec.TotalCores = e.ExecutorInfo.TotalCores
	exec.MaxMemory = e.ExecutorInfo.MaximumMemory
	ts := e.Timestamp
	exec.AddTime = &ts
}

func (c *Correlator) applyExecutorRemoved(e *events.ExecutorRemoved) {
	// removal of a never-added executor still yields a REMOVED entity
	// with host and cores unknown
	exec := c.executor(e.ExecutorID)
	ts := e.Timestamp
	exec.RemoveTime = &ts
	reason := e.RemovedReason
	exec.RemovedReason = &reason
	if err := exec.HandleExecutorEvent(cache.RemoveExecutor); err != nil {
		c.anomaly("executor removal replayed",
			zap.String("executorID", e.ExecutorID), zap.Error(err))
	}
}

func (c *Correlator) applyEnvironmentUpdate(e *events.EnvironmentUpdate) {
	c.store.SetEnvironmentCategory(cache.CategorySpark, e.SparkProperties)
	c.store.SetEnvironmentCategory(cache.CategoryHadoop, e.HadoopProperties)
	c.store.SetEnvironmentCategory(cache.CategorySystem, e.SystemProperties)
	c.store.SetEnvironmentCategory(cache.CategoryClasspath, e.ClasspathEntries)
}
