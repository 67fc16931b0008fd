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

import "sort"

// Aggregates are always computed from the tasks currently in the store,
// never stored alongside them. Recomputation is bounded by the task count
// of the application, cheap enough for every display refresh.

// TaskMetricSums is a flattened metrics vector used for both per-stage
// sums and per-stage maxima.
type TaskMetricSums struct {
	ExecutorRunTime         int64
	ExecutorDeserializeTime int64
	ExecutorCPUTime         int64
	ResultSize              int64
	ResultSerializationTime int64
	JVMGCTime               int64
	MemoryBytesSpilled      int64
	DiskBytesSpilled        int64
	PeakExecutionMemory     int64
	ShuffleReadBytes        int64
	ShuffleReadRecords      int64
	ShuffleFetchWaitTime    int64
	ShuffleWriteBytes       int64
	ShuffleWriteTime        int64
	ShuffleWriteRecords     int64
	InputBytes              int64
	InputRecords            int64
	OutputBytes             int64
	OutputRecords           int64
}

func metricsVector(m *TaskMetrics) TaskMetricSums {
	if m == nil {
		return TaskMetricSums{}
	}
	v := TaskMetricSums{
		ExecutorRunTime:         m.ExecutorRunTime,
		ExecutorDeserializeTime: m.ExecutorDeserializeTime,
		ExecutorCPUTime:         m.ExecutorCPUTime,
		ResultSize:              m.ResultSize,
		ResultSerializationTime: m.ResultSerializationTime,
		JVMGCTime:               m.JVMGCTime,
		MemoryBytesSpilled:      m.MemoryBytesSpilled,
		DiskBytesSpilled:        m.DiskBytesSpilled,
		PeakExecutionMemory:     m.PeakExecutionMemory,
	}
	if m.ShuffleRead != nil {
		v.ShuffleReadBytes = m.ShuffleRead.RemoteBytesRead + m.ShuffleRead.LocalBytesRead
		v.ShuffleReadRecords = m.ShuffleRead.RecordsRead
		v.ShuffleFetchWaitTime = m.ShuffleRead.FetchWaitTime
	}
	if m.ShuffleWrite != nil {
		v.ShuffleWriteBytes = m.ShuffleWrite.BytesWritten
		v.ShuffleWriteTime = m.ShuffleWrite.WriteTime
		v.ShuffleWriteRecords = m.ShuffleWrite.RecordsWritten
	}
	if m.Input != nil {
		v.InputBytes = m.Input.BytesRead
		v.InputRecords = m.Input.RecordsRead
	}
	if m.Output != nil {
		v.OutputBytes = m.Output.BytesWritten
		v.OutputRecords = m.Output.RecordsWritten
	}
	return v
}

func (s *TaskMetricSums) add(v TaskMetricSums) {
	s.ExecutorRunTime += v.ExecutorRunTime
	s.ExecutorDeserializeTime += v.ExecutorDeserializeTime
	s.ExecutorCPUTime += v.ExecutorCPUTime
	s.ResultSize += v.ResultSize
	s.ResultSerializationTime += v.ResultSerializationTime
	s.JVMGCTime += v.JVMGCTime
	s.MemoryBytesSpilled += v.MemoryBytesSpilled
	s.DiskBytesSpilled += v.DiskBytesSpilled
	s.PeakExecutionMemory += v.PeakExecutionMemory
	s.ShuffleReadBytes += v.ShuffleReadBytes
	s.ShuffleReadRecords += v.ShuffleReadRecords
	s.ShuffleFetchWaitTime += v.ShuffleFetchWaitTime
	s.ShuffleWriteBytes += v.ShuffleWriteBytes
	s.ShuffleWriteTime += v.ShuffleWriteTime
	s.ShuffleWriteRecords += v.ShuffleWriteRecords
	s.InputBytes += v.InputBytes
	s.InputRecords += v.InputRecords
	s.OutputBytes += v.OutputBytes
	s.OutputRecords += v.OutputRecords
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func (s *TaskMetricSums) max(v TaskMetricSums) {
	s.ExecutorRunTime = maxInt64(s.ExecutorRunTime, v.ExecutorRunTime)
	s.ExecutorDeserializeTime = maxInt64(s.ExecutorDeserializeTime, v.ExecutorDeserializeTime)
	s.ExecutorCPUTime = maxInt64(s.ExecutorCPUTime, v.ExecutorCPUTime)
	s.ResultSize = maxInt64(s.ResultSize, v.ResultSize)
	s.ResultSerializationTime = maxInt64(s.ResultSerializationTime, v.ResultSerializationTime)
	s.JVMGCTime = maxInt64(s.JVMGCTime, v.JVMGCTime)
	s.MemoryBytesSpilled = maxInt64(s.MemoryBytesSpilled, v.MemoryBytesSpilled)
	s.DiskBytesSpilled = maxInt64(s.DiskBytesSpilled, v.DiskBytesSpilled)
	s.PeakExecutionMemory = maxInt64(s.PeakExecutionMemory, v.PeakExecutionMemory)
	s.ShuffleReadBytes = maxInt64(s.ShuffleReadBytes, v.ShuffleReadBytes)
	s.ShuffleReadRecords = maxInt64(s.ShuffleReadRecords, v.ShuffleReadRecords)
	s.ShuffleFetchWaitTime = maxInt64(s.ShuffleFetchWaitTime, v.ShuffleFetchWaitTime)
	s.ShuffleWriteBytes = maxInt64(s.ShuffleWriteBytes, v.ShuffleWriteBytes)
	s.ShuffleWriteTime = maxInt64(s.ShuffleWriteTime, v.ShuffleWriteTime)
	s.ShuffleWriteRecords = maxInt64(s.ShuffleWriteRecords, v.ShuffleWriteRecords)
	s.InputBytes = maxInt64(s.InputBytes, v.InputBytes)
	s.InputRecords = maxInt64(s.InputRecords, v.InputRecords)
	s.OutputBytes = maxInt64(s.OutputBytes, v.OutputBytes)
	s.OutputRecords = maxInt64(s.OutputRecords, v.OutputRecords)
}

// TaskStatusCounts counts a stage's tasks by status.
type TaskStatusCounts struct {
	Running int
	Success int
	Failed  int
	Killed  int
}

func (c TaskStatusCounts) Total() int {
	return c.Running + c.Success + c.Failed + c.Killed
}

// StageAggregate is the per-stage rollup. Sum and Max cover the metrics of
// successful tasks; durations cover every finished task.
type StageAggregate struct {
	TaskCounts        TaskStatusCounts
	MinDuration       int64
	MedianDuration    int64
	MaxDuration       int64
	DurationsObserved int
	Sum               TaskMetricSums
	Max               TaskMetricSums
}

// StageAggregate computes the rollup for one stage attempt.
func (s *Store) StageAggregate(stageID, attemptID int) StageAggregate {
	s.RLock()
	defer s.RUnlock()
	return stageAggregate(s.tasksForStageLocked(stageID, attemptID))
}

func stageAggregate(tasks []*TaskInfo) StageAggregate {
	agg := StageAggregate{}
	var durations []int64
	for _, t := range tasks {
		switch t.CurrentState() {
		case TaskRunning.String():
			agg.TaskCounts.Running++
		case TaskSuccess.String():
			agg.TaskCounts.Success++
			v := metricsVector(t.Metrics)
			agg.Sum.add(v)
			agg.Max.max(v)
		case TaskFailed.String():
			agg.TaskCounts.Failed++
		case TaskKilled.String():
			agg.TaskCounts.Killed++
		}
		if d, ok := t.Duration(); ok {
			durations = append(durations, d)
		}
	}
	if len(durations) > 0 {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		agg.DurationsObserved = len(durations)
		agg.MinDuration = durations[0]
		agg.MaxDuration = durations[len(durations)-1]
		agg.MedianDuration = durations[len(durations)/2]
		if len(durations)%2 == 0 {
			agg.MedianDuration = (durations[len(durations)/2-1] + durations[len(durations)/2]) / 2
		}
	}
	return agg
}

// ExecutorAggregate is the per-executor rollup: cumulative metrics over
// the successful tasks it ran plus the current in-flight count.
type ExecutorAggregate struct {
	ActiveTasks    int
	CompletedTasks int
	FailedTasks    int
	KilledTasks    int
	TotalTasks     int
	TotalDuration  int64
	TotalGCTime    int64
	InputBytes     int64
	ShuffleRead    int64
	ShuffleWrite   int64
}

// ExecutorAggregate computes the rollup for one executor.
func (s *Store) ExecutorAggregate(executorID string) ExecutorAggregate {
	s.RLock()
	defer s.RUnlock()
	return executorAggregate(executorID, s.tasksLocked())
}

func executorAggregate(executorID string, tasks []*TaskInfo) ExecutorAggregate {
	agg := ExecutorAggregate{}
	for _, t := range tasks {
		if t.ExecutorID != executorID {
			continue
		}
		agg.TotalTasks++
		switch t.CurrentState() {
		case TaskRunning.String():
			agg.ActiveTasks++
		case TaskSuccess.String():
			agg.CompletedTasks++
			if d, ok := t.Duration(); ok {
				agg.TotalDuration += d
			}
			v := metricsVector(t.Metrics)
			agg.TotalGCTime += v.JVMGCTime
			agg.InputBytes += v.InputBytes
			agg.ShuffleRead += v.ShuffleReadBytes
			agg.ShuffleWrite += v.ShuffleWriteBytes
		case TaskFailed.String():
			agg.FailedTasks++
		case TaskKilled.String():
			agg.KilledTasks++
		}
	}
	return agg
}

// StageStatusCounts counts a job's stages by the status of their latest
// attempt.
type StageStatusCounts struct {
	Pending  int
	Active   int
	Complete int
	Failed   int
	Skipped  int
}

// JobAggregate is the per-job rollup.
type JobAggregate struct {
	NumStages   int
	StageCounts StageStatusCounts
	// Duration is job completion minus submission in ms, nil while the
	// job is still running or when either timestamp was never reported.
	Duration *int64
}

// JobAggregate computes the rollup for one job.
func (s *Store) JobAggregate(jobID int) JobAggregate {
	s.RLock()
	defer s.RUnlock()
	job := s.jobs[jobID]
	if job == nil {
		return JobAggregate{}
	}
	return s.jobAggregateLocked(job)
}

func (s *Store) jobAggregateLocked(job *JobInfo) JobAggregate {
	agg := JobAggregate{}
	for _, stageID := range job.StageIDs() {
		agg.NumStages++
		attempts := s.stageAttemptsLocked(stageID)
		if len(attempts) == 0 {
			agg.StageCounts.Pending++
			continue
		}
		latest := attempts[len(attempts)-1]
		switch latest.CurrentState() {
		case StagePending.String():
			agg.StageCounts.Pending++
		case StageActive.String():
			agg.StageCounts.Active++
		case StageComplete.String():
			agg.StageCounts.Complete++
		case StageFailed.String():
			agg.StageCounts.Failed++
		case StageSkipped.String():
			agg.StageCounts.Skipped++
		}
	}
	if job.CurrentState() != JobRunning.String() &&
		job.SubmissionTime != nil && job.CompletionTime != nil {
		d := *job.CompletionTime - *job.SubmissionTime
		agg.Duration = &d
	}
	return agg
}
