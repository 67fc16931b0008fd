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

package webservice

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/sparkview/sparkview-core/pkg/cache"
	"github.com/sparkview/sparkview-core/pkg/ingest"
	"github.com/sparkview/sparkview-core/pkg/webservice/dao"
)

func writeHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}

func currentSnapshot() *cache.Snapshot {
	lock.RLock()
	defer lock.RUnlock()
	if liveStore == nil {
		return &cache.Snapshot{}
	}
	return liveStore.Snapshot()
}

func currentDiags() ingest.Diagnostics {
	lock.RLock()
	defer lock.RUnlock()
	if liveDiags == nil {
		return ingest.Diagnostics{}
	}
	return *liveDiags
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeHeaders(w)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func getApplicationInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap := currentSnapshot()
	if snap.Application == nil {
		http.Error(w, "no application loaded", http.StatusNotFound)
		return
	}
	writeJSON(w, getApplicationDAO(snap.Application))
}

func getJobsInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap := currentSnapshot()
	jobsDao := make([]*dao.JobDAOInfo, 0, len(snap.Jobs))
	for i := range snap.Jobs {
		jobsDao = append(jobsDao, getJobDAO(&snap.Jobs[i]))
	}
	writeJSON(w, jobsDao)
}

func getStagesInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap := currentSnapshot()
	stagesDao := make([]*dao.StageDAOInfo, 0, len(snap.Stages))
	for i := range snap.Stages {
		stagesDao = append(stagesDao, getStageDAO(&snap.Stages[i]))
	}
	writeJSON(w, stagesDao)
}

func getStageTasksInfo(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	stageID, err := strconv.Atoi(params.ByName("stage"))
	if err != nil {
		http.Error(w, "invalid stage id", http.StatusBadRequest)
		return
	}
	attemptID := -1
	if a := r.URL.Query().Get("attempt"); a != "" {
		attemptID, err = strconv.Atoi(a)
		if err != nil {
			http.Error(w, "invalid stage attempt id", http.StatusBadRequest)
			return
		}
	}

	snap := currentSnapshot()
	tasksDao := make([]*dao.TaskDAOInfo, 0)
	for i := range snap.Tasks {
		t := &snap.Tasks[i]
		if t.StageID != stageID {
			continue
		}
		if attemptID >= 0 && t.StageAttemptID != attemptID {
			continue
		}
		tasksDao = append(tasksDao, getTaskDAO(t))
	}
	writeJSON(w, tasksDao)
}

func getExecutorsInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap := currentSnapshot()
	execsDao := make([]*dao.ExecutorDAOInfo, 0, len(snap.Executors))
	for i := range snap.Executors {
		execsDao = append(execsDao, getExecutorDAO(&snap.Executors[i]))
	}
	writeJSON(w, execsDao)
}

func getEnvironmentInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap := currentSnapshot()
	writeJSON(w, getEnvironmentDAO(&snap.Environment))
}

func getDiagnosticsInfo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, getDiagnosticsDAO(currentDiags()))
}

func getFullStateDump(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap := currentSnapshot()
	dump := &dao.StateDumpDAOInfo{
		Timestamp:   time.Now().UnixNano(),
		Jobs:        make([]*dao.JobDAOInfo, 0, len(snap.Jobs)),
		Stages:      make([]*dao.StageDAOInfo, 0, len(snap.Stages)),
		Tasks:       make([]*dao.TaskDAOInfo, 0, len(snap.Tasks)),
		Executors:   make([]*dao.ExecutorDAOInfo, 0, len(snap.Executors)),
		Environment: *getEnvironmentDAO(&snap.Environment),
		Diagnostics: *getDiagnosticsDAO(currentDiags()),
	}
	if snap.Application != nil {
		dump.Application = getApplicationDAO(snap.Application)
	}
	for i := range snap.Jobs {
		dump.Jobs = append(dump.Jobs, getJobDAO(&snap.Jobs[i]))
	}
	for i := range snap.Stages {
		dump.Stages = append(dump.Stages, getStageDAO(&snap.Stages[i]))
	}
	for i := range snap.Tasks {
		dump.Tasks = append(dump.Tasks, getTaskDAO(&snap.Tasks[i]))
	}
	for i := range snap.Executors {
		dump.Executors = append(dump.Executors, getExecutorDAO(&snap.Executors[i]))
	}
	writeJSON(w, dump)
}

func getApplicationDAO(app *cache.ApplicationView) *dao.ApplicationDAOInfo {
	info := &dao.ApplicationDAOInfo{
		ApplicationID: app.ApplicationID,
		Name:          app.Name,
		User:          app.User,
		SparkVersion:  app.SparkVersion,
		Status:        strings.ToUpper(app.Status),
		StartTime:     app.StartTime,
		EndTime:       app.EndTime,
		Duration:      durationBetween(app.StartTime, app.EndTime),
	}
	if app.AttemptID != nil {
		info.AttemptID = *app.AttemptID
	}
	return info
}

func getJobDAO(job *cache.JobView) *dao.JobDAOInfo {
	info := &dao.JobDAOInfo{
		JobID:          job.JobID,
		Name:           job.Name,
		Status:         strings.ToUpper(job.Status),
		SubmissionTime: job.SubmissionTime,
		CompletionTime: job.CompletionTime,
		StageIDs:       job.StageIDs,
		NumStages:      job.Aggregate.NumStages,
		StageCounts: dao.StageCountsDAOInfo{
			Pending:  job.Aggregate.StageCounts.Pending,
			Active:   job.Aggregate.StageCounts.Active,
			Complete: job.Aggregate.StageCounts.Complete,
			Failed:   job.Aggregate.StageCounts.Failed,
			Skipped:  job.Aggregate.StageCounts.Skipped,
		},
	}
	if job.Aggregate.Duration != nil {
		info.Duration = humanDuration(*job.Aggregate.Duration)
	}
	if job.FailureReason != nil {
		info.FailureReason = *job.FailureReason
	}
	return info
}

func getStageDAO(stage *cache.StageView) *dao.StageDAOInfo {
	agg := stage.Aggregate
	info := &dao.StageDAOInfo{
		StageID:         stage.StageID,
		AttemptID:       stage.AttemptID,
		Name:            stage.Name,
		Status:          strings.ToUpper(stage.Status),
		NumTasks:        stage.NumTasks,
		ParentIDs:       stage.ParentIDs,
		SubmissionTime:  stage.SubmissionTime,
		CompletionTime:  stage.CompletionTime,
		Duration:        durationBetween(stage.SubmissionTime, stage.CompletionTime),
		PercentComplete: percentComplete(agg.TaskCounts.Success, stage.NumTasks),
		TaskCounts: dao.TaskCountsDAOInfo{
			Running: agg.TaskCounts.Running,
			Success: agg.TaskCounts.Success,
			Failed:  agg.TaskCounts.Failed,
			Killed:  agg.TaskCounts.Killed,
			Total:   agg.TaskCounts.Total(),
		},
		MetricsSum: getMetricSumsDAO(agg.Sum),
		MetricsMax: getMetricSumsDAO(agg.Max),
	}
	if stage.FailureReason != nil {
		info.FailureReason = *stage.FailureReason
	}
	if agg.DurationsObserved > 0 {
		info.TaskDurations = dao.DurationsDAOInfo{
			Min:      humanDuration(agg.MinDuration),
			Median:   humanDuration(agg.MedianDuration),
			Max:      humanDuration(agg.MaxDuration),
			Observed: agg.DurationsObserved,
		}
	}
	for _, rdd := range stage.RDDInfos {
		info.RDDs = append(info.RDDs, dao.RDDDAOInfo{
			RDDID:               rdd.RDDID,
			Name:                rdd.Name,
			StorageLevel:        rdd.StorageLevel,
			NumPartitions:       rdd.NumPartitions,
			NumCachedPartitions: rdd.NumCachedPartitions,
			MemorySize:          humanBytes(rdd.MemorySize),
			DiskSize:            humanBytes(rdd.DiskSize),
		})
	}
	return info
}

func getMetricSumsDAO(v cache.TaskMetricSums) dao.MetricSumsDAOInfo {
	return dao.MetricSumsDAOInfo{
		ExecutorRunTime:     optDuration(v.ExecutorRunTime),
		ExecutorCPUTime:     optDuration(v.ExecutorCPUTime / 1e6), // reported in ns
		JVMGCTime:           optDuration(v.JVMGCTime),
		PeakExecutionMemory: optBytes(v.PeakExecutionMemory),
		MemorySpilled:       optBytes(v.MemoryBytesSpilled),
		DiskSpilled:         optBytes(v.DiskBytesSpilled),
		InputBytes:          optBytes(v.InputBytes),
		InputRecords:        v.InputRecords,
		OutputBytes:         optBytes(v.OutputBytes),
		OutputRecords:       v.OutputRecords,
		ShuffleReadBytes:    optBytes(v.ShuffleReadBytes),
		ShuffleReadRecords:  v.ShuffleReadRecords,
		ShuffleWriteBytes:   optBytes(v.ShuffleWriteBytes),
		ShuffleWriteRecords: v.ShuffleWriteRecords,
	}
}

func getTaskDAO(task *cache.TaskView) *dao.TaskDAOInfo {
	info := &dao.TaskDAOInfo{
		TaskID:         task.TaskID,
		Index:          task.Index,
		Attempt:        task.Attempt,
		PartitionID:    task.PartitionID,
		StageID:        task.StageID,
		StageAttemptID: task.StageAttemptID,
		ExecutorID:     task.ExecutorID,
		Host:           task.Host,
		Locality:       task.Locality,
		Speculative:    task.Speculative,
		Status:         strings.ToUpper(task.Status),
		LaunchTime:     task.LaunchTime,
		FinishTime:     task.FinishTime,
	}
	if task.FinishTime != nil && task.LaunchTime > 0 && *task.FinishTime >= task.LaunchTime {
		info.Duration = humanDuration(*task.FinishTime - task.LaunchTime)
	}
	if task.FailureReason != nil {
		info.FailureReason = *task.FailureReason
	}
	if m := task.Metrics; m != nil {
		info.ExecutorRunTime = optDuration(m.ExecutorRunTime)
		info.JVMGCTime = optDuration(m.JVMGCTime)
		info.MemorySpilled = optBytes(m.MemoryBytesSpilled)
		info.DiskSpilled = optBytes(m.DiskBytesSpilled)
		if m.Input != nil {
			info.InputBytes = optBytes(m.Input.BytesRead)
		}
		if m.Output != nil {
			info.OutputBytes = optBytes(m.Output.BytesWritten)
		}
		if m.ShuffleRead != nil {
			info.ShuffleRead = optBytes(m.ShuffleRead.RemoteBytesRead + m.ShuffleRead.LocalBytesRead)
		}
		if m.ShuffleWrite != nil {
			info.ShuffleWrite = optBytes(m.ShuffleWrite.BytesWritten)
		}
	}
	return info
}

func getExecutorDAO(exec *cache.ExecutorView) *dao.ExecutorDAOInfo {
	agg := exec.Aggregate
	info := &dao.ExecutorDAOInfo{
		ExecutorID:     exec.ExecutorID,
		Host:           exec.Host,
		TotalCores:     exec.TotalCores,
		Status:         strings.ToUpper(exec.Status),
		AddTime:        exec.AddTime,
		RemoveTime:     exec.RemoveTime,
		ActiveTasks:    agg.ActiveTasks,
		CompletedTasks: agg.CompletedTasks,
		FailedTasks:    agg.FailedTasks,
		KilledTasks:    agg.KilledTasks,
		TotalTasks:     agg.TotalTasks,
		TotalDuration:  optDuration(agg.TotalDuration),
		TotalGCTime:    optDuration(agg.TotalGCTime),
		InputBytes:     optBytes(agg.InputBytes),
		ShuffleRead:    optBytes(agg.ShuffleRead),
		ShuffleWrite:   optBytes(agg.ShuffleWrite),
	}
	if exec.MaxMemory != nil {
		info.MaxMemory = humanBytes(*exec.MaxMemory)
	}
	if exec.RemovedReason != nil {
		info.RemovedReason = *exec.RemovedReason
	}
	return info
}

func getEnvironmentDAO(env *cache.EnvironmentView) *dao.EnvironmentDAOInfo {
	return &dao.EnvironmentDAOInfo{
		SparkProperties:  getPropertiesDAO(env.SparkProperties),
		HadoopProperties: getPropertiesDAO(env.HadoopProperties),
		SystemProperties: getPropertiesDAO(env.SystemProperties),
		ClasspathEntries: getPropertiesDAO(env.ClasspathEntries),
	}
}

func getPropertiesDAO(props []cache.Property) []dao.PropertyDAOInfo {
	out := make([]dao.PropertyDAOInfo, 0, len(props))
	for _, p := range props {
		out = append(out, dao.PropertyDAOInfo{Name: p.Name, Value: p.Value})
	}
	return out
}

func getDiagnosticsDAO(d ingest.Diagnostics) *dao.DiagnosticsDAOInfo {
	return &dao.DiagnosticsDAOInfo{
		SessionID:    d.SessionID,
		LinesRead:    d.LinesRead,
		Decoded:      d.Decoded,
		Malformed:    d.Malformed,
		Unrecognized: d.Unrecognized,
		Skipped:      d.Skipped(),
		Anomalies:    d.Anomalies,
		Completed:    d.Completed,
	}
}
