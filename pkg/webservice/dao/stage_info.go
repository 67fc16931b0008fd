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
package dao

type StageDAOInfo struct {
	StageID         int               `json:"stageID"`
	AttemptID       int               `json:"attemptID"`
	Name            string            `json:"name"`
	Status          string            `json:"status"`
	NumTasks        int               `json:"numTasks"`
	ParentIDs       []int             `json:"parentIDs,omitempty"`
	SubmissionTime  *int64            `json:"submissionTime,omitempty"`
	CompletionTime  *int64            `json:"completionTime,omitempty"`
	Duration        string            `json:"duration,omitempty"`
	FailureReason   string            `json:"failureReason,omitempty"`
	PercentComplete int               `json:"percentComplete"`
	TaskCounts      TaskCountsDAOInfo `json:"taskCounts"`
	TaskDurations   DurationsDAOInfo  `json:"taskDurations"`
	MetricsSum      MetricSumsDAOInfo `json:"metricsSum"`
	MetricsMax      MetricSumsDAOInfo `json:"metricsMax"`
	RDDs            []RDDDAOInfo      `json:"rdds,omitempty"`
}

type TaskCountsDAOInfo struct {
	Running int `json:"running"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Killed  int `json:"killed"`
	Total   int `json:"total"`
}

// DurationsDAOInfo reports min/median/max over the finished tasks of a
// stage attempt. Observed is zero when no task finished yet.
type DurationsDAOInfo struct {
	Min      string `json:"min,omitempty"`
	Median   string `json:"median,omitempty"`
	Max      string `json:"max,omitempty"`
	Observed int    `json:"observed"`
}

type MetricSumsDAOInfo struct {
	ExecutorRunTime     string `json:"executorRunTime,omitempty"`
	ExecutorCPUTime     string `json:"executorCpuTime,omitempty"`
	JVMGCTime           string `json:"jvmGcTime,omitempty"`
	PeakExecutionMemory string `json:"peakExecutionMemory,omitempty"`
	MemorySpilled       string `json:"memorySpilled,omitempty"`
	DiskSpilled         string `json:"diskSpilled,omitempty"`
	InputBytes          string `json:"inputBytes,omitempty"`
	InputRecords        int64  `json:"inputRecords"`
	OutputBytes         string `json:"outputBytes,omitempty"`
	OutputRecords       int64  `json:"outputRecords"`
	ShuffleReadBytes    string `json:"shuffleReadBytes,omitempty"`
	ShuffleReadRecords  int64  `json:"shuffleReadRecords"`
	ShuffleWriteBytes   string `json:"shuffleWriteBytes,omitempty"`
	ShuffleWriteRecords int64  `json:"shuffleWriteRecords"`
}

type RDDDAOInfo struct {
	RDDID               int    `json:"rddID"`
	Name                string `json:"name"`
	StorageLevel        string `json:"storageLevel"`
	NumPartitions       int    `json:"numPartitions"`
	NumCachedPartitions int    `json:"numCachedPartitions"`
	MemorySize          string `json:"memorySize"`
	DiskSize            string `json:"diskSize"`
}
