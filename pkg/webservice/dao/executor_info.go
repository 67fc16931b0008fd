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

type ExecutorDAOInfo struct {
	ExecutorID     string `json:"executorID"`
	Host           string `json:"host,omitempty"`
	TotalCores     int    `json:"totalCores"`
	MaxMemory      string `json:"maxMemory,omitempty"`
	Status         string `json:"status"`
	AddTime        *int64 `json:"addTime,omitempty"`
	RemoveTime     *int64 `json:"removeTime,omitempty"`
	RemovedReason  string `json:"removedReason,omitempty"`
	ActiveTasks    int    `json:"activeTasks"`
	CompletedTasks int    `json:"completedTasks"`
	FailedTasks    int    `json:"failedTasks"`
	KilledTasks    int    `json:"killedTasks"`
	TotalTasks     int    `json:"totalTasks"`
	TotalDuration  string `json:"totalDuration,omitempty"`
	TotalGCTime    string `json:"totalGcTime,omitempty"`
	InputBytes     string `json:"inputBytes,omitempty"`
	ShuffleRead    string `json:"shuffleRead,omitempty"`
	ShuffleWrite   string `json:"shuffleWrite,omitempty"`
}
