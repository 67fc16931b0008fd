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

type JobDAOInfo struct {
	JobID          int                `json:"jobID"`
	Name           string             `json:"name"`
	Status         string             `json:"status"`
	SubmissionTime *int64             `json:"submissionTime,omitempty"`
	CompletionTime *int64             `json:"completionTime,omitempty"`
	Duration       string             `json:"duration,omitempty"`
	FailureReason  string             `json:"failureReason,omitempty"`
	StageIDs       []int              `json:"stageIDs"`
	NumStages      int                `json:"numStages"`
	StageCounts    StageCountsDAOInfo `json:"stageCounts"`
}

type StageCountsDAOInfo struct {
	Pending  int `json:"pending"`
	Active   int `json:"active"`
	Complete int `json:"complete"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}
