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

// Snapshot is an immutable point-in-time copy of the store, taken under a
// single read lock so no view can tear across entities. Everything in it
// is plain data safe to hand to a renderer.
type Snapshot struct {
	Application *ApplicationView
	Jobs        []JobView
	Stages      []StageView
	Tasks       []TaskView
	Executors   []ExecutorView
	Environment EnvironmentView
}

type ApplicationView struct {
	ApplicationID string
	Name          string
	AttemptID     *string
	User          string
	SparkVersion  string
	StartTime     *int64
	EndTime       *int64
	Status        string
}

type JobView struct {
	JobID          int
	Name           string
	Status         string
	SubmissionTime *int64
	CompletionTime *int64
	FailureReason  *string
	StageIDs       []int
	Aggregate      JobAggregate
}

type StageView struct {
	StageID        int
	AttemptID      int
	Name           string
	Status         string
	NumTasks       int
	ParentIDs      []int
	RDDInfos       []RDDInfo
	Details        string
	SubmissionTime *int64
	CompletionTime *int64
	FailureReason  *string
	Aggregate      StageAggregate
}

type TaskView struct {
	TaskID         int64
	Attempt        int
	Index          int
	PartitionID    int
	StageID        int
	StageAttemptID int
	ExecutorID     string
	Host           string
	Locality       string
	Speculative    bool
	Status         string
	LaunchTime     int64
	FinishTime     *int64
	FailureReason  *string
	Metrics        *TaskMetrics
}

type ExecutorView struct {
	ExecutorID    string
	Host          string
	TotalCores    int
	MaxMemory     *int64
	Status        string
	AddTime       *int64
	RemoveTime    *int64
	RemovedReason *string
	Aggregate     ExecutorAggregate
}

type EnvironmentView struct {
	SparkProperties  []Property
	HadoopProperties []Property
	SystemProperties []Property
	ClasspathEntries []Property
}

// Snapshot builds the consistent read view, aggregates included.
func (s *Store) Snapshot() *Snapshot {
	s.RLock()
	defer s.RUnlock()

	snap := &Snapshot{}
	if s.application != nil {
		app := s.application
		snap.Application = &ApplicationView{
			ApplicationID: app.ApplicationID,
			Name:          app.Name,
			AttemptID:     copyStringPtr(app.AttemptID),
			User:          app.User,
			SparkVersion:  app.SparkVersion,
			StartTime:     copyInt64Ptr(app.StartTime),
			EndTime:       copyInt64Ptr(app.EndTime),
			Status:        app.CurrentState(),
		}
	}

	for _, job := range s.jobsLocked() {
		snap.Jobs = append(snap.Jobs, JobView{
			JobID:          job.JobID,
			Name:           job.Name,
			Status:         job.CurrentState(),
			SubmissionTime: copyInt64Ptr(job.SubmissionTime),
			CompletionTime: copyInt64Ptr(job.CompletionTime),
			FailureReason:  copyStringPtr(job.FailureReason),
			StageIDs:       job.StageIDs(),
			Aggregate:      s.jobAggregateLocked(job),
		})
	}

	for _, st := range s.stagesLocked() {
		snap.Stages = append(snap.Stages, StageView{
			StageID:        st.StageID,
			AttemptID:      st.AttemptID,
			Name:           st.Name,
			Status:         st.CurrentState(),
			NumTasks:       st.NumTasks,
			ParentIDs:      append([]int(nil), st.ParentIDs...),
			RDDInfos:       append([]RDDInfo(nil), st.RDDInfos...),
			Details:        st.Details,
			SubmissionTime: copyInt64Ptr(st.SubmissionTime),
			CompletionTime: copyInt64Ptr(st.CompletionTime),
			FailureReason:  copyStringPtr(st.FailureReason),
			Aggregate:      stageAggregate(s.tasksForStageLocked(st.StageID, st.AttemptID)),
		})
	}

	allTasks := s.tasksLocked()
	for _, t := range allTasks {
		snap.Tasks = append(snap.Tasks, TaskView{
			TaskID:         t.TaskID,
			Attempt:        t.Attempt,
			Index:          t.Index,
			PartitionID:    t.PartitionID,
			StageID:        t.StageID,
			StageAttemptID: t.StageAttemptID,
			ExecutorID:     t.ExecutorID,
			Host:           t.Host,
			Locality:       t.Locality,
			Speculative:    t.Speculative,
			Status:         t.CurrentState(),
			LaunchTime:     t.LaunchTime,
			FinishTime:     copyInt64Ptr(t.FinishTime),
			FailureReason:  copyStringPtr(t.FailureReason),
			Metrics:        copyMetrics(t.Metrics),
		})
	}

	for _, ex := range s.executorsLocked() {
		snap.Executors = append(snap.Executors, ExecutorView{
			ExecutorID:    ex.ExecutorID,
			Host:          ex.Host,
			TotalCores:    ex.TotalCores,
			MaxMemory:     copyInt64Ptr(ex.MaxMemory),
			Status:        ex.CurrentState(),
			AddTime:       copyInt64Ptr(ex.AddTime),
			RemoveTime:    copyInt64Ptr(ex.RemoveTime),
			RemovedReason: copyStringPtr(ex.RemovedReason),
			Aggregate:     executorAggregate(ex.ExecutorID, allTasks),
		})
	}

	snap.Environment = EnvironmentView{
		SparkProperties:  s.environment.Category(CategorySpark),
		HadoopProperties: s.environment.Category(CategoryHadoop),
		SystemProperties: s.environment.Category(CategorySystem),
		ClasspathEntries: s.environment.Category(CategoryClasspath),
	}
	return snap
}

func copyInt64Ptr(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyMetrics(m *TaskMetrics) *TaskMetrics {
	if m == nil {
		return nil
	}
	out := *m
	if m.Input != nil {
		in := *m.Input
		out.Input = &in
	}
	if m.Output != nil {
		o := *m.Output
		out.Output = &o
	}
	if m.ShuffleRead != nil {
		sr := *m.ShuffleRead
		out.ShuffleRead = &sr
	}
	if m.ShuffleWrite != nil {
		sw := *m.ShuffleWrite
		out.ShuffleWrite = &sw
	}
	return &out
}
