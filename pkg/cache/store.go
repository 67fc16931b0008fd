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
	"fmt"
	"sort"
	"sync"

	"github.com/google/btree"
)

type stageKey struct {
	stageID   int
	attemptID int
}

// taskRef orders tasks by (launch time, task id) for stable display.
type taskRef struct {
	launchTime int64
	taskID     int64
}

func (tr taskRef) Less(than btree.Item) bool {
	other, ok := than.(taskRef)
	if !ok {
		return false
	}
	if tr.launchTime != other.launchTime {
		return tr.launchTime < other.launchTime
	}
	return tr.taskID < other.taskID
}

// Store owns every reconstructed entity, addressed by natural identifier.
// Entities are never deleted during a session. A single writer mutates the
// store through these methods; readers take consistent snapshots.
type Store struct {
	application *ApplicationInfo
	jobs        map[int]*JobInfo
	jobOrder    []int // submission order
	stages      map[stageKey]*StageInfo
	tasks       map[int64]*TaskInfo
	taskIndex   *btree.BTree
	executors   map[string]*ExecutorInfo
	execOrder   []string // add order
	environment *EnvironmentInfo

	sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		jobs:        make(map[int]*JobInfo),
		stages:      make(map[stageKey]*StageInfo),
		tasks:       make(map[int64]*TaskInfo),
		taskIndex:   btree.New(32),
		executors:   make(map[string]*ExecutorInfo),
		environment: NewEnvironmentInfo(),
	}
}

// Application returns the application entity or nil before the first
// reference. Placeholder creation is the correlator's call, never implicit.
func (s *Store) Application() *ApplicationInfo {
	s.RLock()
	defer s.RUnlock()
	return s.application
}

func (s *Store) SetApplication(app *ApplicationInfo) error {
	s.Lock()
	defer s.Unlock()
	if s.application != nil && app != s.application {
		return fmt.Errorf("application %s already present, cannot add %s",
			s.application.ApplicationID, app.ApplicationID)
	}
	s.application = app
	return nil
}

func (s *Store) AddJob(job *JobInfo) error {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.jobs[job.JobID]; ok {
		return fmt.Errorf("job %d already present", job.JobID)
	}
	s.jobs[job.JobID] = job
	s.jobOrder = append(s.jobOrder, job.JobID)
	return nil
}

func (s *Store) GetJob(jobID int) *JobInfo {
	s.RLock()
	defer s.RUnlock()
	return s.jobs[jobID]
}

// Jobs returns all jobs in submission order.
func (s *Store) Jobs() []*JobInfo {
	s.RLock()
	defer s.RUnlock()
	return s.jobsLocked()
}

func (s *Store) jobsLocked() []*JobInfo {
	out := make([]*JobInfo, 0, len(s.jobOrder))
	for _, id := range s.jobOrder {
		out = append(out, s.jobs[id])
	}
	return out
}

func (s *Store) AddStage(stage *StageInfo) error {
	s.Lock()
	defer s.Unlock()
	key := stageKey{stageID: stage.StageID, attemptID: stage.AttemptID}
	if _, ok := s.stages[key]; ok {
		return fmt.Errorf("stage %d attempt %d already present", stage.StageID, stage.AttemptID)
	}
	s.stages[key] = stage
	return nil
}

func (s *Store) GetStage(stageID, attemptID int) *StageInfo {
	s.RLock()
	defer s.RUnlock()
	return s.stages[stageKey{stageID: stageID, attemptID: attemptID}]
}

// Stages returns all stage attempts ordered by (stage id, attempt).
func (s *Store) Stages() []*StageInfo {
	s.RLock()
	defer s.RUnlock()
	return s.stagesLocked()
}

func (s *Store) stagesLocked() []*StageInfo {
	out := make([]*StageInfo, 0, len(s.stages))
	for _, st := range s.stages {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StageID != out[j].StageID {
			return out[i].StageID < out[j].StageID
		}
		return out[i].AttemptID < out[j].AttemptID
	})
	return out
}

// StageAttempts returns every attempt of one stage id ordered by attempt.
func (s *Store) StageAttempts(stageID int) []*StageInfo {
	s.RLock()
	defer s.RUnlock()
	return s.stageAttemptsLocked(stageID)
}

func (s *Store) stageAttemptsLocked(stageID int) []*StageInfo {
	var out []*StageInfo
	for key, st := range s.stages {
		if key.stageID == stageID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptID < out[j].AttemptID })
	return out
}

func (s *Store) AddTask(task *TaskInfo) error {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.tasks[task.TaskID]; ok {
		return fmt.Errorf("task %d already present", task.TaskID)
	}
	s.tasks[task.TaskID] = task
	s.taskIndex.ReplaceOrInsert(taskRef{launchTime: task.LaunchTime, taskID: task.TaskID})
	return nil
}

func (s *Store) GetTask(taskID int64) *TaskInfo {
	s.RLock()
	defer s.RUnlock()
	return s.tasks[taskID]
}

// ReindexTask must be called after a task's launch time changes so the
// ordered index stays consistent.
func (s *Store) ReindexTask(task *TaskInfo, oldLaunchTime int64) {
	s.Lock()
	defer s.Unlock()
	s.taskIndex.Delete(taskRef{launchTime: oldLaunchTime, taskID: task.TaskID})
	s.taskIndex.ReplaceOrInsert(taskRef{launchTime: task.LaunchTime, taskID: task.TaskID})
}

// Tasks returns all tasks ordered by (launch time, task id).
func (s *Store) Tasks() []*TaskInfo {
	s.RLock()
	defer s.RUnlock()
	return s.tasksLocked()
}

func (s *Store) tasksLocked() []*TaskInfo {
	out := make([]*TaskInfo, 0, len(s.tasks))
	s.taskIndex.Ascend(func(item btree.Item) bool {
		ref := item.(taskRef)
		out = append(out, s.tasks[ref.taskID])
		return true
	})
	return out
}

// TasksForStage returns the tasks of one stage attempt in launch order.
func (s *Store) TasksForStage(stageID, attemptID int) []*TaskInfo {
	s.RLock()
	defer s.RUnlock()
	return s.tasksForStageLocked(stageID, attemptID)
}

func (s *Store) tasksForStageLocked(stageID, attemptID int) []*TaskInfo {
	var out []*TaskInfo
	s.taskIndex.Ascend(func(item btree.Item) bool {
		ref := item.(taskRef)
		t := s.tasks[ref.taskID]
		if t.StageID == stageID && t.StageAttemptID == attemptID {
			out = append(out, t)
		}
		return true
	})
	return out
}

func (s *Store) AddExecutor(exec *ExecutorInfo) error {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.executors[exec.ExecutorID]; ok {
		return fmt.Errorf("executor %s already present", exec.ExecutorID)
	}
	s.executors[exec.ExecutorID] = exec
	s.execOrder = append(s.execOrder, exec.ExecutorID)
	return nil
}

func (s *Store) GetExecutor(executorID string) *ExecutorInfo {
	s.RLock()
	defer s.RUnlock()
	return s.executors[executorID]
}

// Executors returns all executors in add order, removed ones included.
func (s *Store) Executors() []*ExecutorInfo {
	s.RLock()
	defer s.RUnlock()
	return s.executorsLocked()
}

func (s *Store) executorsLocked() []*ExecutorInfo {
	out := make([]*ExecutorInfo, 0, len(s.execOrder))
	for _, id := range s.execOrder {
		out = append(out, s.executors[id])
	}
	return out
}

func (s *Store) Environment() *EnvironmentInfo {
	s.RLock()
	defer s.RUnlock()
	return s.environment
}

// SetEnvironmentCategory replaces one property category, last wins.
func (s *Store) SetEnvironmentCategory(category string, props map[string]string) {
	s.Lock()
	defer s.Unlock()
	s.environment.SetCategory(category, props)
}

// Counts returns entity totals for diagnostics and metrics.
func (s *Store) Counts() (jobs, stages, tasks, executors int) {
	s.RLock()
	defer s.RUnlock()
	return len(s.jobs), len(s.stages), len(s.tasks), len(s.executors)
}
