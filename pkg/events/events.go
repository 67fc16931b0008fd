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

package events

// Spark listener event discriminators as written by the event log producer.
const (
	TypeApplicationStart  = "SparkListenerApplicationStart"
	TypeApplicationEnd    = "SparkListenerApplicationEnd"
	TypeJobStart          = "SparkListenerJobStart"
	TypeJobEnd            = "SparkListenerJobEnd"
	TypeStageSubmitted    = "SparkListenerStageSubmitted"
	TypeStageCompleted    = "SparkListenerStageCompleted"
	TypeTaskStart         = "SparkListenerTaskStart"
	TypeTaskEnd           = "SparkListenerTaskEnd"
	TypeExecutorAdded     = "SparkListenerExecutorAdded"
	TypeExecutorRemoved   = "SparkListenerExecutorRemoved"
	TypeEnvironmentUpdate = "SparkListenerEnvironmentUpdate"
)

// Event is one decoded listener record. Each kind carries only its own
// fields; dispatch is a type switch, never field probing.
type Event interface {
	EventType() string
}

// Timestamps are epoch milliseconds as emitted by the producer. Optional
// numeric fields decode to nil when absent, which is distinct from zero.

type ApplicationStart struct {
	AppName      string  `json:"App Name"`
	AppID        string  `json:"App ID"`
	AppAttemptID *string `json:"App Attempt ID"`
	Timestamp    int64   `json:"Timestamp"`
	User         string  `json:"User"`
	SparkVersion string  `json:"Spark Version"`
}

func (e *ApplicationStart) EventType() string { return TypeApplicationStart }

type ApplicationEnd struct {
	Timestamp int64 `json:"Timestamp"`
}

func (e *ApplicationEnd) EventType() string { return TypeApplicationEnd }

type JobStart struct {
	JobID          int    `json:"Job ID"`
	SubmissionTime *int64 `json:"Submission Time"`
	StageIDs       []int  `json:"Stage IDs"`
	// Stage Infos are a forward copy of the stage descriptions the job
	// will run; only the identifiers are needed for ownership.
	StageInfos []StageInfoRecord `json:"Stage Infos"`
}

func (e *JobStart) EventType() string { return TypeJobStart }

type JobResult struct {
	Result string `json:"Result"`
}

type JobEnd struct {
	JobID          int        `json:"Job ID"`
	CompletionTime *int64     `json:"Completion Time"`
	JobResult      *JobResult `json:"Job Result"`
}

func (e *JobEnd) EventType() string { return TypeJobEnd }

// ResultString returns the reported job result, empty when not reported.
func (e *JobEnd) ResultString() string {
	if e.JobResult == nil {
		return ""
	}
	return e.JobResult.Result
}

type StageSubmitted struct {
	StageInfo StageInfoRecord `json:"Stage Info"`
}

func (e *StageSubmitted) EventType() string { return TypeStageSubmitted }

type StageCompleted struct {
	StageInfo StageInfoRecord `json:"Stage Info"`
}

func (e *StageCompleted) EventType() string { return TypeStageCompleted }

type StageInfoRecord struct {
	StageID        int             `json:"Stage ID"`
	StageAttemptID int             `json:"Stage Attempt ID"`
	StageName      string          `json:"Stage Name"`
	NumberOfTasks  int             `json:"Number of Tasks"`
	ParentIDs      []int           `json:"Parent IDs"`
	RDDInfos       []RDDInfoRecord `json:"RDD Info"`
	Details        string          `json:"Details"`
	SubmissionTime *int64          `json:"Submission Time"`
	CompletionTime *int64          `json:"Completion Time"`
	FailureReason  *string         `json:"Failure Reason"`
}

type RDDInfoRecord struct {
	RDDID               int    `json:"RDD ID"`
	Name                string `json:"Name"`
	StorageLevel        StorageLevel `json:"Storage Level"`
	NumberOfPartitions  int    `json:"Number of Partitions"`
	NumCachedPartitions int    `json:"Number of Cached Partitions"`
	MemorySize          int64  `json:"Memory Size"`
	DiskSize            int64  `json:"Disk Size"`
}

type TaskStart struct {
	StageID        int            `json:"Stage ID"`
	StageAttemptID int            `json:"Stage Attempt ID"`
	TaskInfo       TaskInfoRecord `json:"Task Info"`
}

func (e *TaskStart) EventType() string { return TypeTaskStart }

type TaskEnd struct {
	StageID        int                  `json:"Stage ID"`
	StageAttemptID int                  `json:"Stage Attempt ID"`
	TaskType       string               `json:"Task Type"`
	TaskEndReason  *TaskEndReasonRecord `json:"Task End Reason"`
	TaskInfo       TaskInfoRecord       `json:"Task Info"`
	TaskMetrics    *TaskMetricsRecord   `json:"Task Metrics"`
}

func (e *TaskEnd) EventType() string { return TypeTaskEnd }

// ReasonString flattens the end reason into one display string. When the
// producer omitted the reason object the task status flags are used, the
// same signals the web UI of the producer relies on.
func (e *TaskEnd) ReasonString() string {
	if e.TaskEndReason == nil {
		switch {
		case e.TaskInfo.Killed:
			return "TaskKilled"
		case e.TaskInfo.Failed:
			return "TaskFailed"
		default:
			return "Success"
		}
	}
	r := e.TaskEndReason.Reason
	if e.TaskEndReason.KillReason != nil {
		return r + ": " + *e.TaskEndReason.KillReason
	}
	if e.TaskEndReason.Message != nil {
		return r + ": " + *e.TaskEndReason.Message
	}
	return r
}

type TaskEndReasonRecord struct {
	Reason     string  `json:"Reason"`
	Message    *string `json:"Message"`
	KillReason *string `json:"Kill Reason"`
	ClassName  *string `json:"Class Name"`
}

type TaskInfoRecord struct {
	TaskID      int64  `json:"Task ID"`
	Index       int    `json:"Index"`
	Attempt     int    `json:"Attempt"`
	PartitionID int    `json:"Partition ID"`
	LaunchTime  int64  `json:"Launch Time"`
	ExecutorID  string `json:"Executor ID"`
	Host        string `json:"Host"`
	Locality    string `json:"Locality"`
	Speculative bool   `json:"Speculative"`
	FinishTime  *int64 `json:"Finish Time"`
	Failed      bool   `json:"Failed"`
	Killed      bool   `json:"Killed"`
	Finished    bool   `json:"Finished"`
}

type TaskMetricsRecord struct {
	ExecutorDeserializeTime int64                     `json:"Executor Deserialize Time"`
	ExecutorRunTime         int64                     `json:"Executor Run Time"`
	ExecutorCPUTime         int64                     `json:"Executor CPU Time"`
	ResultSize              int64                     `json:"Result Size"`
	JVMGCTime               int64                     `json:"JVM GC Time"`
	ResultSerializationTime int64                     `json:"Result Serialization Time"`
	MemoryBytesSpilled      int64                     `json:"Memory Bytes Spilled"`
	DiskBytesSpilled        int64                     `json:"Disk Bytes Spilled"`
	PeakExecutionMemory     int64                     `json:"Peak Execution Memory"`
	InputMetrics            *InputMetricsRecord       `json:"Input Metrics"`
	OutputMetrics           *OutputMetricsRecord      `json:"Output Metrics"`
	ShuffleReadMetrics      *ShuffleReadMetricsRecord `json:"Shuffle Read Metrics"`
	ShuffleWriteMetrics     *ShuffleWriteMetrics      `json:"Shuffle Write Metrics"`
}

type InputMetricsRecord struct {
	BytesRead   int64 `json:"Bytes Read"`
	RecordsRead int64 `json:"Records Read"`
}

type OutputMetricsRecord struct {
	BytesWritten   int64 `json:"Bytes Written"`
	RecordsWritten int64 `json:"Records Written"`
}

type ShuffleReadMetricsRecord struct {
	RemoteBlocksFetched int64 `json:"Remote Blocks Fetched"`
	LocalBlocksFetched  int64 `json:"Local Blocks Fetched"`
	FetchWaitTime       int64 `json:"Fetch Wait Time"`
	RemoteBytesRead     int64 `json:"Remote Bytes Read"`
	LocalBytesRead      int64 `json:"Local Bytes Read"`
	TotalRecordsRead    int64 `json:"Total Records Read"`
}

type ShuffleWriteMetrics struct {
	BytesWritten   int64 `json:"Shuffle Bytes Written"`
	WriteTime      int64 `json:"Shuffle Write Time"`
	RecordsWritten int64 `json:"Shuffle Records Written"`
}

type ExecutorAdded struct {
	Timestamp    int64              `json:"Timestamp"`
	ExecutorID   string             `json:"Executor ID"`
	ExecutorInfo ExecutorInfoRecord `json:"Executor Info"`
}

func (e *ExecutorAdded) EventType() string { return TypeExecutorAdded }

type ExecutorInfoRecord struct {
	Host          string `json:"Host"`
	TotalCores    int    `json:"Total Cores"`
	MaximumMemory *int64 `json:"Maximum Memory"`
}

type ExecutorRemoved struct {
	Timestamp     int64  `json:"Timestamp"`
	ExecutorID    string `json:"Executor ID"`
	RemovedReason string `json:"Removed Reason"`
}

func (e *ExecutorRemoved) EventType() string { return TypeExecutorRemoved }

type EnvironmentUpdate struct {
	SparkProperties  map[string]string `json:"Spark Properties"`
	HadoopProperties map[string]string `json:"Hadoop Properties"`
	SystemProperties map[string]string `json:"System Properties"`
	ClasspathEntries map[string]string `json:"Classpath Entries"`
}

func (e *EnvironmentUpdate) EventType() string { return TypeEnvironmentUpdate }
