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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"gotest.tools/v3/assert"

	"github.com/sparkview/sparkview-core/pkg/cache"
	"github.com/sparkview/sparkview-core/pkg/ingest"
	"github.com/sparkview/sparkview-core/pkg/webservice/dao"
)

var eventLog = strings.Join([]string{
	`{"Event":"SparkListenerApplicationStart","App Name":"wordcount","App ID":"app-1","Timestamp":1000,"User":"spark","Spark Version":"3.5.0"}`,
	`{"Event":"SparkListenerEnvironmentUpdate","Spark Properties":{"spark.master":"yarn"},"System Properties":{"java.version":"17"}}`,
	`{"Event":"SparkListenerExecutorAdded","Timestamp":1010,"Executor ID":"1","Executor Info":{"Host":"worker-1","Total Cores":4,"Maximum Memory":1073741824}}`,
	`{"Event":"SparkListenerJobStart","Job ID":0,"Submission Time":1100,"Stage IDs":[0]}`,
	`{"Event":"SparkListenerStageSubmitted","Stage Info":{"Stage ID":0,"Stage Attempt ID":0,"Stage Name":"collect","Number of Tasks":2,"Submission Time":1200}}`,
	`{"Event":"SparkListenerTaskStart","Stage ID":0,"Stage Attempt ID":0,"Task Info":{"Task ID":0,"Launch Time":1300,"Executor ID":"1","Host":"worker-1"}}`,
	`{"Event":"SparkListenerTaskStart","Stage ID":0,"Stage Attempt ID":0,"Task Info":{"Task ID":1,"Launch Time":1310,"Executor ID":"1","Host":"worker-1"}}`,
	`{"Event":"SparkListenerTaskEnd","Stage ID":0,"Stage Attempt ID":0,"Task End Reason":{"Reason":"Success"},"Task Info":{"Task ID":0,"Launch Time":1300,"Executor ID":"1","Finish Time":1400},"Task Metrics":{"Executor Run Time":90,"JVM GC Time":5}}`,
	`{"Event":"SparkListenerStageCompleted","Stage Info":{"Stage ID":0,"Stage Attempt ID":0,"Completion Time":1500}}`,
	`{"Event":"SparkListenerJobEnd","Job ID":0,"Completion Time":1600,"Job Result":{"Result":"JobSucceeded"}}`,
	`{"Event":"SparkListenerApplicationEnd","Timestamp":1700}`,
}, "\n")

func setupWebApp(t *testing.T) {
	t.Helper()
	store := cache.NewStore()
	loader := ingest.NewLoader(store, nil)
	diags, err := loader.Load(context.Background(), strings.NewReader(eventLog))
	assert.NilError(t, err, "load failed")
	NewWebApp(store, diags, ":0")
}

func doGet(t *testing.T, handle httprouter.Handle, target string, params httprouter.Params, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	req := httptest.NewRequest("GET", target, nil)
	handle(resp, req, params)
	if out != nil {
		assert.Equal(t, http.StatusOK, resp.Code, "body: %s", resp.Body.String())
		assert.NilError(t, json.Unmarshal(resp.Body.Bytes(), out), "invalid response body")
	}
	return resp
}

func TestGetApplicationInfo(t *testing.T) {
	setupWebApp(t)
	var info dao.ApplicationDAOInfo
	doGet(t, getApplicationInfo, "/ws/v1/application", nil, &info)

	assert.Equal(t, "app-1", info.ApplicationID)
	assert.Equal(t, "wordcount", info.Name)
	assert.Equal(t, "FINISHED", info.Status)
	assert.Equal(t, "700ms", info.Duration)
}

func TestGetApplicationInfoNotLoaded(t *testing.T) {
	NewWebApp(cache.NewStore(), &ingest.Diagnostics{}, ":0")
	resp := doGet(t, getApplicationInfo, "/ws/v1/application", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetJobsInfo(t *testing.T) {
	setupWebApp(t)
	var jobs []dao.JobDAOInfo
	doGet(t, getJobsInfo, "/ws/v1/jobs", nil, &jobs)

	assert.Equal(t, 1, len(jobs))
	assert.Equal(t, "SUCCEEDED", jobs[0].Status)
	assert.Equal(t, "500ms", jobs[0].Duration)
	assert.Equal(t, 1, jobs[0].StageCounts.Complete)
}

func TestGetStagesInfo(t *testing.T) {
	setupWebApp(t)
	var stages []dao.StageDAOInfo
	doGet(t, getStagesInfo, "/ws/v1/stages", nil, &stages)

	assert.Equal(t, 1, len(stages))
	st := stages[0]
	assert.Equal(t, "COMPLETE", st.Status)
	assert.Equal(t, 2, st.NumTasks)
	// one of two declared tasks succeeded, the other never ended
	assert.Equal(t, 50, st.PercentComplete)
	assert.Equal(t, 1, st.TaskCounts.Success)
	assert.Equal(t, 1, st.TaskCounts.Running)
	assert.Equal(t, "90ms", st.MetricsSum.ExecutorRunTime)
}

func TestGetStageTasksInfo(t *testing.T) {
	setupWebApp(t)
	var tasks []dao.TaskDAOInfo
	doGet(t, getStageTasksInfo, "/ws/v1/stages/0/tasks",
		httprouter.Params{{Key: "stage", Value: "0"}}, &tasks)

	assert.Equal(t, 2, len(tasks))
	assert.Equal(t, "SUCCESS", tasks[0].Status)
	assert.Equal(t, "100ms", tasks[0].Duration)
	assert.Equal(t, "RUNNING", tasks[1].Status)
	assert.Equal(t, "", tasks[1].Duration)
}

func TestGetStageTasksInfoBadStage(t *testing.T) {
	setupWebApp(t)
	resp := doGet(t, getStageTasksInfo, "/ws/v1/stages/nope/tasks",
		httprouter.Params{{Key: "stage", Value: "nope"}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetExecutorsInfo(t *testing.T) {
	setupWebApp(t)
	var execs []dao.ExecutorDAOInfo
	doGet(t, getExecutorsInfo, "/ws/v1/executors", nil, &execs)

	assert.Equal(t, 1, len(execs))
	assert.Equal(t, "worker-1", execs[0].Host)
	assert.Equal(t, 4, execs[0].TotalCores)
	assert.Equal(t, "1.0 GiB", execs[0].MaxMemory)
	assert.Equal(t, 1, execs[0].CompletedTasks)
	assert.Equal(t, 1, execs[0].ActiveTasks)
}

func TestGetEnvironmentInfo(t *testing.T) {
	setupWebApp(t)
	var env dao.EnvironmentDAOInfo
	doGet(t, getEnvironmentInfo, "/ws/v1/environment", nil, &env)

	assert.Equal(t, 1, len(env.SparkProperties))
	assert.Equal(t, "spark.master", env.SparkProperties[0].Name)
	assert.Equal(t, "yarn", env.SparkProperties[0].Value)
	assert.Equal(t, 0, len(env.HadoopProperties))
}

func TestGetDiagnosticsInfo(t *testing.T) {
	setupWebApp(t)
	var diags dao.DiagnosticsDAOInfo
	doGet(t, getDiagnosticsInfo, "/ws/v1/diagnostics", nil, &diags)

	assert.Equal(t, int64(11), diags.LinesRead)
	assert.Equal(t, int64(11), diags.Decoded)
	assert.Equal(t, int64(0), diags.Skipped)
	assert.Assert(t, diags.Completed)
	assert.Assert(t, diags.SessionID != "")
}

func TestGetFullStateDump(t *testing.T) {
	setupWebApp(t)
	var dump dao.StateDumpDAOInfo
	doGet(t, getFullStateDump, "/ws/v1/fullstatedump", nil, &dump)

	assert.Assert(t, dump.Application != nil)
	assert.Equal(t, 1, len(dump.Jobs))
	assert.Equal(t, 1, len(dump.Stages))
	assert.Equal(t, 2, len(dump.Tasks))
	assert.Equal(t, 1, len(dump.Executors))
	assert.Assert(t, dump.Timestamp > 0)
}

func TestWebAppStartStop(t *testing.T) {
	setupWebApp(t)
	web := NewWebApp(liveStore, liveDiags, "127.0.0.1:0")
	web.StartWebApp()
	assert.NilError(t, web.StopWebApp(), "shutdown failed")
}
