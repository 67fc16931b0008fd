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
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc httprouter.Handle
}

type Routes []Route

var webRoutes = Routes{
	Route{
		"Application",
		"GET",
		"/ws/v1/application",
		getApplicationInfo,
	},
	Route{
		"Jobs",
		"GET",
		"/ws/v1/jobs",
		getJobsInfo,
	},
	Route{
		"Stages",
		"GET",
		"/ws/v1/stages",
		getStagesInfo,
	},
	Route{
		"StageTasks",
		"GET",
		"/ws/v1/stages/:stage/tasks",
		getStageTasksInfo,
	},
	Route{
		"Executors",
		"GET",
		"/ws/v1/executors",
		getExecutorsInfo,
	},
	Route{
		"Environment",
		"GET",
		"/ws/v1/environment",
		getEnvironmentInfo,
	},
	Route{
		"Diagnostics",
		"GET",
		"/ws/v1/diagnostics",
		getDiagnosticsInfo,
	},
	Route{
		"FullStateDump",
		"GET",
		"/ws/v1/fullstatedump",
		getFullStateDump,
	},
	Route{
		"Metrics",
		"GET",
		"/ws/v1/metrics",
		func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			promhttp.Handler().ServeHTTP(w, r)
		},
	},
}
