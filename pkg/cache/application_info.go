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
	"github.com/looplab/fsm"
)

// ApplicationInfo is the single application reconstructed from a log.
// Identity fields are filled by the start event; a placeholder created by
// an out-of-order end event leaves them empty until the start arrives.
type ApplicationInfo struct {
	ApplicationID string
	Name          string
	AttemptID     *string
	User          string
	SparkVersion  string
	StartTime     *int64 // epoch ms, nil when not reported
	EndTime       *int64

	stateMachine *fsm.FSM
}

func NewApplicationInfo(appID string) *ApplicationInfo {
	return &ApplicationInfo{
		ApplicationID: appID,
		stateMachine:  newApplicationState(),
	}
}

func (a *ApplicationInfo) CurrentState() string {
	return a.stateMachine.Current()
}

// HandleApplicationEvent runs the state machine, the error reports an
// illegal transition.
func (a *ApplicationInfo) HandleApplicationEvent(event ApplicationEvent) error {
	return a.stateMachine.Event(event.String(), a.ApplicationID)
}
