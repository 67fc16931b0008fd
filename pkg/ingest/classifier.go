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

package ingest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sparkview/sparkview-core/pkg/cache"
)

// Producers keep growing the set of task end reasons, so the mapping from
// reason string to task outcome is a rule table, not hard-coded matching.
// Rules are evaluated in order, first substring match wins; a non-success
// reason matching nothing classifies as failed.

const reasonSuccess = "Success"

// ClassifierRule maps reasons containing a substring to an outcome.
type ClassifierRule struct {
	Contains string `yaml:"contains"`
	Outcome  string `yaml:"outcome"` // success, failed or killed
}

type classifierConfig struct {
	Rules []ClassifierRule `yaml:"rules"`
}

type ReasonClassifier struct {
	rules []classifierRule
}

type classifierRule struct {
	contains string
	outcome  cache.TaskEvent
}

// defaultRules cover the reason strings the producer is known to emit.
// OOM and fetch failures are listed separately so an override file can
// reclassify them without touching the catch-all behavior.
var defaultRules = []ClassifierRule{
	{Contains: "TaskKilled", Outcome: "killed"},
	{Contains: "TaskCommitDenied", Outcome: "killed"},
	{Contains: "OutOfMemoryError", Outcome: "failed"},
	{Contains: "FetchFailed", Outcome: "failed"},
	{Contains: "ExecutorLostFailure", Outcome: "failed"},
	{Contains: "ExceptionFailure", Outcome: "failed"},
}

// NewReasonClassifier builds a classifier with the default rule table.
func NewReasonClassifier() *ReasonClassifier {
	rc, err := newClassifier(defaultRules)
	if err != nil {
		// defaults are static, a bad entry is a programming error
		panic(err)
	}
	return rc
}

// LoadReasonClassifier reads a rule table from a YAML file. The file
// replaces the default table wholesale.
func LoadReasonClassifier(path string) (*ReasonClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading classifier rules: %w", err)
	}
	var cfg classifierConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing classifier rules: %w", err)
	}
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("classifier rules file %s contains no rules", path)
	}
	return newClassifier(cfg.Rules)
}

func newClassifier(rules []ClassifierRule) (*ReasonClassifier, error) {
	rc := &ReasonClassifier{}
	for _, r := range rules {
		if r.Contains == "" {
			return nil, fmt.Errorf("classifier rule with empty match string")
		}
		var outcome cache.TaskEvent
		switch strings.ToLower(r.Outcome) {
		case "success":
			outcome = cache.SucceedTask
		case "failed":
			outcome = cache.FailTask
		case "killed":
			outcome = cache.KillTask
		default:
			return nil, fmt.Errorf("classifier rule %q has unknown outcome %q", r.Contains, r.Outcome)
		}
		rc.rules = append(rc.rules, classifierRule{contains: r.Contains, outcome: outcome})
	}
	return rc, nil
}

// Classify maps one flattened end reason to the task outcome event.
func (rc *ReasonClassifier) Classify(reason string) cache.TaskEvent {
	if reason == reasonSuccess {
		return cache.SucceedTask
	}
	for _, r := range rc.rules {
		if strings.Contains(reason, r.contains) {
			return r.outcome
		}
	}
	return cache.FailTask
}
