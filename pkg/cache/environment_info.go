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

import "sort"

// Environment property categories as reported by the producer.
const (
	CategorySpark     = "spark"
	CategoryHadoop    = "hadoop"
	CategorySystem    = "system"
	CategoryClasspath = "classpath"
)

// EnvironmentInfo holds the four property categories. A category is
// replaced wholesale when re-reported (last wins); categories not re-sent
// keep their previous pairs.
type EnvironmentInfo struct {
	categories map[string]map[string]string
}

func NewEnvironmentInfo() *EnvironmentInfo {
	return &EnvironmentInfo{
		categories: make(map[string]map[string]string),
	}
}

// SetCategory overwrites one category. A nil property map clears nothing,
// it is treated as "not re-sent".
func (e *EnvironmentInfo) SetCategory(category string, props map[string]string) {
	if props == nil {
		return
	}
	copied := make(map[string]string, len(props))
	for k, v := range props {
		copied[k] = v
	}
	e.categories[category] = copied
}

// Property is one key/value pair of a category.
type Property struct {
	Name  string
	Value string
}

// Category returns the pairs of one category sorted by name for stable
// display ordering.
func (e *EnvironmentInfo) Category(category string) []Property {
	props := e.categories[category]
	out := make([]Property, 0, len(props))
	for k, v := range props {
		out = append(out, Property{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
