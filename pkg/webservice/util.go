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

import "fmt"

// humanDuration renders a millisecond duration the way the producer's own
// UI does: sub-second in ms, then seconds, minutes, hours.
func humanDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60*1000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	case ms < 60*60*1000:
		return fmt.Sprintf("%dm %ds", ms/60000, (ms%60000)/1000)
	default:
		return fmt.Sprintf("%dh %dm", ms/3600000, (ms%3600000)/60000)
	}
}

func humanBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// optDuration and optBytes render zero as empty so the DAO omitempty
// drops never-reported metrics from the response.
func optDuration(ms int64) string {
	if ms == 0 {
		return ""
	}
	return humanDuration(ms)
}

func optBytes(b int64) string {
	if b == 0 {
		return ""
	}
	return humanBytes(b)
}

func durationBetween(start, end *int64) string {
	if start == nil || end == nil || *end < *start {
		return ""
	}
	return humanDuration(*end - *start)
}

// percentComplete is successful tasks over the declared task count,
// clamped to [0, 100]. A stage with no declared tasks reports zero.
func percentComplete(success, numTasks int) int {
	if numTasks <= 0 {
		return 0
	}
	pct := success * 100 / numTasks
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
