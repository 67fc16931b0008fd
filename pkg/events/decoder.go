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

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result classifies the outcome of decoding one line.
type Result int

const (
	// Decoded means the line produced a typed event.
	Decoded Result = iota
	// Unrecognized means the line is valid JSON tagged with an event kind
	// this version does not know. Skipped for forward compatibility.
	Unrecognized
	// Malformed means the line is not a valid event record at all.
	Malformed
)

func (r Result) String() string {
	return [...]string{"Decoded", "Unrecognized", "Malformed"}[r]
}

type eventHeader struct {
	Event string `json:"Event"`
}

// Decode turns one raw line into a typed event. It never fails hard: a bad
// line yields Malformed, an unknown discriminator yields Unrecognized, and
// in both cases the returned event is nil. The error carries decode detail
// for diagnostics only.
func Decode(line []byte) (Event, Result, error) {
	var hdr eventHeader
	if err := json.Unmarshal(line, &hdr); err != nil {
		return nil, Malformed, fmt.Errorf("invalid event record: %w", err)
	}
	if hdr.Event == "" {
		return nil, Malformed, fmt.Errorf("event record has no discriminator field")
	}

	var ev Event
	switch hdr.Event {
	case TypeApplicationStart:
		ev = &ApplicationStart{}
	case TypeApplicationEnd:
		ev = &ApplicationEnd{}
	case TypeJobStart:
		ev = &JobStart{}
	case TypeJobEnd:
		ev = &JobEnd{}
	case TypeStageSubmitted:
		ev = &StageSubmitted{}
	case TypeStageCompleted:
		ev = &StageCompleted{}
	case TypeTaskStart:
		ev = &TaskStart{}
	case TypeTaskEnd:
		ev = &TaskEnd{}
	case TypeExecutorAdded:
		ev = &ExecutorAdded{}
	case TypeExecutorRemoved:
		ev = &ExecutorRemoved{}
	case TypeEnvironmentUpdate:
		ev = &EnvironmentUpdate{}
	default:
		return nil, Unrecognized, nil
	}
	if err := json.Unmarshal(line, ev); err != nil {
		return nil, Malformed, fmt.Errorf("decoding %s: %w", hdr.Event, err)
	}
	return ev, Decoded, nil
}

// StorageLevel is the persistence level of an RDD. Old producer versions
// wrote it as a plain string, newer ones as an object of flags; both decode
// to a short display form.
type StorageLevel string

type storageLevelRecord struct {
	UseDisk      bool `json:"Use Disk"`
	UseMemory    bool `json:"Use Memory"`
	Deserialized bool `json:"Deserialized"`
	Replication  int  `json:"Replication"`
}

func (s *StorageLevel) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*s = StorageLevel(plain)
		return nil
	}
	var rec storageLevelRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	var parts []string
	if rec.UseMemory {
		parts = append(parts, "Memory")
	}
	if rec.UseDisk {
		parts = append(parts, "Disk")
	}
	if rec.Deserialized {
		parts = append(parts, "Deserialized")
	}
	if len(parts) == 0 {
		*s = "NONE"
		return nil
	}
	level := strings.Join(parts, " ")
	if rec.Replication > 1 {
		level = fmt.Sprintf("%s %dx Replicated", level, rec.Replication)
	}
	*s = StorageLevel(level)
	return nil
}
