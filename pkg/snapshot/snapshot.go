// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package snapshot

import (
	"strings"

	"k8s.io/utils/ptr"
)

// Snapshot is the normalized resource usage of one container at one point in time.
type Snapshot struct {
	ContainerID   string   `json:"containerId" yaml:"containerId"`
	ContainerName string   `json:"containerName" yaml:"containerName"`
	Timestamp     int64    `json:"ts" yaml:"ts"`
	PIDCount      *uint64  `json:"pidCount,omitempty" yaml:"pidCount,omitempty"`
	PIDLimit      *uint64  `json:"pidLimit,omitempty" yaml:"pidLimit,omitempty"`
	MemoryUsage   *uint64  `json:"memoryUsage,omitempty" yaml:"memoryUsage,omitempty"`
	MemoryLimit   *uint64  `json:"memoryLimit,omitempty" yaml:"memoryLimit,omitempty"`
	CPUPercent    float64  `json:"cpuPercent" yaml:"cpuPercent"`
	CPUCount      uint64   `json:"cpuCount" yaml:"cpuCount"`
	CPUEnergy     *float64 `json:"cpuEnergy,omitempty" yaml:"cpuEnergy,omitempty"`
}

// Build converts a pair of consecutive samples into a Snapshot and attributes
// a share of totalEnergy to it. A nil totalEnergy leaves CPUEnergy unset.
func Build(cur, prior Sample, totalEnergy *float64) Snapshot {
	return WithEnergy(FromSample(cur, prior), totalEnergy)
}

// FromSample converts the current sample and the one immediately preceding it
// into a Snapshot. CPUEnergy is always nil.
func FromSample(cur, prior Sample) Snapshot {
	var cpuPercent float64
	if !backwards(cur, prior) {
		cpuDelta := cur.CPU.TotalUsage - prior.CPU.TotalUsage
		systemDelta := cur.CPU.systemUsage() - prior.CPU.systemUsage()
		cpuPercent = float64(cpuDelta) / float64(systemDelta)
	}

	return Snapshot{
		ContainerID:   cur.ID,
		ContainerName: NormalizeName(cur.Name),
		Timestamp:     cur.Read.Unix(),
		PIDCount:      copyOf(cur.PIDCount),
		PIDLimit:      copyOf(cur.PIDLimit),
		MemoryUsage:   copyOf(cur.MemoryUsage),
		MemoryLimit:   copyOf(cur.MemoryLimit),
		CPUPercent:    cpuPercent,
		CPUCount:      ptr.Deref(cur.CPU.OnlineCPUs, 1),
	}
}

// WithEnergy returns a copy of s whose CPUEnergy is CPUPercent * totalEnergy.
// When totalEnergy is nil the copy keeps the CPUEnergy of s.
func WithEnergy(s Snapshot, totalEnergy *float64) Snapshot {
	if totalEnergy == nil {
		return s
	}
	s.CPUEnergy = ptr.To(s.CPUPercent * *totalEnergy)
	return s
}

// Degenerate reports whether a meaningful CPU share cannot be derived from
// the pair: a host-wide reading is missing (the first frame of a stream has
// no prior reading), the host-wide delta is zero, or a cumulative counter went
// backwards because the container or host restarted between the two samples.
func Degenerate(cur, prior Sample) bool {
	if cur.CPU.SystemUsage == nil || prior.CPU.SystemUsage == nil {
		return true
	}
	return backwards(cur, prior)
}

// backwards reports a zero or negative delta on either counter, for which the
// share is reported as zero.
func backwards(cur, prior Sample) bool {
	if cur.CPU.systemUsage() <= prior.CPU.systemUsage() {
		return true
	}
	return cur.CPU.TotalUsage < prior.CPU.TotalUsage
}

// NormalizeName strips a single leading path separator from a container name
// as reported by the runtime ("/web" -> "web").
func NormalizeName(name string) string {
	return strings.TrimPrefix(name, "/")
}

func copyOf(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	return ptr.To(*v)
}
