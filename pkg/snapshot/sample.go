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

import "time"

// CPUReading holds the cumulative CPU counters of one statistics sample.
type CPUReading struct {
	// TotalUsage is the cumulative CPU time consumed by the container.
	TotalUsage uint64

	// SystemUsage is the cumulative host-wide CPU time, nil when not reported.
	SystemUsage *uint64

	// OnlineCPUs is the number of CPUs online on the host, nil when not reported.
	OnlineCPUs *uint64
}

// Sample is one raw statistics reading of a container as supplied by the
// container runtime.
type Sample struct {
	ID   string
	Name string
	Read time.Time

	CPU CPUReading

	PIDCount    *uint64
	PIDLimit    *uint64
	MemoryUsage *uint64
	MemoryLimit *uint64
}

func (r CPUReading) systemUsage() uint64 {
	if r.SystemUsage == nil {
		return 0
	}
	return *r.SystemUsage
}
