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

// Package energy reads the host energy counters used to attribute energy to
// containers.
//
// The host source is Intel RAPL exposed through the powercap sysfs class
// (/sys/class/powercap/intel-rapl:*). Each zone is a cumulative microjoule
// counter that wraps at max_energy_range_uj. A Meter turns those cumulative
// readings into the energy spent since its previous reading, summed over
// zones:
//
//	src, err := energy.NewRAPL("/sys")
//	m := energy.NewMeter(src)
//	total, err := m.Next(ctx) // nil on the first call
//
// Every consumer (one per container stream) owns its own Meter so each gets
// the energy spent over its own sampling interval.
package energy

import "context"

// ZoneReading is one cumulative counter value of an energy zone.
type ZoneReading struct {
	// Zone uniquely identifies the counter.
	Zone string

	// Microjoules is the cumulative energy counter.
	Microjoules uint64

	// MaxMicrojoules is the value at which the counter wraps to zero, 0 if unknown.
	MaxMicrojoules uint64
}

// Reader reads the current value of the host energy counters.
type Reader interface {
	Read(ctx context.Context) ([]ZoneReading, error)
}
