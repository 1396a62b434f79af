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

// Package snapshot converts raw, delta-based container statistics into
// normalized Snapshot records.
//
// A Snapshot is derived from two consecutive Samples of the same container:
// the current reading and the one immediately before it. CPU usage is reported
// by the runtime as cumulative counters, so the CPU share of a container is the
// ratio of the container delta to the host-wide delta:
//
//	cpuPercent = (cur.CPU.TotalUsage - prior.CPU.TotalUsage) /
//	             (cur.CPU.SystemUsage - prior.CPU.SystemUsage)
//
// Energy attribution is a separate, pure post-processing step:
//
//	snap := snapshot.FromSample(cur, prior)
//	snap = snapshot.WithEnergy(snap, totalEnergy) // cpuEnergy = cpuPercent * totalEnergy
//
// or both at once with Build. Optional telemetry (PID and memory gauges,
// system CPU usage, online CPU count) is carried as nil pointers when the
// runtime does not report it; absent is never conflated with zero.
//
// A pair of samples whose system CPU delta is zero, or whose cumulative
// counters went backwards, cannot yield a meaningful share; FromSample reports
// a zero CPU share for them instead of NaN or Inf. Degenerate reports such
// pairs, and pairs missing a host-wide reading, so callers can skip them.
package snapshot
