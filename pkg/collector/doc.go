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

// Package collector drives collection: it tracks the running containers,
// streams their statistics, turns each frame into a snapshot and hands it
// to an exporter.
//
// One goroutine is started per running container. The running set is listed
// again every rescan interval so containers started later are picked up; a
// container's goroutine ends when its stats stream ends. There is no retry.
//
// Frames whose CPU counters cannot yield a usage ratio (no prior reading,
// zero host delta, counters reset) are skipped and counted in
// docker_activity_degenerate_samples_total.
//
// When an energy reader is configured each container gets its own
// energy.Meter, so the energy attributed to a frame covers the same interval
// as that frame's CPU ratio.
package collector
