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

package energy

import (
	"context"
	"log/slog"
	"sync"
)

// Meter converts cumulative zone readings into per-interval energy.
type Meter struct {
	reader Reader

	mu   sync.Mutex
	last map[string]uint64
}

// NewMeter returns a Meter reading from r.
func NewMeter(r Reader) *Meter {
	return &Meter{
		reader: r,
		last:   make(map[string]uint64),
	}
}

// Next reads the counters and returns the microjoules spent since the
// previous call, summed over zones. It returns nil when no previous reading
// exists yet or when a zone went backwards without a known wrap range.
func (m *Meter) Next(ctx context.Context) (*float64, error) {
	readings, err := m.reader.Read(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var total uint64
	complete := len(readings) > 0
	for _, r := range readings {
		prev, ok := m.last[r.Zone]
		m.last[r.Zone] = r.Microjoules
		if !ok {
			complete = false
			continue
		}
		delta, ok := counterDelta(prev, r.Microjoules, r.MaxMicrojoules)
		if !ok {
			slog.Debug("energy counter went backwards", "zone", r.Zone, "prev", prev, "cur", r.Microjoules)
			complete = false
			continue
		}
		total += delta
	}

	if !complete {
		return nil, nil
	}
	v := float64(total)
	return &v, nil
}

// counterDelta returns cur-prev for a counter wrapping at maxRange.
func counterDelta(prev, cur, maxRange uint64) (uint64, bool) {
	if cur >= prev {
		return cur - prev, true
	}
	if maxRange == 0 || prev > maxRange {
		return 0, false
	}
	return maxRange - prev + cur, true
}
