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
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/procfs/sysfs"

	"github.com/NVIDIA/docker-activity/pkg/errors"
)

// DefaultZonePrefix selects the top-level package domains. Sub-domains
// (core, uncore, dram) are already included in their package counter.
const DefaultZonePrefix = "package"

// RAPL reads energy counters from the powercap sysfs class.
type RAPL struct {
	zones []sysfs.RaplZone
}

// NewRAPL discovers the RAPL zones under the sysfs mount point whose name
// starts with one of the given prefixes (DefaultZonePrefix when none given).
func NewRAPL(mountPoint string, prefixes ...string) (*RAPL, error) {
	if len(prefixes) == 0 {
		prefixes = []string{DefaultZonePrefix}
	}

	fs, err := sysfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("failed to open sysfs at %q: %w", mountPoint, err)
	}

	all, err := sysfs.GetRaplZones(fs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to list RAPL zones", err)
	}

	zones := make([]sysfs.RaplZone, 0, len(all))
	for _, z := range all {
		if hasAnyPrefix(z.Name, prefixes) {
			zones = append(zones, z)
		}
	}

	if len(zones) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound, "no matching RAPL zones",
			map[string]any{"mountPoint": mountPoint, "prefixes": prefixes, "available": len(all)})
	}

	for _, z := range zones {
		slog.Debug("using RAPL zone", "name", z.Name, "index", z.Index, "path", z.Path)
	}

	return &RAPL{zones: zones}, nil
}

// Read returns the current counter of every selected zone.
func (r *RAPL) Read(ctx context.Context) ([]ZoneReading, error) {
	out := make([]ZoneReading, 0, len(r.zones))
	for _, z := range r.zones {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		uj, err := z.GetEnergyMicrojoules()
		if err != nil {
			return nil, fmt.Errorf("failed to read RAPL zone %s: %w", z.Path, err)
		}
		out = append(out, ZoneReading{
			Zone:           z.Path,
			Microjoules:    uj,
			MaxMicrojoules: z.MaxMicrojoules,
		})
	}
	return out, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
