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

package collector

import (
	"net/http"

	"github.com/NVIDIA/docker-activity/pkg/errors"
	"github.com/NVIDIA/docker-activity/pkg/serializer"
	"github.com/NVIDIA/docker-activity/pkg/server"
	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

// HandleSnapshots serves the latest snapshot of every watched container as
// a SnapshotList document.
func (c *Collector) HandleSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		server.WriteErrorFromErr(w, r, errors.NewWithContext(errors.ErrCodeMethodNotAllowed,
			"Method not allowed", map[string]any{"method": r.Method}), "", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, snapshot.NewList(c.Latest()))
}
