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
	"github.com/NVIDIA/docker-activity/pkg/header"
)

// List is a document holding the snapshots of several containers.
type List struct {
	header.Header `json:",inline" yaml:",inline"`

	Count int        `json:"count" yaml:"count"`
	Items []Snapshot `json:"items" yaml:"items"`
}

// NewList wraps items in a SnapshotList document.
func NewList(items []Snapshot, opts ...header.Option) List {
	if items == nil {
		items = []Snapshot{}
	}
	return List{
		Header: header.New(header.KindSnapshotList, opts...),
		Count:  len(items),
		Items:  items,
	}
}
