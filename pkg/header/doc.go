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

// Package header provides the envelope written around docker-activity
// documents so consumers can tell what they are reading.
//
// It follows Kubernetes-style resource conventions:
//
//	kind: SnapshotList
//	apiVersion: docker-activity.nvidia.com/v1
//	metadata:
//	  timestamp: "2025-12-22T12:00:00Z"
//	  version: v0.3.0
//
// Usage:
//
//	h := header.New(header.KindSnapshotList, header.WithVersion(version))
package header
