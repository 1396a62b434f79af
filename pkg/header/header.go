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

package header

import (
	"time"
)

// APIVersion is the schema version of every docker-activity document.
const APIVersion = "docker-activity.nvidia.com/v1"

// Metadata keys.
const (
	MetadataTimestamp  = "timestamp"
	MetadataVersion    = "version"
	MetadataDockerHost = "dockerHost"
)

// Kind represents the type of a docker-activity document.
type Kind string

// KindSnapshotList is the kind of a document listing container snapshots.
const KindSnapshotList Kind = "SnapshotList"

// Header contains metadata and versioning information of a document.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs about how the document was produced.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		h.Metadata[key] = value
	}
}

// WithVersion records the version of the tool that produced the document.
// Empty versions are not recorded.
func WithVersion(version string) Option {
	return func(h *Header) {
		if version != "" {
			h.Metadata[MetadataVersion] = version
		}
	}
}

// New returns a Header of the given kind stamped with the current UTC time.
func New(kind Kind, opts ...Option) Header {
	h := Header{
		Kind:       kind,
		APIVersion: APIVersion,
		Metadata: map[string]string{
			MetadataTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	for _, opt := range opts {
		opt(&h)
	}

	return h
}
