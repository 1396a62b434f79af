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

// Package serializer provides encoding and decoding of data in multiple formats.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, indented representation
//   - Suitable for API responses and programmatic consumption
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for configuration files
//   - gopkg.in/yaml.v3 package; consecutive documents are separated by "---"
//
// Table:
//   - Flattened FIELD/VALUE rows for terminal viewing
//   - Read-only (no deserialization support)
//
// # Usage - Encoding
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, snap); err != nil {
//	    return err
//	}
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//
// # Usage - Decoding
//
//	cfg, err := serializer.FromFile("docker-activity.yaml", config.Default())
//
// # Format Detection
//
// File extension-based detection:
//   - .json → JSON
//   - .yaml, .yml → YAML
//   - .table, .txt → Table
//   - Other → JSON (default)
package serializer

import "context"

// Serializer is an interface for serializing data.
// Implementations of this interface can serialize data to various formats
// such as JSON, YAML, or plain text.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is an optional interface that Serializers can implement
// if they need to release resources (e.g., close file handles).
type Closer interface {
	Close() error
}
