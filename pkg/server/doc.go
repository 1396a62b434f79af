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

// Package server provides the HTTP listener that docker-activity exposes
// for Prometheus scraping and for inspecting collected snapshots.
//
// # Routes
//
//	GET /metrics       Prometheus exposition of the configured registry
//	GET /health        liveness probe, always 200
//	GET /ready         readiness probe, 503 until the listener is up
//	GET /              server name, version and routes
//
// Additional routes are supplied with WithHandler and run behind the
// middleware chain: request metrics, API version negotiation, request IDs,
// panic recovery, rate limiting (golang.org/x/time/rate) and debug logging.
// System routes bypass the chain so scrapes are never rate limited.
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	s := server.New(
//	    server.WithName("docker-activity"),
//	    server.WithVersion(version),
//	    server.WithRegistry(reg),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/snapshots": collector.HandleSnapshots,
//	    }),
//	)
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled and then shuts down within
// Config.ShutdownTimeout. When started by systemd with Type=notify the
// server reports READY=1 once listening and STOPPING=1 on shutdown.
//
// # Errors
//
// Errors are returned as JSON:
//
//	{
//	  "code": "RATE_LIMIT_EXCEEDED",
//	  "message": "Rate limit exceeded",
//	  "details": {"limit": 100, "burst": 200},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-12-22T12:00:00Z",
//	  "retryable": true
//	}
//
// # Environment
//
//	PORT                       listener port (default 9000)
//	SHUTDOWN_TIMEOUT_SECONDS   graceful shutdown bound (default 30)
package server
