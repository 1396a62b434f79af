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

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/docker-activity/pkg/collector"
	"github.com/NVIDIA/docker-activity/pkg/defaults"
	"github.com/NVIDIA/docker-activity/pkg/header"
	"github.com/NVIDIA/docker-activity/pkg/serializer"
	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Take one snapshot of every running container",
		Description: `Read the statistics of every running container once and print the
resulting snapshots. When energy counters are available, the host energy spent
while the statistics were read is attributed to the containers by CPU share.`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "timeout for collecting all snapshots",
				Value: defaults.CLISnapshotTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyOutputFlags(cmd, cfg); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			client, err := newDockerClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeClient(client)

			snaps, err := collector.Once(ctx, client, newEnergyReader(cfg))
			if err != nil {
				return err
			}
			slog.Debug("collected snapshots", "count", len(snaps))

			w := serializer.NewFileWriterOrStdout(serializer.Format(cfg.Exporter.Format), cfg.Exporter.Output)
			defer func() {
				if err := w.Close(); err != nil {
					slog.Warn("failed to close output", "error", err)
				}
			}()
			return w.Serialize(ctx, snapshot.NewList(snaps,
				header.WithVersion(version),
				header.WithMetadata(header.MetadataDockerHost, cfg.Docker.Host),
			))
		},
	}
}
