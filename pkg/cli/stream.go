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
	"github.com/NVIDIA/docker-activity/pkg/config"
	"github.com/NVIDIA/docker-activity/pkg/exporter/stream"
	"github.com/NVIDIA/docker-activity/pkg/serializer"
)

func streamCmd() *cli.Command {
	return &cli.Command{
		Name:                  "stream",
		EnableShellCompletion: true,
		Usage:                 "Write every container snapshot as it is collected",
		Description: `Stream the statistics of every running container and write each snapshot
to stdout or a file. JSON writes one document per snapshot, YAML separates
documents with ---, table prints one field per row.`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
			&cli.BoolFlag{
				Name:  "energy-only",
				Usage: "only write snapshots carrying an energy value",
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
			if cmd.IsSet("energy-only") {
				cfg.Exporter.EnergyOnly = cmd.Bool("energy-only")
			}

			exp, err := stream.New(serializer.Format(cfg.Exporter.Format), cfg.Exporter.Output,
				stream.WithEnergyOnly(cfg.Exporter.EnergyOnly))
			if err != nil {
				return err
			}
			defer func() {
				if err := exp.Close(); err != nil {
					slog.Warn("failed to close output", "error", err)
				}
			}()

			client, err := newDockerClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeClient(client)

			return collector.New(client, exp,
				collector.WithRescanInterval(cfg.Collector.RescanInterval),
				collector.WithEnergy(newEnergyReader(cfg)),
			).Run(ctx)
		},
	}
}

// applyOutputFlags overrides the configured output with --format and --output
// when they are given.
func applyOutputFlags(cmd *cli.Command, cfg *config.Config) error {
	if cmd.IsSet("format") {
		f, err := parseOutputFormat(cmd)
		if err != nil {
			return err
		}
		cfg.Exporter.Format = string(f)
	}
	if cmd.IsSet("output") {
		cfg.Exporter.Output = cmd.String("output")
	}
	return nil
}
