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
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/docker-activity/pkg/collector"
	promexp "github.com/NVIDIA/docker-activity/pkg/exporter/prometheus"
	"github.com/NVIDIA/docker-activity/pkg/server"
)

func prometheusCmd() *cli.Command {
	return &cli.Command{
		Name:                  "prometheus",
		EnableShellCompletion: true,
		Usage:                 "Serve per-container energy counters for Prometheus",
		ArgsUsage:             "[port]",
		Description: `Stream the statistics of every running container and accumulate the CPU
energy attributed to each in a counter named docker_activity_cpu_power_<container>.

The counters are served on /metrics; the latest snapshot of every container on
/v1/snapshots. The port argument overrides the configured listener port.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "listener address (default: 0.0.0.0)",
			},
			&cli.StringFlag{
				Name:  "metric-prefix",
				Usage: "counter name prefix (default: " + promexp.DefaultPrefix + ")",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if arg := cmd.Args().First(); arg != "" {
				port, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid port %q: %w", arg, err)
				}
				cfg.Server.Port = port
			}
			if cmd.IsSet("address") {
				cfg.Server.Address = cmd.String("address")
			}
			if cmd.IsSet("metric-prefix") {
				cfg.Exporter.MetricPrefix = cmd.String("metric-prefix")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			exp := promexp.New(reg, promexp.WithPrefix(cfg.Exporter.MetricPrefix))

			client, err := newDockerClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeClient(client)

			col := collector.New(client, exp,
				collector.WithRegisterer(reg),
				collector.WithRescanInterval(cfg.Collector.RescanInterval),
				collector.WithEnergy(newEnergyReader(cfg)),
			)

			srvCfg := server.NewConfig()
			srvCfg.Address = cfg.Server.Address
			srvCfg.Port = cfg.Server.Port

			srv := server.New(
				server.WithConfig(srvCfg),
				server.WithName(name),
				server.WithVersion(version),
				server.WithRegistry(reg),
				server.WithHandler(map[string]http.HandlerFunc{
					"/v1/snapshots": col.HandleSnapshots,
				}),
			)

			slog.Info("serving container counters",
				"address", cfg.Server.BindAddress(),
				"prefix", cfg.Exporter.MetricPrefix)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Start(gctx)
			})
			g.Go(func() error {
				return col.Run(gctx)
			})
			return g.Wait()
		},
	}
}
