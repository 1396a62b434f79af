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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/docker-activity/pkg/config"
	"github.com/NVIDIA/docker-activity/pkg/serializer"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{
			name:       "valid yaml format",
			format:     "yaml",
			wantFormat: serializer.FormatYAML,
			wantErr:    false,
		},
		{
			name:       "valid json format",
			format:     "json",
			wantFormat: serializer.FormatJSON,
			wantErr:    false,
		},
		{
			name:       "valid table format",
			format:     "table",
			wantFormat: serializer.FormatTable,
			wantErr:    false,
		},
		{
			name:       "invalid format xml",
			format:     "xml",
			wantFormat: "",
			wantErr:    true,
		},
		{
			name:       "invalid format csv",
			format:     "csv",
			wantFormat: "",
			wantErr:    true,
		},
		{
			name:       "invalid format unknown",
			format:     "unknown",
			wantFormat: "",
			wantErr:    true,
		},
		{
			name:       "empty format",
			format:     "",
			wantFormat: "",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a minimal CLI command with the format flag
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: tt.format,
					},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if (err != nil) != tt.wantErr {
						t.Errorf("parseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
						return nil
					}
					if !tt.wantErr && got != tt.wantFormat {
						t.Errorf("parseOutputFormat() = %v, want %v", got, tt.wantFormat)
					}
					return nil
				},
			}

			// Run the command with the test format
			err := cmd.Run(context.Background(), []string{"test"})
			if err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
		})
	}
}

// runProbe runs the root command with a probe subcommand that captures the
// resolved configuration.
func runProbe(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var got *config.Config
	root := newRootCmd()
	root.Commands = append(root.Commands, &cli.Command{
		Name:  "probe",
		Flags: []cli.Flag{outputFlag(), formatFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyOutputFlags(cmd, cfg); err != nil {
				return err
			}
			got = cfg
			return nil
		},
	})

	err := root.Run(context.Background(), append([]string{name}, args...))
	return got, err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvPort, config.EnvAddress, config.EnvDockerHost,
		config.EnvSysfs, config.EnvEnergy, config.EnvPrefix,
		"DOCKER_ACTIVITY_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := runProbe(t, "probe")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.Default().Docker.Host, cfg.Docker.Host)
	assert.True(t, cfg.Energy.Enabled)
	assert.Equal(t, "json", cfg.Exporter.Format)
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "docker-activity.yaml")
	require.NoError(t, os.WriteFile(path, []byte("docker:\n  host: tcp://file:2375\nenergy:\n  sysfs: /host/sys\n"), 0o600))

	cfg, err := runProbe(t,
		"--config", path,
		"--docker-host", "tcp://flag:2375",
		"--no-energy",
		"--rescan-interval", "30s",
		"probe",
		"--format", "yaml",
		"--output", "out.yaml",
	)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "tcp://flag:2375", cfg.Docker.Host, "flag wins over file")
	assert.Equal(t, "/host/sys", cfg.Energy.Sysfs, "file wins over default")
	assert.False(t, cfg.Energy.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Collector.RescanInterval)
	assert.Equal(t, "yaml", cfg.Exporter.Format)
	assert.Equal(t, "out.yaml", cfg.Exporter.Output)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	clearEnv(t)

	_, err := runProbe(t, "--rescan-interval", "1ms", "probe")
	assert.Error(t, err)

	_, err = runProbe(t, "probe", "--format", "xml")
	assert.Error(t, err)
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands))
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"prometheus", "stream", "snapshot"}, names)
}

func TestPrometheusInvalidPort(t *testing.T) {
	clearEnv(t)

	err := newRootCmd().Run(context.Background(), []string{name, "prometheus", "not-a-port"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestPrometheusPortOutOfRange(t *testing.T) {
	clearEnv(t)

	err := newRootCmd().Run(context.Background(), []string{name, "prometheus", "70000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port out of range")
}

func TestStreamUnknownFormat(t *testing.T) {
	clearEnv(t)

	err := newRootCmd().Run(context.Background(), []string{name, "stream", "--format", "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
