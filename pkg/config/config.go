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

// Package config loads docker-activity configuration.
//
// Values are resolved in order, later sources winning:
//
//  1. built-in defaults (Default)
//  2. an optional YAML or JSON file (Load)
//  3. environment variables (ApplyEnv)
//  4. command-line flags, applied by pkg/cli
//
// Example file:
//
//	server:
//	  address: 0.0.0.0
//	  port: 9000
//	docker:
//	  host: unix:///var/run/docker.sock
//	energy:
//	  enabled: true
//	  sysfs: /sys
//	collector:
//	  rescanInterval: 10s
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/docker/docker/client"

	"github.com/NVIDIA/docker-activity/pkg/defaults"
	"github.com/NVIDIA/docker-activity/pkg/energy"
	"github.com/NVIDIA/docker-activity/pkg/errors"
	promexp "github.com/NVIDIA/docker-activity/pkg/exporter/prometheus"
	"github.com/NVIDIA/docker-activity/pkg/serializer"
)

// Environment variables read by ApplyEnv.
const (
	EnvPort       = "PORT"
	EnvAddress    = "DOCKER_ACTIVITY_ADDRESS"
	EnvDockerHost = "DOCKER_HOST"
	EnvSysfs      = "DOCKER_ACTIVITY_SYSFS"
	EnvEnergy     = "DOCKER_ACTIVITY_ENERGY"
	EnvPrefix     = "DOCKER_ACTIVITY_METRIC_PREFIX"
)

// Config is the complete docker-activity configuration.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Docker    DockerConfig    `json:"docker" yaml:"docker"`
	Energy    EnergyConfig    `json:"energy" yaml:"energy"`
	Exporter  ExporterConfig  `json:"exporter" yaml:"exporter"`
	Collector CollectorConfig `json:"collector" yaml:"collector"`
}

// ServerConfig is the scrape listener bind address.
type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
	Port    int    `json:"port" yaml:"port"`
}

// DockerConfig selects the Docker daemon.
type DockerConfig struct {
	Host      string        `json:"host" yaml:"host"`
	TLSVerify bool          `json:"tlsVerify" yaml:"tlsVerify"`
	CertPath  string        `json:"certPath" yaml:"certPath"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
}

// EnergyConfig selects the host energy source.
type EnergyConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Sysfs   string   `json:"sysfs" yaml:"sysfs"`
	Zones   []string `json:"zones" yaml:"zones"`
}

// ExporterConfig configures the exporters.
type ExporterConfig struct {
	// MetricPrefix is prepended to every container counter name.
	MetricPrefix string `json:"metricPrefix" yaml:"metricPrefix"`

	// Format and Output configure the stream exporter.
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`

	// EnergyOnly makes the stream exporter drop snapshots without energy.
	EnergyOnly bool `json:"energyOnly" yaml:"energyOnly"`
}

// CollectorConfig configures container collection.
type CollectorConfig struct {
	RescanInterval time.Duration `json:"rescanInterval" yaml:"rescanInterval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "0.0.0.0",
			Port:    9000,
		},
		Docker: DockerConfig{
			Host:    client.DefaultDockerHost,
			Timeout: defaults.DockerPingTimeout,
		},
		Energy: EnergyConfig{
			Enabled: true,
			Sysfs:   "/sys",
			Zones:   []string{energy.DefaultZonePrefix},
		},
		Exporter: ExporterConfig{
			MetricPrefix: promexp.DefaultPrefix,
			Format:       string(serializer.FormatJSON),
		},
		Collector: CollectorConfig{
			RescanInterval: defaults.RescanInterval,
		},
	}
}

// Load returns the defaults overlaid with the file at path, then with the
// environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, "failed to open config file", err)
		}

		var err error
		if cfg, err = serializer.FromFile(path, cfg); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to parse config file", err,
				map[string]any{"path": path})
		}
		slog.Debug("loaded config file", "path", path)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from environment variables. Unparsable values
// are ignored with a warning.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		} else {
			slog.Warn("ignoring invalid port from environment", "env", EnvPort, "value", v)
		}
	}
	if v := os.Getenv(EnvAddress); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(EnvDockerHost); v != "" {
		c.Docker.Host = v
	}
	if v := os.Getenv(EnvSysfs); v != "" {
		c.Energy.Sysfs = v
	}
	if v := os.Getenv(EnvEnergy); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Energy.Enabled = enabled
		} else {
			slog.Warn("ignoring invalid boolean from environment", "env", EnvEnergy, "value", v)
		}
	}
	if v := os.Getenv(EnvPrefix); v != "" {
		c.Exporter.MetricPrefix = v
	}
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "port out of range",
			map[string]any{"port": c.Server.Port})
	}
	if c.Docker.Host == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "docker host must not be empty")
	}
	if serializer.Format(c.Exporter.Format).IsUnknown() {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format %q", c.Exporter.Format),
			map[string]any{"supported": serializer.SupportedFormats()})
	}
	if c.Collector.RescanInterval < defaults.MinRescanInterval {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "rescan interval too short",
			map[string]any{"interval": c.Collector.RescanInterval.String(), "minimum": defaults.MinRescanInterval.String()})
	}
	return nil
}

// BindAddress returns the listener address in host:port form.
func (s ServerConfig) BindAddress() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// UnmarshalJSON accepts the timeout as a duration string such as "5s".
func (d *DockerConfig) UnmarshalJSON(data []byte) error {
	type plain DockerConfig
	aux := struct {
		*plain
		Timeout string `json:"timeout"`
	}{plain: (*plain)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	return parseDuration("docker.timeout", aux.Timeout, &d.Timeout)
}

// UnmarshalJSON accepts the rescan interval as a duration string such as "30s".
func (c *CollectorConfig) UnmarshalJSON(data []byte) error {
	type plain CollectorConfig
	aux := struct {
		*plain
		RescanInterval string `json:"rescanInterval"`
	}{plain: (*plain)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	return parseDuration("collector.rescanInterval", aux.RescanInterval, &c.RescanInterval)
}

// parseDuration sets dst from s, leaving it untouched when s is empty.
func parseDuration(field, s string, dst *time.Duration) error {
	if s == "" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	*dst = v
	return nil
}
