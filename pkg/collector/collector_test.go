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

package collector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/docker-activity/pkg/docker"
	"github.com/NVIDIA/docker-activity/pkg/energy"
	daerrors "github.com/NVIDIA/docker-activity/pkg/errors"
	"github.com/NVIDIA/docker-activity/pkg/exporter"
	"github.com/NVIDIA/docker-activity/pkg/header"
	"github.com/NVIDIA/docker-activity/pkg/server"
	"github.com/NVIDIA/docker-activity/pkg/snapshot"
)

const waitTimeout = 2 * time.Second

type fakeSource struct {
	mu         sync.Mutex
	containers []docker.Container
	listErr    error
	frames     map[string][]docker.Stats
	streamErr  map[string]error
	// hold keeps streams open until the context is canceled.
	hold bool
}

func (f *fakeSource) ListContainers(context.Context) ([]docker.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]docker.Container(nil), f.containers...), nil
}

func (f *fakeSource) StreamContainerStats(ctx context.Context, id string) (<-chan docker.Stats, <-chan error) {
	f.mu.Lock()
	frames := f.frames[id]
	streamErr := f.streamErr[id]
	hold := f.hold
	f.mu.Unlock()

	statsChan := make(chan docker.Stats, len(frames))
	errChan := make(chan error, 1)
	for _, fr := range frames {
		statsChan <- fr
	}

	go func() {
		defer close(statsChan)
		defer close(errChan)
		if hold {
			<-ctx.Done()
		}
		if streamErr != nil {
			errChan <- streamErr
		}
	}()

	return statsChan, errChan
}

func (f *fakeSource) setContainers(containers ...docker.Container) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containers = containers
}

type fakeReader struct {
	mu       sync.Mutex
	readings []uint64
}

func (f *fakeReader) Read(context.Context) ([]energy.ZoneReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.readings) == 0 {
		return nil, errors.New("no more readings")
	}
	v := f.readings[0]
	f.readings = f.readings[1:]
	return []energy.ZoneReading{{Zone: "package-0", Microjoules: v}}, nil
}

// frame builds a stats frame whose CPU share is (total-prevTotal)/(sys-prevSys).
func frame(id, name string, prevTotal, total, prevSys, sys uint64) docker.Stats {
	return docker.Stats{
		Current: snapshot.Sample{
			ID:   id,
			Name: "/" + name,
			Read: time.Unix(1700000000, 0),
			CPU: snapshot.CPUReading{
				TotalUsage:  total,
				SystemUsage: ptr.To(sys),
				OnlineCPUs:  ptr.To[uint64](4),
			},
			MemoryUsage: ptr.To[uint64](1024),
		},
		Prior: snapshot.Sample{
			ID:   id,
			Name: "/" + name,
			Read: time.Unix(1699999999, 0),
			CPU: snapshot.CPUReading{
				TotalUsage:  prevTotal,
				SystemUsage: ptr.To(prevSys),
			},
		},
	}
}

// firstFrame is the first frame of a stream, which carries no prior reading.
func firstFrame(id, name string, total, sys uint64) docker.Stats {
	f := frame(id, name, 0, total, 0, sys)
	f.Prior.CPU.SystemUsage = nil
	return f
}

func recorder(buf int) (exporter.Exporter, <-chan snapshot.Snapshot) {
	ch := make(chan snapshot.Snapshot, buf)
	return exporter.Func(func(_ context.Context, snap snapshot.Snapshot) error {
		ch <- snap
		return nil
	}), ch
}

func receive(t *testing.T, ch <-chan snapshot.Snapshot) snapshot.Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for snapshot")
		return snapshot.Snapshot{}
	}
}

func startCollector(t *testing.T, c *Collector) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()
	return cancel, done
}

func stopCollector(t *testing.T, cancel context.CancelFunc, done <-chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("collector did not stop")
	}
}

func TestRunExportsSnapshots(t *testing.T) {
	src := &fakeSource{
		containers: []docker.Container{
			{ID: "a1", Name: "web"},
			{ID: "b2", Name: "db"},
		},
		frames: map[string][]docker.Stats{
			"a1": {firstFrame("a1", "web", 100, 1000), frame("a1", "web", 100, 150, 1000, 1100)},
			"b2": {frame("b2", "db", 0, 25, 1000, 1100)},
		},
		hold: true,
	}
	exp, ch := recorder(10)
	reg := prometheus.NewRegistry()
	c := New(src, exp, WithRegisterer(reg))

	cancel, done := startCollector(t, c)

	got := map[string]float64{}
	for i := 0; i < 2; i++ {
		snap := receive(t, ch)
		got[snap.ContainerName] = snap.CPUPercent
		assert.Nil(t, snap.CPUEnergy, "no energy source configured")
	}
	assert.InDelta(t, 0.5, got["web"], 1e-9)
	assert.InDelta(t, 0.25, got["db"], 1e-9)

	latest := c.Latest()
	require.Len(t, latest, 2)
	assert.Equal(t, "db", latest[0].ContainerName)
	assert.Equal(t, "web", latest[1].ContainerName)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.degenerate))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.metrics.samples))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.metrics.containers))

	stopCollector(t, cancel, done)

	assert.Empty(t, c.Latest(), "ended streams drop their snapshot")
	assert.Equal(t, float64(0), testutil.ToFloat64(c.metrics.containers))
}

func TestRunInitialListFails(t *testing.T) {
	src := &fakeSource{listErr: errors.New("daemon unreachable")}
	c := New(src, exporter.Discard)

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon unreachable")
}

func TestRunPicksUpNewContainers(t *testing.T) {
	src := &fakeSource{
		containers: []docker.Container{{ID: "a1", Name: "web"}},
		frames: map[string][]docker.Stats{
			"a1": {frame("a1", "web", 0, 10, 0, 100)},
			"b2": {frame("b2", "db", 0, 20, 0, 100)},
		},
		hold: true,
	}
	exp, ch := recorder(10)
	c := New(src, exp, WithRescanInterval(10*time.Millisecond))

	cancel, done := startCollector(t, c)

	assert.Equal(t, "web", receive(t, ch).ContainerName)

	src.setContainers(
		docker.Container{ID: "a1", Name: "web"},
		docker.Container{ID: "b2", Name: "db"},
	)
	assert.Equal(t, "db", receive(t, ch).ContainerName)

	stopCollector(t, cancel, done)

	select {
	case snap := <-ch:
		t.Fatalf("held stream of %s must not be watched twice", snap.ContainerName)
	default:
	}
}

func TestRunWatchesAgainAfterStreamEnds(t *testing.T) {
	src := &fakeSource{
		containers: []docker.Container{{ID: "a1", Name: "web"}},
		frames: map[string][]docker.Stats{
			"a1": {frame("a1", "web", 0, 10, 0, 100)},
		},
		streamErr: map[string]error{"a1": errors.New("connection reset")},
	}
	exp, ch := recorder(100)
	c := New(src, exp, WithRescanInterval(10*time.Millisecond))

	cancel, done := startCollector(t, c)

	receive(t, ch)
	receive(t, ch)

	stopCollector(t, cancel, done)
}

func TestProcessAttributesEnergy(t *testing.T) {
	exp, ch := recorder(10)
	c := New(&fakeSource{}, exp)
	meter := energy.NewMeter(&fakeReader{readings: []uint64{1000, 1400, 2000}})
	ctx := context.Background()

	// first frame: degenerate, and no previous energy reading
	c.process(ctx, meter, firstFrame("a1", "web", 100, 1000))

	// second frame: 400 uJ spent since the first, half of it attributed
	c.process(ctx, meter, frame("a1", "web", 100, 150, 1000, 1100))
	snap := receive(t, ch)
	require.NotNil(t, snap.CPUEnergy)
	assert.InDelta(t, 200.0, *snap.CPUEnergy, 1e-9)

	// third frame: 600 uJ, a quarter attributed
	c.process(ctx, meter, frame("a1", "web", 150, 175, 1100, 1200))
	snap = receive(t, ch)
	require.NotNil(t, snap.CPUEnergy)
	assert.InDelta(t, 150.0, *snap.CPUEnergy, 1e-9)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.degenerate))
}

func TestProcessFirstEnergyReadingHasNoEnergy(t *testing.T) {
	exp, ch := recorder(10)
	c := New(&fakeSource{}, exp)
	meter := energy.NewMeter(&fakeReader{readings: []uint64{1000}})

	c.process(context.Background(), meter, frame("a1", "web", 0, 50, 0, 100))

	snap := receive(t, ch)
	assert.InDelta(t, 0.5, snap.CPUPercent, 1e-9)
	assert.Nil(t, snap.CPUEnergy)
}

func TestProcessEnergyReadFailure(t *testing.T) {
	exp, ch := recorder(10)
	c := New(&fakeSource{}, exp)
	meter := energy.NewMeter(&fakeReader{})

	c.process(context.Background(), meter, frame("a1", "web", 0, 50, 0, 100))

	snap := receive(t, ch)
	assert.Nil(t, snap.CPUEnergy, "a failed energy read still exports the CPU share")
}

func TestProcessExportError(t *testing.T) {
	exp := exporter.Func(func(context.Context, snapshot.Snapshot) error {
		return errors.New("rejected")
	})
	c := New(&fakeSource{}, exp)

	c.process(context.Background(), nil, frame("a1", "web", 0, 50, 0, 100))

	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.exportErrors))
	require.Len(t, c.Latest(), 1)
	assert.Equal(t, "web", c.Latest()[0].ContainerName)
}

func TestHandleSnapshots(t *testing.T) {
	c := New(&fakeSource{}, exporter.Discard)
	c.process(context.Background(), nil, frame("a1", "web", 0, 50, 0, 100))

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		c.HandleSnapshots(w, httptest.NewRequest(http.MethodGet, "/v1/snapshots", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp snapshot.List
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, header.KindSnapshotList, resp.Kind)
		assert.Equal(t, 1, resp.Count)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "a1", resp.Items[0].ContainerID)
		assert.InDelta(t, 0.5, resp.Items[0].CPUPercent, 1e-9)
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		c.HandleSnapshots(w, httptest.NewRequest(http.MethodPost, "/v1/snapshots", nil))
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)

		var resp server.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(daerrors.ErrCodeMethodNotAllowed), resp.Code)
		assert.Equal(t, "POST", resp.Details["method"])
		assert.False(t, resp.Retryable)
		assert.NotEmpty(t, resp.RequestID)
	})
}

func TestWithRegistererRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(&fakeSource{}, exporter.Discard, WithRegisterer(reg))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	// counters and gauges without labels are always exposed
	assert.Equal(t, 4, count)
}

func TestRunWithEnergy(t *testing.T) {
	src := &fakeSource{
		containers: []docker.Container{{ID: "a1", Name: "web"}},
		frames: map[string][]docker.Stats{
			"a1": {firstFrame("a1", "web", 100, 1000), frame("a1", "web", 100, 150, 1000, 1100)},
		},
		hold: true,
	}
	exp, ch := recorder(10)
	c := New(src, exp, WithEnergy(&fakeReader{readings: []uint64{5000, 5800}}))

	cancel, done := startCollector(t, c)

	snap := receive(t, ch)
	require.NotNil(t, snap.CPUEnergy)
	assert.InDelta(t, 400.0, *snap.CPUEnergy, 1e-9)

	stopCollector(t, cancel, done)
}
