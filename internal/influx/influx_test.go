package influx

import (
	"bufio"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/config"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	points  []*influxdb2_write.Point
	flushed int
}

func (f *fakeWriter) WritePoint(point *influxdb2_write.Point) {
	f.points = append(f.points, point)
}

func (f *fakeWriter) Flush() {
	f.flushed++
}

var results = []go_ballisticsolver.TrajectoryResult{
	{Distance: 75, VerticalClicks: 4, HorizontalClicks: 0, Velocity: 786, Energy: 3400, Time: 0.094},
	{Distance: 150, VerticalClicks: 0, HorizontalClicks: -1, Velocity: 773, Energy: 3290, Time: 0.19},
}

func environment() go_ballisticsolver.EnvironmentRecord {
	env := go_ballisticsolver.DefaultEnvironment()
	env.Distance = 150
	env.WindSpeed = 3
	return env
}

func TestSolvePoints(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	points := SolvePoints(go_ballisticsolver.DefaultWeapon("m24"), environment(), results, ts)
	require.Len(t, points, 2)

	line := influxdb2_write.PointToLineProtocol(points[0], time.Nanosecond)
	assert.True(t, strings.HasPrefix(line, Measurement+","), line)
	assert.Contains(t, line, "weapon=m24")
	assert.Contains(t, line, "distance=75")
	assert.Contains(t, line, "dragModel=G7")
	assert.Contains(t, line, "verticalClicks=4i")
	assert.Contains(t, line, "energy=3400i")
	assert.Equal(t, ts, points[1].Time())
}

func TestWriteSolve(t *testing.T) {
	writer := &fakeWriter{}
	e := &Exporter{writer: writer, Logger: zerolog.Nop()}

	require.NoError(t, e.WriteSolve(go_ballisticsolver.DefaultWeapon("m24"), environment(), results, time.Now()))
	assert.Len(t, writer.points, 2)

	require.NoError(t, e.Close())
	assert.Equal(t, 1, writer.flushed)
	assert.False(t, e.Enabled())
}

func TestDisabled(t *testing.T) {
	e, err := New(context.Background(), config.InfluxConfig{Enabled: false}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, e.Enabled())
	assert.NoError(t, e.WriteSolve(go_ballisticsolver.DefaultWeapon("m24"), environment(), results, time.Now()))
	assert.NoError(t, e.Close())
}

func TestBackupWhenUnreachable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectories.lp.gz")
	cfg := config.InfluxConfig{
		Enabled:    true,
		URL:        "http://127.0.0.1:1",
		Org:        "ballistics",
		Bucket:     "trajectories",
		BackupPath: path,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	e, err := New(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	require.True(t, e.Enabled())
	require.NoError(t, e.WriteSolve(go_ballisticsolver.DefaultWeapon("m24"), environment(), results, time.Now()))
	require.NoError(t, e.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	reader, err := gzip.NewReader(file)
	require.NoError(t, err)

	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2, "one record per line without blank lines: %q", lines)
	assert.True(t, strings.HasPrefix(lines[0], Measurement+","), lines[0])
	assert.Contains(t, lines[0], "distance=75")
	assert.Contains(t, lines[1], "distance=150")
	assert.Contains(t, lines[1], "horizontalClicks=-1i")
}

func TestUnreachableWithoutBackup(t *testing.T) {
	cfg := config.InfluxConfig{Enabled: true, URL: "http://127.0.0.1:1"}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := New(ctx, cfg, zerolog.Nop())
	assert.Error(t, err)
}
