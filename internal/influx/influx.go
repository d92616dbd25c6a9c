//Package influx exports the solved trajectories as InfluxDB points
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"github.com/gehtsoft-usa/go_ballisticsolver/internal/config"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
)

//Measurement is the name of the measurement the trajectory samples are written to
const Measurement = "trajectory"

//retention of the bucket created when it does not exist
const retentionSeconds = 60 * 60 * 24 * 90

//ErrNoSink is returned when neither InfluxDB nor the backup file are available
var ErrNoSink = errors.New("influxDB client not initialized and backup writer not available")

type pointWriter interface {
	WritePoint(point *influxdb2_write.Point)
	Flush()
}

//Exporter writes the trajectory samples into InfluxDB or, when the server
//is not reachable, into the gzipped line protocol backup file
type Exporter struct {
	client     influxdb2.Client
	writer     pointWriter
	backup     *gzip.Writer
	backupFile *os.File
	mu         sync.Mutex
	Logger     zerolog.Logger
}

//Disabled returns the exporter which drops all the points
func Disabled(log zerolog.Logger) *Exporter {
	return &Exporter{Logger: log}
}

//New connects to InfluxDB. If the server does not respond, the points are
//written into cfg.BackupPath instead.
func New(ctx context.Context, cfg config.InfluxConfig, log zerolog.Logger) (*Exporter, error) {
	if !cfg.Enabled {
		return Disabled(log), nil
	}

	e := &Exporter{Logger: log}
	e.client = influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := e.client.Ping(ctx)
	if err != nil || !running {
		e.client.Close()
		e.client = nil
		if cfg.BackupPath == "" {
			return nil, fmt.Errorf("influxDB at %s is not available: %v", cfg.URL, err)
		}
		log.Warn().Str("backupPath", cfg.BackupPath).
			Msg("InfluxDB client failed to initialize, writing to backup file")
		if err = e.openBackup(cfg.BackupPath); err != nil {
			return nil, err
		}
		return e, nil
	}

	if err = e.ensureBucket(ctx, cfg.Org, cfg.Bucket); err != nil {
		e.client.Close()
		return nil, err
	}

	writeAPI := e.client.WriteAPI(cfg.Org, cfg.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			log.Error().Err(writeErr).Str("bucket", cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(writeAPI.Errors())
	e.writer = writeAPI

	log.Info().Str("url", cfg.URL).Str("bucket", cfg.Bucket).Msg("InfluxDB client initialized")
	return e, nil
}

func (e *Exporter) openBackup(path string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	e.backupFile = file
	e.backup = gzip.NewWriter(file)
	return nil
}

func (e *Exporter) ensureBucket(ctx context.Context, orgName, bucket string) error {
	org, err := e.client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		e.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		org, err = e.client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			return fmt.Errorf("error creating organization %s: %w", orgName, err)
		}
	}

	if _, err = e.client.BucketsAPI().FindBucketByName(ctx, bucket); err == nil {
		return nil
	}

	e.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")
	rule := domain.RetentionRuleTypeExpire
	_, err = e.client.BucketsAPI().CreateBucketWithName(ctx, org, bucket, domain.RetentionRule{
		Type:         &rule,
		EverySeconds: retentionSeconds,
	})
	if err != nil {
		return fmt.Errorf("error creating bucket %s: %w", bucket, err)
	}
	return nil
}

//Enabled tells whether the points go anywhere
func (e *Exporter) Enabled() bool {
	return e.writer != nil || e.backup != nil
}

//SolvePoints converts the results of one solve into points, one per sampled distance
func SolvePoints(weapon go_ballisticsolver.WeaponProfile, env go_ballisticsolver.EnvironmentRecord,
	results []go_ballisticsolver.TrajectoryResult, ts time.Time) []*influxdb2_write.Point {
	points := make([]*influxdb2_write.Point, 0, len(results))
	for _, r := range results {
		point := influxdb2_write.NewPointWithMeasurement(Measurement).
			AddTag("weapon", weapon.Name).
			AddTag("dragModel", weapon.DragModel.String()).
			AddTag("distance", strconv.Itoa(r.Distance)).
			AddField("targetDistance", env.Distance).
			AddField("verticalClicks", r.VerticalClicks).
			AddField("horizontalClicks", r.HorizontalClicks).
			AddField("velocity", r.Velocity).
			AddField("energy", r.Energy).
			AddField("time", r.Time).
			AddField("windSpeed", env.WindSpeed).
			AddField("windAzimuth", env.WindAzimuth).
			SetTime(ts)
		points = append(points, point)
	}
	return points
}

//WriteSolve exports the results of one solve
func (e *Exporter) WriteSolve(weapon go_ballisticsolver.WeaponProfile, env go_ballisticsolver.EnvironmentRecord,
	results []go_ballisticsolver.TrajectoryResult, ts time.Time) error {
	if !e.Enabled() {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, point := range SolvePoints(weapon, env, results, ts) {
		if err := e.writePoint(point); err != nil {
			return err
		}
	}
	e.Logger.Debug().Str("weapon", weapon.Name).Int("points", len(results)).Msg("Trajectory exported")
	return nil
}

func (e *Exporter) writePoint(point *influxdb2_write.Point) error {
	if e.writer != nil {
		e.writer.WritePoint(point)
		return nil
	}
	if e.backup == nil {
		return ErrNoSink
	}

	//the line is already terminated by '\n'
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Duration(1*time.Nanosecond))
	if _, err := e.backup.Write([]byte(lineProtocol)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

//Close flushes the pending points and releases the connection or the backup file
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.writer != nil {
		e.writer.Flush()
		e.writer = nil
	}
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
	if e.backup != nil {
		err = errors.Join(e.backup.Close(), e.backupFile.Close())
		e.backup = nil
		e.backupFile = nil
	}
	return err
}
