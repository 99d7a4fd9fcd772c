package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName groups pushed metrics on the Pushgateway
const JobName = "cdlsync"

// Service holds the Prometheus metrics for a sync run.
type Service struct {
	RowsScraped    prometheus.Counter
	RowsSkipped    prometheus.Counter
	PlayersSynced  prometheus.Counter
	PlayersCreated prometheus.Counter
	RunFailures    prometheus.Counter
	RunDuration    prometheus.Gauge
	LastSuccess    prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewService creates the sync metrics on a private registry, since a batch
// job pushes its metrics rather than serving them.
func NewService() *Service {
	reg := prometheus.NewRegistry()

	s := &Service{
		RowsScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdlsync_rows_scraped_total",
			Help: "Stats table rows parsed into records.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdlsync_rows_skipped_total",
			Help: "Stats table rows that could not be parsed.",
		}),
		PlayersSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdlsync_players_synced_total",
			Help: "Players whose seasonal and mode stats were written.",
		}),
		PlayersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdlsync_players_created_total",
			Help: "Players inserted during the sync.",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdlsync_run_failures_total",
			Help: "Sync runs that ended in an error.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdlsync_run_duration_seconds",
			Help: "Duration of the last sync run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cdlsync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful sync run.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		s.RowsScraped,
		s.RowsSkipped,
		s.PlayersSynced,
		s.PlayersCreated,
		s.RunFailures,
		s.RunDuration,
		s.LastSuccess,
	)

	return s
}

// Gatherer exposes the registry for pushing or inspection
func (s *Service) Gatherer() prometheus.Gatherer {
	return s.gatherer
}

// AddRowsScraped counts parsed table rows
func (s *Service) AddRowsScraped(n int) {
	s.RowsScraped.Add(float64(n))
}

// AddRowsSkipped counts table rows that produced no record
func (s *Service) AddRowsSkipped(n int) {
	s.RowsSkipped.Add(float64(n))
}

// IncPlayersSynced counts one committed player, and a new player when created is set
func (s *Service) IncPlayersSynced(created bool) {
	s.PlayersSynced.Inc()
	if created {
		s.PlayersCreated.Inc()
	}
}

// ObserveRun records the run duration and either a failure or the success timestamp
func (s *Service) ObserveRun(d time.Duration, err error) {
	s.RunDuration.Set(d.Seconds())
	if err != nil {
		s.RunFailures.Inc()
		return
	}
	s.LastSuccess.SetToCurrentTime()
}

// Push sends every collected metric to the Pushgateway at url
func (s *Service) Push(url string) error {
	if err := push.New(url, JobName).Gatherer(s.gatherer).Push(); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
