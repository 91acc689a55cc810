package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/hunter/config"
)

// csvStream appends gocsv records to one file, writing the header once.
type csvStream struct {
	name   string
	f      *os.File
	header bool
}

func openStream(dir, name string) (*csvStream, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvStream{name: name, f: f}, nil
}

func writeRecords[T any](s *csvStream, records []T) error {
	var err error
	if s.header {
		err = gocsv.MarshalWithoutHeaders(records, s.f)
	} else {
		err = gocsv.Marshal(records, s.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	s.header = true
	return nil
}

// RoundRecord is one rounds.csv row.
type RoundRecord struct {
	Round   int     `csv:"round"`
	Tagged  bool    `csv:"tagged"`
	Ticks   int32   `csv:"ticks"`
	Seconds float64 `csv:"seconds"`
	Hunter  int64   `csv:"hunter"` // -1 when nobody tagged
}

// OutputManager writes the CSV streams of one run into a directory. A nil
// manager discards everything, so callers never check whether output is on.
type OutputManager struct {
	dir       string
	telemetry *csvStream
	perf      *csvStream
	events    *csvStream
	rounds    *csvStream
}

// NewOutputManager creates dir and opens telemetry.csv, perf.csv,
// events.csv and rounds.csv in it. An empty dir returns a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, s := range []struct {
		name string
		dst  **csvStream
	}{
		{"telemetry.csv", &om.telemetry},
		{"perf.csv", &om.perf},
		{"events.csv", &om.events},
		{"rounds.csv", &om.rounds},
	} {
		stream, err := openStream(dir, s.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*s.dst = stream
	}
	return om, nil
}

// WriteConfig snapshots the run's configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a stats window.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.telemetry, []WindowStats{stats})
}

// WritePerf appends the perf summary for the window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.perf, []PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteEvent appends one hunter event.
func (om *OutputManager) WriteEvent(ev Event) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.events, []EventRecord{ev.ToRecord()})
}

// WriteRound appends one finished round.
func (om *OutputManager) WriteRound(r RoundRecord) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.rounds, []RoundRecord{r})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open stream and returns the joined errors.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, s := range []*csvStream{om.telemetry, om.perf, om.events, om.rounds} {
		if s != nil {
			errs = append(errs, s.f.Close())
		}
	}
	return errors.Join(errs...)
}
