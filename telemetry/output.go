package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/gridsim/config"
)

// Output file names inside the output directory.
const (
	TelemetryFile  = "telemetry.csv"
	PopulationFile = "population.csv"
	PerfFile       = "perf.csv"
	BookmarksFile  = "bookmarks.csv"
	LifetimesFile  = "lifetimes.csv"
	SummaryFile    = "summary.csv"
	ConfigFile     = "config.yaml"
)

// csvFile is an append-only CSV file that writes its header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{f: f}, nil
}

// write appends records, which must be a slice of csv-tagged structs.
func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	// Subsequent writes skip headers
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

func (c *csvFile) Close() error {
	return c.f.Close()
}

// OutputManager handles structured run output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir        string
	telemetry  *csvFile
	population *csvFile
	perf       *csvFile
	bookmarks  *csvFile
	lifetimes  *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		dst  **csvFile
		name string
	}{
		{&om.telemetry, TelemetryFile},
		{&om.population, PopulationFile},
		{&om.perf, PerfFile},
		{&om.bookmarks, BookmarksFile},
		{&om.lifetimes, LifetimesFile},
	}
	for _, spec := range files {
		f, err := createCSV(dir, spec.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*spec.dst = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePopulation appends per-generation population rows to population.csv.
func (om *OutputManager) WritePopulation(rows []PopulationRow) error {
	if om == nil || len(rows) == 0 {
		return nil
	}
	if err := om.population.write(rows); err != nil {
		return fmt.Errorf("writing population: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteLifetimes appends finished lifetimes to lifetimes.csv.
func (om *OutputManager) WriteLifetimes(recs []LifetimeRecord) error {
	if om == nil || len(recs) == 0 {
		return nil
	}
	if err := om.lifetimes.write(recs); err != nil {
		return fmt.Errorf("writing lifetimes: %w", err)
	}
	return nil
}

// WriteSummary writes the run summary to summary.csv, replacing any
// previous summary.
func (om *OutputManager) WriteSummary(summaries []SpeciesSummary) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, SummaryFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", SummaryFile, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(summaries, f); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Path returns the path of name inside the output directory, or "" when
// output is disabled.
func (om *OutputManager) Path(name string) string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, name)
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*csvFile{om.telemetry, om.population, om.perf, om.bookmarks, om.lifetimes} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
