package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// AlertLogFile is the alert log written into the output directory.
const AlertLogFile = "simulation_alerts.log"

// AlertLogger turns alert events into log lines on the console logger and,
// optionally, an alert log file.
type AlertLogger struct {
	console *slog.Logger
	file    *slog.Logger
	f       *os.File

	threshold float64 // overgrowth threshold, used in the message
	count     int
}

// NewAlertLogger creates an alert logger. A nil console uses slog.Default().
// An empty path disables the alert file.
func NewAlertLogger(console *slog.Logger, path string, overgrowthThreshold float64) (*AlertLogger, error) {
	if console == nil {
		console = slog.Default()
	}
	a := &AlertLogger{console: console, threshold: overgrowthThreshold}
	if path == "" {
		return a, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening alert log: %w", err)
	}
	a.f = f
	a.file = slog.New(slog.NewTextHandler(f, nil))
	return a, nil
}

// Events returns the kinds the alert logger should be subscribed to.
func (a *AlertLogger) Events() []EventType {
	return []EventType{EventHerbivoreExtinction, EventPlantOvergrowth, EventPredatorAteHerbivore}
}

// Update implements Observer.
func (a *AlertLogger) Update(generation int, e Event) {
	switch e.Type {
	case EventHerbivoreExtinction:
		a.alert(slog.LevelWarn, generation, e, "All Herbivores have gone extinct!")
	case EventPlantOvergrowth:
		a.alert(slog.LevelWarn, generation, e,
			fmt.Sprintf("Plants have overgrown %.0f%% of the grid! (%.1f%%)", a.threshold*100, e.Fraction*100))
	case EventPredatorAteHerbivore:
		// Frequent; keep it off the console unless debugging.
		a.alert(slog.LevelDebug, generation, e,
			fmt.Sprintf("%s %d ate Herbivore %d at (%d,%d)", e.Kind, e.OrganismID, e.TargetID, e.Row, e.Col))
	}
}

func (a *AlertLogger) alert(level slog.Level, generation int, e Event, msg string) {
	a.count++
	attrs := []any{"event", e.Type.String(), "generation", generation, "message", msg}
	a.console.Log(context.Background(), level, "alert", attrs...)
	if a.file != nil {
		a.file.Info("alert", attrs...)
	}
}

// Count returns the number of alerts raised.
func (a *AlertLogger) Count() int {
	return a.count
}

// Close closes the alert file, if any.
func (a *AlertLogger) Close() error {
	if a == nil || a.f == nil {
		return nil
	}
	return a.f.Close()
}
