package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates dir/<session> to hold the CSV files of one session.
func NewWriter(dir, session string) (*Writer, error) {
	baseDir := filepath.Join(dir, session)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSession(metric SessionMetric) error {
	header := []string{"start_time", "duration", "ticks", "commands", "ignored", "decode_failures", "lock_wait"}
	row := []string{
		metric.StartTime.UTC().Format(time.RFC3339),
		metric.Duration.String(),
		strconv.Itoa(metric.Ticks),
		strconv.Itoa(metric.Commands),
		strconv.Itoa(metric.Ignored),
		strconv.Itoa(metric.DecodeFailures),
		metric.LockWait.String(),
	}
	return w.write("session.csv", header, [][]string{row})
}

func (w *Writer) WriteTransitions(transitions []Transition) error {
	header := []string{"at", "from", "to"}
	rows := make([][]string, 0, len(transitions))
	for _, t := range transitions {
		rows = append(rows, []string{t.At.UTC().Format(time.RFC3339Nano), t.From, t.To})
	}
	return w.write("transitions.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return nil
}

// RunRecord is one session of an experiment.
type RunRecord struct {
	ID         int
	Bots       int
	Think      time.Duration
	UpdateRate time.Duration
	Session    SessionMetric
}

func (w *Writer) WriteRuns(runs []RunRecord) error {
	header := []string{"id", "bots", "think", "update_rate", "duration", "ticks", "commands", "ignored", "lock_wait", "transitions"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.Bots),
			r.Think.String(),
			r.UpdateRate.String(),
			r.Session.Duration.String(),
			strconv.Itoa(r.Session.Ticks),
			strconv.Itoa(r.Session.Commands),
			strconv.Itoa(r.Session.Ignored),
			r.Session.LockWait.String(),
			strconv.Itoa(len(r.Session.Transitions)),
		})
	}
	return w.write("runs.csv", header, rows)
}
