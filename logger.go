package mealopt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// SearchLogger is the interface for per-iteration search logging.
type SearchLogger interface {
	LogIteration(iteration IterationLog) error
}

// NewSearchLogFilePath returns a file path based on a cleaned up run identifier to make it easier to match specific logs to specific optimization runs.
func NewSearchLogFilePath(runID string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(runID), ":", "_"),
	)
}

// IterationLog represents a single iteration of the hill-climbing search.
type IterationLog struct {
	Iteration        int       `json:"iteration"`
	Timestamp        time.Time `json:"timestamp"`
	Edit             string    `json:"edit,omitempty"`
	CandidateFitness float64   `json:"candidate_fitness"`
	CurrentFitness   float64   `json:"current_fitness"`
	Accepted         bool      `json:"accepted"`
	Rejected         string    `json:"rejected_reason,omitempty"`
	Error            string    `json:"error,omitempty"`
}

// FileSearchLogger logs to a file, accumulating iterations and flushing at the end
type FileSearchLogger struct {
	iterations []IterationLog
	writer     io.Writer
}

// NewFileSearchLogger creates a new file-based search logger
func NewFileSearchLogger(writer io.Writer) *FileSearchLogger {
	return &FileSearchLogger{
		iterations: make([]IterationLog, 0),
		writer:     writer,
	}
}

// LogIteration logs an iteration to the buffer (does not flush immediately)
func (fsl *FileSearchLogger) LogIteration(iteration IterationLog) error {
	fsl.iterations = append(fsl.iterations, iteration)
	return nil
}

// Flush flushes all accumulated iterations to the writer
func (fsl *FileSearchLogger) Flush() error {
	if fsl.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"search_session": map[string]any{
			"timestamp":  time.Now(),
			"iterations": fsl.iterations,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal search log: %w", err)
	}

	if _, err := fsl.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write search log: %w", err)
	}

	// Clear the buffer after successful write
	fsl.iterations = fsl.iterations[:0]
	return nil
}

// NoOpSearchLogger is a logger that discards all log entries
type NoOpSearchLogger struct{}

// NewNoOpSearchLogger creates a new no-op search logger
func NewNoOpSearchLogger() *NoOpSearchLogger {
	return &NoOpSearchLogger{}
}

// LogIteration discards the iteration log (no-op)
func (nop *NoOpSearchLogger) LogIteration(iteration IterationLog) error {
	return nil
}

// StdoutSearchLogger logs each iteration as a JSON line to stdout (for Lambda/CloudWatch)
type StdoutSearchLogger struct{}

// NewStdoutSearchLogger creates a new stdout-based search logger
func NewStdoutSearchLogger() *StdoutSearchLogger {
	return &StdoutSearchLogger{}
}

// LogIteration writes the iteration as a JSON line to os.Stdout
func (l *StdoutSearchLogger) LogIteration(iteration IterationLog) error {
	data, err := json.Marshal(iteration)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
