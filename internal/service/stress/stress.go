// Package stress hammers a logging pipeline from many goroutines and checks
// that every line arrived whole and every event was published in write order.
package stress

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/plugin-logger/internal/domain/logline"
	"github.com/oshokin/plugin-logger/internal/logger"
	"github.com/oshokin/plugin-logger/internal/pluginlog"
	"github.com/oshokin/plugin-logger/internal/sink"
)

// Options controls a stress run.
type Options struct {
	// Directory receives the rolling and archival logs.
	Directory string
	// Writers is the number of concurrent goroutines.
	Writers int
	// Messages is the number of messages per writer.
	Messages int
}

// Report summarizes a stress run.
type Report struct {
	// Lines is the number of lines found in the rolling log.
	Lines int
	// Events is the number of published events.
	Events int
	// Elapsed is the time spent writing.
	Elapsed time.Duration
}

const (
	// DefaultWriters is the default number of writers.
	DefaultWriters = 8
	// DefaultMessages is the default number of messages per writer.
	DefaultMessages = 1000
)

var (
	// errLineCount is returned when lines went missing or were split.
	errLineCount = errors.New("unexpected line count")
	// errEventOrder is returned when events do not follow write order.
	errEventOrder = errors.New("events out of write order")
)

// Run writes Writers*Messages lines through named instances and verifies the result.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "stress")

	if opts.Writers <= 0 {
		opts.Writers = DefaultWriters
	}

	if opts.Messages <= 0 {
		opts.Messages = DefaultMessages
	}

	latest := filepath.Join(opts.Directory, pluginlog.DefaultLatestPath)

	l, err := pluginlog.Setup(ctx, &pluginlog.Options{
		Console:       sink.Discard,
		LogsDirectory: filepath.Join(opts.Directory, pluginlog.DefaultLogsDirectory),
		LatestPath:    latest,
	})
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	var (
		mu    sync.Mutex
		texts []string
	)

	l.Events().OnMessage(func(_, _ logline.Color, _, text string) {
		mu.Lock()
		texts = append(texts, text)
		mu.Unlock()
	})

	started := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	for w := range opts.Writers {
		g.Go(func() error {
			instance := l.Named(fmt.Sprintf("Writer %d", w), "")

			for i := range opts.Messages {
				if err := gctx.Err(); err != nil {
					return err
				}

				instance.Msgf("message %d of writer %d", i, w)
			}

			return nil
		})
	}

	err = g.Wait()
	elapsed := time.Since(started)

	if closeErr := l.Close(); closeErr != nil {
		return nil, fmt.Errorf("close logs: %w", closeErr)
	}

	if err != nil {
		return nil, err
	}

	lines, err := readLines(latest)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Lines:   len(lines),
		Events:  len(texts),
		Elapsed: elapsed,
	}

	logger.InfoKV(ctx, "Stress run finished",
		"writers", opts.Writers,
		"messages", opts.Messages,
		"lines", report.Lines,
		"events", report.Events,
		"elapsed", elapsed.String())

	if want := opts.Writers * opts.Messages; report.Lines != want || report.Events != want {
		return report, fmt.Errorf("%w: want %d, got %d lines and %d events", errLineCount, want, report.Lines, report.Events)
	}

	for i, line := range lines {
		if !strings.HasSuffix(line, "] "+texts[i]) {
			return report, fmt.Errorf("%w: line %d is %q, event is %q", errEventOrder, i+1, line, texts[i])
		}
	}

	return report, nil
}

// readLines returns the lines of the file at path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open rolling log: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	var lines []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rolling log: %w", err)
	}

	return lines, nil
}
