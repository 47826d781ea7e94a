package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/zwischenruf/internal/logging"
	"github.com/ppiankov/zwischenruf/internal/model"
	"github.com/ppiankov/zwischenruf/internal/pipeline"
)

// maxLineBytes bounds one JSON line of the speech file
const maxLineBytes = 64 << 20

// SpeechProcessor defines the interface for processing one speech
type SpeechProcessor interface {
	ProcessSpeech(ctx context.Context, speech model.Speech) (*pipeline.SpeechResult, error)
}

// SpeechJob processes one speech of a batch
type SpeechJob struct {
	Index     int
	Speech    model.Speech
	Processor SpeechProcessor
	Progress  *Progress
}

// Execute processes the speech. A panic fails only this speech.
func (j *SpeechJob) Execute(ctx context.Context) Result {
	out := &SpeechResult{Index: j.Index, SpeechID: j.Speech.ID}

	func() {
		defer func() {
			if r := recover(); r != nil {
				out.Result = nil
				out.Error = fmt.Errorf("speech %d: panic: %v", j.Speech.ID, r)
			}
		}()
		out.Result, out.Error = j.Processor.ProcessSpeech(ctx, j.Speech)
	}()

	if j.Progress != nil {
		j.Progress.Step(out.Error)
	}
	return out
}

// SpeechResult is the outcome of one speech job
type SpeechResult struct {
	Index    int // Position in the input
	SpeechID int64
	Result   *pipeline.SpeechResult
	Error    error
}

// GetError returns the error from the speech result
func (r *SpeechResult) GetError() error {
	return r.Error
}

// BatchProcessor processes many speeches concurrently
type BatchProcessor struct {
	processor        SpeechProcessor
	concurrency      int
	progressInterval time.Duration
	logger           logging.Logger
}

// Option configures a BatchProcessor
type Option func(*BatchProcessor)

// WithLogger sets the logger for progress and failures
func WithLogger(l logging.Logger) Option {
	return func(b *BatchProcessor) { b.logger = l }
}

// WithProgressInterval sets how often progress is logged
func WithProgressInterval(d time.Duration) Option {
	return func(b *BatchProcessor) { b.progressInterval = d }
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor SpeechProcessor, concurrency int, opts ...Option) *BatchProcessor {
	b := &BatchProcessor{
		processor:        processor,
		concurrency:      concurrency,
		progressInterval: 5 * time.Second,
		logger:           logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ProcessSpeeches processes the speeches concurrently and returns one result
// per speech in input order. A failing speech does not affect the others.
func (b *BatchProcessor) ProcessSpeeches(ctx context.Context, speeches []model.Speech) []*SpeechResult {
	if len(speeches) == 0 {
		return []*SpeechResult{}
	}

	progress := NewProgress(len(speeches), b.progressInterval, b.logger)

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	submitted := 0
	for i, speech := range speeches {
		job := &SpeechJob{
			Index:     i,
			Speech:    speech,
			Processor: b.processor,
			Progress:  progress,
		}
		if !pool.Submit(job) {
			break
		}
		submitted++
	}

	results := pool.Wait()

	out := make([]*SpeechResult, len(speeches))
	for _, r := range results {
		sr := r.(*SpeechResult)
		out[sr.Index] = sr
	}

	// Speeches never submitted or dropped by cancellation
	for i := range out {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &SpeechResult{Index: i, SpeechID: speeches[i].ID, Error: fmt.Errorf("speech %d not processed: %w", speeches[i].ID, err)}
		}
	}

	for _, r := range out {
		if r.Error != nil {
			b.logger.Error("speech failed",
				logging.Int64("speech_id", r.SpeechID),
				logging.Err(r.Error),
			)
		}
	}

	done, failed := progress.Counts()
	b.logger.Info("batch finished",
		logging.Int("speeches", len(speeches)),
		logging.Int("submitted", submitted),
		logging.Int("done", done),
		logging.Int("failed", failed),
	)

	return out
}

// ProcessFile reads speeches from a JSON lines file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*SpeechResult, error) {
	speeches, err := ReadSpeechesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read speeches: %w", err)
	}

	return b.ProcessSpeeches(ctx, speeches), nil
}

// ReadSpeechesFromFile reads speeches from a JSON lines file, one
// {"id":…,"session":…,"text":…} object per line. Blank lines and lines
// starting with # are skipped; later duplicates of a speech id are dropped.
func ReadSpeechesFromFile(filePath string) ([]model.Speech, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var speeches []model.Speech
	seen := make(map[int64]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1<<20), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var s model.Speech
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if !seen[s.ID] {
			seen[s.ID] = true
			speeches = append(speeches, s)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return speeches, nil
}
