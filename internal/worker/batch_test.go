package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/zwischenruf/internal/logging"
	"github.com/ppiankov/zwischenruf/internal/model"
	"github.com/ppiankov/zwischenruf/internal/pipeline"
)

// mockProcessor implements SpeechProcessor
type mockProcessor struct {
	failID  int64
	panicID int64
}

func (m *mockProcessor) ProcessSpeech(ctx context.Context, speech model.Speech) (*pipeline.SpeechResult, error) {
	// Later speeches finish first so completion order differs from input order
	time.Sleep(time.Duration(10-speech.ID%10) * time.Millisecond)
	if speech.ID == m.panicID {
		panic("broken speech")
	}
	if speech.ID == m.failID {
		return nil, errors.New("process error")
	}
	return &pipeline.SpeechResult{SpeechID: speech.ID, Session: speech.Session}, nil
}

func speeches(n int) []model.Speech {
	out := make([]model.Speech, n)
	for i := range out {
		out[i] = model.Speech{ID: int64(i + 1), Session: 19001, Text: "(Beifall)"}
	}
	return out
}

func TestBatchProcessor_ProcessSpeeches_InputOrder(t *testing.T) {
	processor := NewBatchProcessor(&mockProcessor{}, 4)

	results := processor.ProcessSpeeches(context.Background(), speeches(20))

	if len(results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Index != i {
			t.Errorf("expected index %d, got %d", i, res.Index)
		}
		if res.SpeechID != int64(i+1) {
			t.Errorf("expected speech %d at %d, got %d", i+1, i, res.SpeechID)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for speech %d: %v", res.SpeechID, res.Error)
		}
		if res.Result == nil || res.Result.SpeechID != res.SpeechID {
			t.Errorf("expected result for speech %d", res.SpeechID)
		}
	}
}

func TestBatchProcessor_ProcessSpeeches_IsolatesFailures(t *testing.T) {
	processor := NewBatchProcessor(&mockProcessor{failID: 2, panicID: 3}, 2)

	results := processor.ProcessSpeeches(context.Background(), speeches(4))

	if results[1].Error == nil || results[1].Result != nil {
		t.Error("expected error and no result for speech 2")
	}
	if results[2].Error == nil {
		t.Error("expected panic of speech 3 to become an error")
	}
	for _, i := range []int{0, 3} {
		if results[i].Error != nil {
			t.Errorf("unexpected error for speech %d: %v", results[i].SpeechID, results[i].Error)
		}
	}
}

func TestBatchProcessor_ProcessSpeeches_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockProcessor{}, 2)

	results := processor.ProcessSpeeches(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessSpeeches_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&mockProcessor{}, 2)
	results := processor.ProcessSpeeches(ctx, speeches(3))

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("expected cancellation for speech %d, got %v", res.SpeechID, res.Error)
		}
	}
}

func TestBatchProcessor_WithPipeline(t *testing.T) {
	p := pipeline.NewPipeline(model.DefaultConfig())
	processor := NewBatchProcessor(p, 3, WithLogger(logging.NewNopLogger()), WithProgressInterval(time.Millisecond))

	input := []model.Speech{
		{ID: 1, Session: 19001, Text: "Rede (Beifall bei der SPD) Ende"},
		{ID: 2, Session: 0, Text: "keine Sitzung"},
		{ID: 3, Session: 5001, Text: "(Heiterkeit)"},
	}
	results := processor.ProcessSpeeches(context.Background(), input)

	if results[0].Error != nil || len(results[0].Result.Extraction.Contributions) != 1 {
		t.Errorf("expected one contribution for speech 1, got %+v", results[0])
	}
	if !errors.Is(results[1].Error, pipeline.ErrInvalidSpeech) {
		t.Errorf("expected invalid speech error, got %v", results[1].Error)
	}
	if results[2].Error != nil {
		t.Errorf("unexpected error for speech 3: %v", results[2].Error)
	}
}

func TestReadSpeechesFromFile(t *testing.T) {
	content := `{"id": 1, "session": 19001, "text": "Erste (Beifall)"}
# comment

{"id": 2, "session": 19001, "text": "Zweite"}
{"id": 1, "session": 19002, "text": "Duplikat"}
`
	path := filepath.Join(t.TempDir(), "speeches.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSpeechesFromFile(path)
	if err != nil {
		t.Fatalf("ReadSpeechesFromFile failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 speeches, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Session != 19001 || got[0].Text != "Erste (Beifall)" {
		t.Errorf("unexpected first speech: %+v", got[0])
	}
	if got[1].ID != 2 {
		t.Errorf("expected speech 2, got %d", got[1].ID)
	}
}

func TestReadSpeechesFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(path, []byte("{\"id\": 1}\nnot json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadSpeechesFromFile(path)
	if err == nil {
		t.Fatal("expected error for invalid line, got nil")
	}
	if want := "line 2"; !strings.Contains(err.Error(), want) {
		t.Errorf("expected %q in error, got %v", want, err)
	}
}

func TestReadSpeechesFromFile_NonExistent(t *testing.T) {
	_, err := ReadSpeechesFromFile("non_existent_file.jsonl")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speeches.jsonl")
	content := "{\"id\": 1, \"session\": 19001, \"text\": \"a\"}\n{\"id\": 2, \"session\": 19001, \"text\": \"b\"}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&mockProcessor{}, 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.jsonl"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestSpeechResult_GetError(t *testing.T) {
	r1 := &SpeechResult{SpeechID: 1}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("process failed")
	r2 := &SpeechResult{SpeechID: 1, Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestProgress(t *testing.T) {
	p := NewProgress(3, time.Hour, logging.NewNopLogger())
	p.Step(nil)
	p.Step(errors.New("x"))
	p.Step(nil)

	done, failed := p.Counts()
	if done != 3 || failed != 1 {
		t.Errorf("expected 3 done and 1 failed, got %d and %d", done, failed)
	}
}
