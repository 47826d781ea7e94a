package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/zwischenruf/internal/model"
)

// Output file names inside the output directory
const (
	FileSpeeches   = "speeches.json"
	FileExtended   = "contributions_extended.json"
	FileSimplified = "contributions_simplified.json"
	FileResolved   = "resolved_contributions.json"
	FileUnresolved = "unresolved_contributions.json"
	FileReport     = "report.json"
	FileSummary    = "summary.md"
)

const (
	filePermissions = 0o644
	dirPermissions  = 0o755
)

// Renderer writes run results to an output directory
type Renderer struct {
	dir     string
	summary bool
}

// NewRenderer creates a renderer writing into dir; summary enables summary.md
func NewRenderer(dir string, summary bool) *Renderer {
	return &Renderer{dir: dir, summary: summary}
}

// cleanedSpeech is a row of speeches.json
type cleanedSpeech struct {
	SpeechID    int64  `json:"speech_id"`
	Session     int    `json:"session"`
	CleanedText string `json:"cleaned_text"`
}

// RenderRun writes every table, the report and, if enabled, the summary.
// It returns the paths written.
func (r *Renderer) RenderRun(results []*SpeechResult, report *model.Report) ([]string, error) {
	if err := os.MkdirAll(r.dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var (
		speeches   []cleanedSpeech
		extended   []model.ContributionRecord
		simplified []model.SimplifiedContribution
		resolved   []model.ResolvedContribution
		unresolved []model.UnresolvedContribution
	)
	for _, res := range results {
		if res == nil {
			continue
		}
		speeches = append(speeches, cleanedSpeech{res.SpeechID, res.Session, res.Extraction.CleanedText})
		extended = append(extended, res.Extraction.Contributions...)
		simplified = append(simplified, res.Extraction.Simplified...)
		resolved = append(resolved, res.Resolved...)
		unresolved = append(unresolved, res.Unresolved...)
	}

	tables := []struct {
		name string
		v    any
	}{
		{FileSpeeches, nonNil(speeches)},
		{FileExtended, nonNil(extended)},
		{FileSimplified, nonNil(simplified)},
		{FileResolved, nonNil(resolved)},
		{FileUnresolved, nonNil(unresolved)},
		{FileReport, report},
	}

	var written []string
	for _, t := range tables {
		path := filepath.Join(r.dir, t.name)
		if err := writeJSONFile(path, t.v); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if r.summary {
		path := filepath.Join(r.dir, FileSummary)
		if err := os.WriteFile(path, []byte(RenderMarkdown(report)), filePermissions); err != nil {
			return written, fmt.Errorf("write summary: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

// nonNil keeps empty tables as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RenderMarkdown renders the run report as Markdown
func RenderMarkdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Zwischenruf run %s\n\n", report.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Finished: %s\n", report.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Speeches: %d (%d failed)\n", report.Speeches, len(report.Failed))
	fmt.Fprintf(&b, "- Contributions: %d\n", report.Contributions())
	fmt.Fprintf(&b, "- Malformed annotations: %d\n\n", report.Malformed)

	b.WriteString("## Contributions by type\n\n")
	b.WriteString("| Type | Count |\n|---|---:|\n")
	for _, t := range model.AllContributionTypes() {
		fmt.Fprintf(&b, "| %s | %d |\n", t, report.Counts[string(t)])
	}

	b.WriteString("\n## Identities\n\n")
	b.WriteString("| Outcome | Count |\n|---|---:|\n")
	fmt.Fprintf(&b, "| resolved | %d |\n", report.Identities.Resolved)
	fmt.Fprintf(&b, "| ambiguous | %d |\n", report.Identities.Ambiguous)
	fmt.Fprintf(&b, "| unresolvable | %d |\n", report.Identities.Unresolvable)
	fmt.Fprintf(&b, "| faction only | %d |\n", report.Identities.Unnamed)

	if len(report.Failed) > 0 {
		b.WriteString("\n## Failed speeches\n\n")
		for _, f := range report.Failed {
			fmt.Fprintf(&b, "- %d: %s\n", f.SpeechID, f.Error)
		}
	}

	return b.String()
}

// RenderSpeechJSON writes one speech result as indented JSON
func RenderSpeechJSON(w io.Writer, r *SpeechResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// RenderSpeechText writes one speech result in a human-readable layout
func RenderSpeechText(w io.Writer, r *SpeechResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Speech %d (session %d, term %d)\n\n", r.SpeechID, r.Session, r.ElectoralTerm)
	b.WriteString(r.Extraction.CleanedText)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Contributions (%d):\n", len(r.Resolved))
	for _, c := range r.Resolved {
		fmt.Fprintf(&b, "  ({%d}) %-16s", c.TextPosition, c.Type)
		if c.NameRaw != "" {
			fmt.Fprintf(&b, " name=%q", c.NameRaw)
		}
		if c.Faction != "" {
			fmt.Fprintf(&b, " faction=%q", c.Faction)
		}
		if c.Constituency != "" {
			fmt.Fprintf(&b, " constituency=%q", c.Constituency)
		}
		if c.Content != "" {
			fmt.Fprintf(&b, " content=%q", c.Content)
		}
		if c.PoliticianID != model.UnresolvedID {
			fmt.Fprintf(&b, " politician=%d", c.PoliticianID)
		}
		b.WriteString("\n")
	}

	if len(r.Unresolved) > 0 {
		fmt.Fprintf(&b, "\nUnresolved (%d):\n", len(r.Unresolved))
		for _, u := range r.Unresolved {
			fmt.Fprintf(&b, "  ({%d}) %s: %s\n", u.TextPosition, u.NameRaw, u.Reason)
		}
	}

	if len(r.Extraction.Malformed) > 0 {
		fmt.Fprintf(&b, "\nSkipped (%d):\n", len(r.Extraction.Malformed))
		for _, m := range r.Extraction.Malformed {
			fmt.Fprintf(&b, "  %s\n", m.Error())
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
