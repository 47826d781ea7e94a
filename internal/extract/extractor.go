// Package extract reads the bracketed asides of a speech into contribution
// records: applause, shouts, laughter, interjections and the like.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/zwischenruf/internal/logging"
	"github.com/ppiankov/zwischenruf/internal/model"
)

// Result is everything extracted from one speech
type Result struct {
	SpeechID      int64                          `json:"speech_id"`
	CleanedText   string                         `json:"cleaned_text"`
	Contributions []model.ContributionRecord     `json:"contributions"`
	Simplified    []model.SimplifiedContribution `json:"simplified"`
	Malformed     []MalformedAnnotation          `json:"malformed,omitempty"`
}

// Extractor locates and classifies the annotations of speeches. It holds
// no per-speech state and is safe for concurrent use.
type Extractor struct {
	locator       *Locator
	classifier    *Classifier
	flatEraBefore int
	logger        logging.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithPositionMode selects the ordinal numbering
func WithPositionMode(mode PositionMode) Option {
	return func(e *Extractor) { e.locator = NewLocator(mode) }
}

// WithFlatEraBefore moves the session boundary of the flat name grammar
func WithFlatEraBefore(session int) Option {
	return func(e *Extractor) { e.flatEraBefore = session }
}

// WithLogger sets the logger for skipped annotations
func WithLogger(l logging.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an extractor numbering spans in reading order
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		locator:    NewLocator(PositionsReversed),
		classifier: NewClassifier(),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract replaces every annotation of the speech with a placeholder and
// classifies it. Malformed spans are logged and left in the text.
func (e *Extractor) Extract(speech model.Speech) *Result {
	located := e.locator.Locate(speech.Text)
	e.LogMalformed(speech.ID, located.Malformed)

	res := &Result{
		SpeechID:    speech.ID,
		CleanedText: located.CleanedText,
		Malformed:   located.Malformed,
		Simplified:  make([]model.SimplifiedContribution, 0, len(located.Spans)),
	}

	for _, s := range located.Spans {
		res.Simplified = append(res.Simplified, model.SimplifiedContribution{
			TextPosition: s.Ordinal,
			Content:      s.Content,
			SpeechID:     speech.ID,
		})

		sc := SpanContext{
			SpeechID:      speech.ID,
			Session:       speech.Session,
			Position:      s.Ordinal,
			FlatEraBefore: e.flatEraBefore,
		}
		res.Contributions = append(res.Contributions, e.classifier.Classify(View(s.Content), sc)...)
	}

	return res
}

// LogMalformed warns about each skipped span of a speech
func (e *Extractor) LogMalformed(speechID int64, malformed []MalformedAnnotation) {
	for _, m := range malformed {
		e.logger.Warn("skipping malformed annotation",
			logging.Int64("speech_id", speechID),
			logging.Int("start", m.Start),
			logging.Int("end", m.End),
			logging.String("reason", m.Reason),
		)
	}
}

// View collapses all whitespace of a span to single spaces
func View(span string) string {
	return whitespaceRun.ReplaceAllString(span, " ")
}

var placeholderToken = regexp.MustCompile(`\(\{(\d+)\}\)`)

// Reinsert substitutes the verbatim spans back into cleaned text. It is the
// inverse of Extract: Reinsert(r.CleanedText, r.Simplified) is the input.
func Reinsert(cleaned string, simplified []model.SimplifiedContribution) string {
	byPosition := make(map[int]string, len(simplified))
	for _, s := range simplified {
		byPosition[s.TextPosition] = s.Content
	}

	return placeholderToken.ReplaceAllStringFunc(cleaned, func(token string) string {
		n, err := strconv.Atoi(strings.Trim(token, "({})"))
		if err != nil {
			return token
		}
		if content, ok := byPosition[n]; ok {
			return content
		}
		return token
	})
}
