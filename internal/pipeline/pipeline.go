// Package pipeline runs one speech through cleaning, extraction and
// identity resolution.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/zwischenruf/internal/cache"
	"github.com/ppiankov/zwischenruf/internal/clean"
	"github.com/ppiankov/zwischenruf/internal/extract"
	"github.com/ppiankov/zwischenruf/internal/logging"
	"github.com/ppiankov/zwischenruf/internal/metrics"
	"github.com/ppiankov/zwischenruf/internal/model"
	"github.com/ppiankov/zwischenruf/internal/resolve"
)

// ErrInvalidSpeech is returned for speeches without a usable session number
var ErrInvalidSpeech = errors.New("invalid speech")

// Pipeline orchestrates the processing of single speeches. It holds only
// read-only state and is safe for concurrent use.
type Pipeline struct {
	cleaner    *clean.NameCleaner
	extractor  *extract.Extractor
	resolver   *resolve.Resolver
	rosters    *resolve.RosterSet // nil disables identity resolution
	cache      cache.Cache        // nil disables caching
	metrics    *metrics.Metrics   // nil disables metrics
	knownNames []string
	variant    string
	config     *model.Config
	logger     logging.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithRosters enables identity resolution against the roster set
func WithRosters(set *resolve.RosterSet) Option {
	return func(p *Pipeline) { p.rosters = set }
}

// WithCache caches extraction results
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithMetrics records outcomes into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithKnownNames sets the speaker names whose header lines are removed
func WithKnownNames(names []string) Option {
	return func(p *Pipeline) { p.knownNames = names }
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		config: cfg,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	mode := extract.PositionsForward
	if cfg.Extraction.ReversedPositions {
		mode = extract.PositionsReversed
	}

	p.cleaner = clean.NewHeaderCleaner(cfg.Extraction.HeaderTitles...).
		ForNames(p.knownNames, cfg.Extraction.StripNameBrackets)
	p.extractor = extract.NewExtractor(
		extract.WithPositionMode(mode),
		extract.WithFlatEraBefore(cfg.Extraction.FlatEraBefore),
		extract.WithLogger(p.logger.Named("extract")),
	)
	p.resolver = resolve.NewResolver(cfg.Resolution, resolve.WithLogger(p.logger.Named("resolve")))
	p.variant = cacheVariant(cfg.Extraction, p.knownNames)

	return p
}

// SpeechResult is the outcome of one speech
type SpeechResult struct {
	SpeechID      int64                          `json:"speech_id"`
	Session       int                            `json:"session"`
	ElectoralTerm int                            `json:"electoral_term"`
	Extraction    *extract.Result                `json:"extraction"`
	Resolved      []model.ResolvedContribution   `json:"resolved"`
	Unresolved    []model.UnresolvedContribution `json:"unresolved"`
	Cached        bool                           `json:"cached"`
	Duration      time.Duration                  `json:"duration"`
}

// ProcessSpeech cleans, extracts and resolves one speech
func (p *Pipeline) ProcessSpeech(ctx context.Context, speech model.Speech) (*SpeechResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if speech.Session <= 0 {
		p.observe(metrics.StatusFailed, start)
		return nil, fmt.Errorf("speech %d: session %d: %w", speech.ID, speech.Session, ErrInvalidSpeech)
	}

	// 1. Normalise and remove running headers
	speech.Text = p.cleaner.Clean(clean.Normalize(speech.Text))

	// 2. Extract annotations
	extraction, cached := p.extract(speech)

	// 3. Build resolution rows
	term := speech.ElectoralTerm()
	var index *resolve.FactionIndex
	if p.rosters != nil {
		index = p.rosters.FactionIndex()
	}
	rows := BuildRows(extraction.Contributions, index, term)

	// 4. Resolve identities
	result := &SpeechResult{
		SpeechID:      speech.ID,
		Session:       speech.Session,
		ElectoralTerm: term,
		Extraction:    extraction,
		Cached:        cached,
	}
	if p.rosters != nil {
		result.Resolved, result.Unresolved = p.resolver.Resolve(rows, p.rosters.ForTerm(term))
	} else {
		result.Resolved = unresolvedRows(rows)
	}

	result.Duration = time.Since(start)
	p.record(result)

	p.logger.Debug("speech processed",
		logging.Int64("speech_id", speech.ID),
		logging.Int("contributions", len(extraction.Contributions)),
		logging.Int("unresolved", len(result.Unresolved)),
		logging.Bool("cached", cached),
		logging.Duration("duration", result.Duration),
	)

	return result, nil
}

// extract runs the extractor, going through the cache when one is set
func (p *Pipeline) extract(speech model.Speech) (*extract.Result, bool) {
	if p.cache == nil {
		return p.extractor.Extract(speech), false
	}

	key := cache.ExtractionKey(speech, p.variant)
	var res extract.Result
	if cache.GetJSON(p.cache, key, &res) {
		p.extractor.LogMalformed(speech.ID, res.Malformed)
		return &res, true
	}

	out := p.extractor.Extract(speech)
	if err := cache.SetJSON(p.cache, key, out, 0); err != nil {
		p.logger.Warn("cache write failed",
			logging.Int64("speech_id", speech.ID),
			logging.Err(err),
		)
	}
	return out, false
}

func (p *Pipeline) record(r *SpeechResult) {
	if p.metrics == nil {
		return
	}

	status := metrics.StatusOK
	if r.Cached {
		status = metrics.StatusCached
	}
	p.metrics.ObserveSpeech(status, r.Duration)

	for _, c := range r.Extraction.Contributions {
		p.metrics.Contributions.WithLabelValues(string(c.Type)).Inc()
	}
	for _, m := range r.Extraction.Malformed {
		p.metrics.Malformed.WithLabelValues(m.Reason).Inc()
	}

	counts := CountIdentities(r)
	p.metrics.Identities.WithLabelValues(metrics.IdentityResolved).Add(float64(counts.Resolved))
	p.metrics.Identities.WithLabelValues(metrics.IdentityAmbiguous).Add(float64(counts.Ambiguous))
	p.metrics.Identities.WithLabelValues(metrics.IdentityUnresolvable).Add(float64(counts.Unresolvable))
	p.metrics.Identities.WithLabelValues(metrics.IdentityUnnamed).Add(float64(counts.Unnamed))
}

func (p *Pipeline) observe(status string, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveSpeech(status, time.Since(start))
	}
}

// cacheVariant encodes every option that changes an extraction result
func cacheVariant(cfg model.ExtractionConfig, names []string) string {
	var b strings.Builder
	b.WriteString(strconv.FormatBool(cfg.ReversedPositions))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(cfg.FlatEraBefore))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(cfg.StripNameBrackets))
	b.WriteByte('|')
	b.WriteString(strings.Join(cfg.HeaderTitles, "\x1f"))
	b.WriteByte('|')
	b.WriteString(strings.Join(names, "\x1f"))
	return b.String()
}

func unresolvedRows(rows []model.ContributionRow) []model.ResolvedContribution {
	out := make([]model.ResolvedContribution, len(rows))
	for i, r := range rows {
		out[i] = model.ResolvedContribution{ContributionRow: r, PoliticianID: model.UnresolvedID}
	}
	return out
}
