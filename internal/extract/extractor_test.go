package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ppiankov/zwischenruf/internal/logging"
	"github.com/ppiankov/zwischenruf/internal/model"
)

const sampleSpeech = `Meine Damen und Herren, wir beraten heute den Haushalt.
(Beifall bei der SPD)
Das ist eine gute Nachricht für alle Bürger.
(Zuruf des Abg. Müller [CDU/CSU]: Das ist
falsch!)
Doch, das ist richtig.
(Lachen bei der FDP – Beifall bei der Regierungspartei)
Vielen Dank.`

func TestExtract_Speech(t *testing.T) {
	res := NewExtractor().Extract(model.Speech{ID: 42, Session: 19045, Text: sampleSpeech})

	assert.Equal(t, int64(42), res.SpeechID)
	assert.Contains(t, res.CleanedText, "({0})")
	assert.Contains(t, res.CleanedText, "({1})")
	assert.Contains(t, res.CleanedText, "({2})")
	assert.NotContains(t, res.CleanedText, "Beifall")

	require.Len(t, res.Simplified, 3)
	assert.Equal(t, "(Beifall bei der SPD)", res.Simplified[0].Content)
	assert.Equal(t, 0, res.Simplified[0].TextPosition)
	assert.Equal(t, int64(42), res.Simplified[2].SpeechID)

	var got []recordKey
	var positions []int
	for _, r := range res.Contributions {
		got = append(got, recordKey{r.Type, r.NameRaw, r.Faction, r.Content})
		positions = append(positions, r.TextPosition)
	}
	assert.Equal(t, []recordKey{
		{model.TypeApplause, "", "SPD", ""},
		{model.TypePersonInterjection, "Müller", "CDU/CSU", "Das ist falsch!"},
		{model.TypeApplause, "", "CDU/CSU", ""},
		{model.TypeApplause, "", "SPD", ""},
		{model.TypeLaughter, "", "FDP", ""},
	}, got)
	assert.Equal(t, []int{0, 1, 2, 2, 2}, positions)
}

func TestExtract_OrdinalsContiguous(t *testing.T) {
	for _, mode := range []PositionMode{PositionsReversed, PositionsForward} {
		res := NewExtractor(WithPositionMode(mode)).Extract(model.Speech{ID: 1, Session: 19001, Text: sampleSpeech})

		seen := make(map[int]bool)
		for _, s := range res.Simplified {
			seen[s.TextPosition] = true
		}
		for i := 0; i < len(res.Simplified); i++ {
			assert.True(t, seen[i], "ordinal %d missing", i)
		}
	}
}

func TestExtract_RoundTrip(t *testing.T) {
	text := sampleSpeech + "\nNachtrag (offen (Unruhe) und (zu (tief (x))))"
	res := NewExtractor().Extract(model.Speech{ID: 1, Session: 19001, Text: text})

	assert.Equal(t, text, Reinsert(res.CleanedText, res.Simplified))
}

func TestExtract_RoundTripWithExistingPlaceholder(t *testing.T) {
	text := "A ({0}) B (Beifall bei der SPD) C"
	res := NewExtractor().Extract(model.Speech{ID: 1, Session: 19001, Text: text})

	assert.Equal(t, "A ({0}) B ({1}) C", res.CleanedText)
	assert.Equal(t, text, Reinsert(res.CleanedText, res.Simplified))

	require.Len(t, res.Contributions, 1)
	assert.Equal(t, model.TypeApplause, res.Contributions[0].Type)
	assert.Equal(t, 1, res.Contributions[0].TextPosition)
}

func TestExtract_Idempotent(t *testing.T) {
	ex := NewExtractor()
	first := ex.Extract(model.Speech{ID: 1, Session: 19001, Text: sampleSpeech})
	second := ex.Extract(model.Speech{ID: 1, Session: 19001, Text: first.CleanedText})

	assert.Equal(t, first.CleanedText, second.CleanedText)
	assert.Empty(t, second.Contributions)
	assert.Empty(t, second.Simplified)

	plain := "Kein Einwurf in dieser Rede."
	assert.Equal(t, plain, ex.Extract(model.Speech{ID: 2, Session: 19001, Text: plain}).CleanedText)
}

func TestExtract_LogsMalformed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ex := NewExtractor(WithLogger(logging.NewLoggerFromCore(core)))

	res := ex.Extract(model.Speech{ID: 9, Session: 19001, Text: "A (Beifall bei der SPD) B (offen"})

	require.Len(t, res.Malformed, 1)
	require.Len(t, res.Contributions, 1)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(9), logs.All()[0].ContextMap()["speech_id"])
	assert.Equal(t, ReasonUnterminated, logs.All()[0].ContextMap()["reason"])
}

func TestExtract_FlatEraBoundary(t *testing.T) {
	text := "(Zuruf des Abg. Müller: Unsinn!)"

	res := NewExtractor().Extract(model.Speech{ID: 1, Session: 5010, Text: text})
	require.Len(t, res.Contributions, 1)
	assert.Equal(t, "Müller", res.Contributions[0].NameRaw)

	res = NewExtractor(WithFlatEraBefore(5000)).Extract(model.Speech{ID: 1, Session: 5010, Text: text})
	for _, r := range res.Contributions {
		assert.Empty(t, r.NameRaw)
	}
}
