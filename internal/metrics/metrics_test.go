package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Contributions.WithLabelValues("Beifall").Add(3)
	m.Identities.WithLabelValues(IdentityResolved).Inc()
	m.Malformed.WithLabelValues("too deep").Inc()
	m.ObserveSpeech(StatusOK, 2*time.Millisecond)
	m.ObserveSpeech(StatusFailed, time.Millisecond)

	path := filepath.Join(t.TempDir(), "zwischenruf.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `zwischenruf_contributions_total{type="Beifall"} 3`)
	assert.Contains(t, out, `zwischenruf_identities_total{outcome="resolved"} 1`)
	assert.Contains(t, out, `zwischenruf_malformed_annotations_total{reason="too deep"} 1`)
	assert.Contains(t, out, `zwischenruf_speeches_total{status="ok"} 1`)
	assert.Contains(t, out, `zwischenruf_speeches_total{status="failed"} 1`)
	assert.Contains(t, out, `zwischenruf_speech_duration_seconds_count 2`)
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	a, b := New(), New()
	a.Speeches.WithLabelValues(StatusOK).Inc()

	families, err := b.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.NotEqual(t, "zwischenruf_speeches_total", f.GetName())
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
