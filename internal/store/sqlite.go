// Package store writes run results to SQLite.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ppiankov/zwischenruf/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS speeches (
	run_id         TEXT NOT NULL,
	speech_id      INTEGER NOT NULL,
	session        INTEGER NOT NULL,
	electoral_term INTEGER NOT NULL,
	cleaned_text   TEXT NOT NULL,
	PRIMARY KEY (run_id, speech_id)
);

CREATE TABLE IF NOT EXISTS contributions_extended (
	run_id        TEXT NOT NULL,
	speech_id     INTEGER NOT NULL,
	text_position INTEGER NOT NULL,
	type          TEXT NOT NULL,
	name_raw      TEXT DEFAULT '',
	faction       TEXT DEFAULT '',
	constituency  TEXT DEFAULT '',
	content       TEXT DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_ce_speech ON contributions_extended(run_id, speech_id);

CREATE TABLE IF NOT EXISTS contributions_simplified (
	run_id        TEXT NOT NULL,
	speech_id     INTEGER NOT NULL,
	text_position INTEGER NOT NULL,
	content       TEXT NOT NULL,
	PRIMARY KEY (run_id, speech_id, text_position)
);

CREATE TABLE IF NOT EXISTS resolved_contributions (
	run_id        TEXT NOT NULL,
	speech_id     INTEGER NOT NULL,
	text_position INTEGER NOT NULL,
	type          TEXT NOT NULL,
	last_name     TEXT DEFAULT '',
	first_names   TEXT DEFAULT '',
	acad_title    TEXT DEFAULT '',
	faction_id    INTEGER NOT NULL,
	politician_id INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rc_politician ON resolved_contributions(politician_id);

CREATE TABLE IF NOT EXISTS unresolved_contributions (
	run_id        TEXT NOT NULL,
	speech_id     INTEGER NOT NULL,
	text_position INTEGER NOT NULL,
	name_raw      TEXT DEFAULT '',
	last_name     TEXT DEFAULT '',
	kind          TEXT NOT NULL,
	reason        TEXT DEFAULT '',
	candidates    INTEGER NOT NULL
);
`

// InitDB opens the database and creates missing tables
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

// Counts is the number of rows written per table
type Counts struct {
	Speeches   int
	Extended   int
	Simplified int
	Resolved   int
	Unresolved int
}

// SaveRun writes all results of a run in one transaction. Nil results are
// skipped.
func SaveRun(db *sql.DB, runID string, results []*pipeline.SpeechResult) (Counts, error) {
	var counts Counts

	tx, err := db.Begin()
	if err != nil {
		return counts, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts, err := prepare(tx)
	if err != nil {
		return counts, err
	}
	defer stmts.close()

	for _, r := range results {
		if r == nil {
			continue
		}

		if _, err := stmts.speech.Exec(runID, r.SpeechID, r.Session, r.ElectoralTerm, r.Extraction.CleanedText); err != nil {
			return counts, fmt.Errorf("insert speech %d: %w", r.SpeechID, err)
		}
		counts.Speeches++

		for _, c := range r.Extraction.Contributions {
			if _, err := stmts.extended.Exec(runID, c.SpeechID, c.TextPosition, string(c.Type), c.NameRaw, c.Faction, c.Constituency, c.Content); err != nil {
				return counts, fmt.Errorf("insert contribution of speech %d: %w", r.SpeechID, err)
			}
			counts.Extended++
		}

		for _, s := range r.Extraction.Simplified {
			if _, err := stmts.simplified.Exec(runID, s.SpeechID, s.TextPosition, s.Content); err != nil {
				return counts, fmt.Errorf("insert simplified contribution of speech %d: %w", r.SpeechID, err)
			}
			counts.Simplified++
		}

		for _, c := range r.Resolved {
			if _, err := stmts.resolved.Exec(runID, c.SpeechID, c.TextPosition, string(c.Type), c.LastName,
				strings.Join(c.FirstNames, " "), c.AcadTitle, c.FactionID, c.PoliticianID); err != nil {
				return counts, fmt.Errorf("insert resolved contribution of speech %d: %w", r.SpeechID, err)
			}
			counts.Resolved++
		}

		for _, u := range r.Unresolved {
			if _, err := stmts.unresolved.Exec(runID, u.SpeechID, u.TextPosition, u.NameRaw, u.LastName, u.Kind, u.Reason, u.Candidates); err != nil {
				return counts, fmt.Errorf("insert unresolved contribution of speech %d: %w", r.SpeechID, err)
			}
			counts.Unresolved++
		}
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("commit: %w", err)
	}
	return counts, nil
}

type statements struct {
	speech, extended, simplified, resolved, unresolved *sql.Stmt
}

func prepare(tx *sql.Tx) (*statements, error) {
	s := &statements{}
	queries := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.speech, `INSERT INTO speeches (run_id, speech_id, session, electoral_term, cleaned_text) VALUES (?, ?, ?, ?, ?)`},
		{&s.extended, `INSERT INTO contributions_extended (run_id, speech_id, text_position, type, name_raw, faction, constituency, content) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`},
		{&s.simplified, `INSERT INTO contributions_simplified (run_id, speech_id, text_position, content) VALUES (?, ?, ?, ?)`},
		{&s.resolved, `INSERT INTO resolved_contributions (run_id, speech_id, text_position, type, last_name, first_names, acad_title, faction_id, politician_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`},
		{&s.unresolved, `INSERT INTO unresolved_contributions (run_id, speech_id, text_position, name_raw, last_name, kind, reason, candidates) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`},
	}

	for _, q := range queries {
		stmt, err := tx.Prepare(q.query)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("prepare: %w", err)
		}
		*q.dst = stmt
	}
	return s, nil
}

func (s *statements) close() {
	for _, stmt := range []*sql.Stmt{s.speech, s.extended, s.simplified, s.resolved, s.unresolved} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// ContributionCounts returns the number of extended contributions per type
// for a run
func ContributionCounts(db *sql.DB, runID string) (map[string]int, error) {
	rows, err := db.Query(`SELECT type, COUNT(*) FROM contributions_extended WHERE run_id = ? GROUP BY type`, runID)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan counts: %w", err)
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}
