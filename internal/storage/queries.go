package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// MatchRecord is the stored per-match run metadata.
type MatchRecord struct {
	MatchID    string
	MatchName  string
	HomeTeamID int64
	AwayTeamID int64
	TimeWindow string
	Events     int
	AnalyzedAt string
}

// MatchExists returns true when the match has stored results.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch records run metadata for one match. INSERT OR REPLACE keeps
// re-analysis idempotent.
func (db *DB) InsertMatch(rec MatchRecord) error {
	if rec.AnalyzedAt == "" {
		rec.AnalyzedAt = time.Now().Format(time.RFC3339)
	}
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(match_id, match_name, home_team_id, away_team_id, time_window, events, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID, rec.MatchName, rec.HomeTeamID, rec.AwayTeamID,
		rec.TimeWindow, rec.Events, rec.AnalyzedAt,
	)
	return err
}

// InsertResults bulk-inserts metric rows in a transaction.
func (db *DB) InsertResults(rows []model.MetricResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO metric_results(
			match_id, event_id, category, weight, timestamp, player_id, team_id,
			crt, crt_censored,
			tsi, tsi_proximity, tsi_possession, tsi_structure,
			giri, giri_block_height, giri_team_speed, giri_pass_sequence,
			giri_press_intensity, giri_compactness,
			note
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.MatchID, r.EventID, r.Category.String(), r.Weight, r.Timestamp, r.PlayerID, r.TeamID,
			nullable(r.CRT), boolInt(r.CRTCensored),
			nullable(r.TSI),
			nullable(r.TSIComponents.Proximity),
			nullable(r.TSIComponents.Possession),
			nullable(r.TSIComponents.Structure),
			nullable(r.GIRI),
			nullable(r.GIRIComponents.BlockHeight),
			nullable(r.GIRIComponents.TeamSpeed),
			nullable(r.GIRIComponents.PassSequence),
			nullable(r.GIRIComponents.PressIntensity),
			nullable(r.GIRIComponents.Compactness),
			r.Note,
		)
		if err != nil {
			return fmt.Errorf("insert metric_results %s/%s: %w", r.MatchID, r.EventID, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored match records, newest first.
func (db *DB) ListMatches() ([]MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, match_name, home_team_id, away_team_id, time_window, events, analyzed_at
		FROM matches ORDER BY analyzed_at DESC, match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		if err := rows.Scan(&rec.MatchID, &rec.MatchName, &rec.HomeTeamID, &rec.AwayTeamID,
			&rec.TimeWindow, &rec.Events, &rec.AnalyzedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetResults returns the stored metric rows for one match, in event order.
func (db *DB) GetResults(matchID string) ([]model.MetricResult, error) {
	return db.queryResults("WHERE match_id = ?", matchID)
}

// GetAllResults returns every stored metric row, ordered by match and time.
func (db *DB) GetAllResults() ([]model.MetricResult, error) {
	return db.queryResults("")
}

func (db *DB) queryResults(where string, args ...any) ([]model.MetricResult, error) {
	q := `
		SELECT match_id, event_id, category, weight, timestamp, player_id, team_id,
		       crt, crt_censored,
		       tsi, tsi_proximity, tsi_possession, tsi_structure,
		       giri, giri_block_height, giri_team_speed, giri_pass_sequence,
		       giri_press_intensity, giri_compactness,
		       note
		FROM metric_results ` + where + `
		ORDER BY match_id, timestamp, event_id`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MetricResult
	for rows.Next() {
		var (
			r        model.MetricResult
			category string
			censored int

			crt, tsi, tsiProx, tsiPoss, tsiStruct          sql.NullFloat64
			giri, gHeight, gSpeed, gPass, gPress, gCompact sql.NullFloat64
		)
		if err := rows.Scan(&r.MatchID, &r.EventID, &category, &r.Weight, &r.Timestamp,
			&r.PlayerID, &r.TeamID,
			&crt, &censored,
			&tsi, &tsiProx, &tsiPoss, &tsiStruct,
			&giri, &gHeight, &gSpeed, &gPass, &gPress, &gCompact,
			&r.Note); err != nil {
			return nil, err
		}
		r.Category = model.ParseCategory(category)
		r.CRTCensored = censored != 0
		r.CRT = fromNull(crt)
		r.TSI = fromNull(tsi)
		r.TSIComponents = model.TSIComponents{
			Proximity:  fromNull(tsiProx),
			Possession: fromNull(tsiPoss),
			Structure:  fromNull(tsiStruct),
		}
		r.GIRI = fromNull(giri)
		r.GIRIComponents = model.GIRIComponents{
			BlockHeight:    fromNull(gHeight),
			TeamSpeed:      fromNull(gSpeed),
			PassSequence:   fromNull(gPass),
			PressIntensity: fromNull(gPress),
			Compactness:    fromNull(gCompact),
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
