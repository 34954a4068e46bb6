// Package loader reads a corpus directory into model.Match values. A corpus
// looks like:
//
//	<dir>/matches.json                           list of match descriptors
//	<dir>/matches/<id>/<id>_match.json           teams and lineups
//	<dir>/matches/<id>/<id>_dynamic_events.csv   event log
//	<dir>/matches/<id>/<id>_tracking.jsonl       tracking frames, one per line
//
// Malformed event rows and tracking lines are skipped with a diagnostic,
// never aborting the load.
package loader

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/DanielCarreno95/R3ACT/internal/model"
)

// Diagnostic records one skipped input row.
type Diagnostic struct {
	MatchID string
	Source  string // "events" or "tracking"
	Line    int
	Reason  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s:%d: %s", d.MatchID, d.Source, d.Line, d.Reason)
}

type matchDescriptor struct {
	ID any `json:"id"`
}

type teamJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type matchJSON struct {
	HomeTeam teamJSON `json:"home_team"`
	AwayTeam teamJSON `json:"away_team"`
	Lineups  []struct {
		TeamID  int64 `json:"team_id"`
		Players []struct {
			PlayerID   int64  `json:"player_id"`
			PlayerName string `json:"player_name"`
		} `json:"players"`
	} `json:"lineups"`
}

type frameJSON struct {
	Timestamp  float64 `json:"timestamp"`
	Period     int     `json:"period"`
	Possession struct {
		Group string `json:"group"` // "home", "away", or ""
	} `json:"possession"`
	PlayerData []struct {
		PlayerID int64   `json:"player_id"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
	} `json:"player_data"`
}

// MatchIDs reads matches.json and returns the listed match ids.
func MatchIDs(dir string) ([]string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "matches.json"))
	if err != nil {
		return nil, fmt.Errorf("read matches.json: %w", err)
	}
	var descriptors []matchDescriptor
	if err := json.Unmarshal(raw, &descriptors); err != nil {
		return nil, fmt.Errorf("decode matches.json: %w", err)
	}
	ids := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		switch v := d.ID.(type) {
		case string:
			ids = append(ids, v)
		case float64:
			ids = append(ids, strconv.FormatInt(int64(v), 10))
		}
	}
	return ids, nil
}

// LoadMatch loads one match's metadata, events, and tracking stream.
func LoadMatch(dir, matchID string) (*model.Match, []Diagnostic, error) {
	base := filepath.Join(dir, "matches", matchID)

	meta, err := loadMatchJSON(filepath.Join(base, matchID+"_match.json"))
	if err != nil {
		return nil, nil, err
	}

	m := &model.Match{
		MatchID:     matchID,
		Name:        fmt.Sprintf("%s vs %s", meta.HomeTeam.Name, meta.AwayTeam.Name),
		HomeTeamID:  meta.HomeTeam.ID,
		AwayTeamID:  meta.AwayTeam.ID,
		TeamNames:   map[int64]string{meta.HomeTeam.ID: meta.HomeTeam.Name, meta.AwayTeam.ID: meta.AwayTeam.Name},
		PlayerNames: make(map[int64]string),
		PlayerTeam:  make(map[int64]int64),
	}
	for _, lineup := range meta.Lineups {
		for _, p := range lineup.Players {
			m.PlayerNames[p.PlayerID] = p.PlayerName
			m.PlayerTeam[p.PlayerID] = lineup.TeamID
		}
	}

	var diags []Diagnostic

	events, eventDiags, err := loadEvents(filepath.Join(base, matchID+"_dynamic_events.csv"), matchID)
	if err != nil {
		return nil, nil, err
	}
	m.Events = events
	diags = append(diags, eventDiags...)

	frames, frameDiags, err := loadTracking(filepath.Join(base, matchID+"_tracking.jsonl"), matchID, m)
	if err != nil {
		return nil, nil, err
	}
	m.Frames = frames
	diags = append(diags, frameDiags...)

	return m, diags, nil
}

func loadMatchJSON(path string) (*matchJSON, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read match json: %w", err)
	}
	var meta matchJSON
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode match json: %w", err)
	}
	return &meta, nil
}

func loadEvents(path, matchID string) ([]model.Event, []Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open events: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read events header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		events []model.Event
		diags  []Diagnostic
		line   = 1
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			diags = append(diags, Diagnostic{matchID, "events", line, err.Error()})
			continue
		}

		ev, err := parseEvent(rec, matchID, field)
		if err != nil {
			diags = append(diags, Diagnostic{matchID, "events", line, err.Error()})
			continue
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Period != events[j].Period {
			return events[i].Period < events[j].Period
		}
		return events[i].Timestamp < events[j].Timestamp
	})
	return events, diags, nil
}

func parseEvent(rec []string, matchID string, field func([]string, string) string) (model.Event, error) {
	eventID := field(rec, "event_id")
	if eventID == "" {
		return model.Event{}, fmt.Errorf("%w: missing event_id", model.ErrMalformedEvent)
	}
	timeStart := field(rec, "time_start")
	if timeStart == "" {
		return model.Event{}, fmt.Errorf("%w: missing time_start", model.ErrMalformedEvent)
	}
	ts, err := ParseClock(timeStart)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: bad time_start %q", model.ErrMalformedEvent, timeStart)
	}
	teamID, err := strconv.ParseInt(field(rec, "team_id"), 10, 64)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: bad team_id %q", model.ErrMalformedEvent, field(rec, "team_id"))
	}

	ev := model.Event{
		MatchID:               matchID,
		EventID:               eventID,
		Timestamp:             ts,
		TeamID:                teamID,
		EndType:               field(rec, "end_type"),
		StartType:             field(rec, "start_type"),
		PassOutcome:           field(rec, "pass_outcome"),
		ThirdStart:            field(rec, "third_start"),
		PenaltyAreaStart:      parseBool(field(rec, "penalty_area_start")),
		Dangerous:             parseBool(field(rec, "dangerous")),
		LeadToShot:            parseBool(field(rec, "lead_to_shot")),
		LeadToGoal:            parseBool(field(rec, "lead_to_goal")),
		GameInterruptionAfter: field(rec, "game_interruption_after"),
	}
	if v := field(rec, "period"); v != "" {
		ev.Period, _ = strconv.Atoi(v)
	}
	if ev.Period == 0 {
		ev.Period = 1
	}
	if v := field(rec, "player_id"); v != "" {
		ev.PlayerID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := field(rec, "x_start"); v != "" {
		ev.X, _ = strconv.ParseFloat(v, 64)
	}
	if v := field(rec, "y_start"); v != "" {
		ev.Y, _ = strconv.ParseFloat(v, 64)
	}
	return ev, nil
}

func loadTracking(path, matchID string, m *model.Match) ([]model.TrackingFrame, []Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Matches without tracking still contribute events.
			return nil, []Diagnostic{{matchID, "tracking", 0, "no tracking file"}}, nil
		}
		return nil, nil, fmt.Errorf("open tracking: %w", err)
	}
	defer f.Close()

	var (
		frames []model.TrackingFrame
		diags  []Diagnostic
		line   int
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<24) // frames can run long with 22 players
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var fj frameJSON
		if err := json.Unmarshal([]byte(raw), &fj); err != nil {
			diags = append(diags, Diagnostic{matchID, "tracking", line, err.Error()})
			continue
		}
		frame := model.TrackingFrame{
			Timestamp: fj.Timestamp,
			Period:    fj.Period,
		}
		if frame.Period == 0 {
			frame.Period = 1
		}
		switch fj.Possession.Group {
		case "home":
			frame.Possession = m.HomeTeamID
		case "away":
			frame.Possession = m.AwayTeamID
		}
		for _, p := range fj.PlayerData {
			if p.PlayerID == 0 {
				continue
			}
			frame.Players = append(frame.Players, model.PlayerPosition{
				PlayerID: p.PlayerID, X: p.X, Y: p.Y,
			})
		}
		frames = append(frames, frame)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan tracking: %w", err)
	}

	sort.SliceStable(frames, func(i, j int) bool {
		if frames[i].Period != frames[j].Period {
			return frames[i].Period < frames[j].Period
		}
		return frames[i].Timestamp < frames[j].Timestamp
	})
	return frames, diags, nil
}

// ParseClock converts "MM:SS.s" (or a bare seconds value) to total seconds.
func ParseClock(s string) (float64, error) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		minutes, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, err
		}
		seconds, err := strconv.ParseFloat(s[i+1:], 64)
		if err != nil {
			return 0, err
		}
		return float64(minutes)*60 + seconds, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "t", "1", "yes":
		return true
	default:
		return false
	}
}
