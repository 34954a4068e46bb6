package model

import "math"

// ---- Raw input records ----

// Event is one row of a match's dynamic-events log. Timestamps are seconds
// into the match, monotonic per match. Events are immutable once read.
type Event struct {
	MatchID   string
	EventID   string
	Timestamp float64
	Period    int
	PlayerID  int64 // 0 if not attributable to a player
	TeamID    int64

	EndType               string // e.g. "possession_loss", "clearance"
	StartType             string // e.g. "pass_interception"
	PassOutcome           string // "successful", "unsuccessful", "offside", ""
	ThirdStart            string // "defensive_third", "middle_third", "attacking_third"
	PenaltyAreaStart      bool
	Dangerous             bool
	LeadToShot            bool
	LeadToGoal            bool
	GameInterruptionAfter string // "goal_for", "goal_against", ""

	X, Y float64 // pitch-centered meters at event start
}

// PlayerPosition is one player's sample inside a tracking frame.
type PlayerPosition struct {
	PlayerID int64
	X, Y     float64 // meters; X longitudinal (towards opponent goal), Y lateral
}

// TrackingFrame is one sample of the positional stream: every visible player
// plus the possession owner at that instant.
type TrackingFrame struct {
	Timestamp  float64
	Period     int
	Possession int64 // owning team id, 0 when the ball is contested/dead
	Players    []PlayerPosition
}

// Player returns the position of the given player in this frame.
func (f *TrackingFrame) Player(playerID int64) (PlayerPosition, bool) {
	for _, p := range f.Players {
		if p.PlayerID == playerID {
			return p, true
		}
	}
	return PlayerPosition{}, false
}

// TeamPlayers returns the positions belonging to the given team, using the
// supplied membership lookup.
func (f *TrackingFrame) TeamPlayers(teamID int64, teamOf func(int64) int64) []PlayerPosition {
	var out []PlayerPosition
	for _, p := range f.Players {
		if teamOf(p.PlayerID) == teamID {
			out = append(out, p)
		}
	}
	return out
}

// Match bundles everything loaded for one match.
type Match struct {
	MatchID     string
	Name        string // "Home vs Away"
	HomeTeamID  int64
	AwayTeamID  int64
	TeamNames   map[int64]string
	PlayerNames map[int64]string
	PlayerTeam  map[int64]int64

	Events []Event
	Frames []TrackingFrame // sorted by (period, timestamp)
}

// TeamOf returns the team a player belongs to, 0 if unknown.
func (m *Match) TeamOf(playerID int64) int64 {
	return m.PlayerTeam[playerID]
}

// OpponentOf returns the other team's id for a two-team match.
func (m *Match) OpponentOf(teamID int64) int64 {
	if teamID == m.HomeTeamID {
		return m.AwayTeamID
	}
	return m.HomeTeamID
}

// ---- Derived records ----

// CriticalEvent is a classified disruptive occurrence. Created by the
// detector, never mutated afterwards.
type CriticalEvent struct {
	Category Category
	Weight   float64 // normalized share of the configured weight table
	Event    Event   // originating row
}

// TemporalWindow holds the tracking samples around a critical event: each
// segment nominally spans half the configured window, truncated (never
// padded) at match boundaries. Pre and post may hold different counts.
type TemporalWindow struct {
	Pre  []TrackingFrame
	Post []TrackingFrame
}

// ---- Baselines ----

// PlayerBaseline is a player's whole-corpus average physical state.
// MetricVector order is [speed, x, y, distToCenter]; the CRT distance test
// consumes Covariance in the same order.
type PlayerBaseline struct {
	Frames int // samples contributing to the averages

	MeanSpeed           float64 // m/s
	MeanAccel           float64 // m/s², signed
	DistancePerMinute   float64 // m covered per minute of observation
	MeanX, MeanY        float64
	MeanDistToCenter    float64
	DirectionChangeRate float64 // heading reversals (>45°) per minute

	Covariance [4][4]float64 // over [speed, x, y, distToCenter]
}

// MeanVector returns the baseline mean in metric-vector order.
func (b *PlayerBaseline) MeanVector() [4]float64 {
	return [4]float64{b.MeanSpeed, b.MeanX, b.MeanY, b.MeanDistToCenter}
}

// TeamBaseline is a team's whole-corpus average collective state.
type TeamBaseline struct {
	Frames int

	MeanCompactness float64 // convex-hull area of outfield players, m²
	MeanBlockSpeed  float64 // centroid speed, m/s
	MeanSpacing     float64 // mean pairwise inter-player distance, m
	MeanBlockWidth  float64 // lateral extent, m
	MeanBlockLength float64 // longitudinal extent, m
}

// BaselineState is the read-only, whole-corpus reference state. It is built
// exactly once per run, before any metric computation, and shared by
// reference afterwards. Absent entities are reported via the ok flag:
// a zero-valued baseline would be indistinguishable from a real one.
type BaselineState struct {
	players map[int64]PlayerBaseline
	teams   map[int64]TeamBaseline
}

// NewBaselineState wraps computed per-entity baselines.
func NewBaselineState(players map[int64]PlayerBaseline, teams map[int64]TeamBaseline) *BaselineState {
	return &BaselineState{players: players, teams: teams}
}

// Player returns the baseline for a player, ok=false when the player was
// never observed.
func (s *BaselineState) Player(id int64) (PlayerBaseline, bool) {
	b, ok := s.players[id]
	return b, ok
}

// Team returns the baseline for a team, ok=false when the team was never
// observed.
func (s *BaselineState) Team(id int64) (TeamBaseline, bool) {
	b, ok := s.teams[id]
	return b, ok
}

// PlayerCount reports how many players have a baseline.
func (s *BaselineState) PlayerCount() int { return len(s.players) }

// TeamCount reports how many teams have a baseline.
func (s *BaselineState) TeamCount() int { return len(s.teams) }

// ---- Results ----

// TSIComponents carries the three sub-scores of the team support index.
// A nil component was inapplicable (zero pre-value or no defending phase)
// and was excluded from the weighted mean.
type TSIComponents struct {
	Proximity  *float64
	Possession *float64
	Structure  *float64
}

// GIRIComponents carries the normalized tactical-shift deltas behind a GIRI
// value. Nil deltas had an undefined pre-value and were excluded.
type GIRIComponents struct {
	BlockHeight    *float64
	TeamSpeed      *float64
	PassSequence   *float64
	PressIntensity *float64
	Compactness    *float64
}

// MetricResult is one output row per critical event. Exactly one of the
// metric groups applies, selected by Category; the others stay nil.
// Missing metrics stay nil, never coerced to zero.
type MetricResult struct {
	MatchID   string
	EventID   string
	Category  Category
	Weight    float64
	Timestamp float64
	PlayerID  int64
	TeamID    int64

	CRT         *float64 // seconds to baseline recovery
	CRTCensored bool     // true when CRT reports the window bound, not a real recovery

	TSI           *float64
	TSIComponents TSIComponents

	GIRI           *float64
	GIRIComponents GIRIComponents

	// Diagnostic note for rows whose metric degraded to missing
	// (insufficient window, missing baseline, ...). Empty otherwise.
	Note string
}

// Dist returns the Euclidean distance between two positions.
func Dist(a, b PlayerPosition) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
