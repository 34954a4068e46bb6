package model

// Category classifies a critical event. The set is closed: every detected
// event carries exactly one category, chosen by the detector's ordered rules.
type Category int

const (
	CategoryUnknown Category = iota

	GoalScored
	GoalConceded

	PossessionLossDefensiveThird
	PossessionLossMiddleThird
	PossessionLossAttackingThird
	PossessionLossPenaltyArea

	FailedPassDangerous
	FailedPassLeadToShot
	FailedPassOffside
	FailedPassPlain

	DefensiveError

	InterceptionConcededDangerous
	InterceptionConcededDefensiveThird
	InterceptionConcededPlain
)

// AllCategories lists every concrete category in detection-rule order.
// Weight tables are validated and normalized against this set.
var AllCategories = []Category{
	GoalScored,
	GoalConceded,
	PossessionLossDefensiveThird,
	PossessionLossMiddleThird,
	PossessionLossAttackingThird,
	PossessionLossPenaltyArea,
	FailedPassDangerous,
	FailedPassLeadToShot,
	FailedPassOffside,
	FailedPassPlain,
	DefensiveError,
	InterceptionConcededDangerous,
	InterceptionConcededDefensiveThird,
	InterceptionConcededPlain,
}

func (c Category) String() string {
	switch c {
	case GoalScored:
		return "goal_scored"
	case GoalConceded:
		return "goal_conceded"
	case PossessionLossDefensiveThird:
		return "possession_loss_defensive_third"
	case PossessionLossMiddleThird:
		return "possession_loss_middle_third"
	case PossessionLossAttackingThird:
		return "possession_loss_attacking_third"
	case PossessionLossPenaltyArea:
		return "possession_loss_penalty_area"
	case FailedPassDangerous:
		return "failed_pass_dangerous"
	case FailedPassLeadToShot:
		return "failed_pass_lead_to_shot"
	case FailedPassOffside:
		return "failed_pass_offside"
	case FailedPassPlain:
		return "failed_pass"
	case DefensiveError:
		return "defensive_error"
	case InterceptionConcededDangerous:
		return "interception_conceded_dangerous"
	case InterceptionConcededDefensiveThird:
		return "interception_conceded_defensive_third"
	case InterceptionConcededPlain:
		return "interception_conceded"
	default:
		return "unknown"
	}
}

// ParseCategory maps the snake_case name back to its Category.
// Returns CategoryUnknown for names outside the closed set.
func ParseCategory(s string) Category {
	for _, c := range AllCategories {
		if c.String() == s {
			return c
		}
	}
	return CategoryUnknown
}

// IsGoal reports whether the category routes to the goal-impact calculator.
// Goal events get GIRI; every other category gets CRT and TSI.
func (c Category) IsGoal() bool {
	return c == GoalScored || c == GoalConceded
}
