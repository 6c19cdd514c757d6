package dialog

import "github.com/aquabotdev/aquabot/internal/lookup"

// State is where a conversation currently sits. Profile setup walks the
// five Awaiting* states in order; food logging has a single pending
// state after a successful product lookup.
type State int

const (
	StateIdle State = iota
	StateAwaitingWeight
	StateAwaitingHeight
	StateAwaitingAge
	StateAwaitingActivity
	StateAwaitingCity
	StateAwaitingFoodAmount
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingWeight:
		return "awaiting_weight"
	case StateAwaitingHeight:
		return "awaiting_height"
	case StateAwaitingAge:
		return "awaiting_age"
	case StateAwaitingActivity:
		return "awaiting_activity"
	case StateAwaitingCity:
		return "awaiting_city"
	case StateAwaitingFoodAmount:
		return "awaiting_food_amount"
	default:
		return "unknown"
	}
}

// session holds per-conversation dialogue state, keyed by chat.
type session struct {
	state State

	// profile setup accumulator
	weight   float64
	height   float64
	age      float64
	activity float64

	// food logging accumulator
	pendingFood lookup.FoodInfo
}
