package services

import (
	"fmt"
	"math"
)

// Reaction game tuning. The caller measures the catch time but the engine
// bound-checks it against the play window, so a forged elapsed value cannot
// mint points.
const (
	MaxDailyAttempts = 2
	MinReward        = 10
	MaxReward        = 50
	PlayWindowMs     = 5000

	fastCatchMs = 500
	slowCatchMs = 1500
)

// ReactionOutcome is a completed reaction game as submitted by the caller.
// TimedOut means the target was never caught within the play window.
type ReactionOutcome struct {
	ElapsedMs int  `json:"elapsed_ms"`
	TimedOut  bool `json:"timed_out"`
}

// ScoreReaction converts a reaction outcome into points:
//
//	< 500ms           → 50
//	500ms..1500ms     → 10 + (1500-t)/1000 * 40, rounded
//	>= 1500ms         → 10
//	timeout           → 0
//
// Elapsed times outside [0, PlayWindowMs] are rejected.
func ScoreReaction(outcome ReactionOutcome) (int64, error) {
	if outcome.TimedOut {
		return 0, nil
	}
	if outcome.ElapsedMs < 0 || outcome.ElapsedMs > PlayWindowMs {
		return 0, fmt.Errorf("%w: elapsed time %dms outside play window", ErrValidation, outcome.ElapsedMs)
	}
	t := outcome.ElapsedMs
	switch {
	case t < fastCatchMs:
		return MaxReward, nil
	case t < slowCatchMs:
		speed := float64(slowCatchMs-t) / 1000.0
		return int64(math.Round(MinReward + speed*(MaxReward-MinReward))), nil
	}
	return MinReward, nil
}
