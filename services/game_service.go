package services

import (
	"fmt"
	"log"
	"time"

	"loyalty-rewards-system/models"

	"gorm.io/gorm"
)

// PuzzleOutcome is the submitted result of the daily puzzle game. The
// reference opponent never wins, so a loss is not a valid submission.
type PuzzleOutcome string

const (
	PuzzleWin  PuzzleOutcome = "win"
	PuzzleDraw PuzzleOutcome = "draw"
)

// GameService scores submitted game completions and enforces the daily
// quotas. It performs no waiting of its own; all timing arrives as completed
// values and is bound-checked.
type GameService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db, Now: time.Now}
}

// GameResult is an updated snapshot after a completed game.
type GameResult struct {
	Profile       *models.MemberProfile `json:"profile"`
	PointsAwarded int64                 `json:"points_awarded"`
	AttemptsLeft  int                   `json:"attempts_left"`
}

// AttemptsLeft reports the reaction attempts remaining today without
// consuming one. Read-only.
func (s *GameService) AttemptsLeft(memberID string) (int, error) {
	p, err := getProfile(s.DB, memberID)
	if err != nil {
		return 0, err
	}
	attempts := p.DailyGameAttempts
	if p.LastGamePlayed == nil || !sameCalendarDay(*p.LastGamePlayed, s.Now()) {
		attempts = 0
	}
	return MaxDailyAttempts - attempts, nil
}

// CompleteReaction records a submitted reaction game. Every submission,
// including a zero-point timeout, consumes one quota attempt; an abandoned
// game is simply never submitted. The quota date comparison uses the engine
// clock, never a caller timestamp.
func (s *GameService) CompleteReaction(memberID string, outcome ReactionOutcome) (*GameResult, error) {
	points, err := ScoreReaction(outcome)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	var remaining int
	profile, err := withProfileCAS(s.DB, memberID, func(tx *gorm.DB, p *models.MemberProfile) error {
		attempts := p.DailyGameAttempts
		if p.LastGamePlayed == nil || !sameCalendarDay(*p.LastGamePlayed, now) {
			attempts = 0
		}
		if attempts >= MaxDailyAttempts {
			return fmt.Errorf("%w: %d attempts used today", ErrQuotaExceeded, attempts)
		}
		attempts++
		played := now
		p.DailyGameAttempts = attempts
		p.LastGamePlayed = &played
		p.TotalPoints += points
		remaining = MaxDailyAttempts - attempts
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎯 Reaction game: member %s scored %d (%d attempt(s) left)", memberID, points, remaining)
	return &GameResult{Profile: profile, PointsAwarded: points, AttemptsLeft: remaining}, nil
}

// CompletePuzzle records a daily puzzle completion. The first win or draw per
// calendar day credits the configured bonus; same-day repeats are rejected
// with no mutation. Independent of the reaction quota counter.
func (s *GameService) CompletePuzzle(memberID string, outcome PuzzleOutcome) (*GameResult, error) {
	if outcome != PuzzleWin && outcome != PuzzleDraw {
		return nil, fmt.Errorf("%w: unknown puzzle outcome %q", ErrValidation, outcome)
	}

	now := s.Now()
	var points int64
	profile, err := withProfileCAS(s.DB, memberID, func(tx *gorm.DB, p *models.MemberProfile) error {
		if p.LastPuzzleRewardDate != nil && sameCalendarDay(*p.LastPuzzleRewardDate, now) {
			return fmt.Errorf("%w: daily puzzle reward already claimed", ErrQuotaExceeded)
		}
		settings, err := loadSettings(tx)
		if err != nil {
			return err
		}
		points = settings.DailyPuzzlePoints
		rewarded := now
		p.LastPuzzleRewardDate = &rewarded
		p.TotalPoints += points
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🧩 Daily puzzle (%s): member %s earned %d points", outcome, memberID, points)
	return &GameResult{Profile: profile, PointsAwarded: points}, nil
}

// sameCalendarDay compares two instants in the engine's local calendar.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
