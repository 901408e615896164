package services_test

import (
	"errors"
	"testing"
	"time"

	"loyalty-rewards-system/services"
)

func TestCompleteReactionConsumesQuotaAndCredits(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewGameService(db)
	now := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	member := newTestMember(t, db, "arun", 0)

	res, err := svc.CompleteReaction(member.ID, services.ReactionOutcome{ElapsedMs: 300})
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if res.PointsAwarded != 50 {
		t.Errorf("points = %d, want 50", res.PointsAwarded)
	}
	if res.AttemptsLeft != 1 {
		t.Errorf("attempts left = %d, want 1", res.AttemptsLeft)
	}
	if res.Profile.TotalPoints != 50 {
		t.Errorf("balance = %d, want 50", res.Profile.TotalPoints)
	}

	res, err = svc.CompleteReaction(member.ID, services.ReactionOutcome{ElapsedMs: 2000})
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if res.PointsAwarded != 10 || res.AttemptsLeft != 0 {
		t.Errorf("second completion = %d points, %d left; want 10 points, 0 left", res.PointsAwarded, res.AttemptsLeft)
	}

	// Third attempt on the same date is rejected with no mutation.
	_, err = svc.CompleteReaction(member.ID, services.ReactionOutcome{ElapsedMs: 100})
	if !errors.Is(err, services.ErrQuotaExceeded) {
		t.Fatalf("third completion error = %v, want ErrQuotaExceeded", err)
	}
	if got := reload(t, db, member.ID).TotalPoints; got != 60 {
		t.Errorf("balance after rejected attempt = %d, want 60", got)
	}
}

func TestCompleteReactionQuotaResetsNextDay(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewGameService(db)
	now := time.Date(2026, 8, 28, 23, 50, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	member := newTestMember(t, db, "bela", 0)

	for i := 0; i < services.MaxDailyAttempts; i++ {
		if _, err := svc.CompleteReaction(member.ID, services.ReactionOutcome{ElapsedMs: 1000}); err != nil {
			t.Fatalf("completion %d: %v", i+1, err)
		}
	}
	if _, err := svc.CompleteReaction(member.ID, services.ReactionOutcome{ElapsedMs: 1000}); !errors.Is(err, services.ErrQuotaExceeded) {
		t.Fatalf("exhausted quota error = %v, want ErrQuotaExceeded", err)
	}

	// 20 minutes later it is a new calendar day; the counter is treated as
	// reset without any explicit write.
	now = now.Add(20 * time.Minute)
	res, err := svc.CompleteReaction(member.ID, services.ReactionOutcome{ElapsedMs: 1000})
	if err != nil {
		t.Fatalf("next-day completion: %v", err)
	}
	if res.AttemptsLeft != services.MaxDailyAttempts-1 {
		t.Errorf("attempts left = %d, want %d", res.AttemptsLeft, services.MaxDailyAttempts-1)
	}
}

func TestCompleteReactionTimeoutStillConsumesAttempt(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewGameService(db)
	member := newTestMember(t, db, "chitra", 25)

	res, err := svc.CompleteReaction(member.ID, services.ReactionOutcome{TimedOut: true})
	if err != nil {
		t.Fatalf("timeout completion: %v", err)
	}
	if res.PointsAwarded != 0 {
		t.Errorf("timeout points = %d, want 0", res.PointsAwarded)
	}
	if res.AttemptsLeft != services.MaxDailyAttempts-1 {
		t.Errorf("attempts left = %d, want %d", res.AttemptsLeft, services.MaxDailyAttempts-1)
	}
	if res.Profile.TotalPoints != 25 {
		t.Errorf("balance = %d, want unchanged 25", res.Profile.TotalPoints)
	}
}

func TestCompleteReactionRejectsOutOfWindowWithoutConsuming(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewGameService(db)
	member := newTestMember(t, db, "dev", 0)

	_, err := svc.CompleteReaction(member.ID, services.ReactionOutcome{ElapsedMs: 9000})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("forged elapsed error = %v, want ErrValidation", err)
	}

	left, err := svc.AttemptsLeft(member.ID)
	if err != nil {
		t.Fatalf("attempts left: %v", err)
	}
	if left != services.MaxDailyAttempts {
		t.Errorf("attempts left = %d, want %d (rejected submission must not consume)", left, services.MaxDailyAttempts)
	}
}

func TestCompletePuzzleOncePerDay(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewGameService(db)
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	member := newTestMember(t, db, "esha", 0)

	res, err := svc.CompletePuzzle(member.ID, services.PuzzleWin)
	if err != nil {
		t.Fatalf("first puzzle: %v", err)
	}
	if res.PointsAwarded != 50 {
		t.Errorf("puzzle points = %d, want 50 (default setting)", res.PointsAwarded)
	}

	// Second win the same day earns nothing and changes nothing.
	_, err = svc.CompletePuzzle(member.ID, services.PuzzleWin)
	if !errors.Is(err, services.ErrQuotaExceeded) {
		t.Fatalf("same-day puzzle error = %v, want ErrQuotaExceeded", err)
	}
	if got := reload(t, db, member.ID).TotalPoints; got != 50 {
		t.Errorf("balance = %d, want 50", got)
	}
}

func TestCompletePuzzleAcrossThreeDays(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewGameService(db)
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	member := newTestMember(t, db, "farid", 0)

	for day := 0; day < 3; day++ {
		outcome := services.PuzzleWin
		if day == 1 {
			outcome = services.PuzzleDraw
		}
		if _, err := svc.CompletePuzzle(member.ID, outcome); err != nil {
			t.Fatalf("day %d puzzle: %v", day, err)
		}
		now = now.AddDate(0, 0, 1)
	}

	if got := reload(t, db, member.ID).TotalPoints; got != 150 {
		t.Errorf("balance after 3 daily rewards = %d, want 150", got)
	}
}

func TestCompletePuzzleRejectsUnknownOutcome(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewGameService(db)
	member := newTestMember(t, db, "gita", 0)

	_, err := svc.CompletePuzzle(member.ID, services.PuzzleOutcome("loss"))
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("unknown outcome error = %v, want ErrValidation", err)
	}
}

func TestCompleteReactionUnknownMember(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewGameService(db)

	_, err := svc.CompleteReaction("no-such-member", services.ReactionOutcome{ElapsedMs: 100})
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("unknown member error = %v, want ErrNotFound", err)
	}
}
