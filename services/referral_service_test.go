package services_test

import (
	"errors"
	"strings"
	"testing"

	"loyalty-rewards-system/models"
	"loyalty-rewards-system/services"
)

func TestCreditReferralExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewReferralService(db)
	referrer := newTestMember(t, db, "nina", 0)
	referee := newTestMember(t, db, "omar", 0)

	updated, err := svc.Credit(referrer.ID, referee.ID)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if updated.TotalPoints != 100 {
		t.Errorf("referrer balance = %d, want default bonus 100", updated.TotalPoints)
	}

	// Crediting the same pair again is rejected and changes nothing.
	_, err = svc.Credit(referrer.ID, referee.ID)
	if !errors.Is(err, services.ErrDuplicateReferral) {
		t.Fatalf("duplicate error = %v, want ErrDuplicateReferral", err)
	}

	var events int64
	db.Model(&models.ReferralEvent{}).Count(&events)
	if events != 1 {
		t.Errorf("referral events = %d, want 1", events)
	}
	if got := reload(t, db, referrer.ID).TotalPoints; got != 100 {
		t.Errorf("referrer balance = %d, want still 100", got)
	}
}

func TestCreditReferralRejectsSelfReferral(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewReferralService(db)
	member := newTestMember(t, db, "pia", 0)

	_, err := svc.Credit(member.ID, member.ID)
	if !errors.Is(err, services.ErrInvalidReferral) {
		t.Errorf("self-referral error = %v, want ErrInvalidReferral", err)
	}
}

func TestCreditReferralRefereeOnlyReferredOnce(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewReferralService(db)
	first := newTestMember(t, db, "qadir", 0)
	second := newTestMember(t, db, "rhea", 0)
	referee := newTestMember(t, db, "sami", 0)

	if _, err := svc.Credit(first.ID, referee.ID); err != nil {
		t.Fatalf("first credit: %v", err)
	}
	_, err := svc.Credit(second.ID, referee.ID)
	if !errors.Is(err, services.ErrDuplicateReferral) {
		t.Errorf("second referrer error = %v, want ErrDuplicateReferral", err)
	}
}

func TestTrackResolvesCodeAndStampsReferee(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewReferralService(db)
	referrer := newTestMember(t, db, "tara", 0)
	referee := newTestMember(t, db, "uma", 0)

	updated, err := svc.Track(referee.ID, referrer.ReferralCode)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if updated.ID != referrer.ID {
		t.Errorf("credited member = %s, want referrer %s", updated.ID, referrer.ID)
	}

	got := reload(t, db, referee.ID)
	if got.ReferredBy == nil || *got.ReferredBy != referrer.ID {
		t.Errorf("referee ReferredBy = %v, want %s", got.ReferredBy, referrer.ID)
	}
}

func TestTrackUnknownCode(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewReferralService(db)
	referee := newTestMember(t, db, "vik", 0)

	_, err := svc.Track(referee.ID, "no-such-code")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("unknown code error = %v, want ErrNotFound", err)
	}
}

func TestReferralLinkCarriesCode(t *testing.T) {
	db := openTestDB(t)
	svc := services.NewReferralService(db)
	svc.LinkBase = "https://shop.example.com/register"
	member := newTestMember(t, db, "wafa", 0)

	link, err := svc.Link(member.ID)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if !strings.Contains(link, member.ReferralCode) {
		t.Errorf("link %q does not carry referral code %q", link, member.ReferralCode)
	}
}
