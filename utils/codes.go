package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const referralSlugMaxLen = 12

// NewReferralCode builds a member's referral code from their name plus a
// random suffix, e.g. "priya-sharma-3F9A2C". Uniqueness is enforced by the
// store; callers regenerate on collision.
func NewReferralCode(name string) string {
	base := slug.Make(name)
	if len(base) > referralSlugMaxLen {
		base = strings.TrimRight(base[:referralSlugMaxLen], "-")
	}
	if base == "" {
		base = "member"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s", base, suffix)
}

// NewRedemptionCode issues a reward code like "COUPON-9D41C2B7E0".
func NewRedemptionCode(rewardType string) string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("%s-%s", strings.ToUpper(rewardType), frag)
}
