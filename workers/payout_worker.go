package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"loyalty-rewards-system/models"
	"loyalty-rewards-system/utils"

	"gorm.io/gorm"
)

// PayoutClient submits pending UPI redemptions to the external payout
// service and records settlement. Submissions carry the redemption id as the
// idempotency key, so a crashed cycle can safely resubmit; status checks are
// plain reads and go through the retrying client.
type PayoutClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Retrying   *utils.RetryingClient
	DB         *gorm.DB
}

func NewPayoutClient(db *gorm.DB) *PayoutClient {
	baseURL := os.Getenv("PAYOUT_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("PAYOUT_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("LOYALTY_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("LOYALTY_SERVICE_TOKEN environment variable is required for payouts")
	}

	return &PayoutClient{
		BaseURL:    baseURL,
		Token:      token,
		DB:         db,
		HTTPClient: utils.HTTPClient,
		Retrying:   utils.NewRetryingClient(),
	}
}

type payoutResponse struct {
	Status string `json:"status"` // "settled" or "accepted"
}

// SubmitPayout POSTs one pending redemption to the payout service. Sent once
// per poll cycle; the X-Idempotency-Key header makes resubmission harmless.
func (c *PayoutClient) SubmitPayout(ctx context.Context, rec *models.RedemptionRecord) (settled bool, err error) {
	body, err := json.Marshal(map[string]interface{}{
		"reference":   rec.ID,
		"member_id":   rec.MemberID,
		"points_used": rec.PointsUsed,
		"code":        rec.IssuedCode,
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/v1/payouts", c.BaseURL), bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)
	req.Header.Set("X-Idempotency-Key", rec.ID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to call payout service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return false, fmt.Errorf("payout service returned status %d: %s", resp.StatusCode, string(payload))
	}

	var pr payoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return false, fmt.Errorf("failed to decode payout response: %w", err)
	}
	return pr.Status == "settled", nil
}

// CheckPayout asks the payout service whether a previously submitted payout
// settled. Read-only, so it rides the backoff-retrying client.
func (c *PayoutClient) CheckPayout(ctx context.Context, reference string) (bool, error) {
	header := http.Header{}
	header.Set("X-Service-Token", c.Token)

	resp, err := c.Retrying.Get(ctx, fmt.Sprintf("%s/api/v1/payouts/%s", c.BaseURL, reference), header)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payout status check returned %d", resp.StatusCode)
	}
	var pr payoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return false, err
	}
	return pr.Status == "settled", nil
}

// markSettled stamps the settlement time on a redemption.
func (c *PayoutClient) markSettled(rec *models.RedemptionRecord) error {
	now := time.Now()
	return c.DB.Model(rec).Updates(map[string]interface{}{
		"status":     models.RedemptionStatusSettled,
		"settled_at": now,
	}).Error
}

// PollPayouts drives pending UPI redemptions to settlement until ctx is
// cancelled.
func PollPayouts(ctx context.Context, client *PayoutClient, pollInterval time.Duration) {
	log.Println("Starting payout polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Payout polling stopped.")
			return
		case <-ticker.C:
			var pending []models.RedemptionRecord
			if err := client.DB.
				Where("reward_type = ? AND status = ?", models.RewardTypeUPI, models.RedemptionStatusPendingPayout).
				Order("created_at ASC").
				Limit(50).
				Find(&pending).Error; err != nil {
				log.Printf("❌ Error loading pending payouts: %v", err)
				continue
			}
			if len(pending) == 0 {
				continue
			}
			log.Printf("📤 Submitting %d pending payout(s)...", len(pending))

			for i := range pending {
				rec := &pending[i]
				settled, err := client.SubmitPayout(ctx, rec)
				if err != nil {
					log.Printf("❌ Payout %s failed, will retry next cycle: %v", rec.ID, err)
					continue
				}
				if !settled {
					// Accepted but not settled yet; verify before marking.
					settled, err = client.CheckPayout(ctx, rec.ID)
					if err != nil {
						log.Printf("❌ Payout %s status check failed: %v", rec.ID, err)
						continue
					}
				}
				if settled {
					if err := client.markSettled(rec); err != nil {
						log.Printf("❌ Failed to mark payout %s settled: %v", rec.ID, err)
						continue
					}
					log.Printf("✅ Payout %s settled (%d points)", rec.ID, rec.PointsUsed)
				}
			}
		}
	}
}
