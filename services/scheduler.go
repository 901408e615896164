package services

import (
	"fmt"
	"log"
	"time"

	"loyalty-rewards-system/utils"

	"github.com/go-co-op/gocron/v2"
)

// StartMaintenanceScheduler runs the recurring housekeeping jobs: hourly
// coupon expiry and a nightly analytics snapshot pushed to object storage.
func StartMaintenanceScheduler(redemptions *RedemptionService, analytics *AnalyticsService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			n, err := redemptions.ExpireCoupons()
			if err != nil {
				log.Printf("[Scheduler] Coupon expiry failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("⏳ Expired %d coupon(s)", n)
			}
		}),
	)

	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(func() {
			if !utils.R2Enabled() {
				return
			}
			until := time.Now().Truncate(24 * time.Hour)
			since := until.Add(-24 * time.Hour)
			data, err := analytics.RedemptionsCSV(since, until)
			if err != nil {
				log.Printf("[Scheduler] Analytics snapshot failed: %v", err)
				return
			}
			key := fmt.Sprintf("analytics/redemptions-%s.csv", since.Format("2006-01-02"))
			url, err := utils.UploadAnalyticsCSV(key, data)
			if err != nil {
				log.Printf("[Scheduler] Analytics upload failed: %v", err)
				return
			}
			log.Printf("📊 Exported redemption snapshot to %s", url)
		}),
	)
}
