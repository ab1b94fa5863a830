package server

import (
	"time"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/pkg/database"
	"github.com/ephremw/gebeya/pkg/logger"
	"github.com/ephremw/gebeya/pkg/schedule"
)

// staleOrderAge is how long a Chapa order may sit pending before it is
// written off as abandoned.
const staleOrderAge = 24 * time.Hour

// registerTasks sets up the housekeeping schedule. Call before
// schedule.Start.
func registerTasks() {
	schedule.Hourly().Name("purge-expired-reset-codes").WithoutOverlapping().Run(purgeExpiredResetCodes)
	schedule.Hourly().Name("expire-stale-pending-orders").WithoutOverlapping().Run(expireStalePendingOrders)
}

// purgeExpiredResetCodes clears password-reset digests whose window has
// passed, so stale digests never linger in the users table.
func purgeExpiredResetCodes() {
	res := database.DB.Model(&models.User{}).
		Where("reset_code <> '' AND reset_code_expiry < ?", time.Now()).
		Updates(map[string]interface{}{
			"reset_code":        "",
			"reset_code_expiry": nil,
		})
	if res.Error != nil {
		logger.Error("tasks: purge reset codes", "error", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logger.Info("tasks: purged expired reset codes", "count", res.RowsAffected)
	}
}

// expireStalePendingOrders cancels gateway orders abandoned before payment.
// Stock was never decremented for these, so cancelling is just a status flip.
func expireStalePendingOrders() {
	cutoff := time.Now().Add(-staleOrderAge)
	res := database.DB.Model(&models.Order{}).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			models.OrderStatusPending, models.PaymentStatusPending, cutoff).
		Update("status", models.OrderStatusCancelled)
	if res.Error != nil {
		logger.Error("tasks: expire pending orders", "error", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logger.Info("tasks: expired stale pending orders", "count", res.RowsAffected)
	}
}
