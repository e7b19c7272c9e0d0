package jobs

import (
	"context"
	"time"

	"selfstore-backend/internal/logger"
)

// ExpirePendingPayments deletes pending payment attempts the provider never
// confirmed within the configured window. Abandoned Stripe sessions, PayPal
// orders and NETS QR codes all age out here.
func (jr *JobRunner) ExpirePendingPayments() {
	jr.runWithRecovery("ExpirePendingPayments", func() {
		ctx := context.Background()

		olderThan := time.Now().Add(-time.Duration(jr.config.Payment.PendingExpiryMinutes) * time.Minute)
		deleted, err := jr.store.DeleteExpired(ctx, olderThan)
		if err != nil {
			logger.Error("Failed to expire pending payments", "error", err)
			return
		}
		logger.Info("Expired pending payments", "deleted", deleted)
	})
}

// ReconcileAvailability recomputes every listing's cached available_units
// from live booking overlap counts as of today.
func (jr *JobRunner) ReconcileAvailability() {
	jr.runWithRecovery("ReconcileAvailability", func() {
		ctx := context.Background()

		today := time.Now().UTC().Format("2006-01-02")
		updated, err := jr.availability.Reconcile(ctx, today)
		if err != nil {
			logger.Error("Failed to reconcile availability", "error", err)
			return
		}
		logger.Info("Reconciled listing availability", "as_of", today, "updated", updated)
	})
}

// CompleteFinishedBookings flips Paid/Active bookings past their end date to
// Completed so their units stop counting against availability.
func (jr *JobRunner) CompleteFinishedBookings() {
	jr.runWithRecovery("CompleteFinishedBookings", func() {
		ctx := context.Background()

		today := time.Now().UTC().Format("2006-01-02")
		completed, err := jr.store.CompleteFinished(ctx, today)
		if err != nil {
			logger.Error("Failed to complete finished bookings", "error", err)
			return
		}
		logger.Info("Completed finished bookings", "as_of", today, "completed", completed)
	})
}
