package booking

import (
	"stayhub/internal/models"
)

// transitions is the closed set of legal booking status moves. Anything not
// listed here is rejected with InvalidState.
var transitions = map[string][]string{
	models.BookingStatusPendingDeposit: {
		models.BookingStatusAwaitingApproval,
		models.BookingStatusConfirmed,
		models.BookingStatusCancelled,
	},
	models.BookingStatusAwaitingApproval: {
		models.BookingStatusConfirmed,
		models.BookingStatusPendingDeposit,
		models.BookingStatusCancelled,
	},
	models.BookingStatusConfirmed: {
		models.BookingStatusCompleted,
	},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
