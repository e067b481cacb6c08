package license

import (
	"time"

	"github.com/agendusalao/salon-api/internal/models"
)

const TrialDays = 30

// LoginAllowed decides whether a salon's license admits a login right
// now. The status must be ACTIVE and the expiry in the future; either
// check failing alone blocks the login. TRIAL salons work through the
// token handed out at registration until an operator activates them.
func LoginAllowed(status string, expiresAt time.Time, now time.Time) bool {
	if status != models.LicenseActive {
		return false
	}
	return expiresAt.After(now)
}

// TrialExpiry is the expiry stamped on a salon at registration.
func TrialExpiry(now time.Time) time.Time {
	return now.AddDate(0, 0, TrialDays)
}
