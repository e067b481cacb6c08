// Package tenant is the single authorization gate for salon-scoped rows.
// Every handler and use-case that loads a row by id must pass it through
// Authorize before reading or writing it.
package tenant

import (
	"github.com/google/uuid"

	"github.com/agendusalao/salon-api/internal/httperr"
)

// Authorize succeeds only when the principal's salon equals the row's
// salon. Any mismatch is access denied, regardless of role. Callers must
// resolve existence first so that a missing row stays a 404.
func Authorize(principalSalonID, resourceSalonID uuid.UUID) error {
	if principalSalonID != resourceSalonID {
		return httperr.ErrBusiness(httperr.CodeAccessDenied)
	}
	return nil
}
