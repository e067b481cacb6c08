// Package timezone pins the calendar booking dates are judged in. The
// product serves Brazilian salons, so "today" means today in São Paulo
// regardless of where the server runs.
package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

func Location() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location())
}

// Today is the current calendar date in the pinned zone, at UTC
// midnight so it compares directly against dates parsed from
// "2006-01-02" strings.
func Today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
