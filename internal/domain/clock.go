package domain

import "time"

// Clock supplies the reference time for all temporal business rules. Booking
// validation and state classification never read the wall clock directly so
// they stay deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock frozen at the given instant. Test use only.
func FixedClock(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
