package app

import "time"

// Clock time source for created_at and read cursors
type Clock interface {
	Now() time.Time
}

// SystemClock wall clock in UTC
type SystemClock struct{}

// Now current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
