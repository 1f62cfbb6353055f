package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock tells the engine what day it is.
type Clock interface {
	Today() civil.Date
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Today returns the current calendar date.
func (c SystemClock) Today() civil.Date {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return civil.DateOf(time.Now().In(loc))
}

// FixedClock always returns the same day.
type FixedClock civil.Date

// Today returns the fixed date.
func (c FixedClock) Today() civil.Date {
	return civil.Date(c)
}
