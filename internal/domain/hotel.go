package domain

import "cloud.google.com/go/civil"

// Hotel owns rooms and closure periods.
type Hotel struct {
	ID      string
	Name    string
	Address string
	City    string
}

// Guest is a person a booking is made for.
type Guest struct {
	ID          string
	FirstName   string
	LastName    string
	SSN         string
	DateOfBirth *civil.Date
	Address     string
	City        string
}
