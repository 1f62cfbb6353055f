package domain_test

import (
	"testing"

	"github.com/neomorfeo/roomkeeper/internal/domain"
)

func TestNewRoom(t *testing.T) {
	room := domain.NewRoom("r-1", "h-1", "101", "Double", 90)
	if room.Status != domain.RoomAvailable {
		t.Errorf("Status = %q, want %q", room.Status, domain.RoomAvailable)
	}
	if room.LastCleaned != nil {
		t.Errorf("LastCleaned = %v, want nil", room.LastCleaned)
	}
}

func TestRoom_ApplyBookingEvent(t *testing.T) {
	today := day("2024-03-05")
	cases := []struct {
		event   domain.Event
		want    domain.RoomStatus
		changed bool
	}{
		{domain.EventAccept, domain.RoomOccupied, true},
		{domain.EventCancel, domain.RoomAvailable, false},
		{domain.EventCheckout, domain.RoomToClean, true},
		{domain.EventComplete, domain.RoomAvailable, true},
	}

	for _, tc := range cases {
		room := domain.NewRoom("r-1", "h-1", "101", "", 0)
		changed, err := room.ApplyBookingEvent(tc.event, today)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.event, err)
		}
		if changed != tc.changed {
			t.Errorf("%q: changed = %v, want %v", tc.event, changed, tc.changed)
		}
		if room.Status != tc.want {
			t.Errorf("%q: Status = %q, want %q", tc.event, room.Status, tc.want)
		}
	}
}

func TestRoom_CompleteStampsLastCleaned(t *testing.T) {
	room := domain.NewRoom("r-1", "h-1", "101", "", 0)
	room.Status = domain.RoomToClean

	if _, err := room.ApplyBookingEvent(domain.EventComplete, day("2024-03-06")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room.LastCleaned == nil || *room.LastCleaned != day("2024-03-06") {
		t.Errorf("LastCleaned = %v, want 2024-03-06", room.LastCleaned)
	}
}

func TestRoom_ApplyUnknownEvent(t *testing.T) {
	room := domain.NewRoom("r-1", "h-1", "101", "", 0)
	if _, err := room.ApplyBookingEvent("teleport", day("2024-03-06")); err == nil {
		t.Error("expected error for unknown event")
	}
}
