package models

import (
	"testing"
)

func TestBookingCanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusRejected, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false}, // must be confirmed first
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusRejected, false},
		{BookingStatusRejected, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.from}
		if got := b.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestBookingIsTerminal(t *testing.T) {
	terminal := []string{BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted}
	live := []string{BookingStatusPending, BookingStatusConfirmed}

	for _, status := range terminal {
		b := &Booking{Status: status}
		if !b.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}
	for _, status := range live {
		b := &Booking{Status: status}
		if b.IsTerminal() {
			t.Errorf("expected %s to not be terminal", status)
		}
	}
}
