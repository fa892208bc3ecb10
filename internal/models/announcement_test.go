package models

import (
	"testing"
)

func TestAnnouncementCanBook(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		available int
		booked    int
		seats     int
		want      bool
	}{
		{"empty announcement", AnnouncementStatusActive, 4, 0, 2, true},
		{"exact fit", AnnouncementStatusActive, 4, 2, 2, true},
		{"one seat over", AnnouncementStatusActive, 4, 3, 2, false},
		{"single last seat", AnnouncementStatusActive, 4, 3, 1, true},
		{"full announcement", AnnouncementStatusFull, 4, 4, 1, false},
		{"completed rejects booking", AnnouncementStatusCompleted, 4, 0, 1, false},
		{"cancelled rejects booking", AnnouncementStatusCancelled, 4, 0, 1, false},
		{"expired rejects booking", AnnouncementStatusExpired, 4, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Announcement{
				Status:         tt.status,
				AvailableSeats: tt.available,
				BookedSeats:    tt.booked,
			}
			if got := a.CanBook(tt.seats); got != tt.want {
				t.Errorf("CanBook(%d) with %d/%d %s = %v, want %v",
					tt.seats, tt.booked, tt.available, tt.status, got, tt.want)
			}
		})
	}
}

func TestAnnouncementFreeSeats(t *testing.T) {
	a := &Announcement{AvailableSeats: 4, BookedSeats: 1}
	if got := a.FreeSeats(); got != 3 {
		t.Errorf("FreeSeats() = %d, want 3", got)
	}

	full := &Announcement{AvailableSeats: 4, BookedSeats: 4}
	if got := full.FreeSeats(); got != 0 {
		t.Errorf("FreeSeats() on full = %d, want 0", got)
	}
}

func TestAnnouncementCanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{AnnouncementStatusActive, AnnouncementStatusFull, true},
		{AnnouncementStatusActive, AnnouncementStatusCompleted, true},
		{AnnouncementStatusActive, AnnouncementStatusCancelled, true},
		{AnnouncementStatusFull, AnnouncementStatusActive, true}, // seat released
		{AnnouncementStatusFull, AnnouncementStatusCompleted, true},
		{AnnouncementStatusCompleted, AnnouncementStatusActive, false},
		{AnnouncementStatusCancelled, AnnouncementStatusActive, false},
		{AnnouncementStatusExpired, AnnouncementStatusActive, false},
	}

	for _, tt := range tests {
		a := &Announcement{Status: tt.from}
		if got := a.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestAnnouncementConfirmSeats(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		available  int
		booked     int
		seats      int
		wantBooked int
		wantStatus string
	}{
		{"partial fill stays active", AnnouncementStatusActive, 4, 0, 2, 2, AnnouncementStatusActive},
		{"last seat flips to full", AnnouncementStatusActive, 4, 3, 1, 4, AnnouncementStatusFull},
		{"exact fit flips to full", AnnouncementStatusActive, 4, 0, 4, 4, AnnouncementStatusFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Announcement{
				Status:         tt.status,
				AvailableSeats: tt.available,
				BookedSeats:    tt.booked,
			}
			booked, status := a.ConfirmSeats(tt.seats)
			if booked != tt.wantBooked || status != tt.wantStatus {
				t.Errorf("ConfirmSeats(%d) = (%d, %s), want (%d, %s)",
					tt.seats, booked, status, tt.wantBooked, tt.wantStatus)
			}
		})
	}
}

// Two confirms race for the last seat: the first debit fills the ledger,
// and the re-check under the row lock turns the second one away.
func TestConfirmSeatsRaceExactlyOneWinner(t *testing.T) {
	a := &Announcement{
		Status:         AnnouncementStatusActive,
		AvailableSeats: 4,
		BookedSeats:    3,
	}

	if !a.CanBook(1) {
		t.Fatal("first confirm should pass the seat check")
	}
	a.BookedSeats, a.Status = a.ConfirmSeats(1)

	if a.BookedSeats != 4 || a.Status != AnnouncementStatusFull {
		t.Fatalf("after winning confirm: %d/%d %s, want 4/4 full",
			a.BookedSeats, a.AvailableSeats, a.Status)
	}
	if a.CanBook(1) {
		t.Error("second confirm should fail the re-check on the full ledger")
	}
}

func TestAnnouncementReleaseSeats(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		available  int
		booked     int
		seats      int
		wantBooked int
		wantStatus string
	}{
		{"full reverts to active", AnnouncementStatusFull, 4, 4, 3, 1, AnnouncementStatusActive},
		{"partial release stays active", AnnouncementStatusActive, 4, 3, 2, 1, AnnouncementStatusActive},
		{"release everything", AnnouncementStatusFull, 4, 4, 4, 0, AnnouncementStatusActive},
		{"clamped at zero", AnnouncementStatusActive, 4, 1, 2, 0, AnnouncementStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Announcement{
				Status:         tt.status,
				AvailableSeats: tt.available,
				BookedSeats:    tt.booked,
			}
			booked, status := a.ReleaseSeats(tt.seats)
			if booked != tt.wantBooked || status != tt.wantStatus {
				t.Errorf("ReleaseSeats(%d) = (%d, %s), want (%d, %s)",
					tt.seats, booked, status, tt.wantBooked, tt.wantStatus)
			}
		})
	}
}
