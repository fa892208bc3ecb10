package models

import (
	"testing"
)

func TestTripCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"open to taken", TripStatusOpen, TripStatusTaken, true},
		{"open to cancelled", TripStatusOpen, TripStatusCancelled, true},
		{"open to expired", TripStatusOpen, TripStatusExpired, true},
		{"open to completed skips taken", TripStatusOpen, TripStatusCompleted, false},
		{"open to in_progress skips taken", TripStatusOpen, TripStatusInProgress, false},
		{"taken to in_progress", TripStatusTaken, TripStatusInProgress, true},
		{"taken to completed", TripStatusTaken, TripStatusCompleted, true},
		{"taken released back to open", TripStatusTaken, TripStatusOpen, true},
		{"taken to cancelled", TripStatusTaken, TripStatusCancelled, true},
		{"taken to expired", TripStatusTaken, TripStatusExpired, false},
		{"in_progress to completed", TripStatusInProgress, TripStatusCompleted, true},
		{"in_progress released back to open", TripStatusInProgress, TripStatusOpen, true},
		{"completed is terminal", TripStatusCompleted, TripStatusOpen, false},
		{"cancelled is terminal", TripStatusCancelled, TripStatusTaken, false},
		{"expired is terminal", TripStatusExpired, TripStatusOpen, false},
		{"unknown status", "garbage", TripStatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := &Trip{Status: tt.from}
			if got := trip.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTripIsTerminal(t *testing.T) {
	terminal := []string{TripStatusCompleted, TripStatusCancelled, TripStatusExpired}
	live := []string{TripStatusOpen, TripStatusTaken, TripStatusInProgress}

	for _, status := range terminal {
		trip := &Trip{Status: status}
		if !trip.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}
	for _, status := range live {
		trip := &Trip{Status: status}
		if trip.IsTerminal() {
			t.Errorf("expected %s to not be terminal", status)
		}
	}
}

func TestTripIsAssignedTo(t *testing.T) {
	driverID := "d1"
	trip := &Trip{Status: TripStatusTaken, DriverID: &driverID}

	if !trip.IsAssignedTo("d1") {
		t.Error("expected trip to be assigned to d1")
	}
	if trip.IsAssignedTo("d2") {
		t.Error("expected trip to not be assigned to d2")
	}

	unassigned := &Trip{Status: TripStatusOpen}
	if unassigned.IsAssignedTo("d1") {
		t.Error("open trip without driver must not be assigned to anyone")
	}
}
