package services

import (
	"testing"
	"time"

	"restaurant/models"
)

var fixedNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestSessionLogOutDestroysCart(t *testing.T) {
	s := NewSession(fixedNow)
	s.LogIn(&models.User{ID: 1, Username: "ali"})
	_ = s.Cart().Add(pizza, 2)
	cart := s.Cart()

	s.LogOut()

	if s.LoggedIn() || s.User() != nil {
		t.Error("user still attached after LogOut")
	}
	if !s.Cart().Empty() {
		t.Error("cart not empty after LogOut")
	}
	if s.Cart() == cart {
		t.Error("LogOut should replace the cart")
	}
}

func TestSessionExpired(t *testing.T) {
	s := NewSession(fixedNow)
	idle := 30 * time.Minute

	tests := []struct {
		name string
		now  time.Time
		idle time.Duration
		want bool
	}{
		{"fresh", fixedNow.Add(time.Minute), idle, false},
		{"just under", fixedNow.Add(idle - time.Second), idle, false},
		{"at limit", fixedNow.Add(idle), idle, true},
		{"no timeout", fixedNow.Add(24 * time.Hour), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Expired(tt.now, tt.idle); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}

	s.Touch(fixedNow.Add(time.Hour))
	if s.Expired(fixedNow.Add(time.Hour+time.Minute), idle) {
		t.Error("Touch should reset the idle clock")
	}
	if !s.StartedAt().Equal(fixedNow) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt(), fixedNow)
	}
}
