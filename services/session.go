package services

import (
	"time"

	"restaurant/models"
)

// Session is the per-visitor context handed to every operation: who is
// logged in and what is in their cart. It is created when a visitor first
// shows up and torn down on logout or idle expiry.
type Session struct {
	user      *models.User
	cart      *Cart
	startedAt time.Time
	lastSeen  time.Time
}

func NewSession(now time.Time) *Session {
	return &Session{cart: &Cart{}, startedAt: now, lastSeen: now}
}

// LogIn attaches u to the session. The cart is kept.
func (s *Session) LogIn(u *models.User) {
	s.user = u
}

// LogOut drops the user and destroys the cart.
func (s *Session) LogOut() {
	s.user = nil
	s.cart = &Cart{}
}

func (s *Session) User() *models.User { return s.user }

func (s *Session) LoggedIn() bool { return s.user != nil }

func (s *Session) Cart() *Cart { return s.cart }

func (s *Session) StartedAt() time.Time { return s.startedAt }

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.lastSeen = now
}

// Expired reports whether the session has been idle for at least idle.
func (s *Session) Expired(now time.Time, idle time.Duration) bool {
	return idle > 0 && now.Sub(s.lastSeen) >= idle
}
