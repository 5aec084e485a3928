package bot

import (
	"sync"
	"time"

	"restaurant/services"
)

// chat is everything the shell remembers about one Telegram chat: the
// domain session plus any half-filled form.
type chat struct {
	session *services.Session
	form    *form
}

// sessions maps chat ids to live sessions. A session is created on first
// contact and dropped on logout or once it has been idle for idle.
type sessions struct {
	mu        sync.Mutex
	idle      time.Duration
	now       func() time.Time
	chats     map[int64]*chat
	lastSweep time.Time
}

func newSessions(idle time.Duration, now func() time.Time) *sessions {
	if now == nil {
		now = time.Now
	}
	return &sessions{idle: idle, now: now, chats: make(map[int64]*chat), lastSweep: now()}
}

// get returns the chat's session, replacing an expired one, and marks it active.
// The second result is true when a previous session had expired.
func (r *sessions) get(chatID int64) (*chat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now, chatID)
	expired := false
	c, ok := r.chats[chatID]
	if ok && c.session.Expired(now, r.idle) {
		c.session.LogOut()
		ok, expired = false, true
	}
	if !ok {
		c = &chat{session: services.NewSession(now)}
		r.chats[chatID] = c
	}
	c.session.Touch(now)
	return c, expired
}

// sweep drops every other expired chat, at most once per idle period.
// The caller's own chat is left to get so it can report the expiry.
func (r *sessions) sweep(now time.Time, keep int64) {
	if r.idle <= 0 || now.Sub(r.lastSweep) < r.idle {
		return
	}
	r.lastSweep = now
	for id, c := range r.chats {
		if id != keep && c.session.Expired(now, r.idle) {
			c.session.LogOut()
			delete(r.chats, id)
		}
	}
}

// end tears the chat's session down.
func (r *sessions) end(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chats[chatID]; ok {
		c.session.LogOut()
		delete(r.chats, chatID)
	}
}

func (r *sessions) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}
