package telegram

import (
	"sync"
)

// sessionManager manages per-chat sessions and access control.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*chatSession
	allowed  map[int64]bool // nil or empty = allow all
}

// newSessionManager creates a session manager.
// If allowedUserIDs is empty, all users are allowed.
func newSessionManager(allowedUserIDs []int64) *sessionManager {
	allowed := make(map[int64]bool, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = true
	}
	return &sessionManager{
		sessions: make(map[int64]*chatSession),
		allowed:  allowed,
	}
}

// isAllowed checks if a user is authorized to use the bot.
func (sm *sessionManager) isAllowed(userID int64) bool {
	if len(sm.allowed) == 0 {
		return true
	}
	return sm.allowed[userID]
}

// getOrCreate returns the chat's session, creating it with factory.
func (sm *sessionManager) getOrCreate(chatID int64, factory func(chatID int64) *chatSession) *chatSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if s, ok := sm.sessions[chatID]; ok {
		return s
	}
	s := factory(chatID)
	sm.sessions[chatID] = s
	return s
}

// closeAll closes every session. Sessions created afterwards start fresh.
func (sm *sessionManager) closeAll() {
	sm.mu.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[int64]*chatSession)
	sm.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

// len reports the number of open sessions.
func (sm *sessionManager) len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}
