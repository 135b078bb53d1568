package handlers

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const sessionCookie = "billbook_session"

// sessionStore maps opaque session tokens to user ids. Sessions live in
// process memory; restarting the server logs everyone out, which is
// acceptable for a single-user application.
type sessionStore struct {
	mu     sync.Mutex
	tokens map[string]int
}

var sessions = &sessionStore{tokens: make(map[string]int)}

func (s *sessionStore) create(userID int) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token
}

func (s *sessionStore) get(token string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	return id, ok
}

func (s *sessionStore) destroy(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// currentUser resolves the session cookie on a request to a user id.
func currentUser(r *http.Request) (int, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, false
	}
	return sessions.get(cookie.Value)
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
