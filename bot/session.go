package bot

import (
	"sync"

	"tamo-orders/lang"
	"tamo-orders/models"
	"tamo-orders/services"
)

// session is one user's editing state between updates.
type session struct {
	draft        *services.Draft
	awaitingName bool
	lang         string
}

type sessions struct {
	mu          sync.Mutex
	byUser      map[int64]*session
	keys        []models.ItemKey
	defaultLang string
}

func newSessions(keys []models.ItemKey, defaultLang string) *sessions {
	if !lang.Valid(defaultLang) {
		defaultLang = lang.It
	}
	return &sessions{
		byUser:      make(map[int64]*session),
		keys:        keys,
		defaultLang: defaultLang,
	}
}

// get returns the user's session, creating an empty one on first use.
func (s *sessions) get(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byUser[userID]
	if !ok {
		sess = &session{draft: services.NewDraft(s.keys), lang: s.defaultLang}
		s.byUser[userID] = sess
	}
	return sess
}
