package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nebify-credit/domain"
	"nebify-credit/repository"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message is empty")
)

const sessionSweepInterval = 10 * time.Minute

type sessionEntry struct {
	session  domain.ChatSession
	lastSeen time.Time
}

// ChatService keeps chat sessions for the widget. Only the user name is
// written to the cache; the last intent lives with the in-memory session.
// Sessions idle for longer than ttl are dropped.
type ChatService struct {
	matcher *IntentMatcher
	cache   repository.CacheRepository
	ttl     time.Duration
	logger  *logrus.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry

	stopSweep chan struct{}
	stopOnce  sync.Once
}

// NewChatService starts a background sweep of idle sessions when ttl is
// positive. Call Stop to end it.
func NewChatService(matcher *IntentMatcher, cache repository.CacheRepository, ttl time.Duration, logger *logrus.Logger) *ChatService {
	if matcher == nil {
		matcher = NewIntentMatcher()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &ChatService{
		matcher:   matcher,
		cache:     cache,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*sessionEntry),
		stopSweep: make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweepLoop()
	}
	return s
}

func (s *ChatService) sweepLoop() {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *ChatService) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.WithField("removed", removed).Debug("idle chat sessions swept")
	}
}

func (s *ChatService) Stop() {
	s.stopOnce.Do(func() { close(s.stopSweep) })
}

func (s *ChatService) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}

// lookup returns a live session and marks it seen. Callers hold s.mu.
func (s *ChatService) lookup(id string) (*sessionEntry, bool) {
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.sessions, id)
		return nil, false
	}
	entry.lastSeen = now
	return entry, true
}

func (s *ChatService) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func userNameKey(sessionID string) string {
	return ChatUserNameKey + ":" + sessionID
}

// StartSession opens a session. A non-empty id that is still live returns
// that session unchanged; otherwise a session is created and its user name
// is resumed from the cache, so the name survives a page reload.
func (s *ChatService) StartSession(ctx context.Context, id string) domain.ChatSession {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	if entry, ok := s.lookup(id); ok {
		session := entry.session
		s.mu.Unlock()
		return session
	}
	s.mu.Unlock()

	session := domain.ChatSession{ID: id, CreatedAt: s.now().UTC()}
	if name, ok := s.cache.Get(ctx, userNameKey(id)); ok {
		session.UserName = name
	}

	s.mu.Lock()
	// another request may have opened the same id meanwhile
	if entry, ok := s.lookup(id); ok {
		session = entry.session
	} else {
		s.sessions[id] = &sessionEntry{session: session, lastSeen: s.now()}
	}
	s.mu.Unlock()

	s.logger.WithField("session_id", id).Debug("chat session started")
	return session
}

func (s *ChatService) GetSession(_ context.Context, id string) (domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(id)
	if !ok {
		return domain.ChatSession{}, ErrSessionNotFound
	}
	return entry.session, nil
}

// Reply classifies message within the session and persists any
// extracted user name.
func (s *ChatService) Reply(ctx context.Context, id, message string) (domain.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return domain.Reply{}, ErrEmptyMessage
	}

	s.mu.Lock()
	entry, ok := s.lookup(id)
	if !ok {
		s.mu.Unlock()
		return domain.Reply{}, ErrSessionNotFound
	}
	reply := s.matcher.Classify(message, &entry.session)
	s.mu.Unlock()

	// every extraction is written so a repeated name refreshes the ttl
	if name, found := ExtractName(message); found {
		if err := s.cache.Set(ctx, userNameKey(id), name, s.ttl); err != nil {
			s.logger.WithError(err).WithField("session_id", id).Warn("failed to persist chat user name")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": id,
		"intent":     reply.MatchedIntent,
		"text":       Normalize(message),
	}).Debug("chat message classified")

	return reply, nil
}

// EndSession forgets the session and its stored user name.
func (s *ChatService) EndSession(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.lookup(id)
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	return s.cache.Delete(ctx, userNameKey(id))
}
