package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxTrackedSessions = 10000

type limiterEntry struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// sessionLimiter hands out one token bucket per session. Once maxSize sessions
// are tracked the least recently used bucket is dropped. A nil limiter allows
// everything.
type sessionLimiter struct {
	lock     sync.Mutex
	limit    rate.Limit
	burst    int
	maxSize  int
	limiters map[uuid.UUID]*limiterEntry
}

func newSessionLimiter(perMinute float64, burst int) *sessionLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &sessionLimiter{
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		maxSize:  maxTrackedSessions,
		limiters: make(map[uuid.UUID]*limiterEntry),
	}
}

func (l *sessionLimiter) Allow(sessionId uuid.UUID) bool {
	if l == nil {
		return true
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	entry, exists := l.limiters[sessionId]
	if !exists {
		if len(l.limiters) >= l.maxSize {
			l.evictOldest()
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[sessionId] = entry
	}
	entry.lastAccessed = time.Now()

	return entry.limiter.Allow()
}

func (l *sessionLimiter) evictOldest() {
	oldestId := uuid.Nil
	var oldestTime time.Time
	for id, entry := range l.limiters {
		if oldestId == uuid.Nil || entry.lastAccessed.Before(oldestTime) {
			oldestId = id
			oldestTime = entry.lastAccessed
		}
	}
	delete(l.limiters, oldestId)
}

func (l *sessionLimiter) Forget(sessionId uuid.UUID) {
	if l == nil {
		return
	}

	l.lock.Lock()
	delete(l.limiters, sessionId)
	l.lock.Unlock()
}
