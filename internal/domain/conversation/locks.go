package conversation

import (
	"fmt"
	"sync"
)

// questionLocks serializes writes per (owner, scope, question). An edit's
// delete-then-append must never interleave with a concurrent answer, skip, or
// edit on the same question; operations on different questions stay
// independent.
type questionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newQuestionLocks() *questionLocks {
	return &questionLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the critical section for one question and returns the
// release function. Lock entries are retained for the process lifetime; the
// key space is bounded by the catalog size per active scope.
func (l *questionLocks) acquire(ownerID, scopeID string, questionID uint) func() {
	key := fmt.Sprintf("%s/%s/%d", ownerID, scopeID, questionID)

	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
