package engine

import (
	"sync"

	"github.com/pkg/errors"
)

// Exactly one viewer drives the scene at a time. A newcomer replaces the
// previous session; stale sessions drop themselves on disconnect.

var gActive *Session
var gActiveLock sync.Mutex

func SetActive(s *Session) {
	gActiveLock.Lock()
	prev := gActive
	gActive = s
	gActiveLock.Unlock()
	if prev != nil && prev != s {
		prev.Close()
	}
}

func Active() (*Session, error) {
	gActiveLock.Lock()
	defer gActiveLock.Unlock()
	if gActive == nil {
		return nil, errors.New("No viewer connected")
	}
	return gActive, nil
}

func dropActive(s *Session) {
	gActiveLock.Lock()
	defer gActiveLock.Unlock()
	if gActive == s {
		gActive = nil
	}
}
