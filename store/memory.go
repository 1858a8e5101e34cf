package store

import (
	"context"
	"sync"
)

// Memory keeps sessions in process memory. Sessions never expire.
type Memory struct {
	sessions map[string]Session
	mutex    sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]Session)}
}

func (m *Memory) Save(_ context.Context, login string, s Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	s.Cookies = append([]Cookie(nil), s.Cookies...)
	m.sessions[login] = s
	return nil
}

func (m *Memory) Load(_ context.Context, login string) (Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	s, ok := m.sessions[login]
	if !ok {
		return Session{}, errNoSession
	}
	s.Cookies = append([]Cookie(nil), s.Cookies...)
	return s, nil
}

func (m *Memory) Delete(_ context.Context, login string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, login)
	return nil
}
