package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// Memory keeps objects in process memory. It backs local development and tests.
type Memory struct {
	BaseURL string
	TTL     time.Duration

	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		BaseURL: "http://storage.local",
		TTL:     15 * time.Minute,
		objects: make(map[string][]byte),
	}
}

func (m *Memory) Upload(_ context.Context, data []byte, namespace, filename string) (string, error) {
	key := ObjectKey(namespace, filename)
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	m.objects[key] = buf
	m.mu.Unlock()
	return key, nil
}

// Delete is idempotent, like DeleteObject on S3.
func (m *Memory) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) PresignedURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrObjectMissing
	}

	u, err := url.Parse(m.BaseURL)
	if err != nil {
		return "", err
	}
	u = u.JoinPath(key)
	q := u.Query()
	q.Set("expires", time.Now().Add(m.TTL).UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Object returns a copy of the stored bytes.
func (m *Memory) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
