package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// exportDownload bereitgestellter Export im Speicher. Bis zum Ablauf
// beliebig oft abrufbar, damit ein Browser den Download wiederholen
// kann; danach wird er verworfen
type exportDownload struct {
	fileName  string
	data      []byte
	expiresAt time.Time
}

type downloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]exportDownload),
	}
}

func (s *downloadStore) put(fileName string, data []byte, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = uuid.New().String()
	s.items[token] = exportDownload{
		fileName:  fileName,
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return exportDownload{}, false
	}
	if time.Now().After(v.expiresAt) {
		delete(s.items, token)
		return exportDownload{}, false
	}
	return v, true
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
