package docqa

import (
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Exchange is one answered question of a session.
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// HistoryStore keeps the chat history of every session in memory. With a
// positive TTL a history expires once the session stays idle that long.
type HistoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewHistoryStore(ttl time.Duration) *HistoryStore {
	if ttl <= 0 {
		return &HistoryStore{
			cache: cache.New(cache.NoExpiration, 0),
		}
	}

	return &HistoryStore{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (h *HistoryStore) Append(sessionID string, question string, answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	history := h.load(sessionID)
	history = append(history, Exchange{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	})

	h.cache.Set(sessionID, history, cache.DefaultExpiration)
}

// Get returns a copy of the session's history, oldest first. Unknown
// sessions have an empty history.
func (h *HistoryStore) Get(sessionID string) []Exchange {
	h.mu.Lock()
	defer h.mu.Unlock()

	history := slices.Clone(h.load(sessionID))
	if history == nil {
		history = []Exchange{}
	}

	return history
}

func (h *HistoryStore) Clear(sessionID string) {
	h.cache.Delete(sessionID)
}

func (h *HistoryStore) Flush() {
	h.cache.Flush()
}

func (h *HistoryStore) load(sessionID string) []Exchange {
	x, found := h.cache.Get(sessionID)
	if !found {
		return nil
	}

	history, _ := x.([]Exchange)
	return history
}
