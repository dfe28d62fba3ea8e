package docqa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flarexio/docqa/chunker"
	"github.com/flarexio/docqa/vector"
)

const unknownSource = "unknown"

// SessionStore maps session IDs to their vector indexes. Structural changes
// to one session (insert, clear) exclude every other operation on that
// session; reads of one session run in parallel; sessions never block each
// other.
type SessionStore struct {
	db      vector.VectorDB
	chunker *chunker.Chunker
	prefix  string

	mu       sync.Mutex
	sessions map[string]*session

	log *zap.Logger
}

type session struct {
	sync.RWMutex
	name    string
	index   vector.Index
	dropped bool
}

func NewSessionStore(db vector.VectorDB, c *chunker.Chunker, prefix string) *SessionStore {
	return &SessionStore{
		db:       db,
		chunker:  c,
		prefix:   prefix,
		sessions: make(map[string]*session),
		log: zap.L().With(
			zap.String("component", "session_store"),
		),
	}
}

// AddDocument chunks content and appends the chunks to the session's index,
// creating the index on first use. It returns the number of chunks stored.
func (s *SessionStore) AddDocument(ctx context.Context, sessionID string, content string, source string) (int, error) {
	if sessionID == "" {
		return 0, ErrInvalidSessionID
	}

	segments := s.chunker.Segments(content)
	if len(segments) == 0 {
		return 0, ErrEmptyDocument
	}

	if source == "" {
		source = unknownSource
	}

	for {
		sess, err := s.acquire(sessionID)
		if err != nil {
			return 0, err
		}

		sess.Lock()
		if sess.dropped {
			// cleared while we waited; start over with a fresh session
			sess.Unlock()
			continue
		}

		start := sess.index.NextOrdinal(source)

		chunks := make([]vector.Chunk, len(segments))
		for i, seg := range segments {
			chunks[i] = vector.Chunk{
				ID:      uuid.NewString(),
				Text:    seg.Text(),
				Source:  source,
				Ordinal: start + i,
				Overlap: utf8.RuneCountInString(seg.Overlap),
			}
		}

		err = sess.index.Insert(ctx, chunks)
		if err != nil && sess.index.Count() == 0 {
			s.discard(sessionID, sess)
		}

		sess.Unlock()

		if err != nil {
			return 0, err
		}

		return len(chunks), nil
	}
}

func (s *SessionStore) acquire(sessionID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if ok {
		return sess, nil
	}

	name := s.prefix + "-" + uuid.NewString()

	index, err := s.db.CreateIndex(name)
	if err != nil {
		return nil, err
	}

	sess = &session{
		name:  name,
		index: index,
	}

	s.sessions[sessionID] = sess

	s.log.Debug("session created",
		zap.String("session_id", sessionID),
		zap.String("index", name),
	)

	return sess, nil
}

// discard removes a session whose first insertion failed. The caller holds
// the session's write lock.
func (s *SessionStore) discard(sessionID string, sess *session) {
	s.mu.Lock()
	if s.sessions[sessionID] == sess {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	sess.dropped = true

	if err := s.db.DropIndex(sess.name); err != nil {
		s.log.Warn(err.Error(), zap.String("session_id", sessionID))
	}
}

func (s *SessionStore) read(sessionID string, fn func(index vector.Index) error) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		return ErrNoDocuments
	}

	sess.RLock()
	defer sess.RUnlock()

	if sess.dropped {
		return ErrNoDocuments
	}

	return fn(sess.index)
}

func (s *SessionStore) Search(ctx context.Context, sessionID string, query string, k int) ([]vector.Result, error) {
	var results []vector.Result

	err := s.read(sessionID, func(index vector.Index) error {
		var err error
		results, err = index.Search(ctx, query, k)
		return err
	})

	return results, err
}

// Chunks returns every chunk of the session in insertion order.
func (s *SessionStore) Chunks(ctx context.Context, sessionID string) ([]vector.Chunk, error) {
	var chunks []vector.Chunk

	err := s.read(sessionID, func(index vector.Index) error {
		var err error
		chunks, err = index.AllChunks(ctx)
		return err
	})

	return chunks, err
}

// Documents returns the text of every chunk of the session.
func (s *SessionStore) Documents(ctx context.Context, sessionID string) ([]string, error) {
	chunks, err := s.Chunks(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	docs := make([]string, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chunk.Text
	}

	return docs, nil
}

// Clear drops the session and its index. Clearing an unknown session is a
// no-op.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}

	sess.Lock()
	defer sess.Unlock()

	sess.dropped = true
	return s.db.DropIndex(sess.name)
}

// Has reports whether the session holds committed chunks. A first insert
// still in flight is waited for, so a session whose first insert fails is
// never reported.
func (s *SessionStore) Has(sessionID string) bool {
	err := s.read(sessionID, func(index vector.Index) error {
		if index.Count() == 0 {
			return ErrNoDocuments
		}

		return nil
	})

	return err == nil
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *SessionStore) Close() error {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		sess.Lock()
		sess.dropped = true
		if err := s.db.DropIndex(sess.name); err != nil {
			errs = append(errs, err)
		}
		sess.Unlock()
	}

	return errors.Join(errs...)
}

// Reconstruct rebuilds each source's text from its chunks without the
// overlapping context, joining sources with a blank line.
func Reconstruct(chunks []vector.Chunk) string {
	var (
		order   []string
		sources = make(map[string]*strings.Builder)
	)

	for _, chunk := range chunks {
		b, ok := sources[chunk.Source]
		if !ok {
			b = new(strings.Builder)
			sources[chunk.Source] = b
			order = append(order, chunk.Source)
		}

		text := chunk.Text
		if chunk.Overlap > 0 {
			runes := []rune(text)
			if chunk.Overlap < len(runes) {
				text = string(runes[chunk.Overlap:])
			} else {
				text = ""
			}
		}

		b.WriteString(text)
	}

	parts := make([]string, 0, len(order))
	for _, source := range order {
		parts = append(parts, strings.TrimSpace(sources[source].String()))
	}

	return strings.Join(parts, "\n\n")
}
