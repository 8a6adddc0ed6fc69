package server

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-folio/pkg/conversation"
)

const loopBuffer = 16

// session owns one engine. The engine is only touched from tasks on loop.
type session struct {
	id      string
	loop    *conversation.Loop
	engine  *conversation.Engine
	limiter *rate.Limiter
}

// allow reports whether the session may submit now.
func (s *session) allow() bool {
	return s.limiter == nil || s.limiter.Allow()
}

// do runs fn against the engine on the session loop.
func (s *session) do(ctx context.Context, fn func(*conversation.Engine)) error {
	return s.loop.Do(ctx, func() {
		fn(s.engine)
	})
}

// EngineFactory builds the engine for a new session. The loop must be used as
// the engine's scheduler.
type EngineFactory func(id string, loop *conversation.Loop) *conversation.Engine

// sessionStore is a bounded in-memory session table. The least recently used
// session is evicted when full and its loop is closed.
type sessionStore struct {
	cache   *lru.Cache[string, *session]
	factory EngineFactory

	// newLimiter nil disables rate limiting. It is set before the store is used.
	newLimiter func() *rate.Limiter

	// onEvict is read from the cache's eviction callback, which runs on
	// whichever goroutine triggered the eviction.
	onEvict atomic.Pointer[func(id string)]
}

func newSessionStore(size int, factory EngineFactory) (*sessionStore, error) {
	st := &sessionStore{factory: factory}
	cache, err := lru.NewWithEvict[string, *session](size, func(id string, s *session) {
		s.loop.Close()
		if hook := st.onEvict.Load(); hook != nil {
			(*hook)(id)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("server: session cache: %w", err)
	}
	st.cache = cache
	return st, nil
}

// setOnEvict installs fn as the eviction hook. A nil fn removes it.
func (st *sessionStore) setOnEvict(fn func(id string)) {
	if fn == nil {
		st.onEvict.Store(nil)
		return
	}
	st.onEvict.Store(&fn)
}

func (st *sessionStore) get(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}
	sess, ok := st.cache.Get(id)
	if !ok || sess.loop.Closed() {
		return nil, false
	}
	return sess, true
}

func (st *sessionStore) create() *session {
	id := uuid.NewString()
	loop := conversation.NewLoop(loopBuffer)
	sess := &session{
		id:     id,
		loop:   loop,
		engine: st.factory(id, loop),
	}
	if st.newLimiter != nil {
		sess.limiter = st.newLimiter()
	}
	st.cache.Add(id, sess)
	return sess
}

func (st *sessionStore) len() int {
	return st.cache.Len()
}

// close stops every session loop without reporting evictions.
func (st *sessionStore) close() {
	st.setOnEvict(nil)
	st.cache.Purge()
}
