package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/docsearch"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is the delay between the last input change and the search.
const DefaultDebounce = 500 * time.Millisecond

// State is the state of a query session.
type State int

// Session states.
const (
	Idle State = iota
	Pending
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Settled:
		return "settled"
	}
	return "unknown"
}

// Session turns a stream of input changes into rendered result lists.
// Every input change gets a new sequence number; results computed for an
// older sequence number are discarded instead of rendered.
//
// Input may be called from any goroutine. Render calls are serialized.
type Session struct {
	ID string

	loader   ShardLoader
	router   docsearch.ShardRouter
	renderer docsearch.Renderer
	debounce time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	idle        *sync.Cond
	seq         uint64
	rendered    uint64
	raw         string
	query       string
	state       State
	timer       *time.Timer
	inflight    int
	hasSearched bool
	closed      bool
	diagnostics []error

	// renderMu serializes the staleness check with the render call.
	renderMu sync.Mutex
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce sets the debounce delay. Defaults to DefaultDebounce.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithRouter sets the shard router. Defaults to docsearch.FirstCharRouter.
func WithRouter(r docsearch.ShardRouter) SessionOption {
	return func(s *Session) {
		s.router = r
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates an idle session that loads shards through loader and
// draws results with renderer.
func NewSession(loader ShardLoader, renderer docsearch.Renderer, opts ...SessionOption) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		loader:   loader,
		router:   docsearch.FirstCharRouter{},
		renderer: renderer,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.idle = sync.NewCond(&s.mu)
	s.logger = s.logger.With("session", s.ID)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Input records a change of the input text and returns its sequence number.
// Any pending search is retired. Text that normalizes to nothing renders an
// empty result without waiting for the debounce delay; anything else is
// searched after it. Input never renders on the caller's goroutine, so a
// Renderer may call it.
func (s *Session) Input(text string) uint64 {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.closed {
		s.mu.Unlock()
		return seq
	}
	s.raw = text
	s.query = docsearch.Normalize(text)
	s.state = Pending
	s.stopTimerLocked()

	query := s.query
	delay := s.debounce
	if query == "" {
		delay = 0
	}
	s.inflight++
	s.timer = time.AfterFunc(delay, func() {
		defer s.done()
		s.run(seq, query, text)
	})
	s.mu.Unlock()
	return seq
}

// stopTimerLocked cancels the pending debounce timer, if it has not fired.
func (s *Session) stopTimerLocked() {
	if s.timer == nil {
		return
	}
	if s.timer.Stop() {
		s.inflight--
		if s.inflight == 0 {
			s.idle.Broadcast()
		}
	}
	s.timer = nil
}

func (s *Session) done() {
	s.mu.Lock()
	s.inflight--
	if s.inflight == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

// run searches for query on behalf of input seq.
func (s *Session) run(seq uint64, query, raw string) {
	s.mu.Lock()
	if seq != s.seq || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	if query == "" {
		s.settle(seq, nil, raw, false)
		return
	}

	ids := s.router.ShardsFor(query)
	shards := make([]*docsearch.Shard, len(ids))

	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			shard, err := s.loader.Load(s.ctx, id)
			if err != nil {
				s.diagnose(id, err)
				return nil
			}
			shards[i] = shard
			return nil
		})
	}
	_ = g.Wait()

	s.settle(seq, docsearch.MatchAll(shards, query), raw, true)
}

// diagnose records a shard failure. The query continues without the shard.
func (s *Session) diagnose(id string, err error) {
	if s.ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	s.diagnostics = append(s.diagnostics, err)
	s.mu.Unlock()
	s.logger.Warn("shard skipped",
		"shard", id,
		"code", docsearch.ErrorCode(err),
		"err", err,
	)
}

// settle renders results if seq is still the latest input.
func (s *Session) settle(seq uint64, results []docsearch.Entry, raw string, searched bool) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	s.mu.Lock()
	if seq != s.seq || seq <= s.rendered || s.closed {
		latest := s.seq
		s.mu.Unlock()
		s.logger.Debug("stale result discarded",
			"seq", seq,
			"latest", latest,
			"count", len(results),
		)
		return
	}
	s.rendered = seq
	s.state = Settled
	s.hasSearched = searched
	s.mu.Unlock()

	if results == nil {
		results = []docsearch.Entry{}
	}
	s.renderer.Render(results, raw)
}

// Flush runs a pending search without waiting for the debounce delay and
// blocks until every search started so far has finished.
func (s *Session) Flush() {
	s.mu.Lock()
	if s.timer != nil && s.timer.Stop() {
		s.timer = nil
		seq, query, raw := s.seq, s.query, s.raw
		s.mu.Unlock()
		s.run(seq, query, raw)
		s.done()
		s.mu.Lock()
	}
	for s.inflight > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

// Close stops the pending search and releases the session.
// Searches already running finish without rendering.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()
	s.cancel()
	return nil
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Seq returns the sequence number of the latest input.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Query returns the normalized text of the latest input.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// HasSearched reports whether the last rendered result came from a search,
// as opposed to an empty input.
func (s *Session) HasSearched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSearched
}

// Diagnostics returns the shard errors recorded so far.
func (s *Session) Diagnostics() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.diagnostics...)
}
