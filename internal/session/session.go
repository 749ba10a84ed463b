// Package session drives one search widget: it debounces input, loads the
// collection on first use, replays the latest query once loading finishes and
// drops results that arrive after the widget was closed.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gcbaptista/site-search/config"
	"github.com/gcbaptista/site-search/internal/logger"
	"github.com/gcbaptista/site-search/internal/render"
	"github.com/gcbaptista/site-search/internal/search"
	"github.com/gcbaptista/site-search/model"
	"github.com/gcbaptista/site-search/services"
)

// State is the widget state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Sink is the results area of the widget. Sink methods are called with the
// session lock held and must not call back into the Session.
type Sink interface {
	Render(view render.View)
	Clear()
}

// Searcher runs a query and knows its minimum query length.
type Searcher interface {
	services.Searcher
	MinChars() int
}

// Session owns the state of one search widget. The zero value is not usable;
// create sessions with New.
type Session struct {
	source   services.CollectionSource
	searcher Searcher
	renderer *render.Renderer
	sink     Sink
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	state   State
	query   string // text currently in the input
	pending string // latest query waiting for the collection
	timer   *time.Timer
	epoch   uint64 // bumped on Close; work from an older epoch is discarded
	seq     uint64 // bumped on every Input; only the newest timer may fire
}

// Option configures a Session.
type Option func(*Session)

// WithDebounce sets the quiet period between the last keystroke and the search.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.logger = logger.OrNop(log) }
}

// New creates a closed session.
func New(source services.CollectionSource, searcher Searcher, renderer *render.Renderer, sink Sink, opts ...Option) *Session {
	s := &Session{
		source:   source,
		searcher: searcher,
		renderer: renderer,
		sink:     sink,
		debounce: config.DefaultDebounce,
		logger:   zap.NewNop(),
		state:    StateClosed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current widget state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query returns the text currently in the input.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Open shows the widget. A collection loaded in an earlier open cycle is
// reused, so the session goes straight to Ready.
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed {
		return
	}
	if _, ok := s.source.Cached(); ok {
		s.transition(StateReady)
		return
	}
	s.transition(StateOpen)
}

// Close hides the widget: the pending debounce is cancelled, the query and
// results are cleared, and anything still in flight will not be rendered.
// The loaded collection is kept.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.query = ""
	s.pending = ""
	s.epoch++
	s.transition(StateClosed)
	s.sink.Clear()
}

// Input records new text from the search box and (re)starts the debounce
// timer. Input while closed is ignored.
func (s *Session) Input(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}

	s.query = query
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
	}
	epoch, seq := s.epoch, s.seq
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(epoch, seq) })
}

// fire runs when the debounce period elapsed without further input.
func (s *Session) fire(epoch, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || seq != s.seq || s.state == StateClosed {
		return
	}
	s.timer = nil

	q := s.query
	if !search.IsSearchable(q, s.searcher.MinChars()) {
		s.pending = ""
		s.sink.Clear()
		return
	}

	if docs, ok := s.source.Cached(); ok {
		s.transition(StateReady)
		s.run(q, docs)
		return
	}

	s.pending = q
	if s.state == StateLoading {
		// the load in flight will pick up the newest pending query
		return
	}
	s.transition(StateLoading)
	s.sink.Render(s.renderer.Loading())
	go s.load(s.epoch)
}

// load fetches the collection outside the lock and replays the latest
// pending query once it is available.
func (s *Session) load(epoch uint64) {
	docs, err := s.source.Get(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.state != StateLoading {
		return
	}

	if err != nil {
		s.logger.Warn("search index unavailable", zap.Error(err))
		s.pending = ""
		s.transition(StateOpen)
		s.sink.Render(s.renderer.Failure(err))
		return
	}

	s.transition(StateReady)
	q := s.pending
	s.pending = ""
	if search.IsSearchable(q, s.searcher.MinChars()) {
		s.run(q, docs)
	}
}

// run searches and renders. Callers hold the lock.
func (s *Session) run(query string, docs model.Collection) {
	results := s.searcher.Search(query, docs)
	s.sink.Render(s.renderer.Render(results, query))
}

func (s *Session) transition(to State) {
	if s.state == to {
		return
	}
	s.logger.Debug("search session transition",
		zap.Stringer("from", s.state),
		zap.Stringer("to", to),
	)
	s.state = to
}
