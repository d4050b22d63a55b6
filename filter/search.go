package filter

import (
	"net/url"
	"sync"
	"time"

	"recipe-blog-cms/debounce"
	"recipe-blog-cms/models"
)

// Result is what observers of a Search receive after every evaluation.
type Result struct {
	State   State
	Recipes []models.RecipeView
	URL     url.URL
}

// Search is a live search session over a loaded collection. Typed queries
// are debounced; facet changes and programmatic query changes apply at once.
type Search struct {
	mu         sync.Mutex
	notifyMu   sync.Mutex
	all        []models.RecipeView
	state      State
	typed      *string
	result     Result
	base       url.URL
	debouncer  *debounce.Debouncer
	observers  map[int]func(Result)
	order      []int
	observerID int
}

// NewSearch starts a session. The q parameter of base, if any, pre-populates
// the query.
func NewSearch(recipes []models.RecipeView, base url.URL, window time.Duration) *Search {
	s := &Search{
		all:       recipes,
		base:      base,
		debouncer: debounce.New(window),
		observers: make(map[int]func(Result)),
	}
	s.state.Query = base.Query().Get(QueryParam)
	s.result = s.evaluateLocked()
	return s
}

// Subscribe registers fn for every future Result. Observers run serially and
// must not call back into the Search.
func (s *Search) Subscribe(fn func(Result)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observerID++
	id := s.observerID
	s.observers[id] = fn
	s.order = append(s.order, id)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Result returns the latest evaluation.
func (s *Search) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// State returns the applied filter state. A typed query still waiting for
// its quiet window is not part of it.
func (s *Search) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Type records keyboard input. Evaluation happens once the debounce window
// passes without further typing.
func (s *Search) Type(q string) {
	s.mu.Lock()
	s.typed = &q
	s.mu.Unlock()

	s.debouncer.Trigger(func() {
		s.update(func(st *State) {})
	})
}

// SetQuery applies a query immediately, e.g. from a suggestion button.
func (s *Search) SetQuery(q string) {
	s.debouncer.Cancel()
	s.update(func(st *State) { st.Query = q })
}

func (s *Search) SetCategory(slug string) {
	s.debouncer.Cancel()
	s.update(func(st *State) { st.Category = slug })
}

func (s *Search) SetDifficulty(d models.Difficulty) {
	s.debouncer.Cancel()
	s.update(func(st *State) { st.Difficulty = d })
}

func (s *Search) SetTag(name string) {
	s.debouncer.Cancel()
	s.update(func(st *State) { st.Tag = name })
}

// Clear resets every dimension and drops the q parameter.
func (s *Search) Clear() {
	s.debouncer.Cancel()
	s.mu.Lock()
	s.typed = nil
	s.mu.Unlock()
	s.update(func(st *State) { *st = Clear() })
}

// Replace swaps the underlying collection after a refetch. A failed fetch
// leaves an empty collection rather than stale or partial data.
func (s *Search) Replace(recipes []models.RecipeView, err error) {
	if err != nil {
		recipes = nil
	}
	s.mu.Lock()
	s.all = recipes
	s.mu.Unlock()
	s.update(func(st *State) {})
}

// Flush applies typing still inside its quiet window right away. It reports
// whether anything was pending.
func (s *Search) Flush() bool {
	return s.debouncer.Flush()
}

// Close stops the debounce timer. Pending typing is discarded.
func (s *Search) Close() {
	s.debouncer.Stop()
}

func (s *Search) update(mutate func(*State)) {
	s.mu.Lock()
	if s.typed != nil {
		// keystrokes that were still pending are folded into this evaluation
		s.state.Query = *s.typed
		s.typed = nil
	}
	mutate(&s.state)
	s.result = s.evaluateLocked()
	result := s.result
	observers := make([]func(Result), 0, len(s.order))
	for _, id := range s.order {
		observers = append(observers, s.observers[id])
	}
	s.notifyMu.Lock()
	s.mu.Unlock()

	defer s.notifyMu.Unlock()
	for _, fn := range observers {
		fn(result)
	}
}

func (s *Search) evaluateLocked() Result {
	return Result{
		State:   s.state,
		Recipes: Apply(s.all, s.state),
		URL:     SyncURL(s.base, s.state),
	}
}
