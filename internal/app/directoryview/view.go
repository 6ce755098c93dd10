// Package directoryview keeps a client-side copy of the alumni directory and derives the
// visible subset from a search term and filter selection without re-fetching.
package directoryview

import (
	"context"
	"errors"
	"sync"

	"github.com/alumni-network/alumni-api/internal/domain/directory"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	LoadFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// ErrNotIdle is returned by Load once a fetch has been attempted.
var ErrNotIdle = errors.New("directory view already loaded")

// Source fetches the full directory.
type Source interface {
	GetAll(ctx context.Context) ([]directory.Record, error)
}

// View is safe for concurrent use.
type View struct {
	src Source

	mu      sync.Mutex
	state   State
	err     error
	all     []directory.Record
	term    string
	filter  directory.FilterState
	visible []directory.Record
}

func New(src Source) *View {
	return &View{src: src, visible: []directory.Record{}}
}

// Load fetches the directory once. It is accepted only from Idle; a failed fetch is not retried.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.state != Idle {
		v.mu.Unlock()
		return ErrNotIdle
	}
	v.state = Loading
	v.mu.Unlock()

	rs, err := v.src.GetAll(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state = LoadFailed
		v.err = err
		return err
	}
	if rs == nil {
		rs = []directory.Record{}
	}
	v.all = rs
	v.state = Loaded
	v.recompute()
	return nil
}

func (v *View) SetSearchTerm(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.term = term
	v.recompute()
}

func (v *View) SetFilter(f directory.FilterState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
	v.recompute()
}

// ClearFilters resets the search term and filters. The fetched list is kept.
func (v *View) ClearFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.term = ""
	v.filter = directory.FilterState{}
	v.recompute()
}

// Results returns a copy of the visible records in fetch order.
func (v *View) Results() []directory.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]directory.Record(nil), v.visible...)
}

// Counts returns the number of visible records and the size of the fetched list.
func (v *View) Counts() (shown, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visible), len(v.all)
}

func (v *View) HasActiveFilters() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.term != "" || !v.filter.IsZero()
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err is the fetch error when State is LoadFailed.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// recompute must be called with mu held. Before a successful load the view stays empty.
func (v *View) recompute() {
	if v.state != Loaded {
		v.visible = []directory.Record{}
		return
	}
	v.visible = directory.Apply(v.all, v.term, v.filter)
}
