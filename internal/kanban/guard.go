package kanban

import "sync"

// Guard tracks transitions in flight across requests, so two concurrent
// requests cannot both persist a contact for the same lead.
type Guard struct {
	mu       sync.Mutex
	inflight map[int64]struct{}
}

func NewGuard() *Guard {
	return &Guard{inflight: make(map[int64]struct{})}
}

// Acquire reserves id. The returned release must be called once the
// transition has settled.
func (g *Guard) Acquire(id int64) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[id]; busy {
		return nil, ErrTransitionPending
	}
	g.inflight[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, id)
			g.mu.Unlock()
		})
	}, nil
}

func (g *Guard) InFlight(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inflight[id]
	return busy
}
