package offline

import "sync"

// store maps the proxies of one Context to their fakers.
type store struct {
	mu     sync.Mutex
	fakers map[*node]faker
}

func newStore() *store {
	return &store{fakers: make(map[*node]faker)}
}

func (s *store) add(n *node, f faker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fakers[n] = f
}

func (s *store) lookup(n *node) (faker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.fakers[n]

	return f, ok
}

// snapshot returns every registered faker.
func (s *store) snapshot() []faker {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]faker, 0, len(s.fakers))
	for _, f := range s.fakers {
		out = append(out, f)
	}

	return out
}
