package template

import (
	"sync"
)

// Store holds template groups. It is safe for concurrent use so a file
// watcher can replace the groups while the editor reads them.
type Store struct {
	mu     sync.RWMutex
	groups []*Group
}

// NewStore creates a store with the given groups.
func NewStore(groups ...*Group) *Store {
	s := &Store{}
	s.Replace(groups)
	return s
}

// Replace swaps in a new set of groups.
func (s *Store) Replace(groups []*Group) {
	cp := make([]*Group, 0, len(groups))
	for _, g := range groups {
		if g != nil {
			cp = append(cp, g.clone())
		}
	}
	s.mu.Lock()
	s.groups = cp
	s.mu.Unlock()
}

// Groups returns copies of all groups.
func (s *Store) Groups() []*Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.clone()
	}
	return out
}

// GroupForFile returns the templates of every group matching fileName,
// merged in store order. The result is never nil.
func (s *Store) GroupForFile(fileName string) *Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	merged := &Group{}
	for _, g := range s.groups {
		if g.Matches(fileName) {
			merged.Extensions = append(merged.Extensions, g.Extensions...)
			merged.Templates = append(merged.Templates, g.Templates...)
		}
	}
	return merged
}
