package taskstore

import "sync"

// syncMap is a typed wrapper over sync.Map for id -> Task.
type syncMap struct {
	m sync.Map
}

func (s *syncMap) Load(id string) (Task, bool) {
	v, ok := s.m.Load(id)
	if !ok {
		return Task{}, false
	}
	return v.(Task), true
}

func (s *syncMap) LoadOrStore(id string, task Task) (Task, bool) {
	v, loaded := s.m.LoadOrStore(id, task)
	return v.(Task), loaded
}

func (s *syncMap) CompareAndSwap(id string, old, next Task) bool {
	return s.m.CompareAndSwap(id, old, next)
}

func (s *syncMap) CompareAndDelete(id string, old Task) bool {
	return s.m.CompareAndDelete(id, old)
}

func (s *syncMap) Range(fn func(id string, task Task) bool) {
	s.m.Range(func(k, v any) bool {
		return fn(k.(string), v.(Task))
	})
}
