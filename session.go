package kvsession

import "sort"

// Session is a plain in-memory container of session data plus the store key
// it was loaded from or last committed under. It has no implicit persistence:
// mutations stay local until [Manager.Commit] writes them out.
//
// A Session belongs to exactly one request's processing context and is not
// safe for concurrent use. The zero-value semantics are intentional — a
// session produced from an invalid or expired token looks exactly like a
// brand-new empty one.
type Session struct {
	data map[string]any
	key  string
}

func newSession(key string) *Session {
	return &Session{
		data: make(map[string]any),
		key:  key,
	}
}

// Get returns the value stored under name and whether it was present.
func (s *Session) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.data[name]
	return v, ok
}

// Set stores value under name.
func (s *Session) Set(name string, value any) {
	if s == nil {
		return
	}
	if s.data == nil {
		s.data = make(map[string]any)
	}
	s.data[name] = value
}

// Delete removes name from the session. Deleting an absent name is a no-op.
func (s *Session) Delete(name string) {
	if s == nil {
		return
	}
	delete(s.data, name)
}

// Keys returns the session's data keys in sorted order.
func (s *Session) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of entries in the session mapping.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Clear removes every entry from the in-memory mapping. The store-backed
// payload, if any, is untouched; use [Manager.Destroy] for that.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	for k := range s.data {
		delete(s.data, k)
	}
}

// Key returns the backing store key, or "" for a session that was never
// persisted (brand new, or produced from an invalid token).
func (s *Session) Key() string {
	if s == nil {
		return ""
	}
	return s.key
}

// Fresh reports whether the session has no backing store key yet.
func (s *Session) Fresh() bool {
	return s.Key() == ""
}
