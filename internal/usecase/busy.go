package usecase

import "sync"

// InFlight tracks operations whose gateway call has not returned yet. A second trigger
// of the same key is refused instead of issuing a parallel request.
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{keys: make(map[string]struct{})}
}

// Acquire marks key busy. The returned release must run on every path.
func (f *InFlight) Acquire(key string) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return func() {}, false
	}
	f.keys[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.keys, key)
			f.mu.Unlock()
		})
	}, true
}

func (f *InFlight) Busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.keys[key]
	return busy
}

func entryKey(entryID string) string {
	return "entry:" + entryID
}

func migrationKey(leadID string) string {
	return "migration:" + leadID
}

var errBusy = &DomainError{Code: CodeBusy, Message: "another request for this item is still running"}
