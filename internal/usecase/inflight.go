package usecase

import (
	"strconv"
	"sync"
)

// InFlight tracks actions currently awaiting a response, keyed by target.
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewInFlight constructs an empty marker set.
func NewInFlight() *InFlight {
	return &InFlight{keys: make(map[string]struct{})}
}

// Acquire sets the marker for key. It returns false if the marker is already set.
func (f *InFlight) Acquire(key string) (func(), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return nil, false
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

// Active reports whether key is currently marked.
func (f *InFlight) Active(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.keys[key]
	return busy
}

func ItemKey(itemID int64) string    { return "item:" + strconv.FormatInt(itemID, 10) }
func ReceiptKey(orderID int64) string { return "receipt:" + strconv.FormatInt(orderID, 10) }
func ReviewKey(orderID int64) string  { return "review:" + strconv.FormatInt(orderID, 10) }
