package wizard

import "sync"

// Lock is the background-interaction lock held while a dialog is open.
// The returned release func may be called any number of times.
type Lock interface {
	Acquire() (release func())
}

type nopLock struct{}

func (nopLock) Acquire() func() { return func() {} }

// RefLock counts open holders; the background stays locked while any remain.
type RefLock struct {
	mu      sync.Mutex
	holders int
}

func (l *RefLock) Acquire() func() {
	l.mu.Lock()
	l.holders++
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.holders--
			l.mu.Unlock()
		})
	}
}

// Held reports whether at least one holder has not released yet.
func (l *RefLock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holders > 0
}
