// Package dialogs tracks the enrolment dialogs open in the HTTP presentation
// layer. Each dialog belongs to one visitor and disappears once it closes.
package dialogs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course-enrolment/internal/wizard"
)

var ErrNotFound = errors.New("dialog not found")

type Dialog struct {
	*wizard.Controller

	ID       uuid.UUID
	Visitor  string
	OpenedAt time.Time
}

type Option func(*Registry)

// WithControllerOptions is applied to every controller the registry opens.
func WithControllerOptions(opts ...wizard.Option) Option {
	return func(r *Registry) { r.controllerOpts = append(r.controllerOpts, opts...) }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.log = l }
}

type Registry struct {
	mu      sync.Mutex
	dialogs map[uuid.UUID]*Dialog
	locks   map[string]*wizard.RefLock

	gateway        wizard.Gateway
	controllerOpts []wizard.Option
	now            func() time.Time
	log            *zap.Logger
}

func NewRegistry(gw wizard.Gateway, opts ...Option) *Registry {
	r := &Registry{
		dialogs: make(map[uuid.UUID]*Dialog),
		locks:   make(map[string]*wizard.RefLock),
		gateway: gw,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open starts a dialog for visitor. The visitor's page stays locked until every
// dialog they opened has closed.
func (r *Registry) Open(visitor, courseType string) *Dialog {
	r.mu.Lock()
	lock, ok := r.locks[visitor]
	if !ok {
		lock = &wizard.RefLock{}
		r.locks[visitor] = lock
	}

	opts := append([]wizard.Option{wizard.WithLogger(r.log)}, r.controllerOpts...)
	opts = append(opts, wizard.WithLock(lock))
	d := &Dialog{
		Controller: wizard.New(courseType, r.gateway, opts...),
		ID:         uuid.New(),
		Visitor:    visitor,
		OpenedAt:   r.now(),
	}
	// Registered before the dialog is visible so a concurrent sweep cannot
	// close it without removing it.
	d.OnClose(func(wizard.CloseReason) { r.remove(d) })
	r.dialogs[d.ID] = d
	r.mu.Unlock()

	r.log.Debug("dialog opened", zap.String("dialog", d.ID.String()), zap.String("course", courseType))
	return d
}

// Get returns the open dialog id if visitor owns it.
func (r *Registry) Get(visitor string, id uuid.UUID) (*Dialog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dialogs[id]
	if !ok || d.Visitor != visitor {
		return nil, ErrNotFound
	}
	return d, nil
}

// Locked reports whether visitor has at least one dialog open.
func (r *Registry) Locked(visitor string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[visitor]
	return ok && lock.Held()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dialogs)
}

// Sweep closes dialogs opened more than maxAge ago and returns how many it closed.
func (r *Registry) Sweep(maxAge time.Duration) int {
	cutoff := r.now().Add(-maxAge)

	r.mu.Lock()
	var stale []*Dialog
	for _, d := range r.dialogs {
		if d.OpenedAt.Before(cutoff) {
			stale = append(stale, d)
		}
	}
	r.mu.Unlock()

	for _, d := range stale {
		d.Close()
	}
	if len(stale) > 0 {
		r.log.Info("Closed abandoned dialogs", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxAge time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(maxAge)
		}
	}
}

// Shutdown closes every dialog and waits for in-flight submissions to return.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	all := make([]*Dialog, 0, len(r.dialogs))
	for _, d := range r.dialogs {
		all = append(all, d)
	}
	r.mu.Unlock()

	for _, d := range all {
		d.Close()
	}
	for _, d := range all {
		d.Wait()
	}
}

func (r *Registry) remove(d *Dialog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dialogs, d.ID)
	if lock, ok := r.locks[d.Visitor]; ok && !lock.Held() {
		delete(r.locks, d.Visitor)
	}
}
