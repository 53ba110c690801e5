package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCloseDelay is how long a successful dialog stays open before closing itself.
const DefaultCloseDelay = 3 * time.Second

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. f must run on its own goroutine, as with time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func systemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Controller)

func WithCloseDelay(d time.Duration) Option {
	return func(c *Controller) { c.closeDelay = d }
}

func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithLock makes the controller hold l from open until close.
func WithLock(l Lock) Option {
	return func(c *Controller) { c.lock = l }
}

// Controller owns the state of one open enrolment dialog.
//
// Every operation runs to completion under the controller's mutex except the
// gateway call started by Submit, whose result is applied later only if the
// dialog is still open and no newer submission has started.
type Controller struct {
	mu sync.Mutex

	courseType string
	gateway    Gateway
	fields     *FieldStore
	step       Step
	status     Status
	leadID     string

	generation uint64
	closed     bool
	closeTimer Timer
	release    func()

	closeDelay time.Duration
	afterFunc  AfterFunc
	lock       Lock
	log        *zap.Logger

	onChange []func(State)
	onClose  []func(CloseReason)

	inflight sync.WaitGroup
}

// New opens a dialog for courseType. The course tag is kept verbatim.
func New(courseType string, gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		courseType: courseType,
		gateway:    gw,
		fields:     NewFieldStore(),
		step:       StepContact,
		status:     StatusIdle,
		closeDelay: DefaultCloseDelay,
		afterFunc:  systemAfterFunc,
		lock:       nopLock{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.release = c.lock.Acquire()
	return c
}

// OnChange registers fn to receive a snapshot after every state change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}

// OnClose registers fn to run exactly once when the dialog closes.
func (c *Controller) OnClose(fn func(CloseReason)) {
	c.mu.Lock()
	c.onClose = append(c.onClose, fn)
	c.mu.Unlock()
}

func (c *Controller) CourseType() string {
	return c.courseType
}

// Snapshot returns the current state for rendering.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// SetField overwrites a field value and clears its error.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	if err := c.checkMutableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.fields.Set(name, value); err != nil {
		c.mu.Unlock()
		return err
	}
	c.unlockAndEmit()
	return nil
}

// Advance validates the current step and moves to the next one. On failure the
// step is unchanged and a *ValidationError describes the failing fields.
func (c *Controller) Advance() error {
	c.mu.Lock()
	if err := c.checkMutableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.step >= StepReview {
		c.mu.Unlock()
		return ErrWrongStep
	}

	if errs := ValidateStep(c.step, c.fields.values); len(errs) > 0 {
		c.fields.setErrors(errs)
		verr := &ValidationError{Step: c.step, Errors: errs.clone()}
		c.unlockAndEmit()
		return verr
	}

	c.fields.clearErrors()
	c.step++
	c.unlockAndEmit()
	return nil
}

// Retreat moves back one step without validating. It is a no-op on step 1.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	if err := c.checkMutableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.step == StepContact {
		c.mu.Unlock()
		return nil
	}

	c.step--
	c.status = StatusIdle
	c.fields.clearErrors()
	c.unlockAndEmit()
	return nil
}

// Submit re-validates the whole record and hands it to the gateway.
//
// If step 1 or 2 no longer passes, the dialog is sent back to the first failing
// step and a *ValidationError is returned. Otherwise the status becomes
// submitting and the gateway runs in the background; ctx values are kept but its
// cancellation is not propagated.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if err := c.checkMutableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.step != StepReview {
		c.mu.Unlock()
		return ErrWrongStep
	}

	for _, step := range []Step{StepContact, StepBackground} {
		if errs := ValidateStep(step, c.fields.values); len(errs) > 0 {
			c.step = step
			c.status = StatusIdle
			c.fields.setErrors(errs)
			verr := &ValidationError{Step: step, Errors: errs.clone()}
			c.unlockAndEmit()
			return verr
		}
	}

	rec := c.recordLocked()
	c.status = StatusSubmitting
	c.generation++
	gen := c.generation
	c.inflight.Add(1)
	c.unlockAndEmit()

	c.log.Debug("submitting lead", zap.String("course", rec.CourseType))
	go c.deliver(context.WithoutCancel(ctx), gen, rec)
	return nil
}

// Retry clears a failed submission and returns to step 1, keeping every value.
func (c *Controller) Retry() error {
	c.mu.Lock()
	if err := c.checkMutableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.status != StatusError {
		c.mu.Unlock()
		return ErrNotFailed
	}

	c.status = StatusIdle
	c.step = StepContact
	c.fields.clearErrors()
	c.unlockAndEmit()
	return nil
}

// Close tears the dialog down. Calling it again has no effect. An in-flight
// gateway call keeps running and its result is dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.closeTimer != nil {
		c.closeTimer.Stop()
		c.closeTimer = nil
	}

	reason := ReasonCancelled
	if c.status == StatusSuccess {
		reason = ReasonCompleted
	}
	release := c.release
	callbacks := append([]func(CloseReason){}, c.onClose...)
	snapshot := c.snapshotLocked()
	listeners := append([]func(State){}, c.onChange...)
	c.mu.Unlock()

	release()
	c.log.Debug("dialog closed", zap.String("course", c.courseType), zap.String("reason", string(reason)))
	for _, fn := range callbacks {
		fn(reason)
	}
	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Wait blocks until every gateway call started by Submit has returned.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) deliver(ctx context.Context, gen uint64, rec Record) {
	defer c.inflight.Done()
	id, err := c.gateway.Submit(ctx, rec)
	c.resolve(gen, id, err)
}

func (c *Controller) resolve(gen uint64, id string, err error) {
	c.mu.Lock()
	if c.closed || gen != c.generation || c.status != StatusSubmitting {
		c.mu.Unlock()
		c.log.Debug("discarding submission result for closed dialog", zap.Uint64("generation", gen))
		return
	}

	if err != nil {
		c.status = StatusError
		c.log.Warn("lead submission failed", zap.String("course", c.courseType), zap.Error(err))
	} else {
		c.status = StatusSuccess
		c.leadID = id
		c.closeTimer = c.afterFunc(c.closeDelay, c.Close)
	}
	c.unlockAndEmit()
}

func (c *Controller) checkMutableLocked() error {
	switch {
	case c.closed:
		return ErrClosed
	case c.status == StatusSubmitting:
		return ErrSubmitting
	case c.status == StatusSuccess:
		return ErrCompleted
	}
	return nil
}

func (c *Controller) recordLocked() Record {
	get := func(name string) string { return strings.TrimSpace(c.fields.Get(name)) }
	return Record{
		Name:         get(FieldName),
		Email:        get(FieldEmail),
		Phone:        get(FieldPhone),
		Education:    get(FieldEducation),
		Experience:   get(FieldExperience),
		Interests:    get(FieldInterests),
		Expectations: get(FieldExpectations),
		CourseType:   c.courseType,
		Status:       LeadStatusPending,
	}
}

func (c *Controller) snapshotLocked() State {
	return State{
		CourseType: c.courseType,
		Step:       c.step,
		Fields:     c.fields.Values(),
		Errors:     c.fields.Errors(),
		Status:     c.status,
		LeadID:     c.leadID,
		Closed:     c.closed,
	}
}

// unlockAndEmit releases c.mu and then notifies change listeners.
func (c *Controller) unlockAndEmit() {
	snapshot := c.snapshotLocked()
	listeners := append([]func(State){}, c.onChange...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}
