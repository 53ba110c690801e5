package dialogs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"course-enrolment/internal/wizard"
)

var okGateway = wizard.GatewayFunc(func(context.Context, wizard.Record) (string, error) {
	return "lead-1", nil
})

func complete(t *testing.T, d *Dialog) {
	t.Helper()
	for name, value := range map[string]string{
		wizard.FieldName:      "Asha Rao",
		wizard.FieldEmail:     "asha@example.com",
		wizard.FieldPhone:     "9876543210",
		wizard.FieldEducation: "B.Tech",
	} {
		require.NoError(t, d.SetField(name, value))
	}
	require.NoError(t, d.Advance())
	require.NoError(t, d.Advance())
}

func TestOpenAndGet(t *testing.T) {
	r := NewRegistry(okGateway)
	d := r.Open("visitor-a", "webdev")

	got, err := r.Get("visitor-a", d.ID)
	require.NoError(t, err)
	assert.Same(t, d, got)
	assert.Equal(t, "webdev", got.CourseType())
	assert.True(t, r.Locked("visitor-a"))
	assert.False(t, r.Locked("visitor-b"))

	_, err = r.Get("visitor-b", d.ID)
	assert.ErrorIs(t, err, ErrNotFound, "other visitors cannot drive the dialog")
	_, err = r.Get("visitor-a", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseRemovesDialogAndUnlocks(t *testing.T) {
	r := NewRegistry(okGateway)
	first := r.Open("visitor-a", "java")
	second := r.Open("visitor-a", "python")
	require.Equal(t, 2, r.Len())

	first.Close()
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Locked("visitor-a"), "second dialog still holds the lock")

	second.Close()
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Locked("visitor-a"))

	_, err := r.Get("visitor-a", first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAutoCloseRemovesDialog(t *testing.T) {
	r := NewRegistry(okGateway, WithControllerOptions(wizard.WithCloseDelay(10*time.Millisecond)))
	d := r.Open("visitor-a", "cloud")
	complete(t, d)

	require.NoError(t, d.Submit(context.Background()))
	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.False(t, r.Locked("visitor-a"))
	assert.True(t, d.Snapshot().Closed)
	assert.Equal(t, "lead-1", d.Snapshot().LeadID)
}

func TestSweepClosesStaleDialogs(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(okGateway, WithClock(func() time.Time { return now }))

	old := r.Open("visitor-a", "ml")
	now = now.Add(20 * time.Minute)
	fresh := r.Open("visitor-b", "ml")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, r.Sweep(30*time.Minute))
	assert.True(t, old.Snapshot().Closed)
	assert.False(t, fresh.Snapshot().Closed)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 0, r.Sweep(30*time.Minute))
}

func TestShutdownWaitsForSubmissions(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	gw := wizard.GatewayFunc(func(context.Context, wizard.Record) (string, error) {
		<-release
		return "late", nil
	})
	r := NewRegistry(gw)
	d := r.Open("visitor-a", "genai")
	complete(t, d)
	require.NoError(t, d.Submit(context.Background()))

	done := make(chan struct{})
	go func() {
		r.Shutdown()
		close(done)
	}()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("shutdown returned before the submission finished")
	default:
	}

	close(release)
	<-done
	assert.Empty(t, d.Snapshot().LeadID, "result of a closed dialog is discarded")
}

func TestRunStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewRegistry(okGateway)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Run(ctx, time.Millisecond, time.Hour) }()
	cancel()
	assert.NoError(t, <-errc)
}

func TestSweepDuringOpenLeavesNothingBehind(t *testing.T) {
	r := NewRegistry(okGateway)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				r.Open(fmt.Sprintf("visitor-%d", i), "webdev")
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				r.Sweep(-time.Hour)
			}
		}()
	}
	wg.Wait()
	r.Sweep(-time.Hour)

	assert.Equal(t, 0, r.Len())
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Empty(t, r.locks)
}
