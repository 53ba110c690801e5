package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-enrolment/internal/models"
)

func startNATS(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		DontListen: true,
		NoLog:      true,
		NoSigs:     true,
	})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(4 * time.Second) {
		t.Fatal("nats server failed to start within 4s")
	}
	t.Cleanup(ns.Shutdown)

	nc, err := nats.Connect("", nats.InProcessServer(ns))
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	return nc
}

func TestPublishLeadCreated(t *testing.T) {
	nc := startNATS(t)
	sub, err := nc.SubscribeSync(DefaultSubject + ".>")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	pub := NewPublisher(nc, "")
	lead := &models.Lead{
		ID:         uuid.New(),
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Phone:      "9876543210",
		CourseType: "Web Development",
		CreatedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishLeadCreated(context.Background(), lead))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "leads.created.web-development", msg.Subject)

	var ev LeadCreated
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, lead.ID.String(), ev.LeadID)
	assert.Equal(t, "Web Development", ev.CourseType)
	assert.True(t, lead.CreatedAt.Equal(ev.CreatedAt))

	assert.NoError(t, pub.Close(), "borrowed connection is left open")
	assert.False(t, nc.IsClosed())
}

func TestSubjectForUnusualCourse(t *testing.T) {
	pub := NewPublisher(nil, "leads")
	assert.Equal(t, "leads.unknown", pub.Subject("  "))
	assert.Equal(t, "leads.data-science", pub.Subject("Data Science"))
}

func TestPublishHonoursCancelledContext(t *testing.T) {
	pub := NewPublisher(nil, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pub.PublishLeadCreated(ctx, &models.Lead{})
	assert.ErrorIs(t, err, context.Canceled)
}
