package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"hoa-server/cache"
	"hoa-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu    sync.Mutex
	fail  int
	calls []entities.Notification
}

func (f *fakeSender) Send(_ context.Context, n entities.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, n)
	if f.fail > 0 {
		f.fail--
		return errors.New("gateway down")
	}
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestFlushDeliversPerChannel(t *testing.T) {
	mail, sms := &fakeSender{}, &fakeSender{}
	d := NewDispatcher(cache.NewOutbox(), time.Hour, map[entities.Channel]Sender{
		entities.ChannelEmail: mail,
		entities.ChannelSMS:   sms,
	})

	d.Enqueue(
		entities.Notification{Channel: entities.ChannelEmail, To: "a@example.com", Subject: "s", Body: "b"},
		entities.Notification{Channel: entities.ChannelSMS, To: "+1555", Body: "b"},
		entities.Notification{Channel: "pigeon", To: "roof"},
	)
	assert.Len(t, d.Pending(), 3)

	assert.Equal(t, 2, d.Flush(context.Background()))
	assert.Equal(t, 1, mail.count())
	assert.Equal(t, 1, sms.count())
	assert.Empty(t, d.Pending())

	stats := d.Stats()
	assert.Equal(t, 2, stats["delivered"])
	assert.Equal(t, 1, stats["dropped"])
}

func TestFlushRetriesThenDrops(t *testing.T) {
	mail := &fakeSender{fail: 5}
	d := NewDispatcher(cache.NewOutbox(), time.Hour, map[entities.Channel]Sender{entities.ChannelEmail: mail})
	d.Enqueue(entities.Notification{Channel: entities.ChannelEmail, To: "a@example.com"})

	for i := 0; i < maxDeliveryAttempts; i++ {
		assert.Zero(t, d.Flush(context.Background()))
	}
	assert.Equal(t, maxDeliveryAttempts, mail.count())
	assert.Empty(t, d.Pending(), "gives up after the last attempt")
}

func TestStartDeliversOnEnqueue(t *testing.T) {
	mail := &fakeSender{}
	d := NewDispatcher(cache.NewOutbox(), time.Hour, map[entities.Channel]Sender{entities.ChannelEmail: mail})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(entities.Notification{Channel: entities.ChannelEmail, To: "a@example.com"})
	assert.Eventually(t, func() bool { return mail.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestBuildMessageRendersMarkdown(t *testing.T) {
	msg, err := buildMessage("hoa@example.com", entities.Notification{
		To:      "owner@example.com",
		Subject: "HOA Request Approved",
		Body:    "Your request **#12** is approved.",
	})
	require.NoError(t, err)
	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "From: hoa@example.com\r\n"))
	assert.Contains(t, s, "Subject: HOA Request Approved\r\n")
	assert.Contains(t, s, "<strong>#12</strong>")
}

func TestBuildMessageKeepsHeadersOnOneLine(t *testing.T) {
	msg, err := buildMessage("hoa@example.com", entities.Notification{
		To:      "inbox@example.com\r\nBcc: victim@example.com",
		Subject: "New contact request: Acme\r\nContent-Type: text/plain\r\nX-Injected: yes",
		Body:    "hello",
	})
	require.NoError(t, err)

	headers, _, ok := strings.Cut(string(msg), "\r\n\r\n")
	require.True(t, ok)
	lines := strings.Split(headers, "\r\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "To: inbox@example.com Bcc: victim@example.com", lines[1])
	assert.Equal(t, "Subject: New contact request: Acme Content-Type: text/plain X-Injected: yes", lines[2])
	assert.Equal(t, "Content-Type: text/html; charset=\"UTF-8\"", lines[4])
}
