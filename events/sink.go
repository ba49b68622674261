/*
 * Copyright (C) 2025 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nuts-foundation/nuts-signing/core"
	"github.com/nuts-foundation/nuts-signing/events/log"
	"github.com/sirupsen/logrus"
)

var _ Sink = (*LogSink)(nil)
var _ Sink = (*NATSSink)(nil)
var _ Sink = (*AsyncSink)(nil)
var _ Sink = MultiSink{}

// LogSink writes notifications to the log.
type LogSink struct {
	logger *logrus.Entry
}

// NewLogSink returns a Sink that logs notifications on info level.
func NewLogSink() *LogSink {
	return &LogSink{logger: log.Logger()}
}

func (l LogSink) Notify(_ context.Context, notification Notification) {
	l.logger.
		WithField(core.LogFieldEventType, notification.Kind).
		WithField(core.LogFieldSessionID, notification.SessionID).
		WithField(core.LogFieldCampaignID, notification.CampaignID).
		Info(notification.Message)
}

// Conn defines the methods required of the NATS connection.
type Conn interface {
	Publish(subject string, data []byte) error
	Flush() error
	Close()
}

// NATSSink publishes notifications as JSON on a NATS subject, suffixed with the notification kind.
type NATSSink struct {
	conn    Conn
	subject string
}

// NewNATSSink creates a Sink that publishes to subjects under the given base subject.
func NewNATSSink(conn Conn, subject string) *NATSSink {
	return &NATSSink{conn: conn, subject: subject}
}

func (n NATSSink) Notify(_ context.Context, notification Notification) {
	subject := n.subject + "." + string(notification.Kind)
	data, err := json.Marshal(notification)
	if err != nil {
		log.Logger().WithError(err).Error("Unable to marshal notification")
		return
	}
	if err = n.conn.Publish(subject, data); err != nil {
		log.Logger().
			WithError(err).
			WithField(core.LogFieldEventSubject, subject).
			Warn("Unable to publish notification")
	}
}

// MultiSink delivers notifications to all of its sinks, in order.
type MultiSink []Sink

func (m MultiSink) Notify(ctx context.Context, notification Notification) {
	for _, sink := range m {
		sink.Notify(ctx, notification)
	}
}

// AsyncSink decouples the caller from the target sink using a bounded queue.
// Notifications are dropped when the queue is full.
type AsyncSink struct {
	target Sink
	queue  chan Notification
	mux    sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncSink starts delivering notifications to the target in the background.
// Close must be called to stop it.
func NewAsyncSink(target Sink, queueSize int) *AsyncSink {
	result := &AsyncSink{
		target: target,
		queue:  make(chan Notification, queueSize),
		done:   make(chan struct{}),
	}
	go result.deliver()
	return result
}

func (a *AsyncSink) deliver() {
	defer close(a.done)
	for notification := range a.queue {
		// the caller's context may be long gone
		a.target.Notify(context.Background(), notification)
	}
}

func (a *AsyncSink) Notify(_ context.Context, notification Notification) {
	a.mux.RLock()
	defer a.mux.RUnlock()
	if a.closed {
		return
	}
	select {
	case a.queue <- notification:
	default:
		log.Logger().
			WithField(core.LogFieldEventType, notification.Kind).
			WithField(core.LogFieldSessionID, notification.SessionID).
			Warn("Notification queue is full, dropping notification")
	}
}

// Close stops accepting notifications and waits until the queued ones are delivered.
func (a *AsyncSink) Close() {
	a.mux.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mux.Unlock()
	<-a.done
}
