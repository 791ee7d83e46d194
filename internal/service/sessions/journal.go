// Package sessions journals connection lifecycle to a store without
// blocking the hub loop.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/core"
	"github.com/vovakirdan/relaychat/internal/store"
)

const (
	defaultQueueSize = 1024
	writeTimeout     = 5 * time.Second
)

// Journal is a core.SessionRecorder backed by a store.SessionStore.
// Record only enqueues; Run applies the writes in order.
type Journal struct {
	store store.SessionStore
	queue chan core.SessionEvent
	log   *zerolog.Logger

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewJournal builds a journal with a bounded queue.
func NewJournal(st store.SessionStore, queueSize int, logger *zerolog.Logger) *Journal {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Journal{
		store:   st,
		queue:   make(chan core.SessionEvent, queueSize),
		log:     logger,
		stopped: make(chan struct{}),
	}
}

// Record enqueues ev, dropping it with a warning if the queue is full.
func (j *Journal) Record(ev core.SessionEvent) {
	select {
	case <-j.stopped:
		return
	default:
	}
	select {
	case j.queue <- ev:
	default:
		j.log.Warn().Str("session", ev.Session).Msg("session journal queue full, entry dropped")
	}
}

// Run writes queued events until ctx is cancelled, then drains what is left.
func (j *Journal) Run(ctx context.Context) {
	defer j.stopOnce.Do(func() { close(j.stopped) })
	for {
		select {
		case ev := <-j.queue:
			j.apply(ev)
		case <-ctx.Done():
			j.drain()
			return
		}
	}
}

// Done is closed after Run returns.
func (j *Journal) Done() <-chan struct{} { return j.stopped }

func (j *Journal) drain() {
	for {
		select {
		case ev := <-j.queue:
			j.apply(ev)
		default:
			return
		}
	}
}

func (j *Journal) apply(ev core.SessionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var err error
	switch ev.Kind {
	case core.SessionOpened:
		err = j.store.OpenSession(ctx, &store.Session{
			ID:          ev.Session,
			ClientID:    ev.ClientID,
			Origin:      ev.Origin,
			RemoteAddr:  ev.RemoteAddr,
			Username:    ev.Username,
			ConnectedAt: ev.At,
		})
	case core.SessionRenamed:
		err = j.store.RenameSession(ctx, ev.Session, ev.Username)
	case core.SessionClosed:
		err = j.store.CloseSession(ctx, ev.Session, ev.At)
	}
	if err != nil {
		entry := j.log.Error()
		if errors.Is(err, store.ErrNotFound) {
			entry = j.log.Warn()
		}
		entry.Err(err).Str("session", ev.Session).Int64("client_id", ev.ClientID).Msg("journal write failed")
	}
}
