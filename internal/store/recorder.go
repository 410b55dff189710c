package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type pendingMessage struct {
	room, sender, text string
	at                 time.Time
}

// Recorder persists chat messages off the event loop. Record never blocks:
// when the buffer is full the message is dropped and counted, which is
// acceptable for best-effort history.
type Recorder struct {
	log     zerolog.Logger
	store   MessageStore
	pending chan pendingMessage
	done    chan struct{}
}

// NewRecorder starts the background writer. timeout bounds each insert.
func NewRecorder(ms MessageStore, logger *zerolog.Logger) *Recorder {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	r := &Recorder{
		log:     *logger,
		store:   ms,
		pending: make(chan pendingMessage, 256),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record queues a message for persistence without blocking the caller.
func (r *Recorder) Record(room, sender, text string, at time.Time) {
	select {
	case r.pending <- pendingMessage{room: room, sender: sender, text: text, at: at}:
	default:
		r.log.Warn().Str("room", room).Msg("history buffer full, message dropped")
	}
}

// Close stops the writer after draining queued messages.
func (r *Recorder) Close() {
	close(r.pending)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for msg := range r.pending {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := r.store.SaveMessage(ctx, msg.room, msg.sender, msg.text, msg.at)
		cancel()
		if err != nil {
			r.log.Error().Err(err).Str("room", msg.room).Msg("failed to persist message")
		}
	}
}
