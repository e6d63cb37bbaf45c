package notify

import (
	"sync"

	"go.uber.org/zap"
)

const queueSize = 100

// Dispatcher fans transactional email out to a pool of background workers.
// Enqueueing never blocks the caller and a failed send is logged, not
// propagated: by the time a notification exists its triggering record is
// already durably persisted.
type Dispatcher struct {
	queue  chan Email
	mailer Mailer
	log    *zap.Logger
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(mailer Mailer, workers int, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		queue:  make(chan Email, queueSize),
		mailer: mailer,
		log:    log,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.mailer.Send(msg); err != nil {
			d.log.Warn("email send failed",
				zap.Int("worker", id),
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err))
			continue
		}
		d.log.Debug("email sent",
			zap.Int("worker", id),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
	}
}

// Enqueue hands a message to the workers without blocking. When the queue is
// full the message is dropped with a warning.
func (d *Dispatcher) Enqueue(msg Email) {
	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification queue full, dropping email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
	}
}

// Shutdown closes the queue and waits for in-flight sends to finish.
func (d *Dispatcher) Shutdown() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
