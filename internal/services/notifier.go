package services

import (
	"github.com/gatewise/vms-backend/pkg/mailer"
	"github.com/sirupsen/logrus"
)

// notifierQueueSize bounds pending notifications; a full queue drops the
// message with a warning rather than blocking the caller.
const notifierQueueSize = 64

// Notifier delivers emails through a background worker. Sends are
// one-way: the registration and approval flows enqueue and continue, and
// relay failures only produce warnings.
type Notifier struct {
	gateway mailer.Gateway
	logger  *logrus.Logger
	queue   chan mailer.Message
	done    chan struct{}
}

// NewNotifier starts a notifier worker over the given gateway.
func NewNotifier(gateway mailer.Gateway, logger *logrus.Logger) *Notifier {
	n := &Notifier{
		gateway: gateway,
		logger:  logger,
		queue:   make(chan mailer.Message, notifierQueueSize),
		done:    make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *Notifier) run() {
	defer close(n.done)
	for msg := range n.queue {
		if err := n.gateway.Send(msg); err != nil {
			n.logger.WithField("to", msg.To).Warnf("Notification send failed: %v", err)
		}
	}
}

// Send enqueues one message. Messages without a recipient are dropped
// silently.
func (n *Notifier) Send(msg mailer.Message) {
	if msg.To == "" {
		return
	}
	select {
	case n.queue <- msg:
	default:
		n.logger.WithField("to", msg.To).Warn("Notification queue full, dropping message")
	}
}

// Close stops accepting messages and waits for the worker to drain.
func (n *Notifier) Close() {
	close(n.queue)
	<-n.done
}
