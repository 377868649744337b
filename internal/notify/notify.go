package notify

import (
	"encoding/json"
	"time"

	ws "peopleops/internal/websocket"

	"github.com/sirupsen/logrus"
)

// Event names pushed to connected clients.
const (
	EventLeaveRequested     = "leave.requested"
	EventLeaveApproved      = "leave.approved"
	EventLeaveRejected      = "leave.rejected"
	EventTimeEntrySubmitted = "time_entry.submitted"
	EventTimeEntryApproved  = "time_entry.approved"
	EventTimeEntryRejected  = "time_entry.rejected"
)

// Event is the JSON payload broadcast on workflow transitions.
type Event struct {
	Event      string    `json:"event"`
	EntityID   string    `json:"entity_id"`
	EmployeeID string    `json:"employee_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	At         time.Time `json:"at"`
}

// Publisher delivers events to whoever listens. Delivery is best effort:
// a Publish must never fail or block the mutation that triggered it.
type Publisher interface {
	Publish(event Event)
}

type hubPublisher struct {
	hub    *ws.Hub
	logger *logrus.Logger
}

// NewHubPublisher publishes events over the websocket hub.
func NewHubPublisher(hub *ws.Hub, logger *logrus.Logger) Publisher {
	return &hubPublisher{hub: hub, logger: logger}
}

func (p *hubPublisher) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WithField("event", event.Event).WithError(err).Warn("dropping notification")
		return
	}
	// Non-blocking send: a slow or absent hub drops the event instead of
	// stalling the business operation.
	select {
	case p.hub.Broadcast <- payload:
	default:
		p.logger.WithField("event", event.Event).Debug("notification dropped, no listener ready")
	}
}

type noop struct{}

// Noop returns a publisher that discards every event.
func Noop() Publisher { return noop{} }

func (noop) Publish(Event) {}
