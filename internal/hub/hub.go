// Package hub implements the live-connection registry: a process-wide map
// from phone number to the set of sessions currently logged in under that
// phone. The registry is consulted only for push delivery — history always
// comes from the message store — and entries vanish on disconnect.
package hub

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// sessionsActive gauges the number of live sessions currently registered.
	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "messenger_sessions_active",
		Help: "Current number of registered live sessions.",
	})

	// eventsDelivered counts push events accepted by a session buffer.
	eventsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_events_delivered_total",
			Help: "Total push events delivered to live sessions.",
		},
		[]string{"event"},
	)

	// eventsDropped counts push events lost to a full or closed session.
	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_events_dropped_total",
			Help: "Total push events dropped (slow or closed session).",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(sessionsActive, eventsDelivered, eventsDropped)
}

// Event is the wire envelope exchanged over a live connection, in both
// directions: {"event": "...", "data": ...}.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Session is one live connection's outbound queue. The transport layer owns
// the read side: it drains Events() and writes each event to the socket.
// Send never blocks — a session that cannot keep up loses events rather
// than stalling a request handler.
type Session struct {
	mu     sync.Mutex
	out    chan Event
	closed bool
}

// NewSession returns a session with an outbound buffer of the given size.
func NewSession(buffer int) *Session {
	if buffer <= 0 {
		buffer = 16
	}
	return &Session{out: make(chan Event, buffer)}
}

// Send queues ev for delivery. It reports whether the event was accepted;
// a closed session or a full buffer drops the event.
func (s *Session) Send(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.out <- ev:
		return true
	default:
		return false
	}
}

// Events exposes the outbound queue. The channel is closed by Close.
func (s *Session) Events() <-chan Event { return s.out }

// Close shuts the outbound queue. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.out)
	}
}

// Hub maps phone numbers to their live sessions. A phone may hold several
// sessions (the same user on two devices) and a session may be registered
// under several phones if the client logs in repeatedly.
//
// Safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Session]struct{}
}

// New returns an empty registry.
func New() *Hub {
	return &Hub{sessions: make(map[string]map[*Session]struct{})}
}

// Register adds sess under phone.
func (h *Hub) Register(phone string, sess *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[phone]
	if !ok {
		set = make(map[*Session]struct{})
		h.sessions[phone] = set
	}
	if _, dup := set[sess]; !dup {
		set[sess] = struct{}{}
		sessionsActive.Inc()
	}
}

// Unregister removes sess from phone's set, dropping the set when empty.
func (h *Hub) Unregister(phone string, sess *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.sessions[phone]; ok {
		if _, present := set[sess]; present {
			delete(set, sess)
			sessionsActive.Dec()
		}
		if len(set) == 0 {
			delete(h.sessions, phone)
		}
	}
}

// Drop removes sess from every phone it is registered under. Called on
// disconnect.
func (h *Hub) Drop(sess *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for phone, set := range h.sessions {
		if _, present := set[sess]; present {
			delete(set, sess)
			sessionsActive.Dec()
		}
		if len(set) == 0 {
			delete(h.sessions, phone)
		}
	}
}

// SendTo pushes ev to every session registered under phone and returns the
// number of sessions that accepted it. An offline phone is a silent no-op.
func (h *Hub) SendTo(phone string, ev Event) int {
	h.mu.RLock()
	set := h.sessions[phone]
	targets := make([]*Session, 0, len(set))
	for s := range set {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if s.Send(ev) {
			delivered++
			eventsDelivered.WithLabelValues(ev.Name).Inc()
		} else {
			eventsDropped.WithLabelValues(ev.Name).Inc()
		}
	}
	return delivered
}

// Online reports whether phone has at least one registered session.
func (h *Hub) Online(phone string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[phone]) > 0
}
