// Package ws is the live-connection adapter: it speaks the JSON event
// protocol over a websocket and translates inbound events into messenger
// service calls. The business logic lives in the services package — this
// layer only frames, validates, and shuttles events.
//
// Protocol (both directions use the {"event": ..., "data": ...} envelope):
//
//	inbound   login          {phone}
//	inbound   sendMessage    {from, to, text}
//	outbound  loginSuccess   {contacts}
//	outbound  messageSent    <message>
//	outbound  receiveMessage <message>
//	outbound  messageSeen    {id, by}
//	outbound  error          {code, message}
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/tbourn/go-messenger-backend/internal/domain"
	"github.com/tbourn/go-messenger-backend/internal/hub"
	"github.com/tbourn/go-messenger-backend/internal/services"
)

// Event names accepted from and emitted to clients.
const (
	EventLogin        = "login"
	EventLoginSuccess = "loginSuccess"
	EventSendMessage  = "sendMessage"
	EventMessageSent  = "messageSent"
	EventError        = "error"
)

// Messenger is the slice of the messenger service consumed by the live
// connection adapter.
type Messenger interface {
	// Login ensures the user exists and returns its contacts.
	Login(ctx context.Context, phone string) ([]string, error)
	// Send routes one message and returns the stored copy.
	Send(ctx context.Context, from, to, text string) (*domain.Message, error)
}

// Options tunes the websocket endpoint.
type Options struct {
	// SendBuffer is the per-session outbound event buffer.
	SendBuffer int
	// WriteTimeout bounds each single event write.
	WriteTimeout time.Duration
	// OriginPatterns restricts accepted Origin headers. Empty means any
	// origin, mirroring the permissive CORS posture of the REST surface.
	OriginPatterns []string
}

// inbound is the envelope read off the wire. Data stays raw until the event
// name selects a payload type.
type inbound struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

type loginPayload struct {
	Phone string `json:"phone"`
}

type sendPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// contactsPayload is the loginSuccess body.
type contactsPayload struct {
	Contacts []string `json:"contacts"`
}

// Handler returns the Gin handler for GET /ws. Each accepted connection
// gets a hub session; pushes queued on the session (by this handler or by
// the service on behalf of other users) are drained by a writer goroutine,
// while the handler goroutine itself runs the read loop.
func Handler(registry *hub.Hub, svc Messenger, opt Options) gin.HandlerFunc {
	if opt.WriteTimeout <= 0 {
		opt.WriteTimeout = 5 * time.Second
	}

	return func(c *gin.Context) {
		accept := &websocket.AcceptOptions{OriginPatterns: opt.OriginPatterns}
		if len(opt.OriginPatterns) == 0 {
			accept.InsecureSkipVerify = true
		}

		conn, err := websocket.Accept(c.Writer, c.Request, accept)
		if err != nil {
			log.Warn().Err(err).Msg("websocket accept failed")
			return
		}

		sess := hub.NewSession(opt.SendBuffer)
		ctx := c.Request.Context()

		log.Debug().Str("remote", c.ClientIP()).Msg("live connection opened")

		// Writer pump: one goroutine serializes all outbound events.
		go func() {
			for ev := range sess.Events() {
				wctx, cancel := context.WithTimeout(context.Background(), opt.WriteTimeout)
				err := wsjson.Write(wctx, conn, ev)
				cancel()
				if err != nil {
					conn.Close(websocket.StatusAbnormalClosure, "write failed")
					return
				}
			}
			conn.Close(websocket.StatusNormalClosure, "")
		}()

		readLoop(ctx, conn, registry, svc, sess)

		registry.Drop(sess)
		sess.Close()
		log.Debug().Str("remote", c.ClientIP()).Msg("live connection closed")
	}
}

// readLoop consumes inbound events until the connection drops.
func readLoop(ctx context.Context, conn *websocket.Conn, registry *hub.Hub, svc Messenger, sess *hub.Session) {
	for {
		var in inbound
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			return
		}
		dispatch(ctx, in, registry, svc, sess)
	}
}

// dispatch handles one inbound event. Invalid events produce an error event
// on the same session rather than dropping the connection.
func dispatch(ctx context.Context, in inbound, registry *hub.Hub, svc Messenger, sess *hub.Session) {
	switch in.Name {
	case EventLogin:
		var p loginPayload
		if err := json.Unmarshal(in.Data, &p); err != nil || p.Phone == "" {
			sendError(sess, "bad_request", "login requires a phone")
			return
		}
		contacts, err := svc.Login(ctx, p.Phone)
		if err != nil {
			sendError(sess, "internal_error", "login failed")
			return
		}
		registry.Register(p.Phone, sess)
		sess.Send(hub.Event{Name: EventLoginSuccess, Data: contactsPayload{Contacts: contacts}})

	case EventSendMessage:
		var p sendPayload
		if err := json.Unmarshal(in.Data, &p); err != nil {
			sendError(sess, "bad_request", "Missing fields")
			return
		}
		msg, err := svc.Send(ctx, p.From, p.To, p.Text)
		if err != nil {
			if errors.Is(err, services.ErrMissingFields) {
				sendError(sess, "bad_request", "Missing fields")
				return
			}
			sendError(sess, "internal_error", "send failed")
			return
		}
		// Ack straight back to the originating session. Delivery to the
		// recipient's sessions already happened inside Send.
		sess.Send(hub.Event{Name: EventMessageSent, Data: *msg})

	default:
		sendError(sess, "bad_request", "unknown event "+in.Name)
	}
}

func sendError(sess *hub.Session, code, msg string) {
	sess.Send(hub.Event{Name: EventError, Data: errorPayload{Code: code, Message: msg}})
}
