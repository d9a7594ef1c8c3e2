package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/report"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsMessage is pushed to the result page. "dots" carries the pending
// headline; "result" carries the rendered report. "state" is sent alone
// when the session has nothing to wait for. "result", "state" and "error"
// are always the last message.
type wsMessage struct {
	Type     string        `json:"type"`
	State    model.State   `json:"state,omitempty"`
	Status   report.Status `json:"status,omitempty"`
	Dots     int           `json:"dots,omitempty"`
	Headline string        `json:"headline,omitempty"`
	HTML     string        `json:"html,omitempty"`
	Message  string        `json:"message,omitempty"`

	final bool
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		http.Error(w, "no survey session", http.StatusUnauthorized)
		return
	}
	if _, err := s.store.Load(r.Context(), id); err != nil {
		http.Error(w, "survey session not found", http.StatusNotFound)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.baseCtx, cancel)
	defer stop()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		s.log.Debug("ws set read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan wsMessage, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					cancel()
					return
				}
				if out.final {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// The page never sends anything; reading keeps pongs and close frames flowing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	s.streamResult(ctx, id, writeCh)
	<-writerDone
}

// streamResult pushes a dot tick every s.tick until the session settles,
// then pushes the report
func (s *Server) streamResult(ctx context.Context, id string, writeCh chan wsMessage) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	dots := 1
	for {
		sess, err := s.store.Load(ctx, id)
		if err != nil {
			pushWS(writeCh, wsMessage{Type: "error", Message: "survey session not found", final: true})
			return
		}
		if sess.State() != model.StateDone || !sess.Submitted() {
			pushWS(writeCh, wsMessage{Type: "state", State: sess.State(), final: true})
			return
		}

		doc := s.document(sess, dots)
		if doc.Status != report.StatusPending {
			pushWS(writeCh, wsMessage{
				Type:     "result",
				Status:   doc.Status,
				Headline: doc.Headline,
				HTML:     s.renderer.HTML(doc),
				final:    true,
			})
			return
		}
		pushWS(writeCh, wsMessage{Type: "dots", Status: doc.Status, Dots: dots, Headline: doc.Headline})

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dots = report.NextDots(dots)
		}
	}
}

// pushWS never blocks: when the buffer is full the oldest message is dropped
func pushWS(writeCh chan wsMessage, out wsMessage) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
