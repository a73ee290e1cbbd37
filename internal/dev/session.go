package dev

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/nano/internal/errors"
	"github.com/vango-dev/nano/pkg/dom"
	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/scheduler"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

// SessionInfo describes a live session.
type SessionInfo struct {
	ID         string    `json:"id"`
	Page       string    `json:"page"`
	Created    time.Time `json:"created"`
	Events     uint64    `json:"events"`
	Patches    uint64    `json:"patches"`
	Mismatches int       `json:"mismatches"`
}

// Session is one browser tab's live view of a page. Its document, root and
// pending mutations belong to the scheduler goroutine.
type Session struct {
	ID      string
	page    Page
	created time.Time

	srv    *Server
	conn   *websocket.Conn
	logger *slog.Logger

	doc        *dom.Document
	container  *dom.Node
	sched      *scheduler.Scheduler
	root       *nano.Root
	mismatches int
	observe    func()

	pending []MutationRecord
	seq     uint64

	send      chan ServerMessage
	done      chan struct{}
	closeOnce sync.Once

	events  atomic.Uint64
	patches atomic.Uint64
}

// newSession renders page as the browser received it, parses that markup
// into a fresh document and hydrates the page's tree over it.
func newSession(srv *Server, page Page, conn *websocket.Conn) (*Session, error) {
	cfg := srv.Config()
	id := uuid.NewString()
	s := &Session{
		ID:      id,
		page:    page,
		created: time.Now(),
		srv:     srv,
		conn:    conn,
		logger:  srv.logger.With("session", id, "page", page.Name),
		send:    make(chan ServerMessage, sendBuffer),
		done:    make(chan struct{}),
	}

	var markup bytes.Buffer
	if err := srv.renderPage(&markup, page, ""); err != nil {
		return nil, err
	}
	doc, err := dom.ParseHTML(&markup)
	if err != nil {
		return nil, errors.New("N042").Wrap(err)
	}
	container := doc.GetElementByID(cfg.Hydrate.Container)
	if container == nil {
		return nil, errors.New("N041").WithDetail(cfg.Hydrate.Container)
	}
	s.doc = doc
	s.container = container

	s.sched = scheduler.New(
		scheduler.WithLogger(s.logger),
		scheduler.WithQueueSize(cfg.Scheduler.QueueSize),
		scheduler.WithMaxPasses(cfg.Scheduler.MaxPasses),
		scheduler.WithPassObserver(s.onPass),
		scheduler.WithErrorHandler(s.onPassError),
	)
	s.observe = doc.Observe(func(m dom.Mutation) {
		s.pending = append(s.pending, newMutationRecord(container, m))
	})

	opts := []nano.Option{nano.WithScheduler(s.sched), nano.WithLogger(s.logger)}
	if srv.nanoMetrics != nil {
		opts = append(opts, nano.WithMetrics(srv.nanoMetrics))
	}
	root, err := nano.Hydrate(container, page.Body(), opts...)
	if err != nil {
		s.logger.Warn("hydration finished with errors", "error", err)
	}
	s.root = root
	s.mismatches = root.HydrationMismatches()
	if s.mismatches > 0 {
		s.logger.Info("hydration repaired markup", "mismatches", s.mismatches)
	}
	// Repairs are part of the initial markup.
	s.pending = nil
	return s, nil
}

// Info returns a snapshot of the session's counters.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:         s.ID,
		Page:       s.page.Name,
		Created:    s.created,
		Events:     s.events.Load(),
		Patches:    s.patches.Load(),
		Mismatches: s.mismatches,
	}
}

// Serve runs the session until the connection closes or ctx is done, then
// unmounts the tree.
func (s *Session) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.enqueue(ServerMessage{
		Type:       MessageInit,
		Session:    s.ID,
		HTML:       s.container.InnerHTML(),
		Mismatches: s.mismatches,
	})

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		s.sched.Run(ctx)
	}()
	go s.writeLoop(ctx)
	go func() {
		// Unblocks readLoop.
		<-ctx.Done()
		s.Close()
	}()

	s.readLoop()
	cancel()
	<-schedDone

	s.observe()
	if err := s.root.Destroy(); err != nil {
		s.logger.Warn("unmount failed", "error", err)
	}
	s.logger.Info("session ended", "events", s.events.Load(), "patches", s.patches.Load())
}

// Close closes the connection. Serve returns once its loops notice.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.srv.metrics.wsErrors.WithLabelValues("read").Inc()
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "event" {
			s.srv.metrics.eventsTotal.WithLabelValues("invalid").Inc()
			s.sendError(errors.New("N062").WithDetailf("%.80s", data))
			continue
		}
		if !s.sched.Dispatch(func() { s.handleEvent(msg) }) {
			s.srv.metrics.eventsTotal.WithLabelValues("dropped").Inc()
			s.sendError(errors.New("N062").WithDetail("event queue full"))
		}
	}
}

// handleEvent runs on the scheduler goroutine.
func (s *Session) handleEvent(msg ClientMessage) {
	target := resolvePath(s.container, msg.Path)
	if target == nil {
		s.srv.metrics.eventsTotal.WithLabelValues("unknown_target").Inc()
		s.sendError(errors.New("N062").WithDetailf("no element at path %v", msg.Path))
		return
	}
	start := time.Now()
	ev := dom.NewEvent(msg.Event)
	ev.Data = msg.Data
	target.Dispatch(ev)

	s.events.Add(1)
	s.srv.metrics.eventsTotal.WithLabelValues("ok").Inc()
	s.srv.metrics.eventDuration.Observe(time.Since(start).Seconds())
	s.sched.OnIdle(s.flushPatch)
}

func (s *Session) onPass(scheduler.PassStats) {
	s.sched.OnIdle(s.flushPatch)
}

func (s *Session) onPassError(err error) {
	s.logger.Error("update failed", "error", err)
	s.sendError(errors.New("N020").Wrap(err))
}

// flushPatch sends the mutations recorded since the last patch. It runs
// on the scheduler goroutine once all passes have settled.
func (s *Session) flushPatch() {
	if len(s.pending) == 0 {
		return
	}
	s.seq++
	msg := ServerMessage{
		Type:      MessagePatch,
		Seq:       s.seq,
		HTML:      s.container.InnerHTML(),
		Mutations: s.pending,
	}
	s.pending = nil
	if s.enqueue(msg) {
		s.patches.Add(1)
		s.srv.metrics.patchesSent.Inc()
		s.srv.metrics.mutationsSent.Add(float64(len(msg.Mutations)))
	}
}

func (s *Session) sendError(err *errors.NanoError) {
	s.enqueue(ServerMessage{Type: MessageError, Error: err.Error()})
}

// enqueue hands msg to the write loop. Patches carry the full container
// markup, so a dropped message is repaired by the next one.
func (s *Session) enqueue(msg ServerMessage) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- msg:
		return true
	default:
		s.logger.Warn("send buffer full, dropping message", "type", msg.Type)
		return false
	}
}

func (s *Session) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.srv.metrics.wsErrors.WithLabelValues("write").Inc()
				s.logger.Debug("write error", "error", err)
				s.Close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}
