package bench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/nano/internal/dev"
	"github.com/vango-dev/nano/pkg/dom"
)

// Options describes a benchmark run.
type Options struct {
	// Clients is the number of concurrent sessions.
	Clients int

	// Duration is how long clients keep sending events.
	Duration time.Duration

	// Rate is the target number of events per second per client.
	Rate float64

	// ListSize is the number of list items on the page.
	ListSize int

	// PayloadBytes is the size of each event's value.
	PayloadBytes int

	// Logger receives the dev server's logs. Default: discarded.
	Logger *slog.Logger
}

// Profiles are named option sets.
var Profiles = map[string]Options{
	"fast":     {Clients: 20, Duration: 10 * time.Second, Rate: 2, ListSize: 20, PayloadBytes: 24},
	"standard": {Clients: 100, Duration: 30 * time.Second, Rate: 5, ListSize: 50, PayloadBytes: 24},
	"stress":   {Clients: 300, Duration: time.Minute, Rate: 10, ListSize: 100, PayloadBytes: 24},
}

// Validate checks the options.
func (o Options) Validate() error {
	switch {
	case o.Clients <= 0:
		return errors.New("bench: clients must be > 0")
	case o.Duration <= 0:
		return errors.New("bench: duration must be > 0")
	case o.Rate <= 0:
		return errors.New("bench: rate must be > 0")
	case o.ListSize < 0:
		return errors.New("bench: list size must be >= 0")
	case o.PayloadBytes <= 0:
		return errors.New("bench: payload bytes must be > 0")
	}
	return nil
}

// EventTimeout is how long a client waits for the patch answering an
// event: ten send periods, and at least two seconds.
func (o Options) EventTimeout() time.Duration {
	return max(time.Duration(float64(time.Second)/o.Rate)*10, 2*time.Second)
}

// counters are shared by all clients.
type counters struct {
	sent, completed        atomic.Uint64
	eventBytes, patchBytes atomic.Uint64
	patches, mutations     atomic.Uint64
	dial, write, decode    atomic.Uint64
	serverErrors, timeouts atomic.Uint64
	failedClients          atomic.Uint64

	opsMu sync.Mutex
	ops   map[string]uint64

	samplesMu sync.Mutex
	samples   []time.Duration
}

func (c *counters) addOp(op string) {
	c.opsMu.Lock()
	c.ops[op]++
	c.opsMu.Unlock()
}

func (c *counters) sample(d time.Duration) {
	c.samplesMu.Lock()
	c.samples = append(c.samples, d)
	c.samplesMu.Unlock()
}

// Run starts a dev server on a loopback port, runs the clients against it
// for opts.Duration and returns the report. It returns early with ctx's
// error if ctx ends first.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	srv := dev.NewServer(dev.Options{
		Catalog:  dev.NewCatalog(loadPage(opts.ListSize)),
		Logger:   opts.Logger,
		Registry: prometheus.NewRegistry(),
	})
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("bench: listen: %w", err)
	}
	serveCtx, stopServer := context.WithCancel(context.Background())
	served := make(chan struct{})
	go func() {
		defer close(served)
		srv.Serve(serveCtx, ln)
	}()
	defer func() {
		stopServer()
		<-served
	}()

	url := "ws://" + ln.Addr().String() + "/_nano/ws/" + pageName
	runCtx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	c := &counters{ops: make(map[string]uint64)}
	mem := startMemSnapshot()
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < opts.Clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := runClient(runCtx, url, id, opts, c); err != nil {
				c.failedClients.Add(1)
				opts.Logger.Debug("client failed", "client", id, "error", err)
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return newReport(opts, time.Since(start), c, mem.stop()), nil
}

func runClient(ctx context.Context, url string, id int, opts Options, c *counters) error {
	dialer := websocket.Dialer{HandshakeTimeout: opts.EventTimeout()}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		c.dial.Add(1)
		return err
	}
	defer conn.Close()
	// Unblock reads when the run ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	conn.SetReadDeadline(time.Now().Add(opts.EventTimeout()))
	var init dev.ServerMessage
	if err := conn.ReadJSON(&init); err != nil || init.Type != dev.MessageInit {
		if ctx.Err() != nil {
			return nil
		}
		c.decode.Add(1)
		return fmt.Errorf("init: %v", err)
	}

	period := time.Duration(float64(time.Second) / opts.Rate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for seq := uint64(1); ; seq++ {
		value := token(id, seq, opts.PayloadBytes)
		data, _ := json.Marshal(dev.ClientMessage{
			Type:  "event",
			Event: "input",
			Path:  inputPath,
			Data:  map[string]any{"value": value},
		})

		sent := time.Now()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.write.Add(1)
			return err
		}
		c.sent.Add(1)
		c.eventBytes.Add(uint64(len(data)))

		conn.SetReadDeadline(time.Now().Add(opts.EventTimeout()))
		if err := awaitValue(conn, value, c); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				c.timeouts.Add(1)
			}
			return err
		}
		c.completed.Add(1)
		c.sample(time.Since(sent))

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// awaitValue reads messages until a patch sets a text node to value.
func awaitValue(conn *websocket.Conn, value string, c *counters) error {
	setText := dom.MutationSetText.String()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg dev.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.decode.Add(1)
			return err
		}
		switch msg.Type {
		case dev.MessagePatch:
			c.patches.Add(1)
			c.patchBytes.Add(uint64(len(data)))
			found := false
			for _, m := range msg.Mutations {
				c.mutations.Add(1)
				c.addOp(m.Op)
				found = found || (m.Op == setText && m.Value == value)
			}
			if found {
				return nil
			}
		case dev.MessageError:
			c.serverErrors.Add(1)
			return fmt.Errorf("server error: %s", msg.Error)
		}
	}
}
