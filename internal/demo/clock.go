package demo

import (
	"time"

	"github.com/vango-dev/nano/pkg/nano"
	"github.com/vango-dev/nano/pkg/store"
	"github.com/vango-dev/nano/pkg/vdom"
)

const clockLayout = "15:04:05"

// Clock shows the time, refreshed every "interval" (default one second).
// It renders a placeholder until its first tick so server markup and the
// hydrated tree agree.
var Clock = vdom.Define("Clock", func(p vdom.Props) vdom.Component {
	c := &clock{interval: time.Second, now: store.New("")}
	if d, ok := p.Get("interval").(time.Duration); ok && d > 0 {
		c.interval = d
	}
	return c
})

type clock struct {
	interval time.Duration
	now      *store.Store[string]
	stop     chan struct{}
}

func (c *clock) Render(s vdom.Scope) *vdom.VNode {
	now := nano.UseStore(s, c.now)
	if now == "" {
		now = "--:--:--"
	}
	return vdom.P(vdom.Class("clock"), vdom.Code(now))
}

func (c *clock) DidMount(vdom.Scope) error {
	c.stop = make(chan struct{})
	go c.run(c.stop)
	return nil
}

func (c *clock) WillUnmount(vdom.Scope) error {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	return nil
}

func (c *clock) run(stop <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case t := <-ticker.C:
			c.now.Set(t.Format(clockLayout))
		case <-stop:
			return
		}
	}
}
