package nano

import "github.com/vango-dev/nano/pkg/scheduler"

// Tick requests a pass of the default scheduler and returns a channel that
// receives the pass result once it has run. Roots configured with
// WithScheduler use Root.Tick instead.
func Tick() <-chan error {
	return scheduler.Default().Tick()
}
