package cmd

// Middleware wraps a handler (e.g. logging, panic recovery).
type Middleware func(HandlerFunc) HandlerFunc

// Apply returns a copy of c whose Run is wrapped by mws; the first in the list
// is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	run := c.Run
	for i := len(mws) - 1; i >= 0; i-- {
		run = mws[i](run)
	}
	c.Run = run
	return c
}
