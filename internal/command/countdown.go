package command

import (
	"context"
	"strconv"
	"strings"
	"time"

	"dinkbot/pkg/cmd"
)

type CountdownCommand struct {
	Gateway Gateway
	Tick    time.Duration
}

// Run sends n, n-1 ... 1 one tick apart, then BOOOM!!!. Zero or negative
// counts go straight to the boom.
func (c *CountdownCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	m, err := messageContext(inv)
	if err != nil {
		return err
	}

	n, err := strconv.Atoi(strings.TrimSpace(inv.Args))
	if err != nil {
		return &ArgumentParseError{Arg: inv.Args, Want: "an integer"}
	}

	tick := c.Tick
	if tick <= 0 {
		tick = time.Second
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for i := n; i > 0; i-- {
		if err := c.Gateway.Send(m.ChannelID, strconv.Itoa(i)); err != nil {
			return err
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.Gateway.Send(m.ChannelID, "BOOOM!!!")
}
