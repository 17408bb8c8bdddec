package command

import (
	"context"

	"dinkbot/pkg/cmd"
)

type HelloCommand struct {
	Gateway Gateway
}

func (c *HelloCommand) Run(_ context.Context, inv *cmd.Invocation) error {
	m, err := messageContext(inv)
	if err != nil {
		return err
	}
	return c.Gateway.Send(m.ChannelID, "Hello!")
}
