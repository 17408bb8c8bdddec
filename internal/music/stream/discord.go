package stream

import (
	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

type Option func(*Connection)

// WithOpener replaces the ffmpeg decoder.
func WithOpener(o Opener) Option {
	return func(c *Connection) { c.open = o }
}

// WithEncoder replaces the Opus encoder factory.
func WithEncoder(f func() (Encoder, error)) Option {
	return func(c *Connection) { c.newEncoder = f }
}

// New wraps a joined discordgo voice connection.
func New(vc *discordgo.VoiceConnection, opts ...Option) *Connection {
	c := newConnection(vc.OpusSend, vc.Speaking, func() error { return vc.Disconnect() })
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newConnection(out chan<- []byte, speaking func(bool) error, disconnect func() error) *Connection {
	return &Connection{
		out:        out,
		speaking:   speaking,
		disconnect: disconnect,
		open:       FFmpeg,
		newEncoder: newOpusEncoder,
	}
}

func newOpusEncoder() (Encoder, error) {
	enc, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return nil, err
	}
	enc.SetBitrate(bitrate)
	return enc, nil
}
