package stream

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Opener starts decoding url into raw PCM.
type Opener func(ctx context.Context, url string) (io.ReadCloser, error)

type ffmpegStream struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (s *ffmpegStream) Close() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return nil
}

func ffmpegArgs(url string) []string {
	var args []string
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "5",
		)
	}
	return append(args,
		"-i", url,
		"-vn",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)
}

// FFmpeg is the default Opener. ffmpeg must be on PATH; its warnings go to the
// log.
func FFmpeg(ctx context.Context, url string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", ffmpegArgs(url)...)
	cmd.Stderr = log.With().Str("component", "ffmpeg").Logger().Level(zerolog.WarnLevel)

	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}
	return &ffmpegStream{ReadCloser: reader, cmd: cmd}, nil
}
