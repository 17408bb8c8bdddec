package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
	maxBytes   = frameSize * channels * 2
	bitrate    = 64000
)

// Encoder turns one PCM frame into an Opus packet.
type Encoder interface {
	Encode(pcm []int16, frameSize, maxDataBytes int) ([]byte, error)
}

// gate blocks the pump while paused.
type gate struct {
	mu   sync.Mutex
	open chan struct{}
}

func newGate() *gate {
	g := &gate{open: make(chan struct{})}
	close(g.open)
	return g
}

func (g *gate) pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
		g.open = make(chan struct{})
	default:
	}
}

func (g *gate) resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-g.open:
	default:
		close(g.open)
	}
}

func (g *gate) wait() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

// pump reads s16le stereo PCM from r, encodes it frame by frame and sends the
// packets to out until r is exhausted or stop is closed. A trailing partial
// frame is dropped. It returns nil on a clean end of stream.
func pump(stop <-chan struct{}, r io.Reader, enc Encoder, out chan<- []byte, g *gate) error {
	pcm := make([]byte, maxBytes)
	samples := make([]int16, frameSize*channels)

	for {
		select {
		case <-g.wait():
		case <-stop:
			return nil
		}

		if _, err := io.ReadFull(r, pcm); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			select {
			case <-stop:
				return nil
			default:
			}
			return fmt.Errorf("read error: %w", err)
		}

		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		}

		packet, err := enc.Encode(samples, frameSize, maxBytes)
		if err != nil {
			return fmt.Errorf("encoder error: %w", err)
		}

		select {
		case out <- packet:
		case <-stop:
			return nil
		}
	}
}
