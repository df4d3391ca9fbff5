package portaudio

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/mlovric/duplex-core/core/audio"
)

// Client is a capture-only device built on PortAudio's blocking read API.
// It offers the same software gate as the miniaudio client for hosts where
// miniaudio is unavailable.
type Client struct {
	bufferSize int
	stream     *portaudio.Stream

	in []int16

	disabled atomic.Bool
	gainBits atomic.Uint64
}

func NewClient(bufferSize int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, bufferSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, audio.DefaultSampleRate, bufferSize, in)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}

	client := &Client{
		bufferSize: bufferSize,
		stream:     stream,
		in:         in,
	}
	client.gainBits.Store(math.Float64bits(1.0))

	return client, nil
}

// Stream reads capture buffers until ctx is cancelled. onFrame receives every
// raw frame; onAudio receives the gated, gain-scaled outbound audio.
func (c *Client) Stream(ctx context.Context, onFrame func(samples []int16), onAudio func(audio []byte)) error {
	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return c.stream.Stop()
		default:
			if err := c.stream.Read(); err != nil {
				return fmt.Errorf("failed to read from portaudio stream: %w", err)
			}

			samples := make([]int16, len(c.in))
			copy(samples, c.in)

			if onFrame != nil {
				onFrame(samples)
			}
			if onAudio != nil {
				onAudio(audio.EncodePCM16(c.gated(samples)))
			}
		}
	}
}

// gated applies the capture gate. Disabled capture yields silence of the
// same length so the outbound stream keeps its timing.
func (c *Client) gated(samples []int16) []int16 {
	outbound := make([]int16, len(samples))
	if c.disabled.Load() {
		return outbound
	}

	gain := math.Float64frombits(c.gainBits.Load())
	for i, sample := range samples {
		scaled := float64(sample) * gain
		if scaled > math.MaxInt16 {
			scaled = math.MaxInt16
		} else if scaled < math.MinInt16 {
			scaled = math.MinInt16
		}
		outbound[i] = int16(scaled)
	}
	return outbound
}

func (c *Client) SetCaptureEnabled(enabled bool) error {
	c.disabled.Store(!enabled)
	return nil
}

func (c *Client) SetGainFloor(gainFloor float64) error {
	if gainFloor < 0 || gainFloor > 1 {
		return fmt.Errorf("gain floor out of range")
	}
	c.gainBits.Store(math.Float64bits(gainFloor))
	return nil
}

func (c *Client) Close() {
	c.stream.Close()
	portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
