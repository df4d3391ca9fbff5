package miniaudio

import (
	"context"
	"fmt"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/mlovric/duplex-core/core/audio"
)

// Client owns one miniaudio context with a playback device and a capture
// device. It satisfies both the player and capture device contracts of the
// turn coordinator: playback position and playing state are independently
// queryable, and the capture path can be gated without stopping the device.
type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Client{
		audioContext: audioCtx,
	}

	if err := client.playbackClient.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.playbackClient.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.captureClient.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

// StartCapture starts the capture device. onFrame receives every raw frame
// regardless of the gate state; onAudio receives the gated, gain-scaled
// outbound audio.
func (c *Client) StartCapture(_ context.Context, onFrame func(samples []int16), onAudio func(audio []byte)) error {
	return c.captureClient.Start(onFrame, onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

func (c *Client) SendAudio(audio []byte) error {
	return c.playbackClient.SendAudio(audio)
}

// ClearBuffer drops all queued playback audio and rewinds the reported
// position to zero.
func (c *Client) ClearBuffer() {
	c.playbackClient.ClearBuffer()
}

// Position reports how much queued audio has been handed to the output so
// far. It only advances while audio is actually being consumed.
func (c *Client) Position() time.Duration {
	return c.playbackClient.Position()
}

// IsPlaying reports whether the playback device is running with audio still
// queued.
func (c *Client) IsPlaying() bool {
	return c.playbackClient.IsPlaying()
}

// SetCaptureEnabled gates the outbound capture audio without stopping the
// device. While disabled, outbound frames are replaced with silence so the
// stream keeps its timing.
func (c *Client) SetCaptureEnabled(enabled bool) error {
	return c.captureClient.SetCaptureEnabled(enabled)
}

// SetGainFloor sets the multiplicative gain applied to outbound capture
// audio.
func (c *Client) SetGainFloor(gainFloor float64) error {
	return c.captureClient.SetGainFloor(gainFloor)
}

func (c *Client) Close() {
	_ = c.captureClient.Uninit()
	_ = c.playbackClient.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
