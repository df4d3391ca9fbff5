package miniaudio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/mlovric/duplex-core/core/audio"
)

type captureClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	onFrame func(samples []int16)
	onAudio func(audio []byte)

	disabled atomic.Bool
	gainBits atomic.Uint64

	mu sync.Mutex
}

func (c *captureClient) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sampleRate := uint32(audio.DefaultSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.gainBits.Store(math.Float64bits(1.0))

	c.config = malgo.DefaultDeviceConfig(malgo.Capture)
	c.config.SampleRate = sampleRate
	c.config.Capture.Format = format
	c.config.Capture.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PerformanceProfile = malgo.LowLatency
	// 480 frames is 30ms at 16kHz, comfortably above the classifier's
	// required observation rate.
	c.config.PeriodSizeInFrames = 480
	c.config.Periods = 3

	c.audioContext = audioContext

	var err error
	c.device, err = malgo.InitDevice(c.audioContext.Context, c.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}
			c.deliver(pInput[:n])
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return nil
}

// deliver hands the raw frame to the observation tap and the gated frame to
// the outbound path. Disabled capture still emits frames so the outbound
// stream keeps its timing, but they carry silence.
func (c *captureClient) deliver(frame []byte) {
	samples := audio.DecodePCM16(frame)

	if c.onFrame != nil {
		c.onFrame(samples)
	}

	if c.onAudio == nil {
		return
	}

	outbound := make([]int16, len(samples))
	if !c.disabled.Load() {
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
	}
	c.onAudio(audio.EncodePCM16(outbound))
}

func (c *captureClient) Start(onFrame func(samples []int16), onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if c.device.IsStarted() {
		return nil
	}

	c.onFrame = onFrame
	c.onAudio = onAudio
	if err := c.device.Start(); err != nil {
		c.onFrame = nil
		c.onAudio = nil
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return nil
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}

	c.onFrame = nil
	c.onAudio = nil
	return nil
}

func (c *captureClient) SetCaptureEnabled(enabled bool) error {
	c.disabled.Store(!enabled)
	return nil
}

func (c *captureClient) SetGainFloor(gainFloor float64) error {
	if gainFloor < 0 || gainFloor > 1 {
		return fmt.Errorf("gain floor out of range")
	}
	c.gainBits.Store(math.Float64bits(gainFloor))
	return nil
}

func (c *captureClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.onFrame = nil
	c.onAudio = nil
	return nil
}
