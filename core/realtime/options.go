package realtime

import "github.com/mlovric/duplex-core/core/events"

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-realtime-preview"
	defaultVoice   = "alloy"
)

type Options struct {
	BaseURL      string
	Model        string
	Voice        string
	Instructions string
	Tools        []Tool

	EventHandler func(event events.Event)

	// AudioCallback receives decoded assistant audio chunks for local
	// playback.
	AudioCallback func(audio []byte)

	// UnhandledMessageCallback receives server messages that do not map to a
	// coordination event, keyed by their wire type.
	UnhandledMessageCallback func(eventType string, payload []byte)
}

type Option func(*Options)

func WithBaseURL(baseURL string) Option {
	return func(o *Options) { o.BaseURL = baseURL }
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func WithVoice(voice string) Option {
	return func(o *Options) { o.Voice = voice }
}

func WithInstructions(instructions string) Option {
	return func(o *Options) { o.Instructions = instructions }
}

func WithTool(tool Tool) Option {
	return func(o *Options) { o.Tools = append(o.Tools, tool) }
}

func WithEventHandler(handler func(event events.Event)) Option {
	return func(o *Options) { o.EventHandler = handler }
}

func WithAudioCallback(callback func(audio []byte)) Option {
	return func(o *Options) { o.AudioCallback = callback }
}

func WithUnhandledMessageCallback(callback func(eventType string, payload []byte)) Option {
	return func(o *Options) { o.UnhandledMessageCallback = callback }
}
