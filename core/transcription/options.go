package transcription

import "github.com/mlovric/duplex-core/core/audio"

type Options struct {
	TranscriptCallback    func(transcript string)
	InterimCallback       func(segment string)
	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	EncodingInfo audio.EncodingInfo
}

type Option func(*Options)

func WithTranscriptCallback(callback func(transcript string)) Option {
	return func(o *Options) {
		o.TranscriptCallback = callback
	}
}

func WithInterimCallback(callback func(segment string)) Option {
	return func(o *Options) {
		o.InterimCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) Option {
	return func(o *Options) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) Option {
	return func(o *Options) {
		o.SpeechEndedCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) Option {
	return func(o *Options) {
		o.EncodingInfo = encodingInfo
	}
}
