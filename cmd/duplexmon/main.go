// duplexmon runs a voice session against a realtime speech service and shows
// the turn-taking state live: who holds the floor, whether capture is gated,
// the speech level meter, and the transcript history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	coordinator "github.com/mlovric/duplex-core/core"
	"github.com/mlovric/duplex-core/core/audio/miniaudio"
	"github.com/mlovric/duplex-core/core/events"
	"github.com/mlovric/duplex-core/core/realtime"
	"github.com/mlovric/duplex-core/core/transcription/deepgram"
)

func main() {
	modelName := flag.String("model", "gpt-4o-realtime-preview", "realtime model to converse with")
	voice := flag.String("voice", "alloy", "assistant voice")
	instructions := flag.String("instructions", "", "session instructions")
	flag.Parse()

	// A missing .env file is fine, the keys may come from the environment.
	_ = godotenv.Load()

	if err := run(*modelName, *voice, *instructions); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(modelName, voice, instructions string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	audioClient, err := miniaudio.NewClient()
	if err != nil {
		return fmt.Errorf("failed to open audio devices: %w", err)
	}
	defer audioClient.Close()

	coord := coordinator.NewCoordinator(
		coordinator.WithPlayer(audioClient),
		coordinator.WithCaptureDevice(audioClient),
		coordinator.WithTranscriptionFeed(deepgram.NewTranscriptionClient()),
		coordinator.WithEncodingInfo(audioClient.EncodingInfo()),
	)
	defer coord.Close()

	program := tea.NewProgram(newModel(), tea.WithAltScreen())

	session := realtime.NewClient(
		realtime.WithModel(modelName),
		realtime.WithVoice(voice),
		realtime.WithInstructions(instructions),
		realtime.WithEventHandler(func(event events.Event) {
			// A newly started response supersedes whatever is still queued
			// for playback.
			if event.Kind() == events.KindTurnStarted {
				audioClient.ClearBuffer()
			}
			coord.Handle(event)
		}),
		realtime.WithAudioCallback(func(chunk []byte) {
			if err := audioClient.SendAudio(chunk); err != nil {
				program.Send(sessionErrMsg{err: err})
			}
		}),
		realtime.WithUnhandledMessageCallback(func(eventType string, _ []byte) {
			program.Send(wireMsg{eventType: eventType})
		}),
	)
	defer session.Close()

	coord.Run(ctx,
		coordinator.WithSnapshotCallback(func(snapshot coordinator.Snapshot) {
			program.Send(snapshotMsg{snapshot: snapshot})
		}),
		coordinator.WithActivityCallback(func(activity coordinator.SpeechActivity) {
			program.Send(activityMsg{activity: activity})
		}),
		coordinator.WithTurnEndedCallback(func(ended coordinator.TurnEnded) {
			program.Send(turnEndedMsg{ended: ended})
		}),
		coordinator.WithUserTranscriptCallback(func(transcript string) {
			program.Send(transcriptMsg{speaker: "user", text: transcript, final: true})
		}),
		coordinator.WithUserTranscriptDeltaCallback(func(segment string) {
			program.Send(transcriptMsg{speaker: "user", text: segment})
		}),
		coordinator.WithAssistantTranscriptCallback(func(segment string) {
			program.Send(transcriptMsg{speaker: "assistant", text: segment})
		}),
	)

	if err := audioClient.StartCapture(ctx,
		func(samples []int16) { coord.ObserveCaptureFrame(samples) },
		func(audio []byte) {
			if err := session.SendAudio(audio); err != nil {
				program.Send(sessionErrMsg{err: err})
			}
		},
	); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	defer audioClient.StopCapture()

	go func() {
		if err := session.Connect(ctx); err != nil {
			program.Send(sessionErrMsg{err: err})
			return
		}
		program.Send(sessionReadyMsg{})
	}()

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run monitor UI: %w", err)
	}
	return nil
}
