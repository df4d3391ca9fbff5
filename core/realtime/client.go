package realtime

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mlovric/duplex-core/internal/utils"
)

// Client is a duplex channel to a realtime speech service. Server messages
// that describe turn lifecycle are decoded into coordination events and
// pushed to the configured event handler; everything else goes through the
// unhandled message callback.
type Client struct {
	options Options

	connMu sync.Mutex
	conn   *websocket.Conn

	closeOnce sync.Once
	closed    chan struct{}
}

func NewClient(opts ...Option) *Client {
	options := Options{
		BaseURL: defaultBaseURL,
		Model:   defaultModel,
		Voice:   defaultVoice,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		options: options,
		closed:  make(chan struct{}),
	}
}

// Connect mints an ephemeral session secret, opens the websocket, applies the
// session configuration, and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "connect realtime session")
	defer span.End()

	secret, err := c.mintClientSecret(ctx)
	if err != nil {
		err = fmt.Errorf("failed to mint session secret: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}

	wsURL := strings.Replace(c.options.BaseURL, "http", "ws", 1) +
		"/realtime?model=" + c.options.Model
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, http.Header{
		"Authorization": {"Bearer " + secret},
		"OpenAI-Beta":   {"realtime=v1"},
	})
	if err != nil {
		err = fmt.Errorf("failed to open realtime websocket: %w", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	if err := c.updateSession(); err != nil {
		conn.Close()
		span.RecordError(err)
		span.SetAttributes(attribute.String("error", err.Error()))
		return err
	}

	go c.readAndProcessMessages(conn)

	return nil
}

type clientSecretResponse struct {
	ClientSecret struct {
		Value string `json:"value"`
	} `json:"client_secret"`
}

func (c *Client) mintClientSecret(ctx context.Context) (string, error) {
	apiKey, ok := os.LookupEnv("OPENAI_API_KEY")
	if !ok {
		return "", fmt.Errorf("openai api key not found")
	}

	reqBody, err := json.Marshal(struct {
		Model string `json:"model"`
		Voice string `json:"voice"`
	}{Model: c.options.Model, Voice: c.options.Voice})
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.options.BaseURL+"/realtime/sessions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	var secretResp clientSecretResponse
	if err := json.Unmarshal(respBody, &secretResp); err != nil {
		return "", fmt.Errorf("error unmarshalling response: %w", err)
	}
	if secretResp.ClientSecret.Value == "" {
		return "", fmt.Errorf("session response carried no client secret")
	}

	return secretResp.ClientSecret.Value, nil
}

type inputAudioTranscription struct {
	Model string `json:"model"`
}

func (c *Client) updateSession() error {
	session := struct {
		Instructions            string                   `json:"instructions,omitempty"`
		Voice                   string                   `json:"voice,omitempty"`
		Tools                   []sessionTool            `json:"tools,omitempty"`
		InputAudioTranscription *inputAudioTranscription `json:"input_audio_transcription,omitempty"`
	}{
		Instructions:            c.options.Instructions,
		Voice:                   c.options.Voice,
		Tools:                   toSessionTools(c.options.Tools),
		InputAudioTranscription: utils.Ptr(inputAudioTranscription{Model: "whisper-1"}),
	}

	return c.send(struct {
		Type    string `json:"type"`
		Session any    `json:"session"`
	}{Type: "session.update", Session: session})
}

// SendAudio appends one chunk of capture audio to the remote input buffer.
func (c *Client) SendAudio(audio []byte) error {
	return c.send(struct {
		Type  string `json:"type"`
		Audio string `json:"audio"`
	}{Type: "input_audio_buffer.append", Audio: base64.StdEncoding.EncodeToString(audio)})
}

// CommitAudio closes out the current input buffer as one user utterance.
func (c *Client) CommitAudio() error {
	return c.send(struct {
		Type string `json:"type"`
	}{Type: "input_audio_buffer.commit"})
}

// CreateResponse asks the remote model to produce a response turn.
func (c *Client) CreateResponse() error {
	return c.send(struct {
		Type string `json:"type"`
	}{Type: "response.create"})
}

// CancelResponse aborts the in-flight response turn, if any.
func (c *Client) CancelResponse() error {
	return c.send(struct {
		Type string `json:"type"`
	}{Type: "response.cancel"})
}

func (c *Client) send(message any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("realtime session not connected")
	}

	if err := c.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write to realtime session: %w", err)
	}
	return nil
}

func (c *Client) readAndProcessMessages(conn *websocket.Conn) {
	for {
		select {
		case <-c.closed:
			return
		default:
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				logger.Warn("failed to read realtime message", "error", err)
			}

			c.connMu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.connMu.Unlock()
			conn.Close()
			return
		}

		c.processMessage(payload)
	}
}

func (c *Client) processMessage(payload []byte) {
	var msg serverMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Warn("failed to decode realtime message", "error", err)
		return
	}

	if msg.Type == typeResponseAudioDelta && c.options.AudioCallback != nil {
		if chunk, err := base64.StdEncoding.DecodeString(msg.Delta); err == nil {
			c.options.AudioCallback(chunk)
		} else {
			logger.Warn("failed to decode assistant audio chunk", "error", err)
		}
	}

	event, decoded := decodeEvent(msg)
	if !decoded {
		if c.options.UnhandledMessageCallback != nil {
			c.options.UnhandledMessageCallback(msg.Type, payload)
		}
		return
	}

	if event != nil && c.options.EventHandler != nil {
		c.options.EventHandler(event)
	}
}

// Close shuts the channel down. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)

		c.connMu.Lock()
		defer c.connMu.Unlock()
		if c.conn != nil {
			err = c.conn.Close()
			c.conn = nil
		}
	})
	return err
}
