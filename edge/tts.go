// Package edge provides a TTS service backed by the Microsoft Edge
// read-aloud speech service.
package edge

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/middlemost/edgevox"
	"golang.org/x/sync/errgroup"
)

// MaxCharactersPerRequest is the maximum text length sent in one websocket
// message. Longer input is split into chunks synthesized separately.
const MaxCharactersPerRequest = 4096

// DefaultVoice is the default voice to use when synthesizing speech.
const DefaultVoice = "en-US-AriaNeural"

// trustedClientToken identifies the Edge read-aloud consumer client.
const trustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"

// Default service endpoints.
const (
	DefaultVoiceListURL = "https://speech.platform.bing.com/consumer/speech/synthesize/readaloud/voices/list?trustedclienttoken=" + trustedClientToken
	DefaultWebSocketURL = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1?TrustedClientToken=" + trustedClientToken
)

// outputFormat is the audio encoding requested for every session.
const outputFormat = "audio-24khz-48kbitrate-mono-mp3"

const (
	origin    = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36 Edg/122.0.0.0"
)

// Ensure service implements interface.
var _ edgevox.TTSService = &TTSService{}

// TTSService represents a service for performing text-to-speech over the
// Edge read-aloud endpoints.
type TTSService struct {
	// Service endpoints. Overridable for testing.
	VoiceListURL string
	WebSocketURL string

	// Optional HTTP proxy used for both the voice list fetch and the
	// websocket handshake.
	Proxy string

	LogOutput io.Writer
}

// NewTTSService returns a new instance of TTSService.
func NewTTSService() *TTSService {
	return &TTSService{
		VoiceListURL: DefaultVoiceListURL,
		WebSocketURL: DefaultWebSocketURL,
		LogOutput:    io.Discard,
	}
}

// SynthesizeSpeech encodes text to speech.
func (s *TTSService) SynthesizeSpeech(ctx context.Context, text, voice string) (io.ReadCloser, error) {
	if text == "" {
		return nil, edgevox.ErrTextRequired
	} else if voice == "" {
		voice = DefaultVoice
	}

	// Split into chunks small enough for a single websocket message.
	chunks := splitTextOnParagraphs(text, MaxCharactersPerRequest)

	// Synthesize chunks in parallel.
	bufs := make([][]byte, len(chunks))
	var wg errgroup.Group
	for i, chunk := range chunks {
		fmt.Fprintf(s.LogOutput, "tts: synthesizing chunk: index=%d, len=%d\n", i, len(chunk))

		wg.Go(func() error {
			buf, err := s.synthesizeChunk(ctx, voice, chunk)
			bufs[i] = buf
			return err
		})
	}

	// Wait for the chunks to complete.
	if err := wg.Wait(); err != nil {
		return nil, err
	}

	// Combine chunks in order. MP3 frames are self-contained so the
	// streams concatenate directly.
	return io.NopCloser(bytes.NewReader(bytes.Join(bufs, nil))), nil
}

// synthesizeChunk synthesizes a single chunk of text over one websocket
// session and returns the encoded audio.
func (s *TTSService) synthesizeChunk(ctx context.Context, voice, text string) ([]byte, error) {
	client, err := s.dialClient()
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.Dial(ctx, s.WebSocketURL, &websocket.DialOptions{
		HTTPClient: client,
		HTTPHeader: http.Header{
			"Origin":     []string{origin},
			"User-Agent": []string{userAgent},
		},
	})
	if err != nil {
		return nil, err
	}
	defer conn.Close(websocket.StatusInternalError, "synthesis aborted")

	// Audio frames can exceed the default read limit.
	conn.SetReadLimit(1 << 20)

	// Configure the audio output format for the session.
	if err := conn.Write(ctx, websocket.MessageText, speechConfigMessage()); err != nil {
		return nil, err
	}

	// Send the SSML document.
	requestID := connectionID()
	if err := conn.Write(ctx, websocket.MessageText, ssmlMessage(requestID, voice, text)); err != nil {
		return nil, err
	}

	// Collect audio frames until the service ends the turn.
	var buf bytes.Buffer
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return nil, err
		}

		switch typ {
		case websocket.MessageText:
			if messagePath(data) == "turn.end" {
				conn.Close(websocket.StatusNormalClosure, "")
				return buf.Bytes(), nil
			}

		case websocket.MessageBinary:
			audio, err := parseAudioFrame(data)
			if err != nil {
				return nil, err
			}
			buf.Write(audio)
		}
	}
}

// dialClient returns the HTTP client used for the websocket handshake.
// No timeout is set; cancellation is governed by the caller's context.
func (s *TTSService) dialClient() (*http.Client, error) {
	transport, err := s.transport()
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: transport}, nil
}

// transport returns a round tripper honoring the configured proxy.
func (s *TTSService) transport() (http.RoundTripper, error) {
	if s.Proxy == "" {
		return nil, nil
	}

	u, err := url.Parse(s.Proxy)
	if err != nil {
		return nil, err
	}
	return &http.Transport{Proxy: http.ProxyURL(u)}, nil
}

// speechConfigMessage returns the session configuration message.
func speechConfigMessage() []byte {
	const config = `{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"true"},"outputFormat":"` + outputFormat + `"}}}}`

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "X-Timestamp:%s\r\nContent-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n%s", timestamp(), config)
	return buf.Bytes()
}

// ssmlMessage returns the synthesis request message for a chunk of text.
func ssmlMessage(requestID, voice, text string) []byte {
	ssml := fmt.Sprintf(
		"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'><voice name='%s'><prosody pitch='+0Hz' rate='+0%%' volume='+0%%'>%s</prosody></voice></speak>",
		voice, escapeText(text),
	)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nX-Timestamp:%sZ\r\nPath:ssml\r\n\r\n%s", requestID, timestamp(), ssml)
	return buf.Bytes()
}

// escapeText escapes text for embedding in an SSML document.
func escapeText(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// timestamp returns the clock value in the format the service expects.
func timestamp() string {
	return time.Now().UTC().Format("Mon Jan 02 2006 15:04:05") + " GMT+0000 (Coordinated Universal Time)"
}

// connectionID returns a request identifier: a UUID without dashes.
func connectionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// messagePath extracts the Path header from a text message.
func messagePath(data []byte) string {
	head, _, _ := strings.Cut(string(data), "\r\n\r\n")
	for _, line := range strings.Split(head, "\r\n") {
		if name, value, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(name) == "Path" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// parseAudioFrame extracts the audio payload from a binary message.
// Binary frames begin with a big-endian header length, followed by the
// header block and the payload.
func parseAudioFrame(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("edge: short binary frame: len=%d", len(data))
	}

	n := int(binary.BigEndian.Uint16(data[:2]))
	if 2+n > len(data) {
		return nil, fmt.Errorf("edge: binary frame header overflows frame: header=%d, len=%d", n, len(data))
	}

	header := string(data[2 : 2+n])
	if !strings.Contains(header, "Path:audio") {
		return nil, fmt.Errorf("edge: unexpected binary frame path: %q", header)
	}
	return data[2+n:], nil
}

// splitTextOnParagraphs splits into chunks of maxChars-length chunks.
func splitTextOnParagraphs(text string, maxChars int) []string {
	lines := regexp.MustCompile(`\n+`).Split(text, -1)

	var chunks []string
	for _, line := range lines {
		// If line is too large for one chunk then split on words.
		if len(line) > maxChars {
			chunks = append(chunks, splitTextOnWords(line, maxChars)...)
			continue
		}

		// Add if this is the first line.
		if len(chunks) == 0 {
			chunks = append(chunks, line)
			continue
		}

		// Add new chunk if adding line will exceed max.
		if len(chunks[len(chunks)-1])+len(line)+1 > maxChars {
			chunks = append(chunks, line)
			continue
		}

		// Append to last chunk.
		chunks[len(chunks)-1] = chunks[len(chunks)-1] + "\n" + line
	}

	return chunks
}

// splitTextOnWords splits into max length chunks at word boundries.
func splitTextOnWords(text string, maxChars int) []string {
	words := regexp.MustCompile(` +`).Split(text, -1)

	chunks := make([]string, 1)
	chunks[0] = words[0]
	for _, word := range words[1:] {
		if len(chunks[len(chunks)-1])+len(word)+1 > maxChars {
			chunks = append(chunks, word)
			continue
		}

		chunks[len(chunks)-1] = chunks[len(chunks)-1] + " " + word
	}

	return chunks
}
