package edge_test

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/coder/websocket"
	"github.com/middlemost/edgevox"
	"github.com/middlemost/edgevox/edge"
)

// Ensure the service can synthesize speech against a protocol-faithful
// fake of the read-aloud endpoint.
func TestTTSService_SynthesizeSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()

		// Expect the session configuration first.
		if _, msg, err := conn.Read(ctx); err != nil {
			t.Errorf("read speech.config: %v", err)
			return
		} else if !strings.Contains(string(msg), "Path:speech.config") {
			t.Errorf("unexpected first message: %q", msg)
			return
		}

		// Then the SSML document.
		if _, msg, err := conn.Read(ctx); err != nil {
			t.Errorf("read ssml: %v", err)
			return
		} else if !strings.Contains(string(msg), "Path:ssml") || !strings.Contains(string(msg), "Hello world") {
			t.Errorf("unexpected ssml message: %q", msg)
			return
		}

		// Reply with two audio frames and end the turn.
		conn.Write(ctx, websocket.MessageBinary, audioFrame([]byte("MP3A")))
		conn.Write(ctx, websocket.MessageBinary, audioFrame([]byte("MP3B")))
		conn.Write(ctx, websocket.MessageText, []byte("X-RequestId:abc\r\nPath:turn.end\r\n\r\n{}"))

		// Wait for the client to close the session.
		conn.Read(ctx)
	}))
	defer srv.Close()

	s := edge.NewTTSService()
	s.WebSocketURL = strings.Replace(srv.URL, "http", "ws", 1)

	rc, err := s.SynthesizeSpeech(context.Background(), "Hello world", "en-US-AriaNeural")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	if buf, err := io.ReadAll(rc); err != nil {
		t.Fatal(err)
	} else if string(buf) != "MP3AMP3B" {
		t.Fatalf("unexpected audio: %q", buf)
	}
}

// Ensure empty text is rejected before dialing.
func TestTTSService_SynthesizeSpeech_ErrTextRequired(t *testing.T) {
	s := edge.NewTTSService()
	if _, err := s.SynthesizeSpeech(context.Background(), "", "en-US-AriaNeural"); err != edgevox.ErrTextRequired {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure the voice catalog is fetched and decoded.
func TestTTSService_Voices(t *testing.T) {
	voices := []*edgevox.Voice{
		{ShortName: "en-US-AriaNeural", Locale: "en-US", Gender: "Female", FriendlyName: "Microsoft Aria Online (Natural) - English (United States)"},
		{ShortName: "en-GB-RyanNeural", Locale: "en-GB", Gender: "Male"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(voices)
	}))
	defer srv.Close()

	s := edge.NewTTSService()
	s.VoiceListURL = srv.URL

	other, err := s.Voices(context.Background())
	if err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(other, voices) {
		t.Fatalf("unexpected voices: %#v", other)
	}
}

// Ensure a non-200 voice list response surfaces as an error.
func TestTTSService_Voices_ErrStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := edge.NewTTSService()
	s.VoiceListURL = srv.URL

	if _, err := s.Voices(context.Background()); err == nil {
		t.Fatal("expected error")
	} else if !strings.Contains(err.Error(), "403") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// audioFrame frames an audio payload the way the service does: a big-endian
// header length, the header block, then the payload.
func audioFrame(audio []byte) []byte {
	header := []byte("X-RequestId:abc\r\nContent-Type:audio/mpeg\r\nPath:audio\r\n")
	frame := make([]byte, 2)
	binary.BigEndian.PutUint16(frame, uint16(len(header)))
	frame = append(frame, header...)
	return append(frame, audio...)
}
