package edge

import (
	"encoding/binary"
	"strings"
	"testing"
)

// Ensure short text stays in a single chunk.
func TestSplitTextOnParagraphs_Short(t *testing.T) {
	chunks := splitTextOnParagraphs("hello world", 100)
	if len(chunks) != 1 {
		t.Fatalf("unexpected chunk count: %d", len(chunks))
	} else if chunks[0] != "hello world" {
		t.Fatalf("unexpected chunk: %q", chunks[0])
	}
}

// Ensure paragraphs are packed into chunks without exceeding the maximum.
func TestSplitTextOnParagraphs_Paragraphs(t *testing.T) {
	text := strings.Repeat("aaaa ", 4) + "\n\n" + strings.Repeat("bbbb ", 4) + "\n" + "cc"
	chunks := splitTextOnParagraphs(text, 25)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 25 {
			t.Fatalf("chunk %d exceeds max: len=%d", i, len(chunk))
		}
	}

	// No content may be lost.
	joined := strings.Join(chunks, "\n")
	if !strings.Contains(joined, "cc") || !strings.Contains(joined, "bbbb") {
		t.Fatalf("content lost in split: %q", joined)
	}
}

// Ensure an oversized line falls back to word splitting.
func TestSplitTextOnWords(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 20))
	chunks := splitTextOnWords(text, 12)

	for i, chunk := range chunks {
		if len(chunk) > 12 {
			t.Fatalf("chunk %d exceeds max: len=%d, chunk=%q", i, len(chunk), chunk)
		}
	}
}

// Ensure binary frames are parsed into their audio payload.
func TestParseAudioFrame(t *testing.T) {
	header := []byte("X-RequestId:abc\r\nContent-Type:audio/mpeg\r\nPath:audio\r\n")
	frame := make([]byte, 2)
	binary.BigEndian.PutUint16(frame, uint16(len(header)))
	frame = append(frame, header...)
	frame = append(frame, []byte("MP3DATA")...)

	audio, err := parseAudioFrame(frame)
	if err != nil {
		t.Fatal(err)
	} else if string(audio) != "MP3DATA" {
		t.Fatalf("unexpected audio payload: %q", audio)
	}
}

// Ensure malformed binary frames are rejected.
func TestParseAudioFrame_Malformed(t *testing.T) {
	if _, err := parseAudioFrame([]byte{0x01}); err == nil {
		t.Fatal("expected error for short frame")
	}

	frame := []byte{0xFF, 0xFF, 'x'}
	if _, err := parseAudioFrame(frame); err == nil {
		t.Fatal("expected error for overflowing header")
	}

	header := []byte("Path:turn.start\r\n")
	frame = make([]byte, 2)
	binary.BigEndian.PutUint16(frame, uint16(len(header)))
	frame = append(frame, header...)
	if _, err := parseAudioFrame(frame); err == nil {
		t.Fatal("expected error for non-audio path")
	}
}

// Ensure the Path header is extracted from text messages.
func TestMessagePath(t *testing.T) {
	msg := []byte("X-RequestId:abc\r\nPath:turn.end\r\n\r\n{}")
	if path := messagePath(msg); path != "turn.end" {
		t.Fatalf("unexpected path: %q", path)
	}

	if path := messagePath([]byte("no headers here")); path != "" {
		t.Fatalf("unexpected path: %q", path)
	}
}

// Ensure SSML documents escape markup in the input text.
func TestSSMLMessage(t *testing.T) {
	msg := string(ssmlMessage("REQUESTID", "en-US-AriaNeural", "a < b & c"))

	if !strings.Contains(msg, "X-RequestId:REQUESTID\r\n") {
		t.Fatalf("missing request id: %q", msg)
	} else if !strings.Contains(msg, "<voice name='en-US-AriaNeural'>") {
		t.Fatalf("missing voice element: %q", msg)
	} else if !strings.Contains(msg, "a &lt; b &amp; c") {
		t.Fatalf("text not escaped: %q", msg)
	}
}
