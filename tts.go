package edgevox

import (
	"context"
	"io"
	"strings"
)

// TTS errors.
const (
	ErrTextRequired = Error("text required")
)

// Voice represents a synthesis profile offered by the TTS backend.
type Voice struct {
	ShortName    string `json:"ShortName"`
	Locale       string `json:"Locale"`
	Gender       string `json:"Gender"`
	FriendlyName string `json:"FriendlyName,omitempty"`
}

// TTSService represents a service for performing text-to-speech.
type TTSService interface {
	// SynthesizeSpeech encodes text to speech using the named voice.
	// The returned reader streams the encoded audio and must be closed
	// by the caller.
	SynthesizeSpeech(ctx context.Context, text, voice string) (io.ReadCloser, error)

	// Voices returns the full list of voices offered by the backend.
	Voices(ctx context.Context) ([]*Voice, error)
}

// FilterVoicesByLocale returns the voices whose locale begins with prefix.
// The match is case-sensitive. An empty prefix returns voices unchanged.
func FilterVoicesByLocale(voices []*Voice, prefix string) []*Voice {
	if prefix == "" {
		return voices
	}

	other := make([]*Voice, 0, len(voices))
	for _, v := range voices {
		if strings.HasPrefix(v.Locale, prefix) {
			other = append(other, v)
		}
	}
	return other
}
