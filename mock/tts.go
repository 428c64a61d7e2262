package mock

import (
	"context"
	"io"

	"github.com/middlemost/edgevox"
)

var _ edgevox.TTSService = &TTSService{}

type TTSService struct {
	SynthesizeSpeechFn func(ctx context.Context, text, voice string) (io.ReadCloser, error)
	VoicesFn           func(ctx context.Context) ([]*edgevox.Voice, error)
}

func (s *TTSService) SynthesizeSpeech(ctx context.Context, text, voice string) (io.ReadCloser, error) {
	return s.SynthesizeSpeechFn(ctx, text, voice)
}

func (s *TTSService) Voices(ctx context.Context) ([]*edgevox.Voice, error) {
	return s.VoicesFn(ctx)
}
