package edge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/middlemost/edgevox"
)

// voiceListTimeout bounds the voice catalog fetch.
const voiceListTimeout = 30 * time.Second

// Voices returns the full list of voices offered by the service.
func (s *TTSService) Voices(ctx context.Context) ([]*edgevox.Voice, error) {
	transport, err := s.transport()
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: voiceListTimeout, Transport: transport}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.VoiceListURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edge: voice list returned status %d", resp.StatusCode)
	}

	var voices []*edgevox.Voice
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		return nil, err
	}

	fmt.Fprintf(s.LogOutput, "edge: voice list fetched: n=%d\n", len(voices))
	return voices, nil
}
