package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/middlemost/edgevox"
)

// maxVoiceListEntries caps the number of voices rendered in one listing.
const maxVoiceListEntries = 50

// listVoicesArgs are the decoded arguments for the list_voices tool.
type listVoicesArgs struct {
	Language string
}

// parseListVoicesArgs decodes list_voices arguments at the boundary.
func parseListVoicesArgs(args map[string]any) listVoicesArgs {
	return listVoicesArgs{
		Language: readString(args, "language"),
	}
}

// listVoices renders the voice catalog, optionally filtered by locale
// prefix. The reported total reflects the filtered set.
func (s *Server) listVoices(ctx context.Context, args listVoicesArgs) (string, error) {
	voices, err := s.TTSService.Voices(ctx)
	if err != nil {
		return "", err
	}
	voices = edgevox.FilterVoicesByLocale(voices, args.Language)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎙️ Available Edge TTS Voices (%d total", len(voices))
	if args.Language != "" {
		fmt.Fprintf(&sb, ", filtered by '%s'", args.Language)
	}
	sb.WriteString("):\n\n")

	shown := voices
	if len(shown) > maxVoiceListEntries {
		shown = shown[:maxVoiceListEntries]
	}
	lines := make([]string, len(shown))
	for i, v := range shown {
		lines[i] = fmt.Sprintf("• %s (%s) - %s", v.ShortName, v.Locale, v.Gender)
	}
	sb.WriteString(strings.Join(lines, "\n"))

	if len(voices) > maxVoiceListEntries {
		fmt.Fprintf(&sb, "\n\n... and %d more voices", len(voices)-maxVoiceListEntries)
	}

	return sb.String(), nil
}
