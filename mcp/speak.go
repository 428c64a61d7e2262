package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/middlemost/edgevox"
)

// maxEchoChars is the number of characters of input echoed back in the
// success summary.
const maxEchoChars = 100

// speakArgs are the decoded arguments for the speak tool.
type speakArgs struct {
	Text       string
	Voice      string
	OutputFile string
}

// parseSpeakArgs decodes speak arguments and applies defaults at the
// boundary.
func parseSpeakArgs(args map[string]any, defaultVoice, defaultOutputFile string) speakArgs {
	return speakArgs{
		Text:       readString(args, "text"),
		Voice:      readStringDefault(args, "voice", defaultVoice),
		OutputFile: readStringDefault(args, "output_file", defaultOutputFile),
	}
}

// speak synthesizes args.Text with args.Voice and writes the audio to
// args.OutputFile. It returns the summary shown to the client.
func (s *Server) speak(ctx context.Context, args speakArgs) (string, error) {
	if args.Text == "" {
		return "", edgevox.ErrTextRequired
	}

	// Synthesize audio. The voice is passed through unvalidated; an
	// unsupported voice surfaces as a backend error.
	rc, err := s.TTSService.SynthesizeSpeech(ctx, args.Text, args.Voice)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	// Write to the output path and read back the resulting size.
	f := &edgevox.File{Path: args.OutputFile}
	if err := s.FileService.CreateFile(ctx, f, rc); err != nil {
		return "", err
	}

	fmt.Fprintf(s.LogOutput, "mcp: speak: voice=%s path=%s size=%d\n", args.Voice, f.Path, f.Size)

	return fmt.Sprintf(
		"✅ Text-to-speech conversion successful!\n\n"+
			"📝 Text: \"%s\"\n"+
			"🎤 Voice: %s\n"+
			"💾 Output: %s\n"+
			"📊 Size: %s bytes",
		truncateText(args.Text, maxEchoChars), args.Voice, f.Path, comma(f.Size),
	), nil
}

// truncateText returns the first n characters of text, with an ellipsis
// marker appended when truncation occurred. Characters are counted as
// runes, not bytes.
func truncateText(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// comma formats n with thousands separators.
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
