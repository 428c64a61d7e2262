package mcp

import (
	"fmt"

	"github.com/middlemost/edgevox"
)

// errorTextMap is a whitelist that maps coded errors to a fixed
// user-facing message.
var errorTextMap = map[error]string{
	edgevox.ErrTextRequired: "Error: 'text' parameter is required",
}

// errorText renders an error for the client. Recognized errors map to
// their fixed message; anything else is formatted with the handler's
// template.
func errorText(err error, format string) string {
	if text, ok := errorTextMap[err]; ok {
		return text
	}
	return fmt.Sprintf(format, err)
}
