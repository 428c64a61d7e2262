package mcp

// readString reads a string argument from the invocation arguments.
// Missing or non-string values read as the empty string.
func readString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// readStringDefault reads a string argument, falling back to a default
// when absent or empty.
func readStringDefault(args map[string]any, key, defaultVal string) string {
	if s := readString(args, key); s != "" {
		return s
	}
	return defaultVal
}
