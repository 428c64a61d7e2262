package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/middlemost/edgevox/edge"
	"github.com/middlemost/edgevox/http"
	"github.com/middlemost/edgevox/local"
	"github.com/middlemost/edgevox/mcp"
)

func main() {
	m := NewMain()

	// Parse command line flags.
	if err := m.ParseFlags(os.Args[1:]); err == flag.ErrHelp {
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Load configuration.
	if err := m.LoadConfig(); err != nil {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}

	// Cancel the run context on SIGINT (CTRL-C).
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		fmt.Fprintln(m.Stderr, "received interrupt, shutting down...")
		cancel()
	}()

	// Execute program. Run blocks until the MCP client disconnects.
	if err := m.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintln(m.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the main program execution.
type Main struct {
	ConfigPath string
	Config     Config

	// Input/output streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{
		ConfigPath: DefaultConfigPath,
		Config:     DefaultConfig(),

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Usage returns the usage message.
func (m *Main) Usage() string {
	return strings.TrimSpace(`
usage: edgevox [flags]

The MCP server process exposing Edge text-to-speech tools over stdio.

The following flags are available:

	-config PATH
		Specifies the configuration file to read.
		Defaults to ~/.edgevox/config

`)
}

// ParseFlags parses the command line flags.
func (m *Main) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("edgevox", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&m.ConfigPath, "config", "", "config file")
	return fs.Parse(args)
}

// LoadConfig parses the configuration file.
func (m *Main) LoadConfig() error {
	// Default configuration path if not specified.
	path := m.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	// Interpolate path.
	if err := InterpolatePaths(&path); err != nil {
		return err
	}

	// Read configuration file. A missing file is only an error when the
	// path was given explicitly.
	if _, err := toml.DecodeFile(path, &m.Config); os.IsNotExist(err) {
		if m.ConfigPath != "" {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}

// Run executes the program until ctx is canceled or the MCP client
// disconnects.
func (m *Main) Run(ctx context.Context) error {
	// Initialize TTS service.
	// Logs go to stderr; stdout belongs to the stdio transport.
	ttsService := edge.NewTTSService()
	ttsService.Proxy = m.Config.TTS.Proxy
	ttsService.LogOutput = m.Stderr

	// Initialize file service.
	fileService := local.NewFileService()

	// Initialize MCP server.
	mcpServer := mcp.NewServer()
	mcpServer.TTSService = ttsService
	mcpServer.FileService = fileService
	mcpServer.DefaultVoice = m.Config.TTS.Voice
	mcpServer.DefaultOutputFile = m.Config.TTS.Output
	mcpServer.LogOutput = m.Stderr

	// Optionally serve the same tools over HTTP.
	if m.Config.HTTP.Addr != "" || m.Config.HTTP.Autocert {
		httpServer := http.NewServer()
		httpServer.Addr = m.Config.HTTP.Addr
		httpServer.Host = m.Config.HTTP.Host
		httpServer.Autocert = m.Config.HTTP.Autocert
		httpServer.MCPHandler = mcpServer.HTTPHandler()
		httpServer.LogOutput = m.Stderr

		if err := httpServer.Open(); err != nil {
			return err
		}
		defer httpServer.Close()
		u := httpServer.URL()
		fmt.Fprintf(m.Stderr, "http listening: %s\n", u.String())
	}

	// Serve the stdio transport.
	return mcpServer.Run(ctx)
}

// DefaultConfigPath is the default configuration path.
const DefaultConfigPath = "~/.edgevox/config"

// Config represents a configuration file.
type Config struct {
	TTS struct {
		Voice  string `toml:"voice"`
		Output string `toml:"output"`
		Proxy  string `toml:"proxy"`
	} `toml:"tts"`

	HTTP struct {
		Addr     string `toml:"addr"`
		Host     string `toml:"host"`
		Autocert bool   `toml:"autocert"`
	} `toml:"http"`
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() Config {
	var c Config
	c.TTS.Voice = mcp.DefaultVoice
	c.TTS.Output = mcp.DefaultOutputFile
	return c
}

// InterpolatePaths replaces the tilde prefix with the user's home directory.
func InterpolatePaths(a ...*string) error {
	for _, s := range a {
		if !strings.HasPrefix(*s, "~/") {
			continue
		}

		u, err := user.Current()
		if err != nil {
			return err
		} else if u.HomeDir == "" {
			return errors.New("home directory not found")
		}
		*s = filepath.Join(u.HomeDir, strings.TrimPrefix(*s, "~/"))
	}
	return nil
}
