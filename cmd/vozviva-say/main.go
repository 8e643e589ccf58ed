// Vozviva-say sends a script to a running VozViva studio and saves the
// generated WAV file.
//
// Usage:
//
//	vozviva-say [flags] texto a sintetizar
//	echo "Hola" | vozviva-say -voice kore-f -o hola.wav
//	vozviva-say -voices
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/dgnsrekt/vozviva-go/internal/client"
	"github.com/dgnsrekt/vozviva-go/internal/logging"
	"github.com/dgnsrekt/vozviva-go/internal/studio"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

func main() {
	serverURL := flag.String("server", envOr("VOZVIVA_SERVER", client.DefaultServerURL), "studio base URL")
	token := flag.String("token", os.Getenv("VOZVIVA_BEARER_TOKEN"), "bearer token for the studio API")
	voiceID := flag.String("voice", "", "voice id (see -voices)")
	region := flag.String("region", "", "accent region (e.g. neutral, mexico, spain)")
	style := flag.String("style", "", "delivery style (e.g. natural, cheerful)")
	speed := flag.String("speed", "", "speaking rate: slow, medium or fast")
	pitch := flag.String("pitch", "", "voice pitch: low, medium or high")
	output := flag.String("o", "", "output file (defaults to the server's filename)")
	listVoices := flag.Bool("voices", false, "list available voices and exit")
	timeout := flag.Duration("timeout", 90*time.Second, "request timeout")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger := logging.NewWriter(os.Stderr, *logLevel, "text")

	clientCfg := &client.Config{
		ServerURL:   strings.TrimRight(*serverURL, "/"),
		BearerToken: *token,
		Timeout:     *timeout,
	}
	if err := clientCfg.Validate(); err != nil {
		fail("invalid flags", err)
	}
	c := client.New(clientCfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *listVoices {
		if err := printVoices(ctx, c, os.Stdout); err != nil {
			fail("failed to list voices", err)
		}
		return
	}

	text, err := readText(flag.Args(), os.Stdin)
	if err != nil {
		fail("failed to read text", err)
	}
	if strings.TrimSpace(text) == "" {
		fail("no text given", fmt.Errorf("pass the script as arguments or on stdin"))
	}

	patch := studio.ConfigPatch{Text: &text}
	patch.VoiceID = optional(*voiceID)
	patch.Region = optional(*region)
	patch.Style = optional(*style)
	patch.Speed = optional(*speed)
	patch.Pitch = optional(*pitch)

	yellow.Fprintln(os.Stderr, "Generando audio...")
	item, err := c.Generate(ctx, patch)
	if err != nil {
		fail("generation failed", err)
	}

	data, filename, err := c.Download(ctx, item.ID)
	if err != nil {
		fail("download failed", err)
	}

	path := outputPath(*output, filename, item.Filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail("failed to write audio", err)
	}

	green.Fprintf(os.Stderr, "%s guardado (%s, %d bytes)\n", path, item.VoiceName, len(data))
}

// readText joins the positional arguments, or reads stdin when there are none.
func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func printVoices(ctx context.Context, c *client.Client, w io.Writer) error {
	voices, err := c.Voices(ctx)
	if err != nil {
		return err
	}
	for _, v := range voices {
		bold.Fprintf(w, "%-22s", v.ID)
		fmt.Fprintf(w, " %-14s %-10s %s\n", v.Name, v.Gender.Label(), v.BaseVoice)
	}
	return nil
}

// outputPath picks the -o flag, then the server's download name, then the
// history item's filename.
func outputPath(flagValue, served, fallback string) string {
	switch {
	case flagValue != "":
		return flagValue
	case served != "":
		return filepath.Base(served)
	default:
		return filepath.Base(fallback)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fail(msg string, err error) {
	red.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
