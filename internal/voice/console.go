package voice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/tui"
)

// exitWords end a console session when typed on their own.
//
//nolint:gochecknoglobals // read-only lookup table
var exitWords = map[string]struct{}{"exit": {}, "quit": {}, "/bye": {}}

// maxUtteranceBytes caps a single line read by LineSource.
const maxUtteranceBytes = 1 << 20

// LineSource reads one utterance per line from r.
type LineSource struct {
	lines *bufio.Scanner
}

// NewLineSource creates a LineSource over r.
func NewLineSource(r io.Reader) *LineSource {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxUtteranceBytes)
	return &LineSource{lines: lines}
}

// Next returns the next line, or io.EOF at end of input or on an exit word.
func (s *LineSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !s.lines.Scan() {
		err := s.lines.Err()
		if errors.Is(err, bufio.ErrTooLong) {
			return "", fmt.Errorf("utterance longer than %d bytes: %w", maxUtteranceBytes, err)
		}
		if err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return checkExit(s.lines.Text())
}

// PromptSource asks for each utterance with an interactive huh input.
type PromptSource struct{}

// Next shows an input prompt and returns the entered text.
// Aborting the prompt (Ctrl+C) ends the session with ErrUserAborted.
func (PromptSource) Next(ctx context.Context) (string, error) {
	var text string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("You").
				Placeholder("Describe what your team should do").
				Value(&text),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", crewerrors.ErrUserAborted
		}
		return "", err
	}
	return checkExit(text)
}

// NewConsoleSource returns a PromptSource when in is an interactive
// terminal and a LineSource otherwise.
func NewConsoleSource(in *os.File) Source {
	if term.IsTerminal(int(in.Fd())) {
		return PromptSource{}
	}
	return NewLineSource(in)
}

func checkExit(text string) (string, error) {
	if _, ok := exitWords[strings.ToLower(strings.TrimSpace(text))]; ok {
		return "", io.EOF
	}
	return text, nil
}

// ConsoleSink prints replies and generated teams to a terminal.
type ConsoleSink struct {
	w       io.Writer
	catalog *catalog.Catalog
	styles  *tui.SpeakerStyles
}

// NewConsoleSink creates a ConsoleSink writing to w.
func NewConsoleSink(w io.Writer, cat *catalog.Catalog) *ConsoleSink {
	tui.CheckNoColor()
	if cat == nil {
		cat = catalog.Default()
	}
	return &ConsoleSink{w: w, catalog: cat, styles: tui.NewSpeakerStyles()}
}

// Speak prints text under the assistant label.
func (c *ConsoleSink) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintf(c.w, "%s %s\n\n", c.styles.Assistant.Render("Assistant:"), text)
	return err
}

// TeamGenerated prints the team as rendered markdown.
func (c *ConsoleSink) TeamGenerated(_ context.Context, team *domain.TeamConfiguration) error {
	_, err := fmt.Fprintln(c.w, tui.RenderMarkdown(tui.TeamMarkdown(team, c.catalog)))
	return err
}
