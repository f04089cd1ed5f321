package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"pdfchat/internal/config"
	"pdfchat/internal/domain"
)

type Chatbot interface {
	GenerateResponse(ctx context.Context, userInput string) (domain.Message, error)
	SaveHistory(path string) error
}

// Bot runs the interactive loop: one line in, one reply out.
type Bot struct {
	in       *bufio.Reader
	out      io.Writer
	chat     Chatbot
	cfg      config.Config
	renderer *glamour.TermRenderer
}

func NewBot(in io.Reader, out io.Writer, chat Chatbot, cfg config.Config) *Bot {
	b := &Bot{
		in:   bufio.NewReader(in),
		out:  out,
		chat: chat,
		cfg:  cfg,
	}
	if cfg.RenderMarkdown {
		b.renderer = newRenderer(out)
	}
	return b
}

type inputLine struct {
	text string
	err  error
}

// Run reads user input until a farewell or the end of input, then saves the
// history. Any failure ends the loop, and so does ctx being done, even while
// waiting for input.
func (b *Bot) Run(ctx context.Context) error {
	lines := b.readLines(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(b.out, "You: ")
		var line inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(b.out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				l = inputLine{err: io.EOF}
			}
			line = l
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if line.err != nil && !errors.Is(line.err, io.EOF) {
			return fmt.Errorf("read input: %w", line.err)
		}
		if errors.Is(line.err, io.EOF) && line.text == "" {
			fmt.Fprintln(b.out)
			return b.farewell()
		}

		input := strings.TrimRight(line.text, "\r\n")
		if isFarewell(input) {
			return b.farewell()
		}

		reply, err := b.chat.GenerateResponse(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(b.out, "Bot: "+b.render(reply.Content))
	}
}

// readLines feeds input lines to the returned channel until a read fails or
// ctx is done. A read blocked on input outlives ctx.
func (b *Bot) readLines(ctx context.Context) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		for {
			text, err := b.in.ReadString('\n')
			select {
			case lines <- inputLine{text: text, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

func (b *Bot) farewell() error {
	fmt.Fprintln(b.out, "Bot: Goodbye!")
	if err := b.chat.SaveHistory(b.cfg.HistoryPath); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (b *Bot) render(text string) string {
	if b.renderer == nil {
		return text
	}
	out, err := b.renderer.Render(text)
	if err != nil {
		log.Printf("failed to render reply: %v", err)
		return text
	}
	return strings.TrimSpace(out)
}

func isFarewell(input string) bool {
	switch strings.ToLower(input) {
	case "bye", "goodbye":
		return true
	}
	return false
}

// newRenderer returns nil unless out is a terminal.
func newRenderer(out io.Writer) *glamour.TermRenderer {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}

	width := 80
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 20 {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-10),
	)
	if err != nil {
		log.Printf("markdown rendering disabled: %v", err)
		return nil
	}
	return renderer
}
