package channel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Console is a line-oriented Channel over an io.Reader/io.Writer pair,
// used for local runs and demos without a real messaging transport. Every
// input line becomes a message from a single synthetic user.
type Console struct {
	UserID   string
	UserName string

	out io.Writer
	in  *bufio.Scanner
	log zerolog.Logger

	msgs chan Message
}

// NewConsole builds a console channel reading from r and writing to w.
func NewConsole(r io.Reader, w io.Writer, log zerolog.Logger) *Console {
	return &Console{
		UserID:   "console",
		UserName: "Console",
		out:      w,
		in:       bufio.NewScanner(r),
		log:      log,
		msgs:     make(chan Message),
	}
}

// Run pumps input lines into the inbound stream until EOF or ctx is done,
// then closes the stream.
func (c *Console) Run(ctx context.Context) {
	defer close(c.msgs)
	for c.in.Scan() {
		text := strings.TrimSpace(c.in.Text())
		if text == "" {
			continue
		}
		select {
		case c.msgs <- Message{SenderID: c.UserID, SenderName: c.UserName, Text: text}:
		case <-ctx.Done():
			return
		}
	}
	if err := c.in.Err(); err != nil {
		c.log.Error().Err(err).Msg("console input closed with error")
	}
}

// Messages returns the inbound stream.
func (c *Console) Messages() <-chan Message { return c.msgs }

// SendText writes a reply line.
func (c *Console) SendText(_ context.Context, _ string, text string) error {
	_, err := fmt.Fprintln(c.out, text)
	return err
}

// SendFile announces the attachment path; the console has no file transfer.
func (c *Console) SendFile(_ context.Context, _ string, path string) error {
	_, err := fmt.Fprintf(c.out, "[arquivo: %s]\n", path)
	return err
}

// SetTyping is a no-op on the console.
func (c *Console) SetTyping(context.Context, string, bool) error { return nil }
