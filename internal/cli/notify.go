package cli

import (
	"context"
	"fmt"
	"io"
)

// TerminalNotifier prints reminders to the terminal. It is the only
// notification channel of the CLI.
type TerminalNotifier struct {
	w io.Writer
}

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

func (n *TerminalNotifier) Notify(ctx context.Context, title, body string) error {
	_, err := fmt.Fprintf(n.w, "\n[reminder] %s: %s\n", title, body)
	return err
}
