// Package cli implements an apex/log handler for the terminal: progress goes
// to standard output, warnings and errors to standard error.
package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/apex/log"
	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
)

// Colors mapping.
var Colors = [...]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed),
}

// Labels mapping, appended to the prefix.
var Labels = [...]string{
	log.DebugLevel: " debug",
	log.InfoLevel:  "",
	log.WarnLevel:  " warning",
	log.ErrorLevel: " error",
	log.FatalLevel: " error",
}

// Handler implementation.
type Handler struct {
	mu     sync.Mutex
	Out    io.Writer
	Err    io.Writer
	Prefix string
	Color  bool
}

// New handler. Colors are only used when colored is set; *os.File writers
// are wrapped so escape sequences also work on Windows consoles.
func New(out, errw io.Writer, prefix string, colored bool) *Handler {
	if colored {
		out = wrap(out)
		errw = wrap(errw)
	}
	return &Handler{
		Out:    out,
		Err:    errw,
		Prefix: prefix,
		Color:  colored,
	}
}

func wrap(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok {
		return colorable.NewColorable(f)
	}
	return w
}

// TypedLog handles entries carrying a "type" field.
func (h *Handler) TypedLog(t string, e *log.Entry) error {
	switch t {
	case "item":
		_, err := fmt.Fprintf(h.Out, "  - %s\n", e.Message)
		return err
	case "raw":
		_, err := fmt.Fprintln(h.writer(e.Level), e.Message)
		return err
	default:
		return h.DefaultLog(e)
	}
}

// DefaultLog prints "<prefix><label>: <message> key=value...".
func (h *Handler) DefaultLog(e *log.Entry) error {
	head := h.Prefix + Labels[e.Level] + ":"
	if h.Color {
		head = Colors[e.Level].Sprint(head)
	}

	s := head + " " + e.Message
	for _, name := range e.Fields.Names() {
		if name == "source" || name == "type" {
			continue
		}
		s += fmt.Sprintf(" %s=%v", name, e.Fields.Get(name))
	}
	_, err := fmt.Fprintln(h.writer(e.Level), s)
	return err
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := e.Fields["type"].(string); ok {
		return h.TypedLog(t, e)
	}
	return h.DefaultLog(e)
}

func (h *Handler) writer(level log.Level) io.Writer {
	if level >= log.WarnLevel {
		return h.Err
	}
	return h.Out
}
