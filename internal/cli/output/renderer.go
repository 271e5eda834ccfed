// Package output renders CLI results for terminals and pipes.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode selects how results are rendered.
type Mode string

// Output modes.
const (
	ModeAuto Mode = "auto" // styled text on a terminal, plain text otherwise
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// ParseMode normalizes a mode name; unknown names fall back to ModeAuto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(s)) {
	case ModeText:
		return ModeText
	case ModeJSON:
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	styles := PlainStyles()
	if isTTY && mode != ModeJSON {
		styles = DefaultStyles()
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		mode:   mode,
		styles: styles,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto to ModeText.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode == ModeJSON {
		return ModeJSON
	}
	return ModeText
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the styles for the current output.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to the output.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to the output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Errorf writes formatted text to the error output.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, args...)
}

// Success writes a styled success line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render(msg))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
