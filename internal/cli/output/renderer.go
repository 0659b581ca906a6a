// Package output renders command results as text tables, markdown or JSON.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto" // text on a terminal, markdown otherwise
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes results in one Mode. Auto is resolved when the renderer is
// created.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	title  cases.Caser
}

// NewRenderer returns a renderer writing results to out and diagnostics to
// errOut.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" || mode == ModeAuto {
		mode = detect(out)
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		title:  cases.Title(language.English),
	}
}

func detect(w io.Writer) Mode {
	if f, ok := w.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		return ModeText
	}
	return ModeMarkdown
}

// Mode returns the resolved mode, never ModeAuto.
func (r *Renderer) Mode() Mode { return r.mode }

// Out returns the result writer.
func (r *Renderer) Out() io.Writer { return r.out }

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes rows under header. Header labels are title-cased.
func (r *Renderer) Table(title string, header []string, rows [][]string) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Title.Format = text.FormatDefault
	t.SetStyle(style)

	h := make(table.Row, len(header))
	for i, col := range header {
		h[i] = r.title.String(col)
	}
	t.AppendHeader(h)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	switch r.mode {
	case ModeMarkdown:
		if title != "" {
			_, _ = fmt.Fprintf(r.out, "## %s\n\n", r.title.String(title))
		}
		t.RenderMarkdown()
		_, _ = fmt.Fprintln(r.out)
	default:
		if title != "" {
			t.SetTitle(r.title.String(title))
		}
		t.Render()
	}
	return nil
}

// Println writes one line of plain output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Warn writes a warning to the diagnostic writer.
func (r *Renderer) Warn(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, "warning: "+format+"\n", args...)
}

type rendererKey struct{}

// WithRenderer stores r in ctx.
func WithRenderer(ctx context.Context, r *Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// FromContext retrieves the renderer from ctx, or an auto renderer on the
// standard streams.
func FromContext(ctx context.Context) *Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*Renderer); ok && r != nil {
		return r
	}
	return NewRenderer(os.Stdout, os.Stderr, ModeAuto)
}
