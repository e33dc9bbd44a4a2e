// Package output formats command results: a JSON envelope for scripts,
// styled tables for terminals, and quiet/ids/count modes for shell
// plumbing.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/meropasal/pasal-cli/internal/apperr"
)

// Response is the success envelope for JSON output.
type Response struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// ErrorResponse is the error envelope for JSON output.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code"`
	Hint  string `json:"hint,omitempty"`
}

// Format specifies the output format.
type Format int

const (
	FormatAuto Format = iota // TTY gets styled, pipes get JSON
	FormatJSON
	FormatStyled
	FormatQuiet
	FormatIDs
	FormatCount
)

// ParseFormat maps the --format flag value.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "styled":
		return FormatStyled, nil
	case "quiet":
		return FormatQuiet, nil
	case "ids":
		return FormatIDs, nil
	case "count":
		return FormatCount, nil
	}
	return FormatAuto, fmt.Errorf("unknown format %q", s)
}

// Options controls output behavior.
type Options struct {
	Format Format
	Writer io.Writer
}

// Writer handles all output formatting.
type Writer struct {
	opts Options
}

// New creates an output writer. A nil Options.Writer defaults to stdout.
func New(opts Options) *Writer {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	return &Writer{opts: opts}
}

// OK outputs a success response.
func (w *Writer) OK(data any, summary string) error {
	return w.write(&Response{OK: true, Data: data, Summary: summary})
}

// Err outputs an error response.
func (w *Writer) Err(err error) error {
	e := apperr.As(err)
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	return w.write(&ErrorResponse{
		OK:    false,
		Error: msg,
		Code:  string(e.Kind),
		Hint:  e.Hint,
	})
}

func (w *Writer) write(v any) error {
	format := w.opts.Format
	if format == FormatAuto {
		if isTTY(w.opts.Writer) {
			format = FormatStyled
		} else {
			format = FormatJSON
		}
	}

	switch format {
	case FormatQuiet:
		if resp, ok := v.(*Response); ok {
			return w.writeJSON(resp.Data)
		}
		return w.writeJSON(v)
	case FormatIDs:
		return w.writeIDs(v)
	case FormatCount:
		return w.writeCount(v)
	case FormatStyled:
		return w.writeStyled(v)
	default:
		return w.writeJSON(v)
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func (w *Writer) writeJSON(v any) error {
	enc := json.NewEncoder(w.opts.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (w *Writer) writeIDs(v any) error {
	resp, ok := v.(*Response)
	if !ok {
		return w.writeJSON(v)
	}

	switch d := normalize(resp.Data).(type) {
	case []map[string]any:
		for _, item := range d {
			if id, ok := item["id"]; ok {
				fmt.Fprintln(w.opts.Writer, id)
			}
		}
	case map[string]any:
		if id, ok := d["id"]; ok {
			fmt.Fprintln(w.opts.Writer, id)
		}
	}
	return nil
}

func (w *Writer) writeCount(v any) error {
	resp, ok := v.(*Response)
	if !ok {
		return w.writeJSON(v)
	}

	switch d := normalize(resp.Data).(type) {
	case []map[string]any:
		fmt.Fprintln(w.opts.Writer, len(d))
	case []any:
		fmt.Fprintln(w.opts.Writer, len(d))
	default:
		fmt.Fprintln(w.opts.Writer, 1)
	}
	return nil
}

func (w *Writer) writeStyled(v any) error {
	r := NewRenderer(w.opts.Writer, true)
	switch resp := v.(type) {
	case *Response:
		return r.RenderResponse(w.opts.Writer, resp)
	case *ErrorResponse:
		return r.RenderError(w.opts.Writer, resp)
	default:
		return w.writeJSON(v)
	}
}

// normalize converts typed structs and slices into the generic map form
// the table renderer understands, via a JSON round trip.
func normalize(data any) any {
	switch data.(type) {
	case []map[string]any, map[string]any, nil:
		return data
	}

	raw, ok := data.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(data)
		if err != nil {
			return data
		}
		raw = b
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return data
	}

	if list, ok := decoded.([]any); ok {
		maps := make([]map[string]any, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return decoded
			}
			maps = append(maps, m)
		}
		return maps
	}
	return decoded
}
