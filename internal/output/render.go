package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/term"
)

// Renderer handles styled terminal output.
type Renderer struct {
	width  int
	styled bool

	Summary lipgloss.Style
	Muted   lipgloss.Style
	Data    lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style

	Header    lipgloss.Style
	Cell      lipgloss.Style
	CellMuted lipgloss.Style
}

// NewRenderer creates a renderer. Styling is enabled when writing to a
// TTY, or when forceStyled is set.
func NewRenderer(w io.Writer, forceStyled bool) *Renderer {
	width, isTTY := terminalInfo(w)
	styled := isTTY || forceStyled

	if styled {
		lipgloss.SetColorProfile(2) // TrueColor
	} else {
		lipgloss.SetColorProfile(0) // Ascii
	}

	r := &Renderer{width: width, styled: styled}
	if styled {
		r.Summary = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dd3fc")).Bold(true)
		r.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
		r.Data = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb"))
		r.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Bold(true)
		r.Hint = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Italic(true)
		r.Header = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb")).Bold(true)
		r.Cell = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb"))
		r.CellMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	}
	return r
}

func terminalInfo(w io.Writer) (width int, isTTY bool) {
	width = 80
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(f.Fd()); err == nil && tw >= 40 {
			width = tw
		}
		if fi, err := f.Stat(); err == nil && (fi.Mode()&os.ModeCharDevice) != 0 {
			isTTY = true
		}
	}
	return width, isTTY
}

// RenderResponse renders a success response.
func (r *Renderer) RenderResponse(w io.Writer, resp *Response) error {
	var b strings.Builder

	if resp.Summary != "" {
		b.WriteString(r.Summary.Render(resp.Summary))
		b.WriteString("\n\n")
	}
	r.renderData(&b, normalize(resp.Data))

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderError renders an error response.
func (r *Renderer) RenderError(w io.Writer, resp *ErrorResponse) error {
	var b strings.Builder

	b.WriteString(r.Error.Render("Error: " + resp.Error))
	b.WriteString("\n")
	if resp.Hint != "" {
		b.WriteString(r.Hint.Render("Hint: " + resp.Hint))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) renderData(b *strings.Builder, data any) {
	switch d := data.(type) {
	case []map[string]any:
		if len(d) == 0 {
			b.WriteString(r.Muted.Render("(no results)"))
			b.WriteString("\n")
			return
		}
		r.renderTable(b, d)
	case map[string]any:
		r.renderObject(b, d)
	case string:
		b.WriteString(r.Data.Render(d))
		b.WriteString("\n")
	case nil:
		b.WriteString(r.Muted.Render("(no data)"))
		b.WriteString("\n")
	default:
		b.WriteString(r.Data.Render(fmt.Sprintf("%v", data)))
		b.WriteString("\n")
	}
}

// Column ordering for the storefront entities; lower sorts first.
var columnPriority = map[string]int{
	"id":            1,
	"orderNumber":   1,
	"name":          2,
	"businessName":  2,
	"productName":   2,
	"customerName":  3,
	"paymentMethod": 4,
	"status":        4,
	"active":        4,
	"price":         5,
	"unitPrice":     5,
	"total":         5,
	"totalPrice":    5,
	"totalAmount":   5,
	"quantity":      6,
	"stock":         6,
	"totalItems":    6,
	"shopUrl":       7,
	"district":      8,
	"province":      8,
	"createdAt":     9,
	"updatedAt":     10,
}

var mutedColumns = map[string]bool{
	"id":        true,
	"shopId":    true,
	"createdAt": true,
	"updatedAt": true,
}

// Nested or noisy fields kept out of tables.
var skipColumns = map[string]bool{
	"owner":           true,
	"theme":           true,
	"items":           true,
	"shippingAddress": true,
	"images":          true,
	"productImages":   true,
	"variantData":     true,
	"credentialsMask": true,
	"description":     true,
	"imageUrl":        true,
	"bannerUrl":       true,
	"logoUrl":         true,
	"productImage":    true,
}

type column struct {
	key      string
	header   string
	priority int
	muted    bool
	width    int
}

func (r *Renderer) renderTable(b *strings.Builder, data []map[string]any) {
	columns := detectColumns(data)
	if len(columns) == 0 {
		return
	}
	columns = r.selectColumns(columns, data)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.Header
			}
			if col < len(columns) && columns[col].muted {
				return r.CellMuted
			}
			return r.Cell
		})

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.header
	}
	t.Headers(headers...)

	for _, item := range data {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = formatCell(item[col.key])
		}
		t.Row(row...)
	}

	b.WriteString(t.String())
	b.WriteString("\n")
}

func detectColumns(data []map[string]any) []column {
	if len(data) == 0 {
		return nil
	}

	var cols []column
	for key, val := range data[0] {
		if skipColumns[key] {
			continue
		}
		switch val.(type) {
		case map[string]any, []map[string]any, []any:
			continue
		}

		priority := columnPriority[key]
		if priority == 0 {
			priority = 50
		}
		cols = append(cols, column{
			key:      key,
			header:   formatHeader(key),
			priority: priority,
			muted:    mutedColumns[key],
		})
	}

	sort.Slice(cols, func(i, j int) bool {
		if cols[i].priority != cols[j].priority {
			return cols[i].priority < cols[j].priority
		}
		return cols[i].key < cols[j].key
	})
	return cols
}

func (r *Renderer) selectColumns(cols []column, data []map[string]any) []column {
	for i := range cols {
		cols[i].width = lipgloss.Width(cols[i].header)
		for _, row := range data {
			if w := lipgloss.Width(formatCell(row[cols[i].key])); w > cols[i].width {
				cols[i].width = w
			}
		}
		if cols[i].width > 40 {
			cols[i].width = 40
		}
	}

	padding := 2
	selected := make([]column, len(cols))
	copy(selected, cols)
	for len(selected) > 1 {
		total := 0
		for _, col := range selected {
			total += col.width + padding
		}
		if total <= r.width {
			break
		}
		selected = selected[:len(selected)-1]
	}
	return selected
}

func (r *Renderer) renderObject(b *strings.Builder, data map[string]any) {
	type field struct {
		key      string
		priority int
	}
	var fields []field
	for k := range data {
		if skipColumns[k] {
			continue
		}
		switch data[k].(type) {
		case map[string]any, []map[string]any:
			continue
		}
		priority := columnPriority[k]
		if priority == 0 {
			priority = 50
		}
		fields = append(fields, field{key: k, priority: priority})
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].priority != fields[j].priority {
			return fields[i].priority < fields[j].priority
		}
		return fields[i].key < fields[j].key
	})

	if len(fields) == 0 {
		b.WriteString(r.Muted.Render("(no data)"))
		b.WriteString("\n")
		return
	}

	maxLen := 0
	for _, f := range fields {
		if l := len(formatHeader(f.key)); l > maxLen {
			maxLen = l
		}
	}

	for _, f := range fields {
		label := r.Muted.Render(fmt.Sprintf("%-*s: ", maxLen, formatHeader(f.key)))
		style := r.Data
		if mutedColumns[f.key] {
			style = r.CellMuted
		}
		b.WriteString(label + style.Render(formatDateValue(f.key, data[f.key])) + "\n")
	}
}

func formatHeader(key string) string {
	var words []string
	start := 0
	for i, c := range key {
		if i > 0 && c >= 'A' && c <= 'Z' {
			words = append(words, key[start:i])
			start = i
		}
	}
	words = append(words, key[start:])
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatCell(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		if len(v) > 40 {
			return v[:37] + "..."
		}
		return v
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case float64:
		if v == float64(int(v)) {
			return fmt.Sprintf("%d", int(v))
		}
		return fmt.Sprintf("%.2f", v)
	case int, int64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatDateValue shows createdAt/updatedAt style timestamps as relative
// times when recent.
func formatDateValue(key string, val any) string {
	if !strings.HasSuffix(key, "At") {
		return formatCell(val)
	}
	str, ok := val.(string)
	if !ok || str == "" {
		return formatCell(val)
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return formatCell(val)
	}

	diff := time.Since(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
