package report

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/script"
	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
)

// HTMLReporter renders each script's source with its statements highlighted
type HTMLReporter struct {
	now func() time.Time
}

// NewHTMLReporter creates a new HTML reporter
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{now: time.Now}
}

// Format renders scripts as an HTML page and writes to the writer
func (r *HTMLReporter) Format(scripts []*script.Script, writer io.Writer) error {
	if err := r.writeHeader(writer); err != nil {
		return err
	}
	if err := r.writeSummary(scripts, writer); err != nil {
		return err
	}
	for _, s := range scripts {
		if err := r.writeScript(s, writer); err != nil {
			return err
		}
	}
	return r.writeFooter(writer)
}

// writeHeader writes the HTML document header with CSS
func (r *HTMLReporter) writeHeader(writer io.Writer) error {
	_, err := fmt.Fprintf(writer, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>sqlsplit Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; background: #f5f5f5; color: #333; }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        header { background: #2c3e50; color: white; padding: 30px 0; margin-bottom: 30px; }
        header h1 { font-size: 2.5em; margin-bottom: 10px; }
        header .meta { opacity: 0.8; font-size: 0.9em; }
        .summary { background: white; border-radius: 8px; padding: 25px; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .summary-stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; }
        .stat-card { background: #f8f9fa; padding: 20px; border-radius: 6px; border-left: 4px solid #3498db; }
        .stat-card .label { font-size: 0.85em; color: #7f8c8d; text-transform: uppercase; letter-spacing: 0.5px; margin-bottom: 8px; }
        .stat-card .value { font-size: 2em; font-weight: bold; color: #2c3e50; }
        .file-detail { background: white; border-radius: 8px; padding: 25px; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .file-detail h3 { margin-bottom: 15px; color: #2c3e50; font-family: 'Courier New', monospace; }
        .dialect { font-size: 0.7em; padding: 4px 12px; border-radius: 4px; background: #d6eaf8; color: #1b4f72; }
        .source-code { background: #282c34; color: #5c6370; font-family: 'Courier New', monospace; font-size: 0.9em; line-height: 1.6; border-radius: 6px; overflow-x: auto; }
        .source-line { display: flex; padding: 2px 0; }
        .line-number { padding: 0 15px; text-align: right; user-select: none; min-width: 60px; }
        .line-content { padding: 0 15px; flex: 1; white-space: pre; }
        .stmt { color: #abb2bf; }
        .stmt.even { background: rgba(52, 152, 219, 0.18); }
        .stmt.odd { background: rgba(46, 204, 113, 0.15); }
        .stmt:hover { outline: 1px solid #e5c07b; }
        footer { text-align: center; padding: 30px 0; color: #7f8c8d; font-size: 0.9em; }
    </style>
</head>
<body>
    <header>
        <div class="container">
            <h1>sqlsplit Report</h1>
            <div class="meta">Generated: %s</div>
        </div>
    </header>
    <div class="container">
`, r.now().Format(time.RFC1123))
	return err
}

// writeSummary writes the script and statement totals
func (r *HTMLReporter) writeSummary(scripts []*script.Script, writer io.Writer) error {
	total := 0
	for _, s := range scripts {
		total += len(s.Statements)
	}

	_, err := fmt.Fprintf(writer, `        <section class="summary">
            <div class="summary-stats">
                <div class="stat-card">
                    <div class="label">Scripts</div>
                    <div class="value">%d</div>
                </div>
                <div class="stat-card">
                    <div class="label">Statements</div>
                    <div class="value">%d</div>
                </div>
            </div>
        </section>

`, len(scripts), total)
	return err
}

// writeScript writes the highlighted source of one script
func (r *HTMLReporter) writeScript(s *script.Script, writer io.Writer) error {
	_, err := fmt.Fprintf(writer, `        <section class="file-detail">
            <h3>%s <span class="dialect">%s</span></h3>
            <div class="source-code">
`, html.EscapeString(s.Name), s.Compatibility)
	if err != nil {
		return err
	}

	hl := &highlighter{stmts: s.Statements}
	lineStart := 0
	for lineNum := 1; lineStart <= len(s.Source); lineNum++ {
		lineEnd := strings.IndexByte(s.Source[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(s.Source)
		} else {
			lineEnd += lineStart
		}

		_, err := fmt.Fprintf(writer, `                <div class="source-line"><div class="line-number">%d</div><div class="line-content">%s</div></div>
`, lineNum, hl.line(s.Source, lineStart, lineEnd))
		if err != nil {
			return err
		}
		lineStart = lineEnd + 1
	}

	_, err = io.WriteString(writer, `            </div>
        </section>

`)
	return err
}

// writeFooter writes the HTML document footer
func (r *HTMLReporter) writeFooter(writer io.Writer) error {
	_, err := io.WriteString(writer, `        <footer>
            Generated by <strong>sqlsplit</strong>
        </footer>
    </div>
</body>
</html>
`)
	return err
}

// FormatString returns the report as an HTML string
func (r *HTMLReporter) FormatString(scripts []*script.Script) (string, error) {
	var buf strings.Builder
	if err := r.Format(scripts, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Name returns the name of this reporter
func (r *HTMLReporter) Name() string {
	return "html"
}

// highlighter wraps statement extents in spans, one line at a time. Lines
// must be fed in source order.
type highlighter struct {
	stmts []splitter.StatementInfo
	k     int // first statement that may still cover the current position
}

func (h *highlighter) line(src string, start, end int) string {
	var sb strings.Builder
	for pos := start; pos < end; {
		for h.k < len(h.stmts) && h.stmts[h.k].EndOffset <= pos {
			h.k++
		}

		if h.k < len(h.stmts) && h.stmts[h.k].StartOffset <= pos {
			st := h.stmts[h.k]
			stop := min(st.EndOffset, end)
			parity := "even"
			if h.k%2 == 1 {
				parity = "odd"
			}
			fmt.Fprintf(&sb, `<span class="stmt %s" data-index="%d" data-start="%d" data-end="%d" title="statement %d (%d:%d)">%s</span>`,
				parity, h.k, st.StartOffset, st.EndOffset, h.k+1, st.StartLine, st.StartColumn,
				html.EscapeString(src[pos:stop]))
			pos = stop
			continue
		}

		stop := end
		if h.k < len(h.stmts) {
			stop = min(stop, h.stmts[h.k].StartOffset)
		}
		sb.WriteString(html.EscapeString(src[pos:stop]))
		pos = stop
	}
	return sb.String()
}
