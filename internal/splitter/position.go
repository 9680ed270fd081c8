package splitter

import (
	"sort"
	"strings"
)

// builder accumulates the normalized text of one statement together with the
// breakpoints that map it back to the raw source.
type builder struct {
	sb     strings.Builder
	points []PosMapping
	next   int // raw offset that would continue the last written run
	gap    int // raw offset of an elided comment awaiting a separator, -1 if none
}

func newBuilder() *builder {
	return &builder{next: -1, gap: -1}
}

func (b *builder) empty() bool { return b.sb.Len() == 0 }

// write appends src[raw:raw+n]. Whitespace is dropped while the buffer is empty.
func (b *builder) write(src string, raw, n int) {
	if b.empty() {
		for n > 0 && isSpace(src[raw]) {
			raw++
			n--
		}
		if n == 0 {
			return
		}
	}
	if b.gap >= 0 {
		if !isSpace(src[raw]) {
			b.mark(b.gap)
			b.sb.WriteByte(' ')
			b.next = -1
		}
		b.gap = -1
	}
	if raw != b.next {
		b.mark(raw)
	}
	b.sb.WriteString(src[raw : raw+n])
	b.next = raw + n
}

// elide records that src[raw:raw+n] was dropped from the normalized text
func (b *builder) elide(src string, raw, n int) {
	if n == 0 || b.empty() {
		return
	}
	s := b.sb.String()
	if b.gap >= 0 || !isSpace(s[len(s)-1]) {
		b.gap = raw + n - 1
	}
}

func (b *builder) mark(raw int) {
	b.points = append(b.points, PosMapping{SQLPos: b.sb.Len(), RawPos: raw})
}

// text returns the trimmed statement and the breakpoints that fall inside it
func (b *builder) text() (string, []PosMapping) {
	s := strings.TrimRightFunc(b.sb.String(), func(r rune) bool {
		return r < 0x80 && isSpace(byte(r))
	})
	points := b.points
	for len(points) > 0 && points[len(points)-1].SQLPos >= len(s) {
		points = points[:len(points)-1]
	}
	return s, points
}

func (b *builder) reset() {
	b.sb.Reset()
	b.points = nil
	b.next = -1
	b.gap = -1
}

// rawOffset maps sqlPos through points; sqlPos must lie inside the text
func rawOffset(points []PosMapping, sqlPos int) int {
	i := sort.Search(len(points), func(i int) bool { return points[i].SQLPos > sqlPos }) - 1
	return points[i].RawPos + sqlPos - points[i].SQLPos
}

// newLineOffsets lists, for every newline kept in sql, its position and raw offset
func newLineOffsets(sql string, points []PosMapping) []PosMapping {
	var out []PosMapping
	for i := 0; i < len(sql); i++ {
		if sql[i] == '\n' {
			out = append(out, PosMapping{SQLPos: i, RawPos: rawOffset(points, i)})
		}
	}
	return out
}

// LineIndex answers line/column queries over a source text
type LineIndex struct {
	newlines []int
}

// NewLineIndex records the offset of every newline in src
func NewLineIndex(src string) *LineIndex {
	idx := &LineIndex{}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			idx.newlines = append(idx.newlines, i)
		}
	}
	return idx
}

// Position returns the 1-based line and 0-based byte column of offset
func (l *LineIndex) Position(offset int) (line, column int) {
	n := sort.SearchInts(l.newlines, offset)
	lineStart := 0
	if n > 0 {
		lineStart = l.newlines[n-1] + 1
	}
	return n + 1, offset - lineStart
}

// Lines returns the number of lines in the indexed source
func (l *LineIndex) Lines() int {
	return len(l.newlines) + 1
}

// Offset returns the raw offset of a 1-based line and 0-based column.
// It reports false when the line does not exist.
func (l *LineIndex) Offset(line, column int) (int, bool) {
	if line < 1 || line > len(l.newlines)+1 || column < 0 {
		return 0, false
	}
	start := 0
	if line > 1 {
		start = l.newlines[line-2] + 1
	}
	return start + column, true
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
