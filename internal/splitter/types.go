package splitter

import "sort"

// PosMapping pairs a position in normalized statement text with the raw source
// offset it came from.
type PosMapping struct {
	SQLPos int `json:"sql_pos"`
	RawPos int `json:"raw_pos"`
}

// StatementInfo describes one statement extracted from a script.
// Offsets are 0-based byte offsets into the original source; end offsets are
// exclusive. Values are built once by the splitter and must not be modified.
type StatementInfo struct {
	SQL       string `json:"sql"`       // Normalized text: comments elided, edges trimmed, delimiter removed
	Delimiter string `json:"delimiter"` // Delimiter that closed the statement, "" at end of input

	RawStartOffset int `json:"raw_start_offset"` // Where scanning for this statement began
	RawEndOffset   int `json:"raw_end_offset"`   // Just past the closing delimiter
	StartOffset    int `json:"start_offset"`     // First significant character
	EndOffset      int `json:"end_offset"`       // Just past the last significant character

	StartLine   int `json:"start_line"`   // 1-indexed
	StartColumn int `json:"start_column"` // 0-indexed
	EndLine     int `json:"end_line"`     // Line of the last significant character
	EndColumn   int `json:"end_column"`   // Column of the last significant character

	NewLineOffsets []PosMapping `json:"new_line_offsets"`   // One entry per newline kept in SQL
	SQLPosToRawPos []PosMapping `json:"sql_pos_to_raw_pos"` // Breakpoints where SQL and raw diverge
}

// RawOffset translates a position in SQL to a raw source offset.
// Positions past the end of SQL map past EndOffset.
func (s StatementInfo) RawOffset(sqlPos int) int {
	points := s.SQLPosToRawPos
	if len(points) == 0 {
		return s.StartOffset + sqlPos
	}
	if sqlPos <= 0 {
		return points[0].RawPos + sqlPos
	}
	if sqlPos >= len(s.SQL) {
		return s.EndOffset + sqlPos - len(s.SQL)
	}
	i := sort.Search(len(points), func(i int) bool { return points[i].SQLPos > sqlPos }) - 1
	return points[i].RawPos + sqlPos - points[i].SQLPos
}

// SQLOffset translates a raw source offset to a position in SQL. It reports
// false for offsets outside the statement or inside elided text.
func (s StatementInfo) SQLOffset(raw int) (int, bool) {
	points := s.SQLPosToRawPos
	if len(points) == 0 || raw < s.StartOffset || raw >= s.EndOffset {
		return 0, false
	}
	i := sort.Search(len(points), func(i int) bool { return points[i].RawPos > raw }) - 1
	pos := points[i].SQLPos + raw - points[i].RawPos
	limit := len(s.SQL)
	if i+1 < len(points) {
		limit = points[i+1].SQLPos
	}
	if pos >= limit {
		return 0, false
	}
	return pos, true
}

// Contains reports whether raw lies within the raw extent of the statement
func (s StatementInfo) Contains(raw int) bool {
	return raw >= s.RawStartOffset && raw < s.RawEndOffset
}
