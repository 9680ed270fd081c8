package splitter

import "sort"

// FindStatementAtOffset returns the statement under a caret at offset.
//
// Offsets between two statements (on a delimiter, whitespace or comments)
// belong to the preceding statement, even when they fall inside the raw extent
// of the next one: the search keys on StartOffset, so the leading slack of
// statement i+1 resolves to statement i. Offsets past the last statement belong
// to the last one, and leading slack before the first statement belongs to the
// first. Nothing is found only for an empty list or an offset before the raw
// start of the first statement.
func FindStatementAtOffset(stmts []StatementInfo, offset int, src string) (StatementInfo, bool) {
	i := FindStatementIndex(stmts, offset, src)
	if i < 0 {
		return StatementInfo{}, false
	}
	return stmts[i], true
}

// FindStatementIndex is FindStatementAtOffset returning an index into stmts, or -1
func FindStatementIndex(stmts []StatementInfo, offset int, src string) int {
	if len(stmts) == 0 || offset < stmts[0].RawStartOffset {
		return -1
	}
	if offset > len(src) {
		offset = len(src)
	}
	i := sort.Search(len(stmts), func(i int) bool { return stmts[i].StartOffset > offset }) - 1
	if i < 0 {
		return 0
	}
	return i
}
