package splitter

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/google/go-cmp/cmp"
)

// split fails the test on an argument error and returns the statements
func split(t *testing.T, src string, c dialect.Compatibility) []StatementInfo {
	t.Helper()
	stmts, err := Split(src, c)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	return stmts
}

// sqlTexts returns just the SQL values
func sqlTexts(stmts []StatementInfo) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.SQL
	}
	return out
}

func TestSplit_Statements(t *testing.T) {
	tests := []struct {
		name   string
		compat dialect.Compatibility
		src    string
		want   []string
	}{
		{
			name: "two statements",
			src:  "select foo; select bar",
			want: []string{"select foo", "select bar"},
		},
		{
			name: "delimiter directive",
			src:  "DELIMITER //\nSELECT 1//\nDELIMITER ;\nSELECT 2;",
			want: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "delimiter inside string literal",
			src:  "select 'a;b'; select c",
			want: []string{"select 'a;b'", "select c"},
		},
		{
			name: "directive inside line comment",
			src:  "-- DELIMITER //\nselect 1;",
			want: []string{"select 1"},
		},
		{
			name: "directive inside block comment",
			src:  "/* DELIMITER // */ select 1; select 2//",
			want: []string{"select 1", "select 2//"},
		},
		{
			name: "delimiter inside block comment",
			src:  "select 1 /* ; */; select 2",
			want: []string{"select 1", "select 2"},
		},
		{
			name: "delimiter inside line comment",
			src:  "select 1 -- ; no split\n, 2; select 3",
			want: []string{"select 1 \n, 2", "select 3"},
		},
		{
			name: "empty statements collapse",
			src:  ";;; select 1;;\n;",
			want: []string{"select 1"},
		},
		{
			name: "only comments and whitespace",
			src:  "  \n-- nothing\n/* here */ ;\n",
			want: nil,
		},
		{
			name: "empty input",
			src:  "",
			want: nil,
		},
		{
			name: "no trailing delimiter",
			src:  "select 1;\nselect 2\n\n",
			want: []string{"select 1", "select 2"},
		},
		{
			name: "unterminated string consumes the rest",
			src:  "select 'abc; select 2",
			want: []string{"select 'abc; select 2"},
		},
		{
			name: "unterminated block comment consumes the rest",
			src:  "select 1 /* never closed; select 2",
			want: []string{"select 1"},
		},
		{
			name: "unterminated identifier consumes the rest",
			src:  `select "abc; select 2`,
			want: []string{`select "abc; select 2`},
		},
		{
			name: "escaped quotes",
			src:  `select 'it''s'; select "a""b"`,
			want: []string{`select 'it''s'`, `select "a""b"`},
		},
		{
			name: "comment between tokens becomes a space",
			src:  "select/*c*/1;",
			want: []string{"select 1"},
		},
		{
			name: "comment next to whitespace is dropped",
			src:  "select /* c */ 1;",
			want: []string{"select  1"},
		},
		{
			name: "internal whitespace preserved",
			src:  "  select\n\t1 ,\n 2  ;",
			want: []string{"select\n\t1 ,\n 2"},
		},
		{
			name: "hash is text in generic",
			src:  "select 1 # c; x\n;",
			want: []string{"select 1 # c", "x"},
		},
		{
			name:   "hash comment in mysql",
			compat: dialect.MySQL,
			src:    "select 1 # c; x\n;",
			want:   []string{"select 1"},
		},
		{
			name:   "backtick identifier in mysql",
			compat: dialect.MySQL,
			src:    "select `a;b` from t; select 2",
			want:   []string{"select `a;b` from t", "select 2"},
		},
		{
			name:   "backslash escape in mysql",
			compat: dialect.MySQL,
			src:    `select 'it\'s;'; select 2`,
			want:   []string{`select 'it\'s;'`, "select 2"},
		},
		{
			name:   "mysql procedure with custom delimiter",
			compat: dialect.MySQL,
			src:    "DELIMITER $$\nCREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND$$\nDELIMITER ;\nCALL p();",
			want:   []string{"CREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND", "CALL p()"},
		},
		{
			name: "bracket identifier in generic",
			src:  "select [a;b]]c]; x",
			want: []string{"select [a;b]]c]", "x"},
		},
		{
			name:   "brackets are not quotes in postgres",
			compat: dialect.PostgreSQL,
			src:    "select [a;b]",
			want:   []string{"select [a", "b]"},
		},
		{
			name:   "dollar quoted function body",
			compat: dialect.PostgreSQL,
			src:    "create function f() returns int as $body$ begin return 1; end; $body$ language plpgsql;\nselect $$a;b$$;\nselect $1;",
			want: []string{
				"create function f() returns int as $body$ begin return 1; end; $body$ language plpgsql",
				"select $$a;b$$",
				"select $1",
			},
		},
		{
			name:   "differing dollar tags nest",
			compat: dialect.PostgreSQL,
			src:    "select $a$ x $b$ ; $b$ ; $a$; select 2",
			want:   []string{"select $a$ x $b$ ; $b$ ; $a$", "select 2"},
		},
		{
			name: "dollar signs are text in generic",
			src:  "select $a$ x $b$ ; $b$ ; $a$; select 2",
			want: []string{"select $a$ x $b$", "$b$", "$a$", "select 2"},
		},
		{
			name:   "unterminated dollar quote",
			compat: dialect.PostgreSQL,
			src:    "select $$ a; b",
			want:   []string{"select $$ a; b"},
		},
		{
			name:   "dollar after identifier is not a quote",
			compat: dialect.PostgreSQL,
			src:    "select a$b$ from t; select 2",
			want:   []string{"select a$b$ from t", "select 2"},
		},
		{
			name:   "dollar run inside identifier",
			compat: dialect.PostgreSQL,
			src:    "select a$$x$$ from t; select 2",
			want:   []string{"select a$$x$$ from t", "select 2"},
		},
		{
			name: "slash delimiter keeps block comments",
			src:  "DELIMITER /\nselect 1 /* c */ /\nselect 2/",
			want: []string{"select 1", "select 2"},
		},
		{
			name: "dash delimiter keeps line comments",
			src:  "DELIMITER -\nselect 1 -- c\n-select 2-",
			want: []string{"select 1", "select 2"},
		},
		{
			name:   "backslash escape in mysql double quotes",
			compat: dialect.MySQL,
			src:    `select "a\";b"; select 2`,
			want:   []string{`select "a\";b"`, "select 2"},
		},
		{
			name:   "escape string in postgres",
			compat: dialect.PostgreSQL,
			src:    `select E'a\';b'; select 2`,
			want:   []string{`select E'a\';b'`, "select 2"},
		},
		{
			name: "escape string prefix is plain text in generic",
			src:  `select E'a\';b'; select 2`,
			want: []string{`select E'a\'`, "b'; select 2"},
		},
		{
			name: "directive keyword mid statement",
			src:  "select delimiter // from t;",
			want: []string{"select delimiter // from t"},
		},
		{
			name: "directive keyword without token",
			src:  "DELIMITER\nselect 1;",
			want: []string{"DELIMITER\nselect 1"},
		},
		{
			name: "directive is case insensitive",
			src:  "delimiter //\nselect 1//select 2//",
			want: []string{"select 1", "select 2"},
		},
		{
			name: "directive inside string literal",
			src:  "select 'x\nDELIMITER //\n'; select 2",
			want: []string{"select 'x\nDELIMITER //\n'", "select 2"},
		},
		{
			name: "directive after leading comment",
			src:  "/* c */ DELIMITER //\nselect 1; select 2//",
			want: []string{"select 1; select 2"},
		},
		{
			name: "multi-byte text",
			src:  "select 'żółw'; select 'ü'",
			want: []string{"select 'żółw'", "select 'ü'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sqlTexts(split(t, tt.src, tt.compat))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestSplit_TwoStatementsOffsets(t *testing.T) {
	got := split(t, "select foo; select bar", dialect.Generic)
	want := []StatementInfo{
		{
			SQL:            "select foo",
			Delimiter:      ";",
			RawStartOffset: 0,
			RawEndOffset:   11,
			StartOffset:    0,
			EndOffset:      10,
			StartLine:      1,
			StartColumn:    0,
			EndLine:        1,
			EndColumn:      9,
			SQLPosToRawPos: []PosMapping{{SQLPos: 0, RawPos: 0}},
		},
		{
			SQL:            "select bar",
			Delimiter:      "",
			RawStartOffset: 11,
			RawEndOffset:   22,
			StartOffset:    12,
			EndOffset:      22,
			StartLine:      1,
			StartColumn:    12,
			EndLine:        1,
			EndColumn:      21,
			SQLPosToRawPos: []PosMapping{{SQLPos: 0, RawPos: 12}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split() mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit_DirectiveOffsets(t *testing.T) {
	got := split(t, "DELIMITER //\nSELECT 1//\nDELIMITER ;\nSELECT 2;", dialect.Generic)
	if len(got) != 2 {
		t.Fatalf("Split() got %d statements, want 2", len(got))
	}

	first, second := got[0], got[1]
	if first.Delimiter != "//" || second.Delimiter != ";" {
		t.Errorf("delimiters = %q, %q; want \"//\", \";\"", first.Delimiter, second.Delimiter)
	}
	if first.RawStartOffset != 13 || first.RawEndOffset != 23 || first.StartOffset != 13 || first.EndOffset != 21 {
		t.Errorf("first offsets = raw [%d,%d) sql [%d,%d); want raw [13,23) sql [13,21)",
			first.RawStartOffset, first.RawEndOffset, first.StartOffset, first.EndOffset)
	}
	if first.StartLine != 2 || first.StartColumn != 0 {
		t.Errorf("first start = %d:%d, want 2:0", first.StartLine, first.StartColumn)
	}
	if second.RawStartOffset != 36 || second.RawEndOffset != 45 || second.StartOffset != 36 {
		t.Errorf("second offsets = raw [%d,%d) start %d; want raw [36,45) start 36",
			second.RawStartOffset, second.RawEndOffset, second.StartOffset)
	}
	if second.StartLine != 4 || second.StartColumn != 0 {
		t.Errorf("second start = %d:%d, want 4:0", second.StartLine, second.StartColumn)
	}
}

func TestSplit_LeadingCommentsAndNewlines(t *testing.T) {
	src := "-- header\n-- more\nselect a,\n  -- inline\n  b\nfrom t;\n"
	got := split(t, src, dialect.Generic)
	want := []StatementInfo{
		{
			SQL:            "select a,\n  \n  b\nfrom t",
			Delimiter:      ";",
			RawStartOffset: 0,
			RawEndOffset:   51,
			StartOffset:    18,
			EndOffset:      50,
			StartLine:      3,
			StartColumn:    0,
			EndLine:        6,
			EndColumn:      5,
			NewLineOffsets: []PosMapping{{9, 27}, {12, 39}, {16, 43}},
			SQLPosToRawPos: []PosMapping{{0, 18}, {12, 39}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split() mismatch (-want +got):\n%s", diff)
	}

	st := got[0]
	if raw := st.RawOffset(15); raw != 42 || src[raw] != 'b' {
		t.Errorf("RawOffset(15) = %d, want 42", raw)
	}
	if pos, ok := st.SQLOffset(42); !ok || pos != 15 {
		t.Errorf("SQLOffset(42) = %d, %v; want 15, true", pos, ok)
	}
	if pos, ok := st.SQLOffset(28); !ok || pos != 10 {
		t.Errorf("SQLOffset(28) = %d, %v; want 10, true", pos, ok)
	}
	if _, ok := st.SQLOffset(30); ok {
		t.Error("SQLOffset(30) inside a comment should not resolve")
	}
	if _, ok := st.SQLOffset(5); ok {
		t.Error("SQLOffset(5) before the statement should not resolve")
	}
	if _, ok := st.SQLOffset(50); ok {
		t.Error("SQLOffset(50) on the delimiter should not resolve")
	}
}

func TestSplit_GluedCommentMapping(t *testing.T) {
	got := split(t, "select/*c*/1", dialect.Generic)
	if len(got) != 1 {
		t.Fatalf("Split() got %d statements, want 1", len(got))
	}
	want := []PosMapping{{0, 0}, {6, 10}, {7, 11}}
	if diff := cmp.Diff(want, got[0].SQLPosToRawPos); diff != "" {
		t.Errorf("SQLPosToRawPos mismatch (-want +got):\n%s", diff)
	}
	if got[0].EndOffset != 12 {
		t.Errorf("EndOffset = %d, want 12", got[0].EndOffset)
	}
	if raw := got[0].RawOffset(7); raw != 11 {
		t.Errorf("RawOffset(7) = %d, want 11", raw)
	}
}

func TestSplit_InvalidArguments(t *testing.T) {
	_, err := Split("select 1", dialect.Compatibility(17))
	var argErr *errors.ArgumentError
	if !stderrors.As(err, &argErr) {
		t.Fatalf("Split() error = %v, want ArgumentError", err)
	}

	s, err := New(dialect.Generic)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, d := range []string{"", " ", "a b", "x\n"} {
		if _, err := s.WithDelimiter(d); !stderrors.As(err, &argErr) {
			t.Errorf("WithDelimiter(%q) error = %v, want ArgumentError", d, err)
		}
	}
}

func TestSplitter_WithDelimiter(t *testing.T) {
	base, err := New(dialect.Generic)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s, err := base.WithDelimiter("GO")
	if err != nil {
		t.Fatalf("WithDelimiter() error = %v", err)
	}
	if base.Delimiter() != ";" {
		t.Errorf("WithDelimiter() modified the receiver: %q", base.Delimiter())
	}

	got := sqlTexts(s.Split("select 1\nGO\nselect algo; select 2 GOTO\nGO\n"))
	want := []string{"select 1", "select algo; select 2 GOTO"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split() mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitter_ConcurrentUse(t *testing.T) {
	s, err := New(dialect.PostgreSQL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	src := strings.Repeat("select $$;$$; select 'a;b';\n", 50)

	done := make(chan []StatementInfo)
	for i := 0; i < 8; i++ {
		go func() { done <- s.Split(src) }()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; len(got) != 100 {
			t.Errorf("Split() got %d statements, want 100", len(got))
		}
	}
}

// corpus is shared by the property tests below
var corpus = []struct {
	compat dialect.Compatibility
	src    string
}{
	{dialect.Generic, "select foo; select bar"},
	{dialect.Generic, "-- header\n-- more\nselect a,\n  -- inline\n  b\nfrom t;\n"},
	{dialect.Generic, "select/*c*/1; select /* x */ 2 /* y */;\n\n/* trailing */"},
	{dialect.Generic, "select 'a;b', \"c;d\", [e;f], `g;h`;;; select 'it''s'"},
	{dialect.MySQL, "# c\nselect 1; -- d\nselect `x``y`; # e\nselect 'q\\'r';\n"},
	{dialect.MySQL, "DELIMITER $$\nCREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND$$\nDELIMITER ;\nCALL p();"},
	{dialect.PostgreSQL, "create function f() returns int as $body$ begin return 1; end; $body$ language sql;\nselect $$a;b$$, E'x\\'y';\nselect $1;"},
	{dialect.PostgreSQL, "select 1 # 2;\n\tselect\n\n 'ż';  -- done \n"},
}

func TestSplit_Invariants(t *testing.T) {
	for _, c := range corpus {
		stmts := split(t, c.src, c.compat)
		for i, st := range stmts {
			if strings.TrimSpace(st.SQL) != st.SQL || st.SQL == "" {
				t.Errorf("%q: statement %d SQL %q is empty or untrimmed", c.src, i, st.SQL)
			}
			if len(st.SQLPosToRawPos) == 0 || st.SQLPosToRawPos[0] != (PosMapping{0, st.StartOffset}) {
				t.Errorf("%q: statement %d first mapping = %v, want {0 %d}", c.src, i, st.SQLPosToRawPos, st.StartOffset)
			}
			for j := 1; j < len(st.SQLPosToRawPos); j++ {
				prev, cur := st.SQLPosToRawPos[j-1], st.SQLPosToRawPos[j]
				if cur.SQLPos <= prev.SQLPos || cur.RawPos <= prev.RawPos {
					t.Errorf("%q: statement %d mapping not monotonic: %v", c.src, i, st.SQLPosToRawPos)
				}
			}
			for k := 0; k < len(st.SQL); k++ {
				raw := st.RawOffset(k)
				if st.SQL[k] != c.src[raw] && !(st.SQL[k] == ' ' && c.src[raw] == '/') {
					t.Errorf("%q: statement %d SQL[%d]=%q maps to src[%d]=%q", c.src, i, k, st.SQL[k], raw, c.src[raw])
				}
			}
			for _, nl := range st.NewLineOffsets {
				if st.SQL[nl.SQLPos] != '\n' || c.src[nl.RawPos] != '\n' {
					t.Errorf("%q: statement %d bad newline mapping %v", c.src, i, nl)
				}
			}
			if st.RawStartOffset > st.StartOffset || st.EndOffset > st.RawEndOffset {
				t.Errorf("%q: statement %d extents out of order: %+v", c.src, i, st)
			}
			if i > 0 && st.RawStartOffset < stmts[i-1].RawEndOffset {
				t.Errorf("%q: statement %d starts at %d before previous end %d", c.src, i, st.RawStartOffset, stmts[i-1].RawEndOffset)
			}
		}
	}
}

func TestSplit_Resplit(t *testing.T) {
	for _, c := range corpus {
		first := split(t, c.src, c.compat)
		delim, ok := commonDelimiter(first)
		if !ok {
			continue
		}

		var sb strings.Builder
		for _, st := range first {
			sb.WriteString(st.SQL)
			sb.WriteString(delim)
			sb.WriteString("\n")
		}

		s, err := New(c.compat)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if s, err = s.WithDelimiter(delim); err != nil {
			t.Fatalf("WithDelimiter() error = %v", err)
		}
		second := s.Split(sb.String())
		if diff := cmp.Diff(sqlTexts(first), sqlTexts(second)); diff != "" {
			t.Errorf("%q: resplit mismatch (-first +second):\n%s", c.src, diff)
		}
	}
}

// commonDelimiter returns the single delimiter used by stmts, if there is one
func commonDelimiter(stmts []StatementInfo) (string, bool) {
	delim := ""
	for _, st := range stmts {
		switch {
		case st.Delimiter == "":
		case delim == "":
			delim = st.Delimiter
		case st.Delimiter != delim:
			return "", false
		}
	}
	if delim == "" {
		delim = ";"
	}
	return delim, len(stmts) > 0
}
