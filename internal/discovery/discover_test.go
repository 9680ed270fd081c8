package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name     string
		wantDial dialect.Compatibility
		wantHint bool
	}{
		{"schema.sql", dialect.Generic, false},
		{"proc.mysql.sql", dialect.MySQL, true},
		{"PROC.MySQL.SQL", dialect.MySQL, true},
		{"legacy.mariadb.sql", dialect.MySQL, true},
		{"fn.pg.sql", dialect.PostgreSQL, true},
		{"fn.postgres.sql", dialect.PostgreSQL, true},
		{"fn.postgresql.sql", dialect.PostgreSQL, true},
		{"mysql.sql", dialect.Generic, false},
		{"notes.txt", dialect.Generic, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyFile(tt.name)
			if got != tt.wantDial || ok != tt.wantHint {
				t.Errorf("ClassifyFile(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.wantDial, tt.wantHint)
			}
		})
	}
}

func TestDiscover_Directory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.sql"), "select 1;")
	writeFile(t, filepath.Join(root, "a.mysql.sql"), "select 1;")
	writeFile(t, filepath.Join(root, "nested", "c.pg.sql"), "select 1;")
	writeFile(t, filepath.Join(root, "README.md"), "# not sql")

	files, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, f.RelativePath)
	}
	want := []string{"a.mysql.sql", "b.sql", filepath.Join("nested", "c.pg.sql")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}

	if !files[0].HasHint || files[0].Compatibility != dialect.MySQL {
		t.Errorf("a.mysql.sql hint = %v/%v", files[0].Compatibility, files[0].HasHint)
	}
	if files[1].HasHint {
		t.Errorf("b.sql should carry no hint")
	}
	if !filepath.IsAbs(files[2].Path) {
		t.Errorf("Path %q is not absolute", files[2].Path)
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "deploy.script")
	writeFile(t, path, "select 1;")

	files, err := Discover(path)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 || files[0].RelativePath != "deploy.script" {
		t.Fatalf("Discover() = %+v, want the single file", files)
	}
}

func TestDiscover_Missing(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Discover() on a missing path should fail")
	}
}

func TestDiscoverAll_Dedup(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "x.sql")
	writeFile(t, path, "select 1;")

	files, err := DiscoverAll([]string{root, path})
	if err != nil {
		t.Fatalf("DiscoverAll() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("DiscoverAll() returned %d files, want 1", len(files))
	}
}

func TestCompatibilityOr(t *testing.T) {
	hinted := &DiscoveredFile{Compatibility: dialect.PostgreSQL, HasHint: true}
	plain := &DiscoveredFile{}

	if got := hinted.CompatibilityOr(dialect.MySQL); got != dialect.PostgreSQL {
		t.Errorf("hinted CompatibilityOr() = %v", got)
	}
	if got := plain.CompatibilityOr(dialect.MySQL); got != dialect.MySQL {
		t.Errorf("plain CompatibilityOr() = %v", got)
	}
}
