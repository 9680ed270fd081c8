package main

import (
	"fmt"
	"os"

	"github.com/cybertec-postgresql/sqlsplit/internal/dialect"
	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/report"
	"github.com/cybertec-postgresql/sqlsplit/internal/script"
)

func main() {
	files, err := discovery.Discover("testdata/scripts")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering scripts: %v\n", err)
		os.Exit(1)
	}

	var scripts []*script.Script
	total := 0
	for i := range files {
		s, err := script.Load(&files[i], dialect.Generic, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", files[i].RelativePath, err)
			os.Exit(1)
		}
		scripts = append(scripts, s)
		total += len(s.Statements)
	}

	file, err := os.Create("testdata/html_demo/report.html")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating report file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := report.NewHTMLReporter().Format(scripts, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ HTML report generated: testdata/html_demo/report.html")
	fmt.Printf("  %d script(s), %d statement(s)\n", len(scripts), total)
}
