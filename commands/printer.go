package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/c360studio/govspec/diag"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// success prints a success message in green with a checkmark prefix.
func success(format string, a ...any) {
	green.Printf("✓ %s\n", fmt.Sprintf(format, a...))
}

// warnf prints a warning line in yellow.
func warnf(format string, a ...any) {
	yellow.Printf("%s\n", fmt.Sprintf(format, a...))
}

// step prints a progress line in cyan, used by long-running commands.
func step(format string, a ...any) {
	cyan.Printf("→ %s\n", fmt.Sprintf(format, a...))
}

// printReport writes every diagnostic with severity coloring followed by a
// one-line summary.
func printReport(report diag.Report) {
	for _, d := range report.Diagnostics {
		line := d.String()
		if d.Severity == diag.Error {
			red.Fprintln(os.Stderr, line)
		} else {
			yellow.Println(line)
		}
	}
	errors, warnings := report.Counts()
	switch {
	case errors == 0 && warnings == 0:
		success("no findings")
	default:
		parts := []string{}
		if errors > 0 {
			parts = append(parts, fmt.Sprintf("%d error(s)", errors))
		}
		if warnings > 0 {
			parts = append(parts, fmt.Sprintf("%d warning(s)", warnings))
		}
		fmt.Println(strings.Join(parts, ", "))
	}
}
