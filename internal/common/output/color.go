package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Candidate status colors
	Pending   = color.New(color.FgYellow)
	Published = color.New(color.FgGreen)
	Failed    = color.New(color.FgRed)
	Orphaned  = color.New(color.FgMagenta)

	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Header = color.New(color.FgWhite, color.Bold)
	Chart  = color.New(color.FgBlue, color.Bold)
)

var (
	// Out receives normal output
	Out io.Writer = color.Output
	// Err receives error output
	Err io.Writer = color.Error
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// StatusColor returns the color used for a candidate status
func StatusColor(status string) *color.Color {
	switch status {
	case "pending":
		return Pending
	case "published":
		return Published
	case "failed":
		return Failed
	case "orphaned":
		return Orphaned
	default:
		return color.New(color.Reset)
	}
}

// FormatStatus formats a status string with appropriate color
func FormatStatus(status string) string {
	return StatusColor(status).Sprintf("[%s]", status)
}

// FormatUpdate formats a detected version change
func FormatUpdate(chart, oldVersion, newVersion string) string {
	return fmt.Sprintf("%s %s → %s", Chart.Sprint(chart), oldVersion, Success.Sprint(newVersion))
}

// FormatPullRequest formats an opened pull request
func FormatPullRequest(number int, title, url string) string {
	line := fmt.Sprintf("#%d %s", number, title)
	if url != "" {
		line += " " + Dim.Sprint(url)
	}
	return line
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(Out, "✓ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(Err, "✗ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(Out, "⚠ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(Out, "→ "+format+"\n", args...)
}

// PrintHeader prints a section header surrounded by blank lines
func PrintHeader(title string) {
	fmt.Fprintln(Out)
	Header.Fprintln(Out, title)
	fmt.Fprintln(Out)
}

// PrintLine prints an indented line
func PrintLine(format string, args ...interface{}) {
	fmt.Fprintf(Out, "  "+format+"\n", args...)
}
