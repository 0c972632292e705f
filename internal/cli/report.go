package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/kt-tools/css-ts-setup/internal/model"
)

// Terminal styles for the text report.
var (
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleBullet  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleWarnDot = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// renderStyle applies a lipgloss style to text when colors are enabled.
func renderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// useColors reports whether w is a terminal. NO_COLOR disables colors.
func useColors(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printReport writes the end-of-run report in the requested format.
func printReport(w io.Writer, report *model.Report, format string) error {
	switch format {
	case OutputJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()

	default:
		_, err := io.WriteString(w, formatTextReport(report, useColors(w)))
		return err
	}
}

// formatTextReport renders the human-readable report: a header, one bullet
// per summary line, then a Warnings section when there is anything to warn
// about.
func formatTextReport(report *model.Report, colors bool) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(renderStyle(styleHeader, "css-ts setup complete", colors))
	sb.WriteString("\n")
	for _, line := range report.Summary {
		fmt.Fprintf(&sb, "%s %s\n", renderStyle(styleBullet, "-", colors), line)
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(renderStyle(styleWarning, "Warnings", colors))
		sb.WriteString("\n")
		for _, line := range report.Warnings {
			fmt.Fprintf(&sb, "%s %s\n", renderStyle(styleWarnDot, "-", colors), line)
		}
	}

	return sb.String()
}

// printError outputs an error message on w, as JSON when the run asked
// for JSON output and as "Error: <message>" text otherwise.
func printError(w io.Writer, format, message string, underlying error) {
	if format == OutputJSON {
		errObj := map[string]any{
			"message": message,
		}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]any{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}
