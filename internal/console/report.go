package console

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"tasnim.dev/aws-recipes/internal/policy"
	"tasnim.dev/aws-recipes/internal/utils"
)

// RenderReport formats a run summary, one block per template.
func RenderReport(r *policy.Report, color bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(TitleStyle, "Summary"))
	b.WriteString("\n")

	for _, t := range r.Templates {
		mark := style(SuccessStyle, "ok")
		if !t.OK() {
			mark = style(ErrorStyle, "FAILED")
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, t.PolicyName, style(MutedStyle, "("+t.Template+")"))

		var lines []string
		if t.Err != nil {
			lines = append(lines, style(ErrorStyle, "error: ")+t.Err.Error())
		}
		if t.PolicyARN != "" {
			lines = append(lines, "policy: "+utils.ShortName(t.PolicyARN)+" "+style(MutedStyle, t.PolicyARN))
		}
		for _, id := range t.Identities {
			switch {
			case id.Skipped:
				lines = append(lines, style(WarningStyle, "skipped ")+id.Name)
			case id.Err != nil:
				lines = append(lines, style(ErrorStyle, "failed ")+id.Name+": "+id.Err.Error())
			default:
				lines = append(lines, style(SuccessStyle, "applied ")+id.Name)
			}
		}
		for _, loc := range t.Saved {
			lines = append(lines, "saved "+loc)
		}
		if len(lines) > 0 {
			b.WriteString(IndentStyle.Render(strings.Join(lines, "\n")))
			b.WriteString("\n")
		}
	}

	if n := r.Failed(); n > 0 {
		fmt.Fprintf(&b, "%s\n", style(ErrorStyle, fmt.Sprintf("%d item(s) failed", n)))
	}
	return b.String()
}

// PrintReport writes the summary to w, colored when w is a terminal.
func PrintReport(w io.Writer, r *policy.Report) {
	fmt.Fprint(w, RenderReport(r, colorEnabled(w)))
}
