package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/opt816/asm"
)

// WriteIssues writes lint findings grouped by type.
func WriteIssues(w io.Writer, name string, issues []asm.Issue) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "LINT %s\n", name)
	fmt.Fprintln(w, separator)

	if len(issues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
		return
	}

	for _, t := range []asm.IssueType{asm.IssueStruct, asm.IssueShape} {
		var group []asm.Issue
		for _, issue := range issues {
			if issue.Type == t {
				group = append(group, issue)
			}
		}

		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s ISSUES (%d):\n", t, len(group))
		fmt.Fprintln(w, dash)
		for _, issue := range group {
			fmt.Fprintf(w, "  line %d: %s\n", issue.Line, issue.Message)
		}
	}
}
