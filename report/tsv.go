package report

import (
	"fmt"
	"io"
	"strings"

	"trespass/lint"
)

// WriteTSV emits one row per finding: rule, file, line, column, runtime
// class, member, context class, message. Tabs inside messages are
// flattened to spaces so rows stay parseable.
func WriteTSV(w io.Writer, result *lint.Result) error {
	if _, err := fmt.Fprintln(w, "rule\tfile\tline\tcolumn\tclass\tmember\tcontext\tmessage"); err != nil {
		return err
	}
	for _, f := range sortedFindings(result.Findings) {
		row := fmt.Sprintf("%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			f.Rule, f.Location.File, f.Location.Line, f.Location.Column,
			f.Class, f.Member, f.Context,
			strings.ReplaceAll(f.Message, "\t", " "))
		if _, err := io.WriteString(w, row); err != nil {
			return err
		}
	}
	return nil
}
