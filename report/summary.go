package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/opt816/peep"
)

// WriteSummary renders the pass and rule tables.
func WriteSummary(w io.Writer, s *Stats) {
	passTable := table.NewWriter()
	passTable.SetOutputMirror(w)
	passTable.SetStyle(table.StyleLight)
	passTable.SetTitle("Passes")
	passTable.AppendHeader(table.Row{"Pass", "Optimizations", "Reorders", "Lines"})

	for _, p := range s.Passes() {
		passTable.AppendRow(table.Row{p.Pass, p.Optimizations, p.Reorders, p.Len})
	}

	passTable.AppendFooter(table.Row{"Total", s.Total(), "", ""})
	passTable.Render()

	ruleTable := table.NewWriter()
	ruleTable.SetOutputMirror(w)
	ruleTable.SetStyle(table.StyleLight)
	ruleTable.SetTitle("Rules")
	ruleTable.AppendHeader(table.Row{"Rule", "Rewrites"})

	for _, rc := range s.Rules() {
		ruleTable.AppendRow(table.Row{rc.Rule, rc.Count})
	}

	ruleTable.Render()
}

// WriteVerbose prints the static symbols, the per-pass counts and the final
// listing to out, and the total count to errOut.
func WriteVerbose(out, errOut io.Writer, res peep.Result) {
	fmt.Fprintf(out, "bss:\n%v\n", res.Static.Names())

	for _, p := range res.Passes {
		fmt.Fprintf(out, "pass %d:\n", p.Pass)
		fmt.Fprintf(out, "%d optimizations performed\n\n", p.Optimizations)
	}

	WriteListing(out, res)

	fmt.Fprintf(errOut, "%d optimizations performed in total\n", res.Total)
}

// WriteListing prints the optimized listing.
func WriteListing(w io.Writer, res peep.Result) {
	for _, l := range res.Program.Lines() {
		fmt.Fprintln(w, l)
	}
}
