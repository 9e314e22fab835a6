package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/starford/notegraph/internal/envstats"
	"github.com/starford/notegraph/internal/noteservice"
)

// Table writes headers and rows as aligned columns.
func Table(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Plural picks the singular or plural noun for n.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// WriteMatches prints query hits, one per row.
func WriteMatches(w io.Writer, matches []noteservice.Match) error {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{m.ID, strconv.Itoa(m.Score), m.Name, m.Path})
	}
	if err := Table(w, []string{"ID", "SCORE", "NAME", "PATH"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d %s\n", len(matches), Plural(len(matches), "match", "matches"))
	return err
}

// WriteStatistics prints the environment totals followed by one row per
// member note.
func WriteStatistics(w io.Writer, st *envstats.Statistics) error {
	totals := [][]string{
		{"notes", strconv.Itoa(st.NoteCountTotal)},
		{"words", strconv.Itoa(st.WordCountTotal)},
		{"characters", strconv.Itoa(st.CharCountTotal)},
		{"tags", strconv.Itoa(st.TagCountTotal)},
		{"links local->local", strconv.Itoa(st.LocalLocalLinks)},
		{"links local->any", strconv.Itoa(st.LocalGlobalLinks)},
		{"links any->local", strconv.Itoa(st.GlobalLocalLinks)},
		{"broken links", strconv.Itoa(st.BrokenLinks)},
	}
	if err := Table(w, []string{"TOTAL", "VALUE"}, totals); err != nil {
		return err
	}
	if len(st.Filtered) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	rows := make([][]string, 0, len(st.Filtered))
	for _, ns := range st.Filtered {
		rows = append(rows, []string{
			ns.ID,
			strconv.Itoa(ns.MatchScore),
			strconv.Itoa(ns.InlinksLocal),
			strconv.Itoa(ns.InlinksGlobal),
			strconv.Itoa(ns.OutlinksLocal),
			strconv.Itoa(ns.OutlinksGlobal),
			strconv.Itoa(ns.BrokenLinks),
		})
	}
	return Table(w, []string{"ID", "SCORE", "IN-LOCAL", "IN-ALL", "OUT-LOCAL", "OUT-ALL", "BROKEN"}, rows)
}
