package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/btraven00/graburls/internal/extractor"
)

var blocklistJSON bool

// blocklistCmd represents the blocklist command
var blocklistCmd = &cobra.Command{
	Use:   "blocklist [url...]",
	Short: "Show the active domain blocklist or test URLs against it",
	Long: `Without arguments, list the substrings that cause an extracted URL to be
dropped. The list comes from --blocklist, the blocklist key of the config file,
or the built-in defaults, in that order.

With arguments, report for every URL whether it would be dropped and by which
entry.

Examples:
  graburls blocklist
  graburls blocklist --json
  graburls blocklist https://doi.org/10.1000/1 https://github.com/acme/tool
  graburls blocklist --blocklist example.com,test.org`,
	RunE: runBlocklist,
}

func init() {
	rootCmd.AddCommand(blocklistCmd)

	blocklistCmd.Flags().BoolVar(&blocklistJSON, "json", false, "output as JSON")
}

type blocklistEntry struct {
	Term    string `json:"term"`
	Default bool   `json:"default"`
}

type blocklistVerdict struct {
	URL       string `json:"url"`
	Blocked   bool   `json:"blocked"`
	BlockedBy string `json:"blocked_by,omitempty"`
}

func runBlocklist(cmd *cobra.Command, args []string) error {
	blocklist := extractionOptions().Blocklist
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		verdicts := checkBlocklist(blocklist, args)
		if blocklistJSON {
			return encodeJSON(out, verdicts)
		}

		return writeVerdicts(out, verdicts)
	}

	entries := blocklistEntries(blocklist)
	if blocklistJSON {
		return encodeJSON(out, struct {
			Entries []blocklistEntry `json:"entries"`
			Count   int              `json:"count"`
		}{
			Entries: entries,
			Count:   len(entries),
		})
	}

	return writeEntries(out, entries)
}

func blocklistEntries(blocklist extractor.Blocklist) []blocklistEntry {
	defaults := make(map[string]bool)
	for _, term := range extractor.DefaultBlocklist() {
		defaults[term] = true
	}

	entries := make([]blocklistEntry, 0, len(blocklist))
	for _, term := range blocklist {
		if term == "" {
			continue
		}

		entries = append(entries, blocklistEntry{Term: term, Default: defaults[term]})
	}

	return entries
}

func checkBlocklist(blocklist extractor.Blocklist, urls []string) []blocklistVerdict {
	verdicts := make([]blocklistVerdict, 0, len(urls))

	for _, u := range urls {
		term, blocked := blocklist.Match(u)
		verdicts = append(verdicts, blocklistVerdict{URL: u, Blocked: blocked, BlockedBy: term})
	}

	return verdicts
}

func writeEntries(w io.Writer, entries []blocklistEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "The blocklist is empty; no URLs will be dropped.")
		return nil
	}

	fmt.Fprintf(w, "Blocklist (%d entries):\n\n", len(entries))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TERM\tSOURCE")
	fmt.Fprintln(tw, "----\t------")

	for _, entry := range entries {
		source := "custom"
		if entry.Default {
			source = "default"
		}

		fmt.Fprintf(tw, "%s\t%s\n", entry.Term, source)
	}

	return tw.Flush()
}

func writeVerdicts(w io.Writer, verdicts []blocklistVerdict) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tVERDICT")

	for _, v := range verdicts {
		verdict := "kept"
		if v.Blocked {
			verdict = "dropped (" + v.BlockedBy + ")"
		}

		fmt.Fprintf(tw, "%s\t%s\n", v.URL, verdict)
	}

	return tw.Flush()
}

func encodeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
