package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/btraven00/graburls/internal/extractor"
)

var debugText string

var debugCmd = &cobra.Command{
	Use:   "debug [file]",
	Short: "Show how every URL candidate in a document was reconstructed",
	Long: `Trace every seed match through the extraction pipeline: its occurrences,
the multi-line span each occurrence was expanded to, the decision taken for
every line of that span, the resulting URL and why it was kept or dropped.

Examples:
  graburls debug paper.pdf
  graburls debug --text "see http://example.com/foo-
bar [3]"
  graburls debug --format json paper.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDebug,
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.Flags().StringVarP(&debugText, "text", "t", "", "trace this text instead of a file")
}

func runDebug(cmd *cobra.Command, args []string) error {
	urlExtractor, err := extractor.NewURLExtractor(extractionOptions())
	if err != nil {
		return err
	}

	text := debugText

	switch {
	case text != "":
		text = extractor.NormalizeText(text, urlExtractor.Options().NormalizeUnicode)
	case len(args) == 1:
		text, err = urlExtractor.ReadText(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to convert %s: %w", args[0], err)
		}
	default:
		return fmt.Errorf("either a file or --text is required")
	}

	traces := urlExtractor.Trace(text)

	if strings.ToLower(viper.GetString("format")) == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")

		return encoder.Encode(traces)
	}

	writeTraces(cmd.OutOrStdout(), traces)

	return nil
}

func writeTraces(w io.Writer, traces []extractor.OccurrenceTrace) {
	if len(traces) == 0 {
		fmt.Fprintln(w, "no URL-like text found")
		return
	}

	for _, trace := range traces {
		fmt.Fprintf(w, "seed %q at [%d,%d)\n", trace.Seed, trace.Occurrence.Start, trace.Occurrence.End)
		fmt.Fprintf(w, "  span [%d,%d) %q\n", trace.Maximal.Start, trace.Maximal.End, trace.MaximalText)

		for _, d := range trace.Canonical.Decisions {
			status := d.Action.String()
			if d.Rule != "" {
				status += " (" + d.Rule + ")"
			}

			if d.Candidate != "" {
				status += fmt.Sprintf(" candidate=%q valid=%t", d.Candidate, d.Valid)
			}

			if d.Stripped {
				status += " stripped"
			}

			fmt.Fprintf(w, "  part %d %q: %s\n", d.Index, d.Part, status)
		}

		switch trace.Outcome {
		case extractor.OutcomeAccepted:
			fmt.Fprintf(w, "  => %s\n", trace.Canonical.URL)
		case extractor.OutcomeBlocklisted:
			fmt.Fprintf(w, "  => dropped %s (blocklist: %s)\n", trace.Canonical.URL, trace.BlockedBy)
		default:
			fmt.Fprintln(w, "  => dropped (no valid URL)")
		}
	}
}
