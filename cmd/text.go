package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/btraven00/graburls/internal/extractor"
)

var outputFile string

// textCmd represents the text command
var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Print the text that URL extraction works on",
	Long: `Convert a document to plain text with the configured backend and print it.

The output is exactly the text the extractor sees, after line endings and
(optionally) Unicode normalization. It is useful for understanding why a URL
was split or missed.

Examples:
  graburls text paper.pdf
  graburls text --backend pdf --output paper.txt paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
}

func runText(cmd *cobra.Command, args []string) error {
	filename := args[0]

	urlExtractor, err := extractor.NewURLExtractor(extractionOptions())
	if err != nil {
		return err
	}

	text, err := urlExtractor.ReadText(cmd.Context(), filename)
	if err != nil {
		return fmt.Errorf("failed to convert %s: %w", filename, err)
	}

	if outputFile == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}

	if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().Str("file", outputFile).Int("bytes", len(text)).Msg("converted text written")

	return nil
}
