package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/net/publicsuffix"
	"gopkg.in/yaml.v3"

	"github.com/btraven00/graburls/internal/extractor"
)

var (
	showProgress bool
	showDomains  bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract artifact URLs from documents",
	Long: `Extract candidate artifact URLs from one or more documents.

Each accepted URL is printed on its own line. When several files are given
they are processed in parallel and the union of their URLs is printed. If any
document cannot be converted to text the command fails without printing URLs.

Examples:
  graburls extract paper.pdf
  graburls extract --format json paper.pdf
  graburls extract --workers 8 --domains papers/*.pdf
  graburls extract --blocklist github.com,gitlab.com paper.pdf
  graburls extract --backend plain paper.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Int("workers", runtime.NumCPU(), "number of parallel workers for several files")
	extractCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress on stderr while processing several files")
	extractCmd.Flags().BoolVar(&showDomains, "domains", false, "write a per-domain summary to stderr")

	bindExtractConfig()
}

func bindExtractConfig() {
	cobra.CheckErr(viper.BindPFlag("workers", extractCmd.Flags().Lookup("workers")))
}

func runExtract(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(viper.GetString("format"))
	if !isSupportedFormat(format) {
		return fmt.Errorf("unsupported output format: %s", format)
	}

	urlExtractor, err := extractor.NewURLExtractor(extractionOptions())
	if err != nil {
		return err
	}

	var results []*extractor.ExtractionResult

	if len(args) == 1 {
		log.Info().Str("file", args[0]).Msg("processing")

		result, err := urlExtractor.ExtractFromFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		results = append(results, result)
	} else {
		results, err = extractBatch(cmd.Context(), urlExtractor, args, viper.GetInt("workers"), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	if showDomains {
		writeDomainSummary(cmd.ErrOrStderr(), results)
	}

	return writeResults(cmd.OutOrStdout(), format, results)
}

// extractBatch processes filenames on a worker pool. Results come back in
// argument order; any failure fails the whole batch.
func extractBatch(ctx context.Context, urlExtractor *extractor.URLExtractor, filenames []string, numWorkers int, progressOut io.Writer) ([]*extractor.ExtractionResult, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	log.Info().Int("files", len(filenames)).Int("workers", numWorkers).Msg("processing batch")

	pool := extractor.NewWorkerPool(ctx, numWorkers, urlExtractor)
	pool.Start()

	var tracker *extractor.ProgressTracker
	if showProgress {
		tracker = extractor.NewProgressTracker()
	}

	progressDone := make(chan struct{})

	go func() {
		defer close(progressDone)

		for update := range pool.Progress() {
			if tracker != nil {
				tracker.Update(update)
				tracker.PrintProgress(progressOut)
			}

			if update.Status == extractor.TaskStatusFailed {
				log.Warn().Str("file", update.Filename).Msg(update.Message)
			}
		}
	}()

	go func() {
		for _, filename := range filenames {
			pool.SubmitFile(filename)
		}
	}()

	order := make(map[string]int, len(filenames))
	for i, filename := range filenames {
		if _, seen := order[filename]; !seen {
			order[filename] = i
		}
	}

	var (
		results []*extractor.ExtractionResult
		errs    []error
	)

	for range filenames {
		var taskResult extractor.ExtractionTaskResult

		select {
		case taskResult = <-pool.Results():
		case <-ctx.Done():
			// Workers may be blocked on unread results; they exit with the process.
			return nil, ctx.Err()
		}

		if taskResult.Error != nil {
			errs = append(errs, taskResult.Error)
			continue
		}

		results = append(results, taskResult.Result)
	}

	pool.Wait()
	<-progressDone

	if tracker != nil {
		fmt.Fprintln(progressOut)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%d of %d files failed: %w", len(errs), len(filenames), errors.Join(errs...))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].Filename] < order[results[j].Filename]
	})

	return results, nil
}

func isSupportedFormat(format string) bool {
	switch format {
	case "plain", "json", "yaml", "csv":
		return true
	default:
		return false
	}
}

func writeResults(w io.Writer, format string, results []*extractor.ExtractionResult) error {
	switch format {
	case "plain":
		return writePlain(w, results)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if len(results) == 1 {
			return encoder.Encode(results[0])
		}

		return encoder.Encode(results)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()

		if len(results) == 1 {
			return encoder.Encode(results[0])
		}

		return encoder.Encode(results)
	case "csv":
		return writeCSV(w, results)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writePlain prints the union of all accepted URLs, one per line.
func writePlain(w io.Writer, results []*extractor.ExtractionResult) error {
	set := make(extractor.ResultSet)

	for _, result := range results {
		for _, u := range result.URLs {
			set.Add(u)
		}
	}

	for _, u := range set.Sorted() {
		if _, err := fmt.Fprintln(w, u); err != nil {
			return err
		}
	}

	return nil
}

func writeCSV(w io.Writer, results []*extractor.ExtractionResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"filename", "url"}); err != nil {
		return err
	}

	for _, result := range results {
		for _, u := range result.URLs {
			if err := writer.Write([]string{result.Filename, u}); err != nil {
				return err
			}
		}
	}

	writer.Flush()

	return writer.Error()
}

type domainCount struct {
	domain string
	count  int
}

// countDomains groups URLs by registrable domain (eTLD+1), so that
// "www.cs.example.ac.uk" and "example.ac.uk" land in the same bucket.
func countDomains(results []*extractor.ExtractionResult) []domainCount {
	counts := make(map[string]int)

	for _, result := range results {
		for _, raw := range result.URLs {
			parsed, err := url.Parse(raw)
			if err != nil || parsed.Hostname() == "" {
				continue
			}

			host := strings.ToLower(parsed.Hostname())

			domain, err := publicsuffix.EffectiveTLDPlusOne(host)
			if err != nil {
				domain = host
			}

			counts[domain]++
		}
	}

	domains := make([]domainCount, 0, len(counts))
	for domain, count := range counts {
		domains = append(domains, domainCount{domain: domain, count: count})
	}

	sort.Slice(domains, func(i, j int) bool {
		if domains[i].count != domains[j].count {
			return domains[i].count > domains[j].count
		}

		return domains[i].domain < domains[j].domain
	})

	return domains
}

func writeDomainSummary(w io.Writer, results []*extractor.ExtractionResult) {
	for _, dc := range countDomains(results) {
		fmt.Fprintf(w, "%6d  %s\n", dc.count, dc.domain)
	}
}
