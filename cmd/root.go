package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/btraven00/graburls/internal/extractor"
)

var (
	cfgFile string
	quiet   bool
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "graburls [file]",
	Short: "Extract candidate artifact URLs from PDF documents",
	Long: `graburls extracts candidate artifact URLs from the text of a PDF.

URLs that were wrapped across lines by justification, interrupted by page
numbers, followed by citation markers such as [12] or by sentence punctuation
are reassembled. URLs on well-known non-artifact domains are dropped and the
remaining distinct URLs are printed one per line.

Running "graburls paper.pdf" is the same as "graburls extract paper.pdf".`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		return runExtract(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging, initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.graburls.yaml)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug information")
	flags.StringP("format", "f", "plain", "output format (plain, json, yaml, csv)")
	flags.String("backend", string(extractor.BackendDocconv), "text extraction backend (docconv, pdf, plain)")
	flags.StringSlice("blocklist", nil, "comma-separated substrings that disqualify a URL (replaces the built-in list)")
	flags.Bool("cross-blank-lines", false, "let a wrapped URL continue across empty lines")
	flags.Bool("normalize-unicode", false, "apply NFKC normalization to extracted text (folds ligatures)")

	bindConfig()
}

// bindConfig wires the persistent flags, defaults and environment into viper.
func bindConfig() {
	flags := rootCmd.PersistentFlags()
	for _, key := range []string{"format", "backend", "blocklist", "cross-blank-lines", "normalize-unicode"} {
		cobra.CheckErr(viper.BindPFlag(configKey(key), flags.Lookup(key)))
	}

	viper.SetDefault("format", "plain")
	viper.SetDefault("backend", string(extractor.BackendDocconv))
	viper.SetDefault("blocklist", []string(extractor.DefaultBlocklist()))
	viper.SetDefault("cross_blank_lines", false)
	viper.SetDefault("normalize_unicode", false)

	viper.SetEnvPrefix("graburls")
	viper.AutomaticEnv()
}

func configKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".graburls")
	}

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

// initLogging routes zerolog to stderr; stdout carries only results.
func initLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	switch {
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case quiet:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// extractionOptions builds extractor options from the merged configuration.
func extractionOptions() extractor.ExtractionOptions {
	options := extractor.DefaultExtractionOptions()
	options.Backend = extractor.Backend(viper.GetString("backend"))
	options.CrossBlankLines = viper.GetBool("cross_blank_lines")
	options.NormalizeUnicode = viper.GetBool("normalize_unicode")

	options.Blocklist = configuredBlocklist()

	return options
}

// configuredBlocklist reads the blocklist key. An explicitly empty list turns
// filtering off. Environment variables and scalar config values arrive as one
// comma-separated string.
func configuredBlocklist() extractor.Blocklist {
	var terms []string

	if value, ok := viper.Get("blocklist").(string); ok {
		terms = strings.Split(value, ",")
	} else {
		terms = viper.GetStringSlice("blocklist")
	}

	blocklist := make(extractor.Blocklist, 0, len(terms))
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			blocklist = append(blocklist, term)
		}
	}

	return blocklist
}
