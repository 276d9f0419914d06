package main

import (
	"fmt"
	"io"
	"os"

	"useragenter/realua/realua/agents"
	"useragenter/realua/realua/config"
	"useragenter/realua/realua/logger"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var configPath string
var desktopFile string
var mobileFile string
var seed int64
var verbosity int
var selectedMode string
var selectedBrowser string
var count int
var jsonOutput bool
var describeOutput bool

var cfg config.Config
var store *agents.Store

var rootCmd = cobra.Command{
	Use:           "realua",
	Short:         "realua prints random real-world browser user agents",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if count < 1 {
			return fmt.Errorf("count must be at least 1")
		}
		mode, err := agents.ParseMode(selectedMode)
		if err != nil {
			return err
		}
		for range count {
			ua, err := store.Select(mode, selectedBrowser)
			if err != nil {
				return err
			}
			if err := printAgent(cmd.OutOrStdout(), mode, ua); err != nil {
				return err
			}
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many user agents are available per mode and browser",
	Run: func(cmd *cobra.Command, args []string) {
		printStats(cmd.OutOrStdout(), store)
	},
}

func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = applyFlags(cfg, cmd)
	flags := cmd.Flags()
	if !flags.Changed("mode") {
		selectedMode = cfg.ModeName
	}
	if !flags.Changed("browser") {
		selectedBrowser = cfg.Browser
	}
	logger.Init(cfg.Verbosity)

	store, err = agents.New(cfg.StoreOptions()...)
	if err != nil {
		return err
	}
	logger.Logd(fmt.Sprintf("desktop: %d, mobile: %d", store.Len(agents.Desktop), store.Len(agents.Mobile)))
	return nil
}

// applyFlags overrides config values with flags set on the command line.
// Each -v raises the configured verbosity by one.
func applyFlags(c config.Config, cmd *cobra.Command) config.Config {
	flags := cmd.Flags()
	if flags.Changed("desktop-file") {
		c.DesktopPath = desktopFile
	}
	if flags.Changed("mobile-file") {
		c.MobilePath = mobileFile
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("verbose") {
		c.Verbosity += verbosity
	}
	return c
}

func printAgent(w io.Writer, mode agents.Mode, ua string) error {
	switch {
	case jsonOutput && describeOutput:
		return writeJSON(w, agents.Describe(ua))
	case jsonOutput:
		return writeJSON(w, map[string]string{
			"user_agent": ua,
			"mode":       mode.String(),
		})
	case describeOutput:
		d := agents.Describe(ua)
		_, err := fmt.Fprintf(w, "%s\n  browser: %s %s\n  os: %s\n  mobile: %t\n", ua, d.Browser, d.BrowserVersion, d.OS, d.Mobile)
		return err
	default:
		_, err := fmt.Fprintln(w, ua)
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

var statsBrowsers = []string{
	agents.BrowserChrome,
	agents.BrowserFirefox,
	agents.BrowserSafari,
	agents.BrowserLinux,
	agents.BrowserMac,
}

func printStats(w io.Writer, s *agents.Store) {
	for _, mode := range []agents.Mode{agents.Desktop, agents.Mobile} {
		fmt.Fprintf(w, "%s: %s\n", mode, humanize.Comma(int64(s.Len(mode))))
		for _, browser := range statsBrowsers {
			fmt.Fprintf(w, "  %-8s %s\n", browser, humanize.Comma(int64(s.Count(mode, browser))))
		}
	}
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a .properties config file")
	rootCmd.PersistentFlags().StringVar(&desktopFile, "desktop-file", "", "Read desktop user agents from this file")
	rootCmd.PersistentFlags().StringVar(&mobileFile, "mobile-file", "", "Read mobile user agents from this file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for reproducible output (0 means random)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity")
	rootCmd.PersistentFlags().StringVarP(&selectedMode, "mode", "m", "desktop", "Device class: desktop or mobile")
	rootCmd.PersistentFlags().StringVarP(&selectedBrowser, "browser", "b", "", "Only user agents containing this text (case-insensitive)")

	rootCmd.Flags().IntVarP(&count, "count", "n", 1, "Number of user agents to print")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print one JSON object per line")
	rootCmd.Flags().BoolVar(&describeOutput, "describe", false, "Include browser and OS details")

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "File to write user agents to")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1000, "Number of user agents to generate")
	generateCmd.Flags().StringArrayVarP(&taskSpecs, "task", "t", []string{}, "Task as mode:browser:count, may be repeated")
	generateCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of workers (default from config)")
	generateCmd.Flags().BoolVarP(&forceOverwrite, "force", "F", false, "Overwrite the output file if it exists")
	_ = generateCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(generateCmd, statsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
