// AITranslate is an incremental String Catalog (.xcstrings) translator
// with AI provider support.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lkzhao/AITranslate/catalog"
	"github.com/lkzhao/AITranslate/config"
	"github.com/lkzhao/AITranslate/langmeta"
	"github.com/lkzhao/AITranslate/settings"
	"github.com/lkzhao/AITranslate/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aitranslate",
		Short: "Incremental String Catalog translator with AI providers",
		Long: `AITranslate — incremental String Catalog (.xcstrings) translator.

Sends only missing or stale entries to an AI translation provider,
preserves approved translations, and keeps glossary terms (emphasized
spans, headings, image captions) consistent across re-translations.

Commands:
  translate   Translate missing units in a catalog
  status      Show per-language translation statistics
  auth        Manage provider API keys

AI Providers:
  gemini         Google AI (Gemini) — API key
  openai         OpenAI — API key
  custom-openai  Custom OpenAI-compatible endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTranslateCmd(),
		newStatusCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aitranslate version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		langs        []string
		keys         []string
		hintKeys     []string
		extraContext string
		providerID   string
		model        string
		baseURL      string
		apiKey       string
		timeoutSecs  int
		verbose      bool
		skipBackup   bool
		force        bool
		removeStale  bool
	)

	cmd := &cobra.Command{
		Use:   "translate <catalog.xcstrings>",
		Short: "Translate missing units in a catalog",
		Long: `Translate every missing or stale unit in a String Catalog.

Already-translated units are left untouched unless --force is given.
Units using variations/substitutions are skipped with a warning.
Individual provider failures are recorded as error-state units and do
not abort the run; only a catalog that cannot be read, decoded, or
written is fatal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(args[0], translateFlags{
				langs:        langs,
				keys:         keys,
				hintKeys:     hintKeys,
				extraContext: extraContext,
				providerID:   providerID,
				model:        model,
				baseURL:      baseURL,
				apiKey:       apiKey,
				timeoutSecs:  timeoutSecs,
				verbose:      verbose,
				skipBackup:   skipBackup,
				force:        force,
				removeStale:  removeStale,
			})
		},
	}

	cmd.Flags().StringSliceVarP(&langs, "lang", "l", nil, "Target language codes (comma-separated or repeated)")
	cmd.Flags().StringSliceVar(&keys, "key", nil, "Only translate these entry keys")
	cmd.Flags().StringSliceVar(&hintKeys, "hint", nil, "Extra glossary keys resolved for every request")
	cmd.Flags().StringVar(&extraContext, "context", "", "Extra context appended to every request")
	cmd.Flags().StringVar(&providerID, "provider", "gemini", "AI provider (gemini, openai, custom-openai)")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier (provider default if empty)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL (custom-openai)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (overrides env and stored credentials)")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 60, "Per-request timeout in seconds")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Detailed logging instead of a progress bar")
	cmd.Flags().BoolVar(&skipBackup, "skip-backup", false, "Do not back up the previous catalog file")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-translate already translated units")
	cmd.Flags().BoolVar(&removeStale, "remove-stale", false, "Remove stale entries before saving")

	return cmd
}

type translateFlags struct {
	langs        []string
	keys         []string
	hintKeys     []string
	extraContext string
	providerID   string
	model        string
	baseURL      string
	apiKey       string
	timeoutSecs  int
	verbose      bool
	skipBackup   bool
	force        bool
	removeStale  bool
}

func runTranslate(path string, flags translateFlags) error {
	// Best-effort .env for API keys.
	_ = godotenv.Load()

	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		return err
	}
	if cfg != nil {
		if len(flags.langs) == 0 {
			flags.langs = cfg.Languages
		}
		if flags.providerID == "gemini" && cfg.Provider != "" {
			flags.providerID = cfg.Provider
		}
		if flags.model == "" {
			flags.model = cfg.Model
		}
		if flags.baseURL == "" {
			flags.baseURL = cfg.BaseURL
		}
		if flags.extraContext == "" {
			flags.extraContext = cfg.Context
		}
		if len(flags.hintKeys) == 0 {
			flags.hintKeys = cfg.Hints
		}
		if cfg.TimeoutSeconds > 0 && flags.timeoutSecs == 60 {
			flags.timeoutSecs = cfg.TimeoutSeconds
		}
	}

	if len(flags.langs) == 0 {
		return fmt.Errorf("no target languages: use --lang or a %s file", config.FileName)
	}
	for i, lang := range flags.langs {
		normalized, err := langmeta.Normalize(lang)
		if err != nil {
			return err
		}
		flags.langs[i] = normalized
	}

	prov, ok := translate.DefaultProviders()[flags.providerID]
	if !ok {
		return fmt.Errorf("unknown provider %q (valid: gemini, openai, custom-openai)", flags.providerID)
	}
	if flags.model != "" {
		prov.Model = flags.model
	}
	if flags.baseURL != "" {
		prov.BaseURL = flags.baseURL
	}
	if prov.BaseURL == "" {
		return fmt.Errorf("provider %s needs --base-url", prov.ID)
	}
	prov.Timeout = time.Duration(flags.timeoutSecs) * time.Second
	prov.APIKey = settings.ResolveAPIKey(prov.ID, flags.apiKey)
	if prov.APIKey == "" {
		return fmt.Errorf("no API key for %s: use --api-key, $%s, or 'aitranslate auth set %s'",
			prov.ID, settings.EnvVarForProvider(prov.ID), prov.ID)
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}

	logInfo("Catalog: %s (%d entries, source %s)", path, len(cat.Strings), cat.SourceLanguage)
	logInfo("Languages: %s", strings.Join(flags.langs, ", "))

	opts := translate.Options{
		Service:      translate.NewClient(prov),
		Languages:    flags.langs,
		Keys:         flags.keys,
		HintKeys:     flags.hintKeys,
		ExtraContext: flags.extraContext,
		Force:        flags.force,
		Verbose:      flags.verbose,
		OnLog:        logInfo,
		OnError:      logWarning,
	}

	total := len(cat.Strings) * len(flags.langs)
	if flags.verbose {
		opts.OnPercent = func(percent int) {
			logInfo("Progress: %d%%", percent)
		}
	} else if total > 0 {
		bar := progressbar.NewOptions(total,
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", filepath.Base(path))),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
		opts.OnProgress = func(done, total int) {
			_ = bar.Set(done)
		}
	}

	sum, err := translate.Run(context.Background(), cat, opts)
	if !flags.verbose {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	if err := catalog.Save(cat, path, catalog.SaveOptions{
		RemoveStale: flags.removeStale,
		SkipBackup:  flags.skipBackup,
	}); err != nil {
		return err
	}

	if sum.Failed > 0 {
		logWarning("%d unit(s) failed and were recorded with error state", sum.Failed)
	}
	logSuccess("Done: %d translated, %d passed through, %d skipped, %d unsupported, %d failed",
		sum.Translated, sum.PassedThrough, sum.Skipped, sum.Unsupported, sum.Failed)

	// Per-unit failures are visible in the catalog, not in the exit code.
	return nil
}

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <catalog.xcstrings>",
		Short: "Show per-language translation statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(args[0])
		},
	}
}

func runStatus(path string) error {
	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n%sCatalog%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  File:       %s\n", path)
	fmt.Fprintf(os.Stderr, "  Source:     %s (%s)\n", cat.SourceLanguage, langmeta.Name(cat.SourceLanguage))
	fmt.Fprintf(os.Stderr, "  Entries:    %d\n\n", len(cat.Strings))

	type langStats struct {
		translated  int
		pending     int
		failed      int
		unsupported int
	}
	stats := make(map[string]*langStats)
	for _, e := range cat.Strings {
		for lang, loc := range e.Localizations {
			if lang == cat.SourceLanguage {
				continue
			}
			s := stats[lang]
			if s == nil {
				s = &langStats{}
				stats[lang] = s
			}
			switch {
			case loc.Unsupported():
				s.unsupported++
			case loc.StringUnit == nil || loc.StringUnit.State == catalog.StateNew:
				s.pending++
			case loc.StringUnit.State == catalog.StateError:
				s.failed++
			case loc.StringUnit.State == catalog.StateTranslated:
				s.translated++
			}
		}
	}

	if len(stats) == 0 {
		logInfo("No target-language units yet. Run 'aitranslate translate --lang <code>'.")
		return nil
	}

	langs := make([]string, 0, len(stats))
	for lang := range stats {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	fmt.Fprintf(os.Stderr, "%sTranslation Statistics%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "\n%-10s %-12s %-10s %-10s %-12s %-8s\n", "Lang", "Translated", "Pending", "Failed", "Unsupported", "Percent")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 64))

	total := len(cat.Strings)
	for _, lang := range langs {
		s := stats[lang]
		percent := 0
		if total > 0 {
			percent = s.translated * 100 / total
		}
		fmt.Fprintf(os.Stderr, "%-10s %-12d %-10d %-10d %-12d %d%%\n",
			lang, s.translated, s.pending, s.failed, s.unsupported, percent)
	}
	fmt.Fprintln(os.Stderr)

	return nil
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Manage provider API keys stored in ` + settings.FilePath() + `.

Keys can also be supplied per run via --api-key or the provider
environment variable (GEMINI_API_KEY, OPENAI_API_KEY).`,
	}

	var key string
	setCmd := &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			if _, ok := translate.DefaultProviders()[provider]; !ok {
				return fmt.Errorf("unknown provider %q", provider)
			}
			if key == "" {
				return fmt.Errorf("missing --key")
			}
			if err := settings.SetAPIKey(provider, key); err != nil {
				return err
			}
			logSuccess("Stored API key for %s (%s)", provider, settings.MaskKey(key))
			return nil
		},
	}
	setCmd.Flags().StringVar(&key, "key", "", "The API key to store")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show stored credentials",
		Run: func(cmd *cobra.Command, args []string) {
			store := settings.Load()
			if len(store) == 0 {
				logInfo("No stored credentials (%s)", settings.FilePath())
				return
			}
			providers := make([]string, 0, len(store))
			for p := range store {
				providers = append(providers, p)
			}
			sort.Strings(providers)
			for _, p := range providers {
				fmt.Fprintf(os.Stderr, "  %-15s %s\n", p, settings.MaskKey(store[p].Key))
			}
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Remove(args[0]); err != nil {
				return err
			}
			logSuccess("Removed credentials for %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(setCmd, statusCmd, removeCmd)
	return cmd
}
