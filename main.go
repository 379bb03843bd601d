// potrans: AI translation of gettext PO/POT catalogs.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/minios-linux/potrans/config"
	"github.com/minios-linux/potrans/exclude"
	"github.com/minios-linux/potrans/langmeta"
	"github.com/minios-linux/potrans/mofile"
	"github.com/minios-linux/potrans/pofile"
	"github.com/minios-linux/potrans/provider"
	"github.com/minios-linux/potrans/settings"
	"github.com/minios-linux/potrans/translate"
	"github.com/minios-linux/potrans/usage"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.BlueString("[INFO]"), fmt.Sprintf(format, args...))
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.GreenString("[OK]"), fmt.Sprintf(format, args...))
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("[WARN]"), fmt.Sprintf(format, args...))
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("[ERROR]"), fmt.Sprintf(format, args...))
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "potrans",
		Short: "Translate gettext PO/POT catalogs with AI",
		Long: `potrans — AI translation of gettext PO/POT catalogs.

Reads a template catalog, passes brand names, URLs and placeholders through
untouched, sends the remaining strings to an AI provider in batches and
writes one complete PO file per target locale.

Commands:
  translate   Translate a POT/PO file into one or more locales
  check       Show statistics and problems of a PO file
  compile     Compile a PO file to a binary MO file
  languages   List known locales
  auth        Manage provider API keys

AI Providers:
  openai         OpenAI — API key
  groq           Groq — API key
  google         Google AI (Gemini) — API key
  anthropic      Anthropic — API key
  ollama         Ollama local server
  custom-openai  Custom OpenAI-compatible endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTranslateCmd(),
		newCheckCmd(),
		newCompileCmd(),
		newLanguagesCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
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
			fmt.Printf("potrans version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Provider flags
// ---------------------------------------------------------------------------

type providerFlags struct {
	provider   string
	apiKey     string
	model      string
	baseURL    string
	proxy      string
	timeout    time.Duration
	maxRetries int
}

func (pf *providerFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("provider", pflag.ContinueOnError)
	fs.StringVar(&pf.provider, "provider", "", "AI provider: "+strings.Join(provider.IDs(), ", "))
	fs.StringVar(&pf.model, "model", "", "Model name (default: provider default)")
	fs.StringVar(&pf.apiKey, "api-key", "", "API key (or "+settings.EnvAPIKey+" env var)")
	fs.StringVar(&pf.baseURL, "base-url", "", "Custom API base URL")
	fs.StringVar(&pf.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	fs.DurationVar(&pf.timeout, "timeout", 0, "Request timeout (0 = provider default)")
	fs.IntVar(&pf.maxRetries, "max-retries", 3, "Maximum retries on rate limits and server errors")
	return fs
}

// resolveProvider merges flags over config values and stored credentials.
func resolveProvider(pf providerFlags, cfg *config.File) (provider.Provider, error) {
	id := pf.provider
	if id == "" {
		id = cfg.Provider
	}
	if id == "" {
		id = provider.ProviderOpenAI
	}
	prov, ok := provider.Lookup(id)
	if !ok {
		return provider.Provider{}, fmt.Errorf("unknown provider %q (available: %s)", id, strings.Join(provider.IDs(), ", "))
	}

	prov.Model = firstNonEmpty(pf.model, cfg.Model)
	if baseURL := firstNonEmpty(pf.baseURL, cfg.BaseURL, settings.GetBaseURL(id)); baseURL != "" {
		prov.BaseURL = baseURL
	}
	prov.Proxy = firstNonEmpty(pf.proxy, cfg.Proxy)
	prov.APIKey = settings.ResolveAPIKey(pf.apiKey, id)

	if err := prov.Validate(); err != nil {
		if prov.NeedsKey && prov.APIKey == "" {
			return provider.Provider{}, fmt.Errorf("%w\n\n"+
				"Option 1: Store your API key:\n"+
				"  potrans auth set %s\n\n"+
				"Option 2: Pass key directly:\n"+
				"  --api-key YOUR_KEY or export %s=YOUR_KEY", err, id, settings.EnvAPIKey)
		}
		return provider.Provider{}, err
	}
	return prov, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateArgs struct {
	prov          providerFlags
	langs         string
	batchSize     int
	exclusions    string
	outDir        string
	configPath    string
	prompt        string
	parallel      bool
	maxConcurrent int
	groupPlurals  bool
	compileMO     bool
	dryRun        bool
	verbose       bool
}

func newTranslateCmd() *cobra.Command {
	var a translateArgs

	cmd := &cobra.Command{
		Use:   "translate FILE.pot",
		Short: "Translate a catalog into one or more locales",
		Long: `Translate a POT (or PO) catalog into the given locales.

One output file <name>-<locale>.po is written per locale, only when every
batch of that locale succeeded.

Examples:
  # French and German with OpenAI
  potrans translate acme.pot --lang fr_FR,de_DE

  # Groq, three locales in parallel, compile .mo files too
  potrans translate acme.pot --provider groq --lang fr_FR,de_DE,es_ES --parallel --mo

  # Estimate requests and cost without calling any provider
  potrans translate acme.pot --lang fr_FR --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd.Flags(), &a, cfg)
			return runTranslate(cmd.Context(), args[0], a, cfg)
		},
	}

	cmd.Flags().AddFlagSet(a.prov.flagSet())

	cmd.Flags().StringVar(&a.langs, "lang", "", "Target locales (comma-separated, e.g. fr_FR,de_DE)")
	cmd.Flags().IntVar(&a.batchSize, "batch-size", config.DefaultBatchSize, "Entries per API request")
	cmd.Flags().StringVar(&a.exclusions, "exclude", "", "Terms never translated (comma-separated)")
	cmd.Flags().StringVar(&a.outDir, "out-dir", "", "Output directory (default: next to the source file)")
	cmd.Flags().StringVar(&a.configPath, "config", config.FileName, "Config file")
	cmd.Flags().StringVar(&a.prompt, "prompt", "", "Custom system prompt (use {{targetLang}} placeholder)")
	cmd.Flags().BoolVar(&a.parallel, "parallel", false, "Translate locales concurrently")
	cmd.Flags().IntVar(&a.maxConcurrent, "max-concurrent", 3, "Maximum concurrent locales (with --parallel)")
	cmd.Flags().BoolVar(&a.groupPlurals, "group-plurals", false, "Write plural entries after all singular entries")
	cmd.Flags().BoolVar(&a.compileMO, "mo", false, "Also compile a .mo file per locale")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Count requests and estimate cost without calling the provider")
	cmd.Flags().BoolVar(&a.verbose, "verbose", false, "Enable detailed logging")

	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, id := range provider.IDs() {
			p, _ := provider.Lookup(id)
			out = append(out, id+"\t"+p.Name)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("lang", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return langmeta.Codes(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// applyConfig fills every flag the user did not set from the config file.
func applyConfig(flags *pflag.FlagSet, a *translateArgs, cfg *config.File) {
	if !flags.Changed("lang") && len(cfg.Languages) > 0 {
		a.langs = strings.Join(cfg.Languages, ",")
	}
	if !flags.Changed("batch-size") {
		a.batchSize = cfg.BatchSize
	}
	if !flags.Changed("out-dir") {
		a.outDir = cfg.OutDir
	}
	if !flags.Changed("prompt") {
		a.prompt = cfg.Prompt
	}
	if !flags.Changed("parallel") {
		a.parallel = cfg.Parallel
	}
	if !flags.Changed("max-concurrent") && cfg.MaxConcurrent > 0 {
		a.maxConcurrent = cfg.MaxConcurrent
	}
	if !flags.Changed("group-plurals") {
		a.groupPlurals = cfg.GroupPlurals
	}
	if !flags.Changed("mo") {
		a.compileMO = cfg.CompileMO
	}
	if a.batchSize <= 0 {
		a.batchSize = config.DefaultBatchSize
	}
}

func runTranslate(ctx context.Context, source string, a translateArgs, cfg *config.File) error {
	content, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}

	langs := parseLangs(a.langs)
	if len(langs) == 0 {
		return errors.New("no target locales: use --lang or set languages in " + config.FileName)
	}

	exclusions := append([]string{}, cfg.Exclusions...)
	exclusions = append(exclusions, exclude.Split(a.exclusions)...)

	meter := usage.NewMeter(nil, *cfg.Pricing)
	progress := newProgressReporter(!a.parallel)
	defer progress.finish()

	opts := translate.Options{
		Names:         langmeta.NewResolver(cfg.LanguageNames),
		BatchSize:     a.batchSize,
		Exclusions:    exclusions,
		SourceName:    filepath.Base(source),
		PluralTable:   pofile.DefaultPluralTable().Merge(cfg.PluralForms),
		Generator:     "potrans/" + version,
		Meter:         meter,
		GroupPlurals:  a.groupPlurals,
		Parallel:      a.parallel,
		MaxConcurrent: a.maxConcurrent,
		OnProgress:    progress.update,
		OnLog: func(format string, args ...any) {
			if a.verbose {
				logInfo(format, args...)
			}
		},
	}

	var tr translate.Translator
	if a.dryRun {
		tr = translate.TranslatorFunc(func(_ context.Context, texts []string, _ translate.Target) ([]string, error) {
			return texts, nil
		})
		logInfo("Dry run: texts are echoed back, no provider is called")
	} else {
		prov, err := resolveProvider(a.prov, cfg)
		if err != nil {
			return err
		}
		logger := zap.NewNop()
		if a.verbose {
			if l, err := zap.NewDevelopment(); err == nil {
				logger = l
				defer func() { _ = logger.Sync() }()
			}
		}
		client, err := provider.New(ctx, prov, provider.Options{
			SystemPrompt: a.prompt,
			MaxRetries:   a.prov.maxRetries,
			Timeout:      a.prov.timeout,
			Logger:       logger,
		})
		if err != nil {
			return err
		}
		tr = client
		logInfo("Provider: %s, model: %s", prov.Name, client.Provider().Model)
	}

	tasks := make([]translate.LangTask, 0, len(langs))
	for _, lang := range langs {
		tasks = append(tasks, translate.LangTask{Locale: lang})
	}

	logInfo("Translating %s into %s (batch size %d)", source, strings.Join(langs, ", "), a.batchSize)
	results, runErr := translate.TranslateAll(ctx, string(content), tasks, tr, opts)
	progress.finish()

	outDir := a.outDir
	if outDir == "" {
		outDir = filepath.Dir(source)
	}

	var errs error
	if runErr != nil {
		for _, err := range multierr.Errors(runErr) {
			logError("%v", err)
		}
		errs = runErr
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		path := filepath.Join(outDir, translate.OutputName(source, res.Target.Locale))
		if a.dryRun {
			logInfo("%s: would write %s (%d entries, %d requests)", res.Target.Locale, path, res.Stats.Entries, res.Stats.Requests)
			continue
		}
		if err := writeOutputs(path, res, a.compileMO); err != nil {
			logError("%v", err)
			errs = multierr.Append(errs, err)
			continue
		}
		logSuccess("%s (%s): %s, %d translated, %d passed through",
			res.Target.Locale, res.Target.Name, path, res.Stats.Translated, res.Stats.PassedThrough)
	}

	printUsage(meter)
	return errs
}

// writeOutputs writes the PO file and, when asked, the compiled MO next to it.
func writeOutputs(path string, res *translate.Result, compileMO bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(res.Content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	summary, err := mofile.Summarize(res.Content)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if summary.Untranslated > 0 {
		logWarning("%s: %d entries left untranslated", path, summary.Untranslated)
	}

	if !compileMO {
		return nil
	}
	bin, err := mofile.Compile(res.Content)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", path, err)
	}
	moPath := strings.TrimSuffix(path, ".po") + ".mo"
	if err := os.WriteFile(moPath, bin, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", moPath, err)
	}
	logSuccess("Compiled %s (%s)", moPath, humanize.Bytes(uint64(len(bin))))
	return nil
}

func printUsage(m *usage.Meter) {
	u := m.Totals()
	logInfo("Usage: %s requests, %s input + %s output tokens (estimated), cost $%.4f",
		humanize.Comma(int64(m.Batches())),
		humanize.Comma(int64(u.InputTokens)),
		humanize.Comma(int64(u.OutputTokens)),
		m.Cost())
}

// parseLangs splits a comma-separated locale list, dropping blanks and
// duplicates.
func parseLangs(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, lang := range exclude.Split(s) {
		if !seen[lang] {
			seen[lang] = true
			out = append(out, lang)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Progress rendering
// ---------------------------------------------------------------------------

// progressReporter draws one bar per locale when locales run one at a time,
// and plain log lines when they run concurrently.
type progressReporter struct {
	bars bool

	mu   sync.Mutex
	cur  *progressbar.ProgressBar
	lang string
}

func newProgressReporter(bars bool) *progressReporter {
	return &progressReporter{bars: bars}
}

func (p *progressReporter) update(lang string, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.bars {
		logInfo("  %s: %d/%d", lang, done, total)
		return
	}
	if p.cur == nil || p.lang != lang {
		if p.cur != nil {
			_ = p.cur.Finish()
		}
		p.lang = lang
		p.cur = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", lang)),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
		)
	}
	_ = p.cur.Set(done)
}

func (p *progressReporter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur != nil {
		_ = p.cur.Finish()
		p.cur = nil
	}
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func newCheckCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check FILE.po",
		Short: "Show statistics and problems of a PO file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when the catalog has warnings")
	return cmd
}

func runCheck(path string, strict bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := mofile.Summarize(string(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	lang := s.Language
	if m, ok := langmeta.Lookup(lang); ok {
		lang = strings.TrimSpace(m.Flag + " " + lang + " (" + m.Name + ")")
	}
	fmt.Printf("File:         %s\n", path)
	fmt.Printf("Language:     %s\n", lang)
	fmt.Printf("Plural-Forms: %s\n", s.PluralForms)
	fmt.Printf("Entries:      %d (%d translated, %d untranslated)\n", s.Total, s.Translated, s.Untranslated)
	fmt.Printf("Progress:     %s\n", progressBar(percent(s.Translated, s.Total), 30))

	for _, w := range s.Warnings {
		logWarning("%s", w)
	}
	if strict && !s.Complete() {
		return fmt.Errorf("%s: %d warnings", path, len(s.Warnings))
	}
	return nil
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return done * 100 / total
}

// progressBar renders a colored completion bar followed by the percentage.
func progressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100

	c := color.New(color.FgRed)
	switch {
	case pct == 100:
		c = color.New(color.FgGreen)
	case pct >= 50:
		c = color.New(color.FgYellow)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %3d%%", c.Sprint(bar), pct)
}

// ---------------------------------------------------------------------------
// compile
// ---------------------------------------------------------------------------

func newCompileCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compile FILE.po",
		Short: "Compile a PO file to a binary MO file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: FILE.mo)")
	return cmd
}

func runCompile(path, output string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	bin, err := mofile.Compile(string(data))
	if err != nil {
		return fmt.Errorf("compiling %s: %w", path, err)
	}
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".mo"
	}
	if err := os.WriteFile(output, bin, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	logSuccess("Compiled %s (%s)", output, humanize.Bytes(uint64(len(bin))))
	return nil
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List known locales and their display names",
		Run: func(cmd *cobra.Command, args []string) {
			codes := langmeta.Codes()
			width := langColumnWidth(codes)
			for _, code := range codes {
				m := langmeta.Resolve(code)
				fmt.Printf("%s  %-30s %s\n", langCell(code, width), m.Name, m.Native)
			}
		},
	}
}

func langColumnWidth(codes []string) int {
	width := 0
	for _, c := range codes {
		if len(c) > width {
			width = len(c)
		}
	}
	return width
}

// langCell renders "<flag> <code>" padded to width.
func langCell(code string, width int) string {
	flag := langmeta.Flag(code)
	if flag == "" {
		flag = "  "
	}
	return fmt.Sprintf("%s %-*s", flag, width, code)
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Manage provider API keys stored in ` + settings.FilePath() + `.

Key lookup order: --api-key flag, ` + settings.EnvAPIKey + `, stored key.`,
	}
	cmd.AddCommand(newAuthSetCmd(), newAuthRemoveCmd(), newAuthListCmd())
	return cmd
}

func newAuthSetCmd() *cobra.Command {
	var key, baseURL string

	cmd := &cobra.Command{
		Use:   "set PROVIDER",
		Short: "Store an API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if _, ok := provider.Lookup(id); !ok {
				return fmt.Errorf("unknown provider %q (available: %s)", id, strings.Join(provider.IDs(), ", "))
			}
			if id == provider.ProviderCustomOpenAI && baseURL == "" {
				return errors.New("provider 'custom-openai' requires --base-url")
			}
			if key == "" {
				fmt.Fprintf(os.Stderr, "API key for %s: ", id)
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading API key: %w", err)
				}
				key = strings.TrimSpace(line)
			}
			if key == "" && id != provider.ProviderCustomOpenAI && id != provider.ProviderOllama {
				return errors.New("empty API key")
			}
			if err := settings.SetAPIKey(id, key, baseURL); err != nil {
				return err
			}
			logSuccess("Stored credentials for %s in %s", id, settings.FilePath())
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "API key (prompted when omitted)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Endpoint URL (custom-openai)")
	return cmd
}

func newAuthRemoveCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "remove [PROVIDER]",
		Short: "Remove stored credentials",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("Removed all stored credentials")
				return nil
			}
			if len(args) == 0 {
				return errors.New("specify a provider or --all")
			}
			if err := settings.Remove(args[0]); err != nil {
				return err
			}
			logSuccess("Removed credentials for %s", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Remove credentials for every provider")
	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		Run: func(cmd *cobra.Command, args []string) {
			store := settings.Load()
			if len(store) == 0 {
				logInfo("No stored credentials (%s)", settings.FilePath())
				return
			}
			for _, id := range store.Providers() {
				info := store[id]
				line := fmt.Sprintf("%-14s %s", id, settings.MaskKey(info.Key))
				if info.BaseURL != "" {
					line += "  " + info.BaseURL
				}
				fmt.Println(line)
			}
		},
	}
}
