package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/paunplugged/legis-tracker/internal/bill"
	"github.com/paunplugged/legis-tracker/internal/config"
	"github.com/paunplugged/legis-tracker/internal/contact"
	"github.com/paunplugged/legis-tracker/internal/logger"
	"github.com/paunplugged/legis-tracker/internal/pipeline"
	"github.com/paunplugged/legis-tracker/internal/scraper"
	"github.com/paunplugged/legis-tracker/internal/storage"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app carries the settings source shared by every command
type app struct {
	v       *viper.Viper
	verbose bool
	sort    string
	logOut  io.Writer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stderr)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{v: config.NewViper(), logOut: logOut}

	cmd := &cobra.Command{
		Use:   "legis-tracker",
		Short: "Build the Pennsylvania bill tracker dataset",
		Long: `Searches the Pennsylvania General Assembly site for bills matching each
configured issue's keywords, enriches them from their bill pages and sponsor
bios, and writes a grouped JSON document for the dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runPipeline,
	}

	a.bindFlags(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runPipeline,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "bill <id>",
		Short: "Fetch and print a single bill, e.g. SB123",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runBill,
	})

	return cmd
}

// bindFlags defines the persistent flags and binds them to their setting keys.
// Flag defaults mirror the setting defaults so --help shows them.
func (a *app) bindFlags(cmd *cobra.Command) {
	v := a.v
	f := cmd.PersistentFlags()

	f.String("topics", v.GetString(config.KeyTopics), "Issue configuration file (JSON or YAML)")
	f.String("known-bills", v.GetString(config.KeyKnownBills), "Known bills file with hide list and annotations")
	f.String("output", v.GetString(config.KeyOutput), "Output document path")
	f.String("data-dir", v.GetString(config.KeyDataDir), "Directory relative paths are resolved against")
	f.String("cache-file", v.GetString(config.KeyCacheFile), "Member contact cache file")
	f.String("base-url", v.GetString(config.KeyBaseURL), "Legislature site root")
	f.Duration("delay", v.GetDuration(config.KeyDelay), "Minimum spacing between page requests (0 disables)")
	f.Duration("timeout", v.GetDuration(config.KeyTimeout), "Per-request timeout")
	f.String("session-year", "", "Legislative session year (overrides the issue file)")
	f.String("format", v.GetString(config.KeyFormat), "Summary format: text or json")
	f.String("log-level", v.GetString(config.KeyLogLevel), "Log level: debug, info, warn, error")
	f.String("log-format", v.GetString(config.KeyLogFormat), "Log format: json or console")
	f.BoolVar(&a.verbose, "verbose", false, "List bills in the summary and log at debug level")
	f.StringVar(&a.sort, "sort", string(SortByDate), "Bill order in the verbose summary: date, id or title")

	bindings := map[string]string{
		config.KeyTopics:      "topics",
		config.KeyKnownBills:  "known-bills",
		config.KeyOutput:      "output",
		config.KeyDataDir:     "data-dir",
		config.KeyCacheFile:   "cache-file",
		config.KeyBaseURL:     "base-url",
		config.KeyDelay:       "delay",
		config.KeyTimeout:     "timeout",
		config.KeySessionYear: "session-year",
		config.KeyFormat:      "format",
		config.KeyLogLevel:    "log-level",
		config.KeyLogFormat:   "log-format",
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}
}

// setup loads settings and installs the run logger.
func (a *app) setup() (*config.Settings, string, error) {
	settings, err := config.Load(a.v)
	if err != nil {
		return nil, "", eris.Wrap(err, "loading settings")
	}

	level, _ := logger.ParseLevel(settings.Log.Level)
	if a.verbose {
		level = logger.LevelDebug
	}
	format, _ := logger.ParseFormat(settings.Log.Format)

	runID := uuid.NewString()
	logger.SetDefault(logger.NewWithFormat(level, format, a.logOut).With(logger.Fields{"run_id": runID}))

	return settings, runID, nil
}

// env is everything a command needs to talk to the site
type env struct {
	settings *config.Settings
	store    *storage.Storage
	topics   *config.Topics
	known    *config.KnownBills
	session  string
	scraper  *scraper.Scraper
	metrics  *logger.Metrics
}

func (a *app) loadEnv(settings *config.Settings) (*env, error) {
	store, err := storage.New(settings.DataDir)
	if err != nil {
		return nil, eris.Wrap(err, "initializing storage")
	}

	topics, err := config.LoadTopics(store.Path(settings.Topics))
	if err != nil {
		return nil, err
	}

	known, err := config.LoadKnownBills(store.Path(settings.KnownBills))
	if err != nil {
		return nil, err
	}

	session, err := topics.ResolveSessionYear(settings.SessionYear)
	if err != nil {
		return nil, err
	}

	return &env{
		settings: settings,
		store:    store,
		topics:   topics,
		known:    known,
		session:  session,
		scraper:  scraper.New(scraper.WithBaseURL(settings.BaseURL), scraper.WithTimeout(settings.Timeout)),
		metrics:  logger.NewMetrics(),
	}, nil
}

func (e *env) pipeline(contacts pipeline.ContactLookup) *pipeline.Pipeline {
	return pipeline.New(e.scraper, contacts, e.topics, e.known, pipeline.Options{
		BaseURL:     e.scraper.BaseURL(),
		SessionYear: e.session,
		Delay:       e.settings.Delay,
		Metrics:     e.metrics,
	})
}

// runPipeline is the main command logic
func (a *app) runPipeline(cmd *cobra.Command, args []string) error {
	started := time.Now()

	order, err := ParseSortOrder(a.sort)
	if err != nil {
		return err
	}

	settings, runID, err := a.setup()
	if err != nil {
		return err
	}
	defer logger.Default().Sync() // nolint:errcheck

	e, err := a.loadEnv(settings)
	if err != nil {
		return err
	}

	cache := e.store.LoadContactCache(settings.CacheFile, started)
	contacts := contact.NewClient(e.scraper, e.scraper.BaseURL(),
		contact.WithCache(cache), contact.WithMetrics(e.metrics))

	doc, err := e.pipeline(contacts).Run(cmd.Context())
	if err != nil {
		return eris.Wrap(err, "running pipeline")
	}

	changes := bill.Diff(e.store.LoadPreviousDocument(settings.Output), doc)
	logger.Info("Compared with previous document", logger.Fields{
		"new":     len(changes.New),
		"updated": changes.Updated(),
		"removed": len(changes.Removed),
	})

	if err := e.store.WriteDocument(settings.Output, doc); err != nil {
		return eris.Wrap(err, "writing document")
	}
	e.metrics.SetGauge("cache.entries", float64(contacts.GetCache().Len()))
	if err := e.store.SaveContactCache(settings.CacheFile, contacts.GetCache()); err != nil {
		return eris.Wrap(err, "saving contact cache")
	}

	summary := NewRunSummary(runID, e.store.Path(settings.Output), doc, e.metrics.GetSnapshot(), time.Since(started))
	summary.Changes = changes
	return WriteOutput(cmd.OutOrStdout(), summary, OutputFormat(settings.Format), a.verbose, order)
}

// runBill fetches one bill. The contact cache is read but not written.
func (a *app) runBill(cmd *cobra.Command, args []string) error {
	settings, _, err := a.setup()
	if err != nil {
		return err
	}
	defer logger.Default().Sync() // nolint:errcheck

	e, err := a.loadEnv(settings)
	if err != nil {
		return err
	}

	cache := e.store.LoadContactCache(settings.CacheFile, time.Now())
	contacts := contact.NewClient(e.scraper, e.scraper.BaseURL(),
		contact.WithCache(cache), contact.WithMetrics(e.metrics))

	record, err := e.pipeline(contacts).Bill(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return WriteBill(cmd.OutOrStdout(), record, OutputFormat(settings.Format))
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
