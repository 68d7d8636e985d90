package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/secretgrid/internal/config"
	"github.com/san-kum/secretgrid/internal/export"
	"github.com/san-kum/secretgrid/internal/grid"
	"github.com/san-kum/secretgrid/internal/source"
	"github.com/san-kum/secretgrid/internal/storage"
	"github.com/san-kum/secretgrid/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	origin     string
	timeout    time.Duration
	cacheSize  int
	maxBody    int64
	maxCells   int
	verbose    bool
	framed     bool
	save       bool
	svgPath    string
	format     string
)

const separatorWidth = 24

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "secretgrid"})

// main executes the root command, which decodes the given document. It exits
// with status 1 on error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// newRootCmd registers every command and flag.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "secretgrid [url|file]...",
		Short:         "decode ASCII-art messages from published coordinate tables",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: decodeCommand,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for saved decodes")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&origin, "origin", config.DefaultOrigin, "row printed first: top (y=0) or bottom (max y)")
	pf.DurationVar(&timeout, "timeout", source.DefaultTimeout, "http timeout")
	pf.IntVar(&cacheSize, "cache", source.DefaultCacheSize, "documents kept in the fetch cache (0 disables)")
	pf.Int64Var(&maxBody, "max-body", source.DefaultMaxBodySize, "largest document accepted, in bytes")
	pf.IntVar(&maxCells, "max-cells", grid.DefaultMaxCells, "refuse grids with more cells (0 disables)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().BoolVar(&framed, "frame", false, "draw a border around the message")
	rootCmd.Flags().BoolVar(&save, "save", false, "archive the decode in the data directory")
	rootCmd.Flags().StringVar(&svgPath, "svg", "", "also write the message as an SVG image")

	decodeCmd := &cobra.Command{
		Use:   "decode [url|file]...",
		Short: "fetch documents and print their messages",
		Args:  cobra.ArbitraryArgs,
		RunE:  decodeCommand,
	}
	decodeCmd.Flags().BoolVar(&framed, "frame", false, "draw a border around the message")
	decodeCmd.Flags().BoolVar(&save, "save", false, "archive the decode in the data directory")
	decodeCmd.Flags().StringVar(&svgPath, "svg", "", "also write the message as an SVG image")

	viewCmd := &cobra.Command{
		Use:   "view [url|file]",
		Short: "open the message in a scrollable viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  viewCommand,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved decodes",
		RunE:  listDecodes,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "print a saved message",
		Args:  cobra.ExactArgs(1),
		RunE:  showDecode,
	}
	showCmd.Flags().BoolVar(&framed, "frame", false, "draw a border around the message")

	exportCmd := &cobra.Command{
		Use:   "export [id]",
		Short: "export a saved decode as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportDecode,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format: json or svg")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tORIGIN\tSTYLE")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Origin, p.Style)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(decodeCmd, viewCmd, listCmd, showCmd, exportCmd, presetsCmd)
	return rootCmd
}

// loadConfig layers defaults, preset, config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("origin") {
		cfg.Origin = origin
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("cache") {
		cfg.CacheSize = cacheSize
	}
	if flags.Changed("max-body") {
		cfg.MaxBodySize = maxBody
	}
	if flags.Changed("max-cells") {
		cfg.MaxCells = maxCells
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Lookup("frame") != nil && flags.Changed("frame") {
		cfg.Style = config.StylePlain
		if framed {
			cfg.Style = config.StyleFramed
		}
	}
	if flags.Lookup("save") != nil && flags.Changed("save") {
		cfg.Save = save
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// locations returns the documents named on the command line, falling back to
// the configured url.
func locations(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.URL != "" {
		return []string{cfg.URL}, nil
	}
	return nil, errors.New("no document given: pass a url or file, or set url in the config file")
}

func newFetcher(cfg *config.Config) (*source.Fetcher, error) {
	return source.NewFetcher(cfg.FetcherOptions()...)
}

// decode runs the whole pipeline: source, record validation, grid. extra
// options are applied after the configured ones.
func decode(ctx context.Context, f *source.Fetcher, cfg *config.Config, loc string, extra ...grid.Option) (*grid.Grid, []grid.Record, error) {
	logger.Debug("reading document", "location", loc, "timeout", cfg.Timeout)
	start := time.Now()
	raws, err := source.Open(ctx, f, loc)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("parsed table", "rows", len(raws), "elapsed", time.Since(start))

	records, err := grid.ParseRecords(raws)
	if err != nil {
		return nil, nil, err
	}

	opts, err := cfg.GridOptions()
	if err != nil {
		return nil, nil, err
	}
	g, err := grid.Build(records, append(opts, extra...)...)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("built grid", "width", g.Width(), "height", g.Height(), "origin", g.Origin())
	return g, records, nil
}

func decodeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	locs, err := locations(cfg, args)
	if err != nil {
		return err
	}
	if svgPath != "" && len(locs) > 1 {
		return fmt.Errorf("--svg takes a single document, got %d", len(locs))
	}

	f, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	var st *storage.Store
	if cfg.Save {
		st = storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	for i, loc := range locs {
		g, records, err := decode(cmd.Context(), f, cfg, loc)
		if err != nil {
			return fmt.Errorf("%s: %w", loc, err)
		}

		if i > 0 {
			fmt.Println(viz.Separator(max(viz.DisplayWidth(g), separatorWidth)))
		}
		if g.Empty() {
			logger.Warn("document table has no records", "location", loc)
		}
		if err := printGrid(cfg.Style, g, loc); err != nil {
			return err
		}

		if svgPath != "" {
			if err := writeSVGFile(svgPath, g); err != nil {
				return err
			}
			logger.Debug("wrote svg", "path", svgPath)
		}

		if st != nil {
			id, err := st.Save(loc, records, g)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, viz.SuccessStyle.Render("saved decode "+id))
		}
	}
	logger.Debug("fetch cache", "documents", f.Cached())
	return nil
}

func printGrid(style string, g *grid.Grid, title string) error {
	if style == config.StyleFramed {
		fmt.Println(viz.Frame(g, title))
		return nil
	}
	if g.Empty() {
		return nil
	}
	if _, err := g.WriteTo(os.Stdout); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

func viewCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	locs, err := locations(cfg, args)
	if err != nil {
		return err
	}
	loc := locs[0]

	f, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	load := viewLoader(cmd.Context(), f, cfg, loc)
	origin, err := grid.ParseOrigin(cfg.Origin)
	if err != nil {
		return err
	}
	g, err := load(origin, false)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewViewer(g, loc, load), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// viewLoader decodes loc again through the shared fetcher. Only a fresh
// load goes back to the network.
func viewLoader(ctx context.Context, f *source.Fetcher, cfg *config.Config, loc string) viz.LoadFunc {
	return func(origin grid.Origin, fresh bool) (*grid.Grid, error) {
		if fresh {
			f.Purge()
		}
		g, _, err := decode(ctx, f, cfg, loc, grid.WithOrigin(origin))
		return g, err
	}
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listDecodes(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	decodes, err := st.List()
	if err != nil {
		return err
	}

	if len(decodes) == 0 {
		fmt.Println("no decodes found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tRECORDS\tORIGIN\tSOURCE")

	for _, d := range decodes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			d.ID,
			d.Timestamp.Format("2006-01-02 15:04:05"),
			viz.Dimensions(d.Width, d.Height),
			d.Records,
			d.Origin,
			d.Source,
		)
	}

	return w.Flush()
}

func showDecode(cmd *cobra.Command, args []string) error {
	id := args[0]
	st, err := openStore(cmd)
	if err != nil {
		return err
	}

	if !framed {
		msg, err := st.LoadMessage(id)
		if err != nil {
			return err
		}
		if msg != "" {
			fmt.Println(msg)
		}
		return nil
	}

	meta, g, err := st.LoadGrid(id)
	if err != nil {
		return err
	}
	return printGrid(config.StyleFramed, g, meta.Source)
}

func writeSVGFile(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteSVG(f, g, export.DefaultSVGOptions()); err != nil {
		return err
	}
	return f.Close()
}

func exportDecode(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		return st.Export(os.Stdout, args[0])
	case "svg":
		_, g, err := st.LoadGrid(args[0])
		if err != nil {
			return err
		}
		return export.WriteSVG(os.Stdout, g, export.DefaultSVGOptions())
	default:
		return fmt.Errorf("unknown export format: %s (available: json, svg)", format)
	}
}
