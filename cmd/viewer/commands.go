package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dvloznov/transactions-viewer/internal/config"
	"github.com/dvloznov/transactions-viewer/internal/domain"
	"github.com/dvloznov/transactions-viewer/internal/exchange"
	"github.com/dvloznov/transactions-viewer/internal/export"
	"github.com/dvloznov/transactions-viewer/internal/fsutil"
	"github.com/dvloznov/transactions-viewer/internal/gcs"
	infraBQ "github.com/dvloznov/transactions-viewer/internal/infra/bigquery"
	"github.com/dvloznov/transactions-viewer/internal/loader"
	"github.com/dvloznov/transactions-viewer/internal/masks"
	"github.com/dvloznov/transactions-viewer/internal/menu"
	"github.com/dvloznov/transactions-viewer/internal/pipeline"
	"github.com/dvloznov/transactions-viewer/internal/report"
	"github.com/dvloznov/transactions-viewer/internal/storage"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// selection holds the flags shared by commands that load and filter records.
type selection struct {
	source   *string
	format   *string
	status   *string
	sort     *bool
	order    *string
	currency *string
	search   *string
}

func addSelectionFlags(fs *flag.FlagSet, cfg *config.Config) *selection {
	return &selection{
		source:   fs.String("source", cfg.JSONPath, "Path or gs:// URI of the transactions file"),
		format:   fs.String("format", "", "Source format: json, csv or xlsx (defaults to the file extension)"),
		status:   fs.String("status", pipeline.StatusExecuted, "Status to keep: EXECUTED, CANCELED or PENDING"),
		sort:     fs.Bool("sort", false, "Sort by date"),
		order:    fs.String("order", "desc", "Sort order: asc or desc"),
		currency: fs.String("currency", "", "Keep only this currency code"),
		search:   fs.String("search", "", "Keep only descriptions containing this text"),
	}
}

func (s *selection) pipelineOptions() (pipeline.Options, error) {
	status, err := pipeline.ParseStatus(*s.status)
	if err != nil {
		return pipeline.Options{}, err
	}

	var ascending bool
	switch strings.ToLower(*s.order) {
	case "asc":
		ascending = true
	case "desc":
	default:
		return pipeline.Options{}, fmt.Errorf("unknown sort order %q", *s.order)
	}

	return pipeline.Options{
		Status:      status,
		Sort:        *s.sort,
		Ascending:   ascending,
		Currency:    strings.TrimSpace(*s.currency),
		Search:      *s.search != "",
		SearchQuery: *s.search,
	}, nil
}

// load reads the selected source. A gs:// source gets a GCS client.
func (s *selection) load(ctx context.Context, log zerolog.Logger, cfg *config.Config) []domain.Record {
	opts := loader.Options{Delimiter: cfg.CSVDelimiter}
	if gcs.IsURI(*s.source) {
		svc, err := gcs.NewGCSStorageService(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create GCS client")
		}
		defer svc.Close()
		opts.Storage = svc
	}
	ld := loader.New(log, opts)

	if *s.format == "" {
		return ld.LoadPath(ctx, *s.source)
	}
	format, err := loader.ParseFormat(*s.format)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid format")
	}
	return ld.Load(ctx, *s.source, format)
}

// selectRecords loads the source and runs the report pipeline over it.
func (s *selection) selectRecords(ctx context.Context, log zerolog.Logger, cfg *config.Config) []domain.Record {
	opts, err := s.pipelineOptions()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid filter options")
	}

	records := s.load(ctx, log, cfg)
	if len(records) == 0 {
		log.Warn().Str("source", *s.source).Msg("No transactions loaded")
	}

	selected, err := pipeline.NewReportPipeline(opts).Run(records)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline failed")
	}
	return selected
}

func newConverter(log zerolog.Logger, cfg *config.Config) *exchange.Client {
	if cfg.Exchange.APIKey == "" {
		log.Fatal().Msg("EXCHANGE_RATES_API_KEY is required for currency conversion")
	}
	conv, err := exchange.NewClient(log, exchange.Options{
		BaseURL:   cfg.Exchange.BaseURL,
		APIKey:    cfg.Exchange.APIKey,
		Reference: cfg.Exchange.ReferenceCurrency,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exchange client")
	}
	return conv
}

func reportOptions(log zerolog.Logger, cfg *config.Config, convert bool) report.Options {
	opts := report.Options{
		Masker:    masks.NewMasker(log),
		Reference: cfg.Exchange.ReferenceCurrency,
	}
	if convert {
		opts.Converter = newConverter(log, cfg)
	}
	return opts
}

func runMenu(ctx context.Context, log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("menu", flag.ExitOnError)
	jsonPath := fs.String("json", cfg.JSONPath, "JSON source file")
	csvPath := fs.String("csv", cfg.CSVPath, "CSV source file")
	xlsxPath := fs.String("xlsx", cfg.XLSXPath, "XLSX source file")
	convert := fs.Bool("convert", false, "Add a total converted into the reference currency")
	fs.Parse(os.Args[2:])

	ld := loader.New(log, loader.Options{Delimiter: cfg.CSVDelimiter})
	sources := menu.DefaultSources(*jsonPath, *csvPath, *xlsxPath)
	session := menu.New(log, ld, sources, reportOptions(log, cfg, *convert), os.Stdin, os.Stdout)

	if err := session.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Session failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runReport(ctx context.Context, log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	sel := addSelectionFlags(fs, cfg)
	convert := fs.Bool("convert", false, "Add a total converted into the reference currency")
	fs.Parse(os.Args[2:])

	selected := sel.selectRecords(ctx, log, cfg)

	if err := report.Render(ctx, os.Stdout, selected, reportOptions(log, cfg, *convert)); err != nil {
		log.Fatal().Err(err).Msg("Failed to render report")
	}
}

func runExport(ctx context.Context, log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	sel := addSelectionFlags(fs, cfg)
	sinks := fs.String("sink", "bigquery", "Comma-separated destinations: bigquery, mongo, gcs")
	gcsPrefix := fs.String("gcs-prefix", "", "gs://bucket/path prefix for the gcs destination")
	fs.Parse(os.Args[2:])

	names, err := parseSinks(*sinks)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --sink")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	selected := sel.selectRecords(ctx, log, cfg)

	var multi export.MultiSink
	for _, name := range names {
		switch name {
		case sinkBigQuery:
			sink, err := infraBQ.NewRecordSink(ctx, bigQueryTable(cfg))
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create BigQuery sink")
			}
			defer sink.Close()
			multi = append(multi, sink)

		case sinkMongo:
			client, err := storage.Connect(ctx, log, cfg.Mongo.URI)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
			}
			defer client.Disconnect(context.Background())
			multi = append(multi, storage.NewMongoRepository(storage.NewDatabase(client, cfg.Mongo.Database)))

		case sinkGCS:
			svc, err := gcs.NewGCSStorageService(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create GCS client")
			}
			defer svc.Close()
			sink, err := export.NewGCSSink(svc, *gcsPrefix)
			if err != nil {
				log.Fatal().Err(err).Msg("Invalid --gcs-prefix")
			}
			multi = append(multi, sink)
		}
	}

	exportID, err := export.NewExporter(multi, log).Export(ctx, selected)
	if err != nil {
		log.Fatal().Err(err).Str("export_id", exportID).Msg("Export failed")
	}

	fmt.Printf("Exported %d transactions. Export ID: %s\n", len(selected), exportID)
}

func bigQueryTable(cfg *config.Config) infraBQ.TableRef {
	return infraBQ.TableRef{
		ProjectID: cfg.BigQuery.ProjectID,
		DatasetID: cfg.BigQuery.Dataset,
		TableID:   cfg.BigQuery.Table,
	}
}

func runMigrate(ctx context.Context, log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	ref := bigQueryTable(cfg)
	sink, err := infraBQ.NewRecordSink(ctx, ref)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer sink.Close()

	if err := sink.EnsureTable(ctx); err != nil {
		log.Fatal().Err(err).Str("table", ref.String()).Msg("Failed to create export table")
	}

	fmt.Printf("Export table %s is ready.\n", ref.String())
}

func runInspect(ctx context.Context, log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	exportID := fs.String("export-id", "", "Export ID to inspect")
	fs.Parse(os.Args[2:])

	if *exportID == "" {
		log.Fatal().Msg("Error: --export-id is required")
	}

	sink, err := infraBQ.NewRecordSink(ctx, bigQueryTable(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer sink.Close()

	rows, err := sink.List(ctx, *exportID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list export rows")
	}

	fmt.Printf("\n=== Export %s ===\n", *exportID)
	fmt.Printf("Rows: %d\n\n", len(rows))
	for _, r := range rows {
		amount := "-"
		if r.Amount != nil {
			amount = r.Amount.FloatString(2)
		}
		fmt.Printf("%-12s %-10s %-28s %12s %-4s %s\n",
			r.RecordID.StringVal, r.State.StringVal, r.RawDate.StringVal,
			amount, r.CurrencyCode.StringVal, r.Description.StringVal)
	}
}

func runConvert(ctx context.Context, log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	amount := fs.String("amount", "", "Amount to convert")
	from := fs.String("from", "", "Source currency code")
	fs.Parse(os.Args[2:])

	if *amount == "" || *from == "" {
		log.Fatal().Msg("Usage: viewer convert -amount 100.50 -from USD")
	}

	value, err := decimal.NewFromString(*amount)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --amount")
	}

	conv := newConverter(log, cfg)
	result, err := conv.Convert(ctx, value, *from)
	if err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}

	fmt.Printf("%s %s = %s %s\n", value, strings.ToUpper(*from), result.StringFixed(2), conv.Reference())
}

func runStats(ctx context.Context, log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	sel := addSelectionFlags(fs, cfg)
	categories := fs.String("categories", "", "Comma-separated description keywords")
	fs.Parse(os.Args[2:])

	keywords := splitList(*categories)
	if len(keywords) == 0 {
		log.Fatal().Msg("Error: --categories is required")
	}

	selected := sel.selectRecords(ctx, log, cfg)
	counts := pipeline.CountByCategory(selected, keywords)

	if err := report.RenderCategoryCounts(os.Stdout, keywords, counts); err != nil {
		log.Fatal().Err(err).Msg("Failed to render counts")
	}
}

func runScan(log zerolog.Logger) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	dir := fs.String("dir", ".", "Directory to scan")
	recursive := fs.Bool("recursive", false, "Descend into subdirectories")
	fs.Parse(os.Args[2:])

	counts, err := fsutil.CountFilesAndFolders(*dir, *recursive)
	if err != nil {
		log.Fatal().Err(err).Msg("Scan failed")
	}

	log.Debug().Str("dir", *dir).Int("files", counts.Files).Int("folders", counts.Folders).Msg("Directory scanned")
	fmt.Printf("Files: %d\nFolders: %d\n", counts.Files, counts.Folders)
}
