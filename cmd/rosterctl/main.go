package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/turnover-analytics/internal/adapters/repository/postgres"
	"github.com/ogurasousui/turnover-analytics/internal/adapters/spreadsheet"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"github.com/ogurasousui/turnover-analytics/internal/platform/app"
	"github.com/ogurasousui/turnover-analytics/internal/platform/config"
	pg "github.com/ogurasousui/turnover-analytics/internal/platform/db/postgres"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "rosterctl",
		Short:        "Import workforce rosters and inspect turnover analytics",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")

	cmd.AddCommand(
		newImportCmd(opts),
		newTitlesCmd(opts),
		newReplacementsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "assets/local.yaml"
	}
	return config.Load(path)
}

// fileSourceOptions は DB を経由せずファイルから直接スナップショットを作る場合の指定です。
type fileSourceOptions struct {
	file      string
	sheet     string
	headerRow int
	delimiter string
}

// bind はファイル読み込みのフラグを登録します。fileUsage が空の場合 --file は登録しません。
func (f *fileSourceOptions) bind(cmd *cobra.Command, fileUsage string) {
	if fileUsage != "" {
		cmd.Flags().StringVar(&f.file, "file", "", fileUsage)
	}
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX sheet name (overrides roster.sheet)")
	cmd.Flags().IntVar(&f.headerRow, "header-row", 0, "1-based header row (overrides roster.header_row)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter (overrides roster.csv_delimiter)")
}

func (f *fileSourceOptions) apply(cfg config.RosterConfig) config.RosterConfig {
	if f.sheet != "" {
		cfg.Sheet = f.sheet
	}
	if f.headerRow > 0 {
		cfg.HeaderRow = f.headerRow
	}
	if f.delimiter != "" {
		cfg.CSVDelimiter = f.delimiter
	}
	return cfg
}

// openStore は DB に接続し、永続化付きの名簿サービスを返します。
func openStore(ctx context.Context, cfg *config.Config) (*roster.Service, func(), error) {
	pool, err := pg.NewPool(ctx, cfg.Database, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	svc, err := app.NewRosterService(cfg.Roster, postgres.NewRosterRepository(pool), pg.NewTransactionManager(pool))
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return svc, pool.Close, nil
}

// ingestFile はファイルを読み込んで svc に取り込みます。
func ingestFile(ctx context.Context, svc *roster.Service, path string, cfg config.RosterConfig) (*roster.IngestResult, error) {
	table, err := spreadsheet.ReadFile(path, app.SpreadsheetOptions(cfg))
	if err != nil {
		return nil, err
	}
	return svc.Ingest(ctx, roster.IngestInput{Table: table, Source: path})
}

// loadSnapshot は --file 指定時はファイルをメモリ上に取り込み、無指定時は DB の最新スナップショットを読み込みます。
func loadSnapshot(ctx context.Context, cfg *config.Config, src fileSourceOptions) (*roster.Service, func(), error) {
	if src.file == "" {
		svc, closeFn, err := openStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if _, err := svc.Reload(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return svc, closeFn, nil
	}

	rosterCfg := src.apply(cfg.Roster)
	svc, err := app.NewRosterService(rosterCfg, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	if _, err := ingestFile(ctx, svc, src.file, rosterCfg); err != nil {
		return nil, nil, err
	}
	return svc, func() {}, nil
}
