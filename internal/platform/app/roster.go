package app

import (
	"fmt"

	"github.com/ogurasousui/turnover-analytics/internal/adapters/spreadsheet"
	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"github.com/ogurasousui/turnover-analytics/internal/platform/config"
)

// NewRosterService は補正ファイルを読み込んで分類器を構築し、名簿サービスを生成します。
// サーバーと CLI で同じ分類結果になるよう、組み立てはここに集約します。
func NewRosterService(cfg config.RosterConfig, repo roster.Repository, tx roster.TransactionManager) (*roster.Service, error) {
	overrides, err := classify.LoadOverrides(cfg.RoleOverridesPath, cfg.CareLineOverridesPath)
	if err != nil {
		return nil, fmt.Errorf("app: load overrides: %w", err)
	}

	normalizer := roster.NewNormalizer(cfg.Columns, classify.NewEngine(overrides), cfg.MaxReportedErrors)
	return roster.NewService(repo, normalizer, nil, tx), nil
}

// SpreadsheetOptions は名簿設定を表形式ファイルの読み込み条件に変換します。
func SpreadsheetOptions(cfg config.RosterConfig) spreadsheet.Options {
	var delimiter rune
	for _, r := range cfg.CSVDelimiter {
		delimiter = r
		break
	}
	return spreadsheet.Options{
		HeaderRow: cfg.HeaderRow,
		Sheet:     cfg.Sheet,
		Delimiter: delimiter,
	}
}
