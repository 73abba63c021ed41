package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"github.com/ogurasousui/turnover-analytics/internal/platform/config"
)

func TestNewRosterService_AppliesOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rolePath := filepath.Join(dir, "roles.yaml")
	if err := os.WriteFile(rolePath, []byte(`"AGENTE DE APOIO": OPERACIONAL`+"\n"), 0o600); err != nil {
		t.Fatalf("failed to write overrides: %v", err)
	}

	svc, err := NewRosterService(config.RosterConfig{
		Columns:           roster.DefaultColumnMap(),
		RoleOverridesPath: rolePath,
		MaxReportedErrors: 10,
	}, nil, nil)
	if err != nil {
		t.Fatalf("NewRosterService returned error: %v", err)
	}

	res, err := svc.Ingest(context.Background(), roster.IngestInput{
		Table: roster.Table{
			Header: []string{"Cadastro", "Nome", "Cargo", "Centro de Custo", "Dt Admissão"},
			Rows:   [][]string{{"1", "Ana", "Agente de Apoio", "X", "01/01/2023"}},
		},
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	records := res.Batch.Records()
	if len(records) != 1 || records[0].RoleCategory != classify.RoleOperational {
		t.Fatalf("expected override to classify as OPERACIONAL, got %+v", records)
	}
}

func TestNewRosterService_InvalidOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lines.yaml")
	if err := os.WriteFile(path, []byte("UNIDADE: Planeta\n"), 0o600); err != nil {
		t.Fatalf("failed to write overrides: %v", err)
	}

	_, err := NewRosterService(config.RosterConfig{CareLineOverridesPath: path}, nil, nil)
	if !errors.Is(err, classify.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestSpreadsheetOptions(t *testing.T) {
	t.Parallel()

	opts := SpreadsheetOptions(config.RosterConfig{HeaderRow: 8, Sheet: "Ativos", CSVDelimiter: ";"})
	if opts.HeaderRow != 8 || opts.Sheet != "Ativos" || opts.Delimiter != ';' {
		t.Fatalf("unexpected options: %+v", opts)
	}

	if opts := SpreadsheetOptions(config.RosterConfig{}); opts.Delimiter != 0 {
		t.Fatalf("expected delimiter detection, got %q", opts.Delimiter)
	}
}
