package server

import (
	"context"
	"net"
	"testing"
	"time"

	analyticspb "github.com/ogurasousui/turnover-analytics/internal/adapters/grpc/gen/analytics/v1"
	"github.com/ogurasousui/turnover-analytics/internal/core/analytics"
	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestServer_ServesAnalytics(t *testing.T) {
	t.Parallel()

	rosterSvc := roster.NewService(nil, roster.NewNormalizer(roster.ColumnMap{}, classify.NewEngine(nil), 0), nil, nil)
	srv := New("bufnet", analytics.NewService(rosterSvc))

	lis := bufconn.Listen(1024 * 1024)
	srv.ServeListener(lis)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	client := analyticspb.NewAnalyticsServiceClient(conn)

	if _, err := client.GetHeadcount(context.Background(), &structpb.Struct{}); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition before ingest, got %v", err)
	}

	_, err = rosterSvc.Ingest(context.Background(), roster.IngestInput{
		Source: "roster.csv",
		Table: roster.Table{
			Header: []string{"Cadastro", "Nome", "Cargo", "Centro de Custo", "Dt Admissão", "Dt Rescisão", "Situação", "Dt Início Escala"},
			Rows: [][]string{
				{"A", "Ana", "ENFERMEIRO", "X", "01/01/2023", "01/06/2023", "S", "S1"},
				{"B", "Bruno", "ENFERMEIRO", "X", "10/06/2023", "", "", "S1"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	resp, err := client.GetHeadcount(context.Background(), &structpb.Struct{})
	if err != nil {
		t.Fatalf("GetHeadcount returned error: %v", err)
	}
	if got := resp.GetFields()["total"].GetNumberValue(); got != 2 {
		t.Fatalf("expected total 2, got %v", got)
	}

	replacements, err := client.FindReplacements(context.Background(), &structpb.Struct{})
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if got := replacements.GetFields()["replaced"].GetNumberValue(); got != 1 {
		t.Fatalf("expected 1 replacement, got %v", got)
	}
}
