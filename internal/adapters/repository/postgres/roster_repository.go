package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
	pgdb "github.com/ogurasousui/turnover-analytics/internal/platform/db/postgres"
)

const invalidTextRepresentationCode = "22P02"

var (
	rosterRecordsTable  = pgx.Identifier{"roster_records"}
	rosterRecordColumns = []string{
		"snapshot_id", "seq", "person_id", "person_name", "role_title", "cost_center", "facility",
		"hired_at", "terminated_at", "termination_reason", "shift_id", "termination_marked",
		"vacancy_status", "vacancy_opened_at", "selection_closed_at", "replacement_started_at",
	}

	snapshotErrorsTable  = pgx.Identifier{"roster_snapshot_errors"}
	snapshotErrorColumns = []string{"snapshot_id", "row_number", "field", "value", "reason"}
)

// RosterRepository は PostgreSQL を利用した名簿スナップショット永続化の実装です。
// 保存するのは入力フィールドのみで、分類などの派生フィールドは読み込み時に再計算されます。
type RosterRepository struct {
	pool pgdb.Queryer
}

// NewRosterRepository は RosterRepository を生成します。
func NewRosterRepository(pool pgdb.Queryer) *RosterRepository {
	return &RosterRepository{pool: pool}
}

// SaveSnapshot はスナップショットのヘッダー・記録・行エラーを保存します。記録は COPY で一括投入します。
func (r *RosterRepository) SaveSnapshot(ctx context.Context, batch *roster.Batch) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	diag := batch.Diagnostics
	if _, err := exec.Exec(ctx, `
        INSERT INTO roster_snapshots (id, source, created_at, total_rows, empty_rows, skipped_rows)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, batch.ID, batch.Source, batch.CreatedAt, diag.TotalRows, diag.EmptyRows, diag.Skipped); err != nil {
		return translateRosterPgError(err)
	}

	records := batch.Records()
	if len(records) > 0 {
		if _, err := exec.CopyFrom(ctx, rosterRecordsTable, rosterRecordColumns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			rec := records[i]
			return []any{
				batch.ID, rec.Seq, rec.PersonID, rec.PersonName, rec.RoleTitle, rec.CostCenter, rec.Facility,
				rec.HiredAt, rec.TerminatedAt, rec.TerminationReason, rec.ShiftID, rec.TerminationMarked,
				rec.VacancyStatus, rec.VacancyOpenedAt, rec.SelectionClosedAt, rec.ReplacementStartedAt,
			}, nil
		})); err != nil {
			return translateRosterPgError(err)
		}
	}

	if len(diag.Errors) > 0 {
		if _, err := exec.CopyFrom(ctx, snapshotErrorsTable, snapshotErrorColumns, pgx.CopyFromSlice(len(diag.Errors), func(i int) ([]any, error) {
			e := diag.Errors[i]
			return []any{batch.ID, e.Row, e.Field, e.Value, e.Reason}, nil
		})); err != nil {
			return translateRosterPgError(err)
		}
	}

	return nil
}

// FindLatestSnapshotID は最も新しいスナップショットの ID を返します。
func (r *RosterRepository) FindLatestSnapshotID(ctx context.Context) (string, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id::text
          FROM roster_snapshots
         ORDER BY created_at DESC, id DESC
         LIMIT 1
    `)

	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", roster.ErrSnapshotNotFound
		}
		return "", translateRosterPgError(err)
	}
	return id, nil
}

// LoadSnapshot は ID でスナップショットを読み込みます。
func (r *RosterRepository) LoadSnapshot(ctx context.Context, id string) (*roster.StoredSnapshot, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	row := exec.QueryRow(ctx, `
        SELECT id::text, source, created_at, total_rows, empty_rows, skipped_rows
          FROM roster_snapshots
         WHERE id = $1
    `, id)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		return nil, translateRosterPgError(err)
	}

	rows, err := exec.Query(ctx, `
        SELECT seq, person_id, person_name, role_title, cost_center, facility,
               hired_at, terminated_at, termination_reason, shift_id, termination_marked,
               vacancy_status, vacancy_opened_at, selection_closed_at, replacement_started_at
          FROM roster_records
         WHERE snapshot_id = $1
         ORDER BY seq
    `, id)
	if err != nil {
		return nil, translateRosterPgError(err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		snapshot.Records = append(snapshot.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, translateRosterPgError(err)
	}

	errRows, err := exec.Query(ctx, `
        SELECT row_number, field, value, reason
          FROM roster_snapshot_errors
         WHERE snapshot_id = $1
         ORDER BY row_number
    `, id)
	if err != nil {
		return nil, translateRosterPgError(err)
	}
	defer errRows.Close()

	for errRows.Next() {
		var e roster.MalformedRecordError
		if err := errRows.Scan(&e.Row, &e.Field, &e.Value, &e.Reason); err != nil {
			return nil, err
		}
		snapshot.Diagnostics.Errors = append(snapshot.Diagnostics.Errors, &e)
	}
	if err := errRows.Err(); err != nil {
		return nil, translateRosterPgError(err)
	}

	return snapshot, nil
}

func scanSnapshot(row pgx.Row) (*roster.StoredSnapshot, error) {
	var (
		snapshot  roster.StoredSnapshot
		createdAt time.Time
	)
	if err := row.Scan(
		&snapshot.ID,
		&snapshot.Source,
		&createdAt,
		&snapshot.Diagnostics.TotalRows,
		&snapshot.Diagnostics.EmptyRows,
		&snapshot.Diagnostics.Skipped,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, roster.ErrSnapshotNotFound
		}
		return nil, err
	}
	snapshot.CreatedAt = createdAt.UTC()
	return &snapshot, nil
}

func scanRecord(row pgx.Row) (roster.Record, error) {
	var rec roster.Record
	if err := row.Scan(
		&rec.Seq,
		&rec.PersonID,
		&rec.PersonName,
		&rec.RoleTitle,
		&rec.CostCenter,
		&rec.Facility,
		&rec.HiredAt,
		&rec.TerminatedAt,
		&rec.TerminationReason,
		&rec.ShiftID,
		&rec.TerminationMarked,
		&rec.VacancyStatus,
		&rec.VacancyOpenedAt,
		&rec.SelectionClosedAt,
		&rec.ReplacementStartedAt,
	); err != nil {
		return roster.Record{}, err
	}
	return rec, nil
}

func translateRosterPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// uuid として解釈できない ID は存在しないものとして扱う
		if pgErr.Code == invalidTextRepresentationCode {
			return roster.ErrSnapshotNotFound
		}
	}
	return err
}
