package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/vitaly/internal/telemetry/tracing"
	"github.com/2beens/vitaly/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const PsqlSchema = `
CREATE TABLE IF NOT EXISTS public.processed_result
(
    seq               BIGSERIAL,
    id                UUID PRIMARY KEY,
    session_id        VARCHAR NOT NULL,
    timestamp         TIMESTAMP WITHOUT TIME ZONE NOT NULL,
    muscle_fatigue    DOUBLE PRECISION NOT NULL,
    muscle_activation DOUBLE PRECISION NOT NULL,
    force             DOUBLE PRECISION NOT NULL,
    velocity          DOUBLE PRECISION NOT NULL,
    power_output      DOUBLE PRECISION NOT NULL,
    firing_rate       DOUBLE PRECISION,
    intensity         DOUBLE PRECISION,
    work_ratio        DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS ix_processed_result_seq ON public.processed_result (seq);
CREATE INDEX IF NOT EXISTS ix_processed_result_session ON public.processed_result (session_id);
`

type PsqlRepo struct {
	db *pgxpool.Pool
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

func (r *PsqlRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, PsqlSchema); err != nil {
		return fmt.Errorf("create processed_result table: %w", err)
	}
	return nil
}

// Add inserts the result. It reports false, without error, when a result with
// the same id is already stored, so a sync retry never duplicates rows.
func (r *PsqlRepo) Add(ctx context.Context, result Result) (added bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.results.add")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("result.id", result.ID))

	_, err = r.db.Exec(ctx, `
		INSERT INTO processed_result (
			id, session_id, timestamp, muscle_fatigue, muscle_activation, force,
			velocity, power_output, firing_rate, intensity, work_ratio
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		result.ID,
		result.SessionID,
		result.Timestamp.UTC(),
		result.MuscleFatigue,
		result.MuscleActivation,
		result.Force,
		result.Velocity,
		result.PowerOutput,
		result.FiringRate,
		result.Intensity,
		result.WorkRatio,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			span.SetAttributes(attribute.Bool("result.duplicate", true))
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Latest returns the most recently inserted result.
func (r *PsqlRepo) Latest(ctx context.Context) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.results.latest")
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	result := &Result{IsSynced: true}
	err = r.db.
		QueryRow(ctx, `
			SELECT id::text, session_id, timestamp, muscle_fatigue, muscle_activation, force,
				velocity, power_output, firing_rate, intensity, work_ratio
			FROM processed_result
			ORDER BY seq DESC
			LIMIT 1
		`).
		Scan(
			&result.ID,
			&result.SessionID,
			&result.Timestamp,
			&result.MuscleFatigue,
			&result.MuscleActivation,
			&result.Force,
			&result.Velocity,
			&result.PowerOutput,
			&result.FiringRate,
			&result.Intensity,
			&result.WorkRatio,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

// Count returns the number of stored results for a session, or of all results
// when sessionID is empty.
func (r *PsqlRepo) Count(ctx context.Context, sessionID string) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.results.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if sessionID == "" {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM processed_result`).Scan(&count)
	} else {
		err = r.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM processed_result WHERE session_id = $1
		`, sessionID).Scan(&count)
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
