package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/clinicdesk/clinic-api/internal/model"
)

type settingsRow struct {
	model.ClinicSettings
	WorkingDays pq.Int64Array `db:"working_days"`
}

func (r *settingsRepository) Get(ctx context.Context) (*model.ClinicSettings, error) {
	query := `
		SELECT id, working_days, open_time, close_time,
			   break_start_time, break_end_time, default_duration,
			   created_at, updated_at
		FROM clinic_settings
		ORDER BY created_at ASC
		LIMIT 1
	`
	var row settingsRow
	err := r.db.GetContext(ctx, &row, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic settings: %w", err)
	}

	settings := row.ClinicSettings
	settings.WorkingDays = make([]int, len(row.WorkingDays))
	for i, d := range row.WorkingDays {
		settings.WorkingDays[i] = int(d)
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *model.ClinicSettings) error {
	query := `
		UPDATE clinic_settings
		SET working_days = $1, open_time = $2, close_time = $3,
			break_start_time = $4, break_end_time = $5,
			default_duration = $6, updated_at = $7
		WHERE id = $8
	`
	settings.UpdatedAt = time.Now()

	days := make(pq.Int64Array, len(settings.WorkingDays))
	for i, d := range settings.WorkingDays {
		days[i] = int64(d)
	}

	result, err := r.db.ExecContext(ctx, query,
		days,
		settings.OpenTime,
		settings.CloseTime,
		settings.BreakStartTime,
		settings.BreakEndTime,
		settings.DefaultDuration,
		settings.UpdatedAt,
		settings.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clinic settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("clinic settings not found")
	}

	return nil
}
