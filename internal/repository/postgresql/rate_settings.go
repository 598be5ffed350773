package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
)

type rateSettingsRepository struct {
	db *database.DB
}

func NewRateSettingsRepository(db *database.DB) payroll.RateSettingsProvider {
	return &rateSettingsRepository{db: db}
}

// GetRateSettings implements payroll.RateSettingsProvider. Tax
// brackets live in a jsonb column; durations are stored as minutes.
func (r *rateSettingsRepository) GetRateSettings(ctx context.Context, companyID string) (payroll.RateSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, overtime_multiplier, holiday_multiplier, tax_brackets,
			   social_security_rate, social_security_ceiling, daily_work_hours,
			   grace_period_minutes, transition_buffer_minutes, late_deduction_threshold_minutes,
			   created_at, updated_at
		FROM rate_settings
		WHERE company_id = $1
		LIMIT 1
	`

	var (
		settings                 payroll.RateSettings
		bracketsJSON             []byte
		graceMinutes, bufMinutes int
	)
	err := q.QueryRow(ctx, query, companyID).Scan(
		&settings.ID, &settings.CompanyID,
		&settings.OvertimeMultiplier, &settings.HolidayMultiplier, &bracketsJSON,
		&settings.SocialSecurityRate, &settings.SocialSecurityCeiling, &settings.DailyWorkHours,
		&graceMinutes, &bufMinutes, &settings.LateDeductionThresholdMinutes,
		&settings.CreatedAt, &settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.RateSettings{}, payroll.ErrRateSettingsNotFound
		}
		return payroll.RateSettings{}, fmt.Errorf("failed to get rate settings: %w", err)
	}

	if err := json.Unmarshal(bracketsJSON, &settings.TaxBrackets); err != nil {
		return payroll.RateSettings{}, fmt.Errorf("failed to decode tax brackets: %w", err)
	}
	settings.GracePeriod = time.Duration(graceMinutes) * time.Minute
	settings.TransitionBuffer = time.Duration(bufMinutes) * time.Minute

	return settings, nil
}

// UpsertRateSettings implements payroll.RateSettingsProvider.
func (r *rateSettingsRepository) UpsertRateSettings(ctx context.Context, settings payroll.RateSettings) (payroll.RateSettings, error) {
	if err := settings.Validate(); err != nil {
		return payroll.RateSettings{}, err
	}

	q := GetQuerier(ctx, r.db)

	bracketsJSON, err := json.Marshal(settings.TaxBrackets)
	if err != nil {
		return payroll.RateSettings{}, fmt.Errorf("failed to encode tax brackets: %w", err)
	}

	query := `
		INSERT INTO rate_settings (
			company_id, overtime_multiplier, holiday_multiplier, tax_brackets,
			social_security_rate, social_security_ceiling, daily_work_hours,
			grace_period_minutes, transition_buffer_minutes, late_deduction_threshold_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (company_id) DO UPDATE SET
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			holiday_multiplier = EXCLUDED.holiday_multiplier,
			tax_brackets = EXCLUDED.tax_brackets,
			social_security_rate = EXCLUDED.social_security_rate,
			social_security_ceiling = EXCLUDED.social_security_ceiling,
			daily_work_hours = EXCLUDED.daily_work_hours,
			grace_period_minutes = EXCLUDED.grace_period_minutes,
			transition_buffer_minutes = EXCLUDED.transition_buffer_minutes,
			late_deduction_threshold_minutes = EXCLUDED.late_deduction_threshold_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		settings.CompanyID,
		settings.OvertimeMultiplier,
		settings.HolidayMultiplier,
		bracketsJSON,
		settings.SocialSecurityRate,
		settings.SocialSecurityCeiling,
		settings.DailyWorkHours,
		int(settings.GracePeriod.Minutes()),
		int(settings.TransitionBuffer.Minutes()),
		settings.LateDeductionThresholdMinutes,
	).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)

	if err != nil {
		return payroll.RateSettings{}, fmt.Errorf("failed to upsert rate settings: %w", err)
	}

	return settings, nil
}
