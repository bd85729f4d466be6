package repository

import (
	"context"
	"errors"

	"taskhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferencesRepository struct {
	db *pgxpool.Pool
}

func NewPreferencesRepository(db *pgxpool.Pool) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get returns the user's preferences, falling back to defaults when the user
// has never saved any.
func (r *PreferencesRepository) Get(ctx context.Context, userID int64) (*domain.Preferences, error) {
	var p domain.Preferences
	err := r.db.QueryRow(ctx,
		`SELECT user_id, theme, calendar, week_start, timezone
		 FROM preferences
		 WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.Theme, &p.Calendar, &p.WeekStart, &p.Timezone)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PreferencesRepository) Upsert(ctx context.Context, p *domain.Preferences) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO preferences (user_id, theme, calendar, week_start, timezone)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE
		 SET theme = EXCLUDED.theme, calendar = EXCLUDED.calendar,
		     week_start = EXCLUDED.week_start, timezone = EXCLUDED.timezone`,
		p.UserID, p.Theme, p.Calendar, p.WeekStart, p.Timezone,
	)
	return err
}
