package leave

import (
	"context"
	"time"

	"go-ojt/internal/shared/clock"

	"go.uber.org/zap"
)

// materialize writes one ON_LEAVE attendance row per covered weekday.
// Weekends are not workdays and are skipped outright. Days where the user
// already punched are left alone and returned so the caller can surface
// them. HALF_DAY coverage still claims the whole day; partial-day rows do
// not exist in the attendance model.
func (s *service) materialize(ctx context.Context, l *Leave) ([]string, error) {
	punched, err := s.attendances.FindPunchedDatesInRange(ctx, l.UserID, l.StartDate, l.EndDate)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(punched))
	for _, d := range punched {
		taken[d.In(clock.Org).Format("2006-01-02")] = struct{}{}
	}

	skipped := []string{}
	end := clock.StartOfDay(l.EndDate)
	for day := clock.StartOfDay(l.StartDate); !day.After(end); day = day.AddDate(0, 0, 1) {
		wd := day.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}

		key := day.Format("2006-01-02")
		if _, ok := taken[key]; ok {
			skipped = append(skipped, key)
			continue
		}

		if err := s.attendances.UpsertOnLeave(ctx, l.UserID, day, l.ID); err != nil {
			return skipped, err
		}
	}

	s.logger.Debug("leave materialized",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", l.UserID.String()),
		zap.Strings("skipped_dates", skipped),
	)
	return skipped, nil
}
