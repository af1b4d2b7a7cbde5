package consumer

import (
	"context"
	"encoding/json"

	"go-ojt/internal/events"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RemainingHoursRecalculator is the slice of the user service this consumer
// needs.
type RemainingHoursRecalculator interface {
	RecalculateRemainingHours(ctx context.Context, userID uuid.UUID) (*float64, error)
}

// ConsumeAttendanceClosed refreshes a user's remaining OJT quota every time
// one of their attendance records closes. Recalculation re-sums from
// scratch, so redelivered messages are harmless.
func ConsumeAttendanceClosed(
	ctx context.Context,
	reader *kafkago.Reader,
	quotas RemainingHoursRecalculator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_closed")
	log.Info("attendance closed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance closed consumer stopped")
				return
			}
			log.Error("fetch attendance closed message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceClosedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance_closed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		uid, err := uuid.Parse(event.UserID)
		if err != nil {
			log.Error("attendance_closed event carries invalid user id",
				zap.String("user_id", event.UserID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		remaining, err := quotas.RecalculateRemainingHours(ctx, uid)
		if err != nil {
			// Leave the message uncommitted so it redelivers.
			log.Error("recalculate remaining hours failed",
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance closed message failed", zap.Error(err))
			continue
		}

		fields := []zap.Field{
			zap.String("user_id", event.UserID),
			zap.String("attendance_id", event.AttendanceID),
		}
		if remaining != nil {
			fields = append(fields, zap.Float64("remaining_hours", *remaining))
		}
		log.Info("remaining hours refreshed from attendance_closed event", fields...)
	}
}
