package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID attaches a request id that Time includes in its log line.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time starts a timer for the named operation. Call the returned function
// (usually deferred) with a pointer to the operation's error.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Warn().Err(*errp).Str("req_id", reqID).Str("op", name).Int64("dur_ms", dur.Milliseconds()).Msg("operation failed")
			return
		}
		log.Debug().Str("req_id", reqID).Str("op", name).Int64("dur_ms", dur.Milliseconds()).Msg("operation finished")
	}
}
