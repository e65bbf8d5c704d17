package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = previous })

	return &buf
}

func TestTimeLogsSuccessAtDebug(t *testing.T) {
	buf := captureLogs(t)
	ctx := WithRequestID(context.Background(), "abc")

	var err error
	Time(ctx, "unit.op")(&err)

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"req_id":"abc"`)
	assert.Contains(t, out, `"op":"unit.op"`)
	assert.Contains(t, out, `"dur_ms"`)
}

func TestTimeLogsFailureWithError(t *testing.T) {
	buf := captureLogs(t)

	err := errors.New("boom")
	Time(context.Background(), "unit.fail")(&err)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"req_id":""`)
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
