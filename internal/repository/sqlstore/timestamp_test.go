package sqlstore

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 2, 29, 23, 59, 58, 123456789, time.UTC)
	assert.Equal(t, "2024-02-29T23:59:58.123Z", formatTime(ts))

	// Non-UTC input is converted.
	plus2 := time.FixedZone("UTC+2", 2*60*60)
	assert.Equal(t, "2024-03-01T01:00:00.000Z", formatTime(time.Date(2024, 3, 1, 3, 0, 0, 0, plus2)))
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 2, 29, 23, 59, 58, 123*int(time.Millisecond), time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-02-29T23:59:58.123Z", want},
		{"2024-03-01T01:59:58.123+02:00", want},
		{"2024-02-29 23:59:58.123", want},
		{"2024-02-29 23:59:58", want.Truncate(time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := parseTime("29/02/2024")
	assert.Error(t, err)
}

func TestParseTime_RoundTrip(t *testing.T) {
	ts := time.Date(2031, 7, 4, 8, 9, 10, 11*int(time.Millisecond), time.UTC)
	got, err := parseTime(formatTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("duplicate")))
	assert.False(t, isUniqueViolation(nil))
}
