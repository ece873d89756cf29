package util

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	require.True(t, ok)
	assert.Equal(t, s, got.UTC().Format(time.RFC3339))
}

func TestParseTimeNaiveISO(t *testing.T) {
	got, ok := ParseTime("2024-04-01T09:30:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC), got)

	got, ok = ParseTime("2024-04-01T09:30:00.123456")
	require.True(t, ok)
	assert.Equal(t, 123456000, got.Nanosecond())
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	require.True(t, ok)
	assert.Equal(t, ts, got.Unix())
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	assert.True(t, ParseTimeDefault("", def).Equal(def))
	assert.True(t, ParseTimeDefault("yesterday", def).Equal(def))
}

func TestTimestampJSON(t *testing.T) {
	var v struct {
		At Timestamp `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-04-01T09:30:00"}`), &v))
	assert.Equal(t, 2024, v.At.Year())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-04-01T09:30:00Z"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"at":null}`), &v))
	assert.True(t, v.At.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"at":"soon"}`), &v))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "0", GroupThousands(0))
	assert.Equal(t, "999", GroupThousands(999))
	assert.Equal(t, "1,000", GroupThousands(1000))
	assert.Equal(t, "58,792,145", GroupThousands(58792145))
	assert.Equal(t, "-2,864,155", GroupThousands(-2864155))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	_, ok = ParseID("0")
	assert.False(t, ok)
	_, ok = ParseID("abc")
	assert.False(t, ok)
}
