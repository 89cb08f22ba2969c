package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	require.NoError(t, err)

	raw, err := json.Marshal(struct {
		Due  Date  `json:"due"`
		Paid *Date `json:"paid"`
	}{Due: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-02-28","paid":null}`, string(raw))

	var decoded struct {
		Due Date `json:"due"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-02-29"}`), &decoded))
	assert.Equal(t, "2024-02-29", decoded.Due.String())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"2025-02-30"}`), &decoded))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      interface{}
		expected string
		wantErr  bool
	}{
		{"time with clock", time.Date(2025, time.March, 5, 23, 59, 0, 0, time.UTC), "2025-03-05", false},
		{"date string", "2025-03-05", "2025-03-05", false},
		{"timestamp string", "2025-03-05 00:00:00+00:00", "2025-03-05", false},
		{"bytes", []byte("2025-03-05T00:00:00Z"), "2025-03-05", false},
		{"garbage", "soon", "", true},
		{"integer", int64(20250305), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.String())
		})
	}
}

func TestDate_Ordering(t *testing.T) {
	due, _ := ParseDate("2025-01-01")
	paid := NewDate(time.Date(2025, time.January, 11, 18, 0, 0, 0, time.UTC))

	assert.True(t, paid.After(due))
	assert.False(t, due.After(due))
	assert.Equal(t, 10, paid.DaysSince(due))

	value, err := paid.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-11", value)
}
