package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTime_UnmarshalJSON(t *testing.T) {
	want := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"RFC3339 UTC", `{"t":"2025-06-01T12:30:00Z"}`, want},
		{"RFC3339 带时区", `{"t":"2025-06-01T20:30:00+08:00"}`, want},
		{"空格分隔按 UTC", `{"t":"2025-06-01 12:30:00"}`, want},
		{"ISO 无时区按 UTC", `{"t":"2025-06-01T12:30:00"}`, want},
		{"仅日期", `{"t":"2025-06-01"}`, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	type payload struct {
		T *FlexTime `json:"t"`
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			require.NotNil(t, p.T)
			assert.True(t, tt.want.Equal(p.T.Time), "got %v", p.T.Time)
		})
	}
}

func TestFlexTime_Empty(t *testing.T) {
	type payload struct {
		T *FlexTime `json:"t"`
	}
	for _, in := range []string{`{"t":null}`, `{"t":""}`, `{}`} {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(in), &p))
		assert.Nil(t, p.T.ToTime())
	}
}

func TestFlexTime_Invalid(t *testing.T) {
	var ft FlexTime
	assert.Error(t, json.Unmarshal([]byte(`"not a time"`), &ft))
}

func TestFlexTime_MarshalJSON(t *testing.T) {
	ts := time.Date(2025, 6, 1, 20, 30, 0, 0, time.FixedZone("CST", 8*3600))
	data, err := json.Marshal(FromTime(&ts))
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-01T12:30:00Z"`, string(data))

	data, err = json.Marshal(FlexTime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
