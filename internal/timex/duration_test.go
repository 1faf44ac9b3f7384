package timex

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type holder struct {
	Interval Duration `json:"interval" yaml:"interval"`
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `{"interval":"3s"}`, want: 3 * time.Second},
		{name: "hours", in: `{"interval":"24h"}`, want: 24 * time.Hour},
		{name: "nanoseconds", in: `{"interval":1000000000}`, want: time.Second},
		{name: "bad string", in: `{"interval":"soon"}`, wantErr: true},
		{name: "bad type", in: `{"interval":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h holder
			err := json.Unmarshal([]byte(tt.in), &h)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDuration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Interval.Duration)
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var h holder
	require.NoError(t, yaml.Unmarshal([]byte("interval: 168h\n"), &h))
	assert.Equal(t, 7*24*time.Hour, h.Interval.Duration)

	require.NoError(t, yaml.Unmarshal([]byte("interval: 5000\n"), &h))
	assert.Equal(t, 5*time.Microsecond, h.Interval.Duration)

	err := yaml.Unmarshal([]byte("interval: later\n"), &h)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(holder{Interval: Duration{90 * time.Second}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"interval":"1m30s"}`, string(b))
}
