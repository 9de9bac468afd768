package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "debug", want: Debug},
		{in: " INFO ", want: Info},
		{in: "", want: Info},
		{in: "warning", want: Warn},
		{in: "error", want: Error},
		{in: "verbose", want: Info, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.With("component", "test").Infof("value %d", 1)
	l.Component("rate_store").Debugf("fetched %d rates", 2)
	assert.NoError(t, l.Sync())
}

func TestZapLevels(t *testing.T) {
	assert.Equal(t, "debug", Debug.zapLevel().String())
	assert.Equal(t, "info", Info.zapLevel().String())
	assert.Equal(t, "warn", Warn.zapLevel().String())
	assert.Equal(t, "error", Error.zapLevel().String())
}
