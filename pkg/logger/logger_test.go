package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger_SetLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "trace", want: "trace"},
		{in: "DEBUG", want: "debug"},
		{in: "info", want: "info"},
		{in: "warn", want: "warn"},
		{in: "error", want: "error"},
		{in: "fatal", want: "fatal"},
		{in: "garbage", want: "info"},
	}

	l := Discard()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l.SetLogLevel(tt.in)
			assert.Equal(t, tt.want, l.GetLogLevel())
		})
	}
}

func TestPrefixedLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Console: &buf})
	l.SetLogLevel("trace")

	p := NewPrefixedLogger(l, "irc")
	p.Info("connected", "nick", "bot")
	p.Trace("raw line")
	p.Debug("below")

	out := buf.String()
	assert.Contains(t, out, `msg="[irc] connected"`)
	assert.Contains(t, out, "nick=bot")
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, `msg="[irc] raw line"`)
}

func TestSlogLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Console: &buf})
	l.SetLogLevel("warn")

	l.Info("hidden")
	l.Error("shown", nil)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
