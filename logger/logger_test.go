package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WARN, Output: &buf})

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)

	assert := assert.New(t)
	assert.NotContains(buf.String(), "hidden")
	assert.Contains(buf.String(), "[WARN] shown 2")
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: INFO, Output: &buf})
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatalf("boom")
	assert.Equal(t, 1, code)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		" WARN ":  WARN,
		"warning": WARN,
		"fatal":   FATAL,
		"nope":    INFO,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
