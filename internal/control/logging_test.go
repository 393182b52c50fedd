package control

import (
	"testing"
)

func TestLogLevelFromString(t *testing.T) {
	testCases := []struct {
		text  string
		level LogLevel
		fails bool
	}{
		{`all`, LogLevelAll, false},
		{`TRACE`, LogLevelTrace, false},
		{` debug `, LogLevelDebug, false},
		{`info`, LogLevelInfo, false},
		{`warn`, LogLevelWarn, false},
		{`error`, LogLevelError, false},
		{`none`, LogLevelNone, false},
		{`loud`, DefaultLogLevel, true},
	}
	for _, tc := range testCases {
		level, err := LogLevelFromString(tc.text)
		if (err != nil) != tc.fails {
			t.Errorf(`LogLevelFromString(%q) err = %v`, tc.text, err)
		}
		if level != tc.level {
			t.Errorf(`LogLevelFromString(%q) = %s; want %s`, tc.text, level, tc.level)
		}
	}
}

func TestLogLevelStringRoundTrip(t *testing.T) {
	for level := LogLevelAll; level <= LogLevelNone; level++ {
		parsed, err := LogLevelFromString(level.String())
		if err != nil || parsed != level {
			t.Errorf(`round trip of %s gave %s, %v`, level, parsed, err)
		}
	}
	if LogLevel(99).String() != `invalid` {
		t.Errorf(`unknown level should print as invalid`)
	}
}
