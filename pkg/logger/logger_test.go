package logger

import "testing"

func TestInitLevels(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"INFO":    "info",
		"warn":    "warning",
		"warning": "warning",
		"error":   "error",
		"fatal":   "fatal",
		"":        "info",
		"bogus":   "info",
	}
	for in, want := range cases {
		Init(in)
		if got := LevelString(); got != want {
			t.Fatalf("Init(%q): expected level %q, got %q", in, want, got)
		}
	}
	Init("info")
}

func TestHelpersDoNotPanic(t *testing.T) {
	Init("debug")
	Debugf("debug %d", 1)
	Infof("info %s", "x")
	Warnf("warn")
	Errorf("error")
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	WithField("k", "v").Info("entry")
	Init("info")
}
