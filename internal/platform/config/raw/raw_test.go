package raw

import (
	"strings"
	"testing"
)

func TestString_PrefixAndTrim(t *testing.T) {
	e := From(map[string]string{"LOG_LEVEL": "  debug ", "LOG_BLANK": "   "})
	log := e.Prefix("LOG_")
	if got := log.String("LEVEL", "info"); got != "debug" {
		t.Fatalf("LEVEL = %q", got)
	}
	if got := log.String("BLANK", "info"); got != "info" {
		t.Fatalf("blank = %q", got)
	}
	if got := log.String("MISSING", "info"); got != "info" {
		t.Fatalf("missing = %q", got)
	}
	if k := e.Prefix("SERVICE_").Prefix("PGSQL_").Key("DBURL"); k != "SERVICE_PGSQL_DBURL" {
		t.Fatalf("key = %q", k)
	}
}

func TestInt(t *testing.T) {
	e := From(map[string]string{"N": " 42 ", "NEG": "-3", "BAD": "4x"})
	cases := []struct {
		key  string
		want int
		err  bool
	}{
		{"N", 42, false},
		{"NEG", -3, false},
		{"BAD", 7, true},
		{"MISSING", 7, false},
	}
	for _, c := range cases {
		got, err := e.Int(c.key, 7)
		if got != c.want || (err != nil) != c.err {
			t.Fatalf("%s = %d, %v", c.key, got, err)
		}
	}
	if _, err := e.Int("BAD", 0); err == nil || !strings.Contains(err.Error(), "BAD") {
		t.Fatalf("error should name the key: %v", err)
	}
}

func TestBool(t *testing.T) {
	e := From(map[string]string{"A": "yes", "B": "OFF", "C": "1", "D": "false", "E": "maybe"})
	cases := []struct {
		key  string
		def  bool
		want bool
		err  bool
	}{
		{"A", false, true, false},
		{"B", true, false, false},
		{"C", false, true, false},
		{"D", true, false, false},
		{"E", true, true, true},
		{"MISSING", true, true, false},
	}
	for _, c := range cases {
		got, err := e.Bool(c.key, c.def)
		if got != c.want || (err != nil) != c.err {
			t.Fatalf("%s = %v, %v", c.key, got, err)
		}
	}
}

func TestZeroEnvIsEmpty(t *testing.T) {
	var e Env
	if _, ok := e.Value("PATH"); ok {
		t.Fatalf("zero Env should see nothing")
	}
}
