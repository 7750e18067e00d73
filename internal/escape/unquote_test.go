// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/bsontree/internal/escape"
	"go4.org/mem"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, false},
		{`ok go`, "ok go", false},
		{`abc\ndef`, "abc\ndef", false},
		{`\tabc\n`, "\tabc\n", false},
		{`\b\f\n\r\t`, "\b\f\n\r\t", false},
		{`a \u0026 b`, "a & b", false},
		{`\u00e9t\u00C9`, "étÉ", false},
		{`\ud83d\ude00!`, "\U0001F600!", false}, // surrogate pair
		{`\ud83d!`, "\ufffd!", false},           // unpaired high surrogate
		{`\ude00`, "\ufffd", false},             // unpaired low surrogate
		{`\ud83d\u0041`, "\ufffdA", false},      // high surrogate, then non-surrogate
		{`\u00x9`, "\ufffd", false},             // invalid hex digit
		{`\q`, "\ufffd", false},                 // unknown escape
		{`a\"b`, `a"b`, false},
		{`a\\b\\cd`, `a\b\cd`, false},
		{`\/`, `/`, false},
		{`\`, ``, true},    // incomplete escape
		{`\u`, ``, true},   // incomplete Unicode escape
		{`\u00`, ``, true}, // incomplete Unicode escape
	}

	for _, test := range tests {
		got, err := escape.Unquote(mem.S(test.input))
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if test.fail {
			t.Errorf("Unquote(%#q): got %#q, want error", test.input, got)
		}
		if got != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}
