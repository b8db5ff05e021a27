package braindump

import (
	"strings"
	"testing"
)

func TestLooksAtomic(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"single action", "Read the unread tax messages", true},
		{"lowercase verb", "pay the water bill", true},
		{"too long", "Read " + strings.Repeat("very ", 20) + "long message backlog", false},
		{"english conjunction", "Read the messages and reply to Bob", false},
		{"then", "Check the mail then call mom", false},
		{"cjk conjunction", "查看邮件然后回复", false},
		{"newline", "Read the messages\nreply to Bob", false},
		{"semicolon", "Read the messages; reply later", false},
		{"fullwidth semicolon", "查看邮件；回复", false},
		{"no action verb", "The tax messages are unread", false},
		{"verb not at start", "I should read the tax messages", false},
		{"verb prefix word", "Reading list cleanup", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LooksAtomic(tc.text); got != tc.want {
				t.Fatalf("LooksAtomic(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestNormalizeAtomicTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  pay   the water bill ", "Pay the water bill"},
		{"read\tthe docs", "Read the docs"},
		{"", ""},
		{"X", "X"},
	}

	for _, tc := range cases {
		if got := NormalizeAtomicTitle(tc.in); got != tc.want {
			t.Fatalf("NormalizeAtomicTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
