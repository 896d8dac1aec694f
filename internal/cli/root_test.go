package cli

import (
	"testing"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, want := range []string{"run", "radius", "serve", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	if version != "dev" {
		t.Errorf("expected default version %q, got %q", "dev", version)
	}
}

func TestIsRemoteURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://github.com/acme/widgets", true},
		{"http://internal.git/repo", true},
		{"git@github.com:acme/widgets.git", true},
		{".", false},
		{"/home/dev/src/widgets", false},
		{"widgets", false},
	}
	for _, c := range cases {
		if got := isRemoteURL(c.in); got != c.want {
			t.Errorf("isRemoteURL(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
