package markdown

import "testing"

func TestRewriteReferences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single mention",
			in:   "Delegate to @blue-security-specialist for review.",
			want: "Delegate to the appropriate specialist for review.",
		},
		{
			name: "multiple mentions",
			in:   "Ask @blue-architect, then @blue-go-developer2.",
			want: "Ask the appropriate specialist, then the appropriate specialist.",
		},
		{
			name: "other handles untouched",
			in:   "Ping @octocat or email me@blue.example.com.",
			want: "Ping @octocat or email me@blue.example.com.",
		},
		{
			name: "no mentions",
			in:   "Plain text.",
			want: "Plain text.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteReferences(tt.in)
			if got != tt.want {
				t.Errorf("RewriteReferences(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := RewriteReferences(got); again != got {
				t.Errorf("second pass changed text: %q -> %q", got, again)
			}
		})
	}
}

func TestHasReferences(t *testing.T) {
	if !HasReferences("see @blue-code-reviewer") {
		t.Error("expected mention to be detected")
	}
	if HasReferences(RewriteReferences("see @blue-code-reviewer")) {
		t.Error("rewritten text still has a mention")
	}
}
