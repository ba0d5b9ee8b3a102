package textclean

import "testing"

func TestClean(t *testing.T) {
	c := New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain message untouched",
			in:   "great video loved the editing",
			want: "great video loved the editing",
		},
		{
			name: "punctuation and emoji stripped",
			in:   "Great video! Loved the editing...",
			want: "Great video Loved the editing",
		},
		{
			name: "isolated digits and letters removed",
			in:   "nice work 4 real y keep going",
			want: "nice work real keep going",
		},
		{
			name: "stop phrase truncates",
			in:   "love this one Add a reply something after",
			want: "love this one",
		},
		{
			name: "trailing short fragments dropped",
			in:   "thanks for sharing this gem ik zr",
			want: "thanks for sharing this gem",
		},
		{
			name: "unicode junk trimmed",
			in:   "•· awesome content here ►",
			want: "awesome content here",
		},
		{
			name: "empty result for pure noise",
			in:   "x 1 2 3 y",
			want: "",
		},
		{
			name: "apostrophes survive",
			in:   "users' favorite moment overall",
			want: "users' favorite moment overall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCutAtStopPhrase(t *testing.T) {
	c := New()

	tests := []struct {
		in   string
		want string
	}{
		{"keep this Share and drop the rest", "keep this "},
		{"totally clean text", "totally clean text"},
		{"download first wins share later", ""},
	}

	for _, tt := range tests {
		if got := c.CutAtStopPhrase(tt.in); got != tt.want {
			t.Errorf("CutAtStopPhrase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasStopPrefix(t *testing.T) {
	c := New()

	tests := []struct {
		in   string
		want bool
	}{
		{"Add a reply", true},
		{"  reply to this", true},
		{"Replies", true},
		{"regular message text", false},
	}

	for _, tt := range tests {
		if got := c.HasStopPrefix(tt.in); got != tt.want {
			t.Errorf("HasStopPrefix(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToken(t *testing.T) {
	if got := Token("•cooluser123:"); got != "cooluser123" {
		t.Errorf("Token = %q, want %q", got, "cooluser123")
	}
}
