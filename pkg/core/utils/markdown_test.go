package utils

import "testing"

func TestCleanMarkdownStripsFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```markdown\n# Kết luận\nMua\n```", "# Kết luận\nMua"},
		{"```\nplain\n```", "plain"},
		{"no fences", "no fences"},
	}
	for _, c := range cases {
		if got := CleanMarkdown(c.in); got != c.want {
			t.Errorf("CleanMarkdown(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("**Đồng thuận** cao giữa ba báo cáo") {
		t.Error("well-formed markdown should validate")
	}
	if !ValidateMarkdown("plain prose without any markup") {
		t.Error("plain text is valid markdown")
	}
}
