package video

import "testing"

func TestExtractYouTubeID(t *testing.T) {
	cases := []struct {
		name     string
		location string
		want     string
	}{
		{"short link", "https://youtu.be/abc123", "abc123"},
		{"watch link", "https://www.youtube.com/watch?v=abc123", "abc123"},
		{"watch link with extra params", "https://www.youtube.com/watch?v=abc123&t=5s", "abc123"},
		{"embed link", "https://www.youtube.com/embed/abc123", "abc123"},
		{"mobile host", "https://m.youtube.com/watch?v=abc123", "abc123"},
		{"nocookie host", "https://www.youtube-nocookie.com/embed/abc123", "abc123"},
		{"no www", "https://youtube.com/watch?v=abc123", "abc123"},
		{"short link with query", "https://youtu.be/abc123?t=10", "abc123"},
		{"surrounding whitespace", "  https://youtu.be/abc123  ", "abc123"},
		{"unrelated host", "https://vimeo.com/123456", ""},
		{"watch without id", "https://www.youtube.com/watch", ""},
		{"plain text", "not a url", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractYouTubeID(tc.location); got != tc.want {
				t.Fatalf("ExtractYouTubeID(%q): want=%q got=%q", tc.location, tc.want, got)
			}
		})
	}
}

func TestEmbedURL(t *testing.T) {
	if got := EmbedURL("abc123"); got != "https://www.youtube.com/embed/abc123" {
		t.Fatalf("EmbedURL: got %q", got)
	}
	if got := EmbedURL(""); got != "" {
		t.Fatalf("EmbedURL of empty id: got %q", got)
	}
}
