package video

import (
	"net/url"
	"strings"
)

// ExtractYouTubeID pulls the platform video id out of any of the accepted
// hosted-link shapes:
//
//	https://youtu.be/<id>
//	https://www.youtube.com/watch?v=<id>          (extra query params tolerated)
//	https://www.youtube.com/embed/<id>
//
// Returns "" when the location does not match any accepted shape.
func ExtractYouTubeID(location string) string {
	raw := strings.TrimSpace(location)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtu.be":
		return firstPathSegment(u.Path)
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		if strings.HasPrefix(u.Path, "/embed/") {
			return firstPathSegment(strings.TrimPrefix(u.Path, "/embed"))
		}
		if u.Path == "/watch" {
			return u.Query().Get("v")
		}
	}
	return ""
}

// EmbedURL builds the embeddable player URL for an extracted id.
func EmbedURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}

func firstPathSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
