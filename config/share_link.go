package config

import (
	"errors"
	"regexp"
)

var shareLinkPattern = regexp.MustCompile(`^(https?://[^/]+)/s/([a-zA-Z0-9]+)`)

// ErrShareLinkFormat is returned for links not shaped like https://host/s/<token>.
var ErrShareLinkFormat = errors.New("share link not recognized, expected https://<host>/s/<token>")

// ParseShareLink turns a Nextcloud public share link into the WebDAV settings
// for that share: the public WebDAV endpoint with the share token as user.
func ParseShareLink(link string) (WebDAVConfig, error) {
	m := shareLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return WebDAVConfig{}, ErrShareLinkFormat
	}
	return WebDAVConfig{
		URL:   m[1] + "/public.php/webdav",
		User:  m[2],
		Token: "",
		Path:  "",
	}, nil
}
