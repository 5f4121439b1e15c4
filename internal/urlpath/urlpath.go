// Package urlpath maps files of a static site build to the public URLs
// they are served under.
package urlpath

import (
	"path"
	"strings"
)

// Path converts a slash-separated path relative to the site root into a
// URL path. index.html and index.htm (any case) collapse to their directory.
func Path(rel string) string {
	rel = strings.TrimPrefix(rel, "./")

	var p string
	if isIndex(path.Base(rel)) {
		dir := path.Dir(rel)
		if dir == "." || dir == "/" {
			p = "/"
		} else {
			p = "/" + strings.TrimRight(dir, "/") + "/"
		}
	} else {
		p = "/" + rel
	}

	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	if p == "/" {
		return p
	}
	return escape(p)
}

// URL joins base (without trailing slash) and the URL path of rel.
func URL(base, rel string) string {
	return base + Path(rel)
}

// URLs maps every relative path in rels to its absolute URL, keeping order.
func URLs(base string, rels []string) []string {
	urls := make([]string, 0, len(rels))
	for _, rel := range rels {
		urls = append(urls, URL(base, rel))
	}
	return urls
}

func isIndex(name string) bool {
	name = strings.ToLower(name)
	return name == "index.html" || name == "index.htm"
}

const upperhex = "0123456789ABCDEF"

// escape percent-encodes every byte of s except ASCII letters, digits and
// the characters "/-_.~".
func escape(s string) string {
	if !needsEscape(s) {
		return s
	}
	buf := new(strings.Builder)
	buf.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		if unreserved(s[i]) {
			buf.WriteByte(s[i])
			continue
		}
		buf.WriteByte('%')
		buf.WriteByte(upperhex[s[i]>>4])
		buf.WriteByte(upperhex[s[i]&0x0f])
	}
	return buf.String()
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			return true
		}
	}
	return false
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z',
		'A' <= c && c <= 'Z',
		'0' <= c && c <= '9',
		c == '/', c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
