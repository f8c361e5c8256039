// Package link rewrites outbound messaging links so that each one carries a coupon.
package link

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURI is the messaging service prefix recognised when no other is configured.
const DefaultBaseURI = "https://wa.me"

// Placeholder is the literal token replaced by a coupon inside a message body.
const Placeholder = "PLACEHOLDER"

// couponLabel matches "Cupón:" followed by optional whitespace (Unicode spaces and
// BOM included) and the run that currently occupies the coupon slot (possibly empty).
var couponLabel = regexp.MustCompile(`(?i)(cupón:)([\s\v\p{Z}\x{FEFF}]*)([^\s\v\p{Z}\x{FEFF}]*)`)

// Rewriter recognises templates of the form <base>/<digits>?text=<encoded-text>.
type Rewriter struct {
	pattern *regexp.Regexp
}

// NewRewriter builds a Rewriter accepting any of the given base URIs.
// With no base URIs it falls back to DefaultBaseURI.
func NewRewriter(baseURIs ...string) *Rewriter {
	var alts []string
	for _, b := range baseURIs {
		b = strings.TrimRight(strings.TrimSpace(b), "/")
		if b != "" {
			alts = append(alts, regexp.QuoteMeta(b))
		}
	}
	if len(alts) == 0 {
		alts = []string{regexp.QuoteMeta(DefaultBaseURI)}
	}
	return &Rewriter{
		pattern: regexp.MustCompile(`^(` + strings.Join(alts, "|") + `)/(\d+)\?text=([^&#]*)$`),
	}
}

var defaultRewriter = NewRewriter()

// Rewrite is Rewriter.Rewrite on the default messaging base URI.
func Rewrite(template, code string) string {
	return defaultRewriter.Rewrite(template, code)
}

// Match is Rewriter.Match on the default messaging base URI.
func Match(href string) bool {
	return defaultRewriter.Match(href)
}

// Match reports whether href has the messaging-link shape.
func (r *Rewriter) Match(href string) bool {
	return r.pattern.MatchString(href)
}

// Rewrite splices code into the message body of template and returns the re-encoded link.
// Templates that do not have the messaging shape, or whose text cannot be decoded, are
// returned unchanged. Bodies with neither a placeholder nor a coupon label are re-encoded
// without a coupon.
func (r *Rewriter) Rewrite(template, code string) string {
	m := r.pattern.FindStringSubmatch(template)
	if m == nil {
		return template
	}
	base, recipient, encoded := m[1], m[2], m[3]

	body, err := DecodeComponent(encoded)
	if err != nil {
		return template
	}

	return base + "/" + recipient + "?text=" + EncodeComponent(Insert(body, code))
}

// Insert places code into a decoded message body.
// Every Placeholder is replaced; failing that, the first coupon label has its value replaced.
func Insert(body, code string) string {
	if strings.Contains(body, Placeholder) {
		return strings.ReplaceAll(body, Placeholder, code)
	}

	loc := couponLabel.FindStringSubmatchIndex(body)
	if loc == nil {
		return body
	}
	// loc[6]:loc[7] is the value run after label and whitespace
	return body[:loc[6]] + code + body[loc[7]:]
}

// DecodeComponent reverses percent-encoding. "+" is kept literally.
func DecodeComponent(s string) (string, error) {
	return url.PathUnescape(s)
}

// EncodeComponent percent-encodes s leaving only A-Z a-z 0-9 and - _ . ! ~ * ' ( ) as-is.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
