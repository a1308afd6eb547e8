package reference

import (
	"regexp"
	"strings"
)

// Codec builds and parses the merchant-reference string that ties a hosted
// payment session back to an internal order. Encoding is deterministic so
// that re-encoding within one checkout attempt always yields the same
// reference. Decoding is best effort and never fails hard: an unparseable
// reference just means the reconciler falls back to session-ID lookup.
type Codec struct {
	Prefix string
}

func NewCodec(prefix string) *Codec {
	return &Codec{Prefix: prefix}
}

var (
	orderNumberShape = regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{6}$`)
	uuidShape        = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

func (c *Codec) Encode(orderNumber string) string {
	return c.Prefix + ":order:" + orderNumber
}

// Decode strips the configured prefix if present. A reference without the
// prefix is still accepted when the whole string already looks like an
// order number or a raw order UUID; anything else is no match.
func (c *Codec) Decode(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}

	if prefixed := c.Prefix + ":order:"; strings.HasPrefix(ref, prefixed) {
		value := strings.TrimPrefix(ref, prefixed)
		if value == "" {
			return "", false
		}
		return value, true
	}

	if orderNumberShape.MatchString(ref) || uuidShape.MatchString(ref) {
		return ref, true
	}

	return "", false
}
