package jsonschema

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// maxURILength bounds uri.go's Parse against the Overflow failure mode of
// spec §4.1: inputs beyond this are rejected before any parsing is attempted.
const maxURILength = 1 << 32

// UriKind classifies how a Uri was parsed, per spec §3.1.
type UriKind int

const (
	// UriKindURL is an absolute or relative URI in URL form (scheme+authority).
	UriKindURL UriKind = iota
	// UriKindURN is an absolute URI in URN form (urn:<nid>:<nss>).
	UriKindURN
	// UriKindRelative is a relative reference with no scheme.
	UriKindRelative
)

// Uri is the module's URI representation: either a URL-form URI (scheme +
// authority + path + query + fragment), a URN-form URI (scheme "urn" +
// namespace identifier/string), or a scheme-less relative reference.
type Uri struct {
	Kind UriKind

	Scheme string

	// URL form
	Host     string
	Port     string
	Path     string
	Query    string
	UserInfo string

	// URN form: "urn:<NID>:<NSS>"
	NID string
	NSS string

	fragment    string
	hasFragment bool
}

// ParseURI classifies and parses str per spec §4.1 Parse.
func ParseURI(str string) (*Uri, error) {
	if len(str) > maxURILength {
		return nil, ErrURIOverflow
	}

	base, frag, hasFrag := cutFragment(str)

	if strings.HasPrefix(strings.ToLower(base), "urn:") {
		u, err := parseURN(base)
		if err != nil {
			return nil, err
		}
		u.hasFragment = hasFrag
		u.fragment = frag
		return u, nil
	}

	parsed, err := url.Parse(base)
	if err != nil {
		// Not parseable as a URL; only acceptable if it is a bare relative
		// reference (no scheme, no illegal characters before RFC 3986 was
		// enforced by net/url anyway -- net/url is lenient, so a genuine
		// failure here means the string is not well-formed at all).
		return nil, fmt.Errorf("%w: %s", ErrURIInvalidScheme, err)
	}

	kind := UriKindURL
	if parsed.Scheme == "" {
		kind = UriKindRelative
	}

	if parsed.Port() != "" {
		if _, err := strconv.Atoi(parsed.Port()); err != nil {
			return nil, ErrURIInvalidPort
		}
	}

	u := &Uri{
		Kind:        kind,
		Scheme:      parsed.Scheme,
		Host:        parsed.Hostname(),
		Port:        parsed.Port(),
		Path:        parsed.Path,
		Query:       parsed.RawQuery,
		hasFragment: hasFrag,
		fragment:    frag,
	}
	if parsed.User != nil {
		u.UserInfo = parsed.User.String()
	}
	return u, nil
}

func cutFragment(s string) (base, frag string, has bool) {
	idx := strings.IndexByte(s, '#')
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+1:], true
}

func parseURN(s string) (*Uri, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || !strings.EqualFold(parts[0], "urn") || parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("%w: malformed urn", ErrURIInvalidScheme)
	}
	return &Uri{
		Kind:   UriKindURN,
		Scheme: "urn",
		NID:    parts[1],
		NSS:    parts[2],
	}, nil
}

// IsAbsolute reports whether u has a scheme (URL form with authority, or URN
// form) and no fragment, per the Absolute URI definition in spec §3.1.
func (u *Uri) IsAbsolute() bool {
	if u.hasFragment && u.fragment != "" {
		return false
	}
	switch u.Kind {
	case UriKindURN:
		return true
	case UriKindURL:
		return u.Scheme != ""
	default:
		return false
	}
}

// Fragment returns the raw fragment string (without the leading '#').
func (u *Uri) Fragment() string {
	return u.fragment
}

// HasFragment reports whether the uri carries any fragment, including the
// empty fragment ("#").
func (u *Uri) HasFragment() bool {
	return u.hasFragment
}

// IsPointerFragment reports whether the fragment is JSON-Pointer shaped:
// empty, or beginning with '/', per P3.
func (u *Uri) IsPointerFragment() bool {
	return u.hasFragment && (u.fragment == "" || strings.HasPrefix(u.fragment, "/"))
}

// IsAnchorFragment reports whether the fragment matches the anchor-name
// identifier grammar of spec §3.1.
func (u *Uri) IsAnchorFragment() bool {
	return u.hasFragment && u.fragment != "" && !strings.HasPrefix(u.fragment, "/") && isValidAnchorName(u.fragment)
}

// WithFragment returns a copy of u with its fragment replaced.
func (u *Uri) WithFragment(frag string) *Uri {
	cp := *u
	cp.fragment = frag
	cp.hasFragment = true
	return &cp
}

// WithoutFragment returns a copy of u with no fragment at all.
func (u *Uri) WithoutFragment() *Uri {
	cp := *u
	cp.fragment = ""
	cp.hasFragment = false
	return &cp
}

// String serializes u back to its canonical textual form (P1: parsing the
// result must reproduce an equal Uri).
func (u *Uri) String() string {
	var b strings.Builder
	switch u.Kind {
	case UriKindURN:
		b.WriteString("urn:")
		b.WriteString(u.NID)
		b.WriteByte(':')
		b.WriteString(u.NSS)
	default:
		if u.Scheme != "" {
			b.WriteString(u.Scheme)
			b.WriteByte(':')
		}
		if u.Host != "" || u.UserInfo != "" {
			b.WriteString("//")
			if u.UserInfo != "" {
				b.WriteString(u.UserInfo)
				b.WriteByte('@')
			}
			b.WriteString(u.Host)
			if u.Port != "" {
				b.WriteByte(':')
				b.WriteString(u.Port)
			}
		}
		b.WriteString(u.Path)
		if u.Query != "" {
			b.WriteByte('?')
			b.WriteString(u.Query)
		}
	}
	if u.hasFragment {
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}
	return b.String()
}

// NormalizePath collapses "." and ".." segments of a URL-form path in place,
// per RFC 3986 §5.2.4, as used by ResolveReference.
func NormalizePath(p string) string {
	if p == "" {
		return p
	}
	trailingSlash := strings.HasSuffix(p, "/")
	cleaned := path.Clean(p)
	if cleaned == "." {
		cleaned = ""
	}
	if trailingSlash && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	return cleaned
}

// ResolveReference implements RFC 3986 §5.2.2: resolve reference against
// base, returning an absolute, path-normalized Uri (spec §4.1 "Resolve
// reference", P2).
func ResolveReference(base *Uri, reference string) (*Uri, error) {
	ref, err := ParseURI(reference)
	if err != nil {
		return nil, err
	}

	if ref.Kind != UriKindRelative && ref.Scheme != "" {
		// Reference is itself absolute (or URN); just normalize its path.
		out := *ref
		out.Path = NormalizePath(out.Path)
		return &out, nil
	}

	if base == nil {
		return nil, ErrURINotAbsolute
	}

	out := *base
	out.hasFragment = ref.hasFragment
	out.fragment = ref.fragment

	if ref.Host != "" {
		out.Host = ref.Host
		out.Port = ref.Port
		out.UserInfo = ref.UserInfo
		out.Path = NormalizePath(ref.Path)
		out.Query = ref.Query
		return &out, nil
	}

	if ref.Path == "" {
		if ref.Query != "" {
			out.Query = ref.Query
		}
		return &out, nil
	}

	if strings.HasPrefix(ref.Path, "/") {
		out.Path = NormalizePath(ref.Path)
	} else {
		out.Path = NormalizePath(mergePaths(base, ref.Path))
	}
	out.Query = ref.Query
	return &out, nil
}

func mergePaths(base *Uri, refPath string) string {
	if base.Host != "" && base.Path == "" {
		return "/" + refPath
	}
	if i := strings.LastIndexByte(base.Path, '/'); i >= 0 {
		return base.Path[:i+1] + refPath
	}
	return refPath
}

// isValidAnchorName validates an anchor name against the identifier grammar
// of spec §3.1: leading letter or underscore, then letters/digits/-/_/.
func isValidAnchorName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case i == 0:
			if !(r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
				return false
			}
		default:
			if !(r == '_' || r == '-' || r == '.' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
				return false
			}
		}
	}
	return true
}
