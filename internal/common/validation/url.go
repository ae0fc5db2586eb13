package validation

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	httpSchemePattern = regexp.MustCompile(`^https?://`)
	domainPattern     = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*\.)+[a-z]{2,}$`)
)

// IsValidURL reports whether raw is usable as a detection service base URL.
// It never performs network access and returns false on any parse error.
//
// Rules:
//   - only http:// and https:// are accepted
//   - IPv4 literals and localhost need an explicit, non-default port
//   - any other host must be a dotted domain name with an alphabetic TLD
//   - a hostname ending in a double quote is rejected
//   - a path containing "//" is rejected
//
// The URL is read the way a browser parses it, see NormalizeURL.
func IsValidURL(raw string) bool {
	_, ok := NormalizeURL(raw)
	return ok
}

// NormalizeURL validates raw and returns it in the form a browser URL parser
// would send it. Surrounding whitespace is trimmed, tabs and newlines are
// removed, extra slashes after the scheme are dropped, backslashes count as
// slashes and IPv4 shorthand such as 127.1 or 0x7f.1 is expanded to dotted
// quads. Percent-encoded and internationalized hostnames are not decoded and
// fail the domain check.
func NormalizeURL(raw string) (string, bool) {
	if !httpSchemePattern.MatchString(raw) {
		return "", false
	}

	u, err := url.Parse(cleanURL(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "" || strings.HasSuffix(hostname, `"`) {
		return "", false
	}

	port, ok := explicitPort(u)
	if !ok {
		return "", false
	}

	isIPAddress := endsInNumber(hostname)
	if isIPAddress {
		ip, ok := parseIPv4(hostname)
		if !ok {
			return "", false
		}
		hostname = ip
	}
	isLocalhost := hostname == "localhost"

	if (isIPAddress || isLocalhost) && port == "" {
		return "", false
	}

	if !isIPAddress && !isLocalhost && !domainPattern.MatchString(hostname) {
		return "", false
	}

	if strings.Contains(normalizePath(u.EscapedPath()), "//") {
		return "", false
	}

	if u.Port() != "" {
		u.Host = net.JoinHostPort(hostname, u.Port())
	} else {
		u.Host = hostname
	}
	return u.String(), true
}

// cleanURL rewrites an http(s) URL into text url.Parse splits the same way a
// browser does.
func cleanURL(raw string) string {
	raw = strings.TrimFunc(raw, func(r rune) bool { return r <= ' ' })
	raw = strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(raw)

	scheme, rest, _ := strings.Cut(raw, ":")
	rest = strings.TrimLeft(rest, `/\`)

	end := strings.IndexAny(rest, "?#")
	if end < 0 {
		end = len(rest)
	}
	rest = strings.ReplaceAll(rest[:end], `\`, "/") + rest[end:]

	var b strings.Builder
	b.WriteString(scheme + "://")
	for i := 0; i < len(rest); i++ {
		if c := rest[i]; c < ' ' || c == 0x7f {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(rest[i])
	}
	return b.String()
}

// explicitPort returns the URL port, treating the scheme's default port as
// absent. ok is false when the port is out of range.
func explicitPort(u *url.URL) (port string, ok bool) {
	port = u.Port()
	if port == "" {
		return "", true
	}

	n, err := strconv.Atoi(port)
	if err != nil || n > 65535 {
		return "", false
	}

	switch {
	case u.Scheme == "http" && n == 80, u.Scheme == "https" && n == 443:
		return "", true
	}
	return port, true
}

// endsInNumber reports whether the last label of host is numeric, which makes
// the whole host an IPv4 address.
func endsInNumber(host string) bool {
	labels := strings.Split(host, ".")
	if labels[len(labels)-1] == "" {
		if len(labels) == 1 {
			return false
		}
		labels = labels[:len(labels)-1]
	}

	last := labels[len(labels)-1]
	if last != "" && strings.Trim(last, "0123456789") == "" {
		return true
	}
	return strings.HasPrefix(last, "0x") && strings.Trim(last[2:], "0123456789abcdef") == ""
}

// parseIPv4 parses one to four decimal, octal or hex parts, the last part
// filling the remaining bytes, and returns the dotted-quad form.
func parseIPv4(host string) (string, bool) {
	parts := strings.Split(host, ".")
	if len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 4 {
		return "", false
	}

	numbers := make([]uint64, len(parts))
	for i, part := range parts {
		n, ok := parseIPv4Number(part)
		if !ok {
			return "", false
		}
		numbers[i] = n
	}

	last := len(numbers) - 1
	for _, n := range numbers[:last] {
		if n > 255 {
			return "", false
		}
	}
	if numbers[last] >= 1<<(8*uint(5-len(numbers))) {
		return "", false
	}

	addr := numbers[last]
	for i, n := range numbers[:last] {
		addr += n << (8 * uint(3-i))
	}
	return net.IPv4(byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr)).String(), true
}

func parseIPv4Number(part string) (uint64, bool) {
	if part == "" {
		return 0, false
	}

	base := 10
	switch {
	case strings.HasPrefix(part, "0x"):
		part, base = part[2:], 16
		if part == "" {
			return 0, true
		}
	case len(part) > 1 && part[0] == '0':
		part, base = part[1:], 8
	}

	n, err := strconv.ParseUint(part, base, 64)
	return n, err == nil
}

// normalizePath resolves "." and ".." segments, including their
// percent-encoded spellings, as a browser does before sending the path.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}

	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	out := make([]string, 0, len(segments))
	for i, segment := range segments {
		final := i == len(segments)-1
		switch strings.ReplaceAll(strings.ToLower(segment), "%2e", ".") {
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			if final {
				out = append(out, "")
			}
		case ".":
			if final {
				out = append(out, "")
			}
		default:
			out = append(out, segment)
		}
	}
	return "/" + strings.Join(out, "/")
}
