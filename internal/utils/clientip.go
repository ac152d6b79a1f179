package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// proxyHeaders are consulted in order when the proxy is trusted.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIP returns the caller address. Proxy headers are read only when
// trustProxy is set; otherwise RemoteAddr is the only source. The result
// is empty when no source parses as an IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range proxyHeaders {
			v := r.Header.Get(h)
			if h == "X-Forwarded-For" {
				// left-most entry is the original client
				v, _, _ = strings.Cut(v, ",")
			}
			if addr, ok := parseAddr(v); ok {
				return addr.String()
			}
		}
	}
	if addr, ok := parseAddr(r.RemoteAddr); ok {
		return addr.String()
	}
	return ""
}

// parseAddr accepts "ip", "ip:port" and "[v6]:port".
func parseAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// Prefixes is a set of networks. Bare addresses are stored as
// single-address prefixes.
type Prefixes []netip.Prefix

// ParsePrefixes parses CIDRs and addresses, skipping blanks. Invalid
// entries are returned separately so the caller can report them.
func ParsePrefixes(list []string) (Prefixes, []string) {
	var (
		out     Prefixes
		invalid []string
	)
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(s); err == nil {
			a = a.Unmap()
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		invalid = append(invalid, s)
	}
	return out, invalid
}

// Contains reports whether ip falls in any prefix.
func (p Prefixes) Contains(ip string) bool {
	addr, ok := parseAddr(ip)
	if !ok {
		return false
	}
	for _, pfx := range p {
		if pfx.Contains(addr) {
			return true
		}
	}
	return false
}
