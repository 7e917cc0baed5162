package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
)

// isBlockedIP returns true if the IP is private, loopback, link-local, or unspecified.
func isBlockedIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// resolvePublic resolves host and fails when any of its addresses is
// blocked. IP literals are checked without a lookup.
func resolvePublic(ctx context.Context, host string) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return nil, fmt.Errorf("blocked fetch of document from private address %s", ip)
		}
		return []net.IP{ip}, nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no addresses found for host %s", host)
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if isBlockedIP(a.IP) {
			return nil, fmt.Errorf("blocked fetch of document from %s: private address %s", host, a.IP)
		}
		ips = append(ips, a.IP)
	}
	return ips, nil
}

// newFetchClient returns the client that downloads API, model and examples
// documents given by URL. Timeouts and the redirect limit come from c.
// Unless c.AllowPrivateIPs is set, connections and redirects to private,
// loopback and link-local addresses are refused.
func newFetchClient(c *serverConfig) *http.Client {
	dialer := &net.Dialer{Timeout: c.DialTimeout}
	transport := &http.Transport{DialContext: dialer.DialContext}
	if !c.AllowPrivateIPs {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolvePublic(ctx, host)
			if err != nil {
				return nil, err
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].String(), port))
		}
	}

	return &http.Client{
		Timeout:   c.FetchTimeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", c.MaxRedirects)
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return fmt.Errorf("redirect to unsupported scheme %q", req.URL.Scheme)
			}
			if c.AllowPrivateIPs {
				return nil
			}
			_, err := resolvePublic(req.Context(), req.URL.Hostname())
			return err
		},
	}
}
