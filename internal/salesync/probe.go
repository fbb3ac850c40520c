package salesync

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Probe reports whether the device currently has network connectivity.
// The engine consults it once, before doing any work; the host
// controller is expected to re-invoke sync on a transition to online.
type Probe interface {
	Online(ctx context.Context) bool
}

// StaticProbe is a fixed connectivity signal, for tests and for hosts
// that track connectivity themselves.
type StaticProbe bool

func (p StaticProbe) Online(context.Context) bool { return bool(p) }

// DialProbe checks connectivity by dialing the sync endpoint's host
// with a short timeout.
type DialProbe struct {
	// Endpoint is the sales API URL whose host gets dialed.
	Endpoint string
	// Timeout bounds the dial. Zero means 3 seconds.
	Timeout time.Duration
}

func (p DialProbe) Online(ctx context.Context) bool {
	u, err := url.Parse(p.Endpoint)
	if err != nil || u.Host == "" {
		return false
	}

	host := u.Host
	if u.Port() == "" {
		switch u.Scheme {
		case "https":
			host = net.JoinHostPort(u.Hostname(), "443")
		default:
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}

	timeout := p.Timeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
