package share

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const fiddlerAddr = "127.0.0.1:50000"

// NewHTTPClient returns a client with bounded handshake and header timeouts.
// proxy may be empty, a proxy URL, or "auto" to use a local debugging proxy when one is listening.
func NewHTTPClient(timeout time.Duration, proxy string) (*http.Client, error) {
	tr := &http.Transport{
		MaxConnsPerHost:       0,
		MaxIdleConns:          0,
		MaxIdleConnsPerHost:   64,
		ResponseHeaderTimeout: 10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		ExpectContinueTimeout: 30 * time.Second,
	}

	switch proxy {
	case "":
	case "auto":
		if conn, err := net.DialTimeout("tcp", fiddlerAddr, time.Second); err == nil {
			conn.Close()
			tr.Proxy = http.ProxyURL(&url.URL{Scheme: "http", Host: fiddlerAddr})
		}
	default:
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid proxy %q", proxy)
		}
		tr.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: tr,
	}, nil
}
