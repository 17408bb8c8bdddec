package youtube

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	_ "github.com/bdandy/go-socks4"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/proxy"
)

const requestTimeout = 15 * time.Second

// NewHTTPClient builds the client used for search and video lookups. proxyStr
// may be empty or an http, https, socks5 or socks4 URL.
func NewHTTPClient(proxyStr string) (*http.Client, error) {
	if proxyStr == "" {
		return &http.Client{Timeout: requestTimeout}, nil
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", proxyStr, err)
	}

	var transport *http.Transport
	switch proxyURL.Scheme {
	case "http", "https":
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	case "socks5", "socks4":
		dialer, err := proxy.FromURL(proxyURL, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("%s dialer: %w", proxyURL.Scheme, err)
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			},
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
	}

	log.Info().Str("component", "sources").Str("scheme", proxyURL.Scheme).Str("host", proxyURL.Host).Msg("using proxy for YouTube")
	return &http.Client{Timeout: requestTimeout, Transport: transport}, nil
}
