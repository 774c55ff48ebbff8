package network

import (
	"context"
	"net"
	"net/http"
	"runtime"
	"time"

	"storyforge/sources/configuration"

	"golang.org/x/net/proxy"
)

func NewHttpClient(dialer proxy.Dialer, config *configuration.Config) *http.Client {
	dc := func(ctx context.Context, network, address string) (net.Conn, error) {
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, address)
		}
		return dialer.Dial(network, address)
	}

	return &http.Client{
		Timeout: config.Backend.Timeout(),
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dc,
			MaxIdleConns:          20,
			IdleConnTimeout:       10 * time.Minute,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 5 * time.Second,
			// every batch worker may hold a connection to the same backend host
			MaxIdleConnsPerHost: max(config.Generation.GroupWidth, runtime.GOMAXPROCS(0)+1),
		},
	}
}
