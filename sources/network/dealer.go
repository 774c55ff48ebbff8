package network

import (
	"storyforge/sources/configuration"
	"storyforge/sources/tracing"

	"golang.org/x/net/proxy"
)

// NewProxyDialer returns proxy.Direct when no proxy address is configured.
func NewProxyDialer(config *configuration.Config, log *tracing.Logger) (proxy.Dialer, error) {
	network := config.Network
	if network.ProxyAddress == "" {
		return proxy.Direct, nil
	}

	var auth *proxy.Auth
	if network.ProxyUser != "" {
		auth = &proxy.Auth{User: network.ProxyUser, Password: network.ProxyPassword}
	}

	dialer, err := proxy.SOCKS5("tcp", network.ProxyAddress, auth, proxy.Direct)
	if err != nil {
		log.E("Failed to create proxy dialer", tracing.InnerError, err, tracing.ProxyUrl, network.ProxyAddress)
		return nil, err
	}

	log.I("Backend traffic goes through SOCKS5 proxy", tracing.ProxyUrl, network.ProxyAddress)
	return dialer, nil
}
