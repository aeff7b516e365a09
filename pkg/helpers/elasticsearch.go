package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

const esTimeout = 5 * time.Second

// NewESClient builds the Elasticsearch client backing user search. Basic
// auth is applied only when credentials are configured; the transport caps
// dial and response-header waits so a slow cluster cannot stall requests.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: esTimeout,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		DialContext:           (&net.Dialer{Timeout: esTimeout}).DialContext,
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: transport,
	})
}
