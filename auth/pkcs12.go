package auth

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"time"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// LoadTLSCertificate decodes a PKCS#12 bundle into a client certificate
// usable for mutual TLS.
func LoadTLSCertificate(cfg CertificateConfig) (tls.Certificate, error) {
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("auth: read certificate %s: %w", cfg.Path, err)
	}
	key, leaf, caCerts, err := pkcs12.DecodeChain(data, cfg.Passphrase)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("auth: decode pkcs12 bundle: %w", err)
	}

	chain := [][]byte{leaf.Raw}
	for _, ca := range caCerts {
		chain = append(chain, ca.Raw)
	}
	return tls.Certificate{
		Certificate: chain,
		PrivateKey:  key,
		Leaf:        leaf,
	}, nil
}

// NewMTLSClient builds an HTTP client presenting the certificate on every
// TLS handshake.
func NewMTLSClient(cert tls.Certificate, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
