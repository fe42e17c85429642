// Package auth implements credential handling, token acquisition over
// mTLS, and the credential manager that caches tokens in memory and on
// disk.
package auth

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/goliatone/go-integra/core"
)

// Credentials is the consumer key/secret pair sent as HTTP Basic auth on
// token requests.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
}

func NewCredentials(consumerKey, consumerSecret string) (Credentials, error) {
	consumerKey = strings.TrimSpace(consumerKey)
	consumerSecret = strings.TrimSpace(consumerSecret)
	if consumerKey == "" {
		return Credentials{}, &core.ConfigurationError{Field: "consumer_key", Message: "consumer key is required"}
	}
	if consumerSecret == "" {
		return Credentials{}, &core.ConfigurationError{Field: "consumer_secret", Message: "consumer secret is required"}
	}
	return Credentials{ConsumerKey: consumerKey, ConsumerSecret: consumerSecret}, nil
}

// BasicAuthHeader renders the pair as an Authorization header value.
func (c Credentials) BasicAuthHeader() string {
	encoded := base64.StdEncoding.EncodeToString([]byte(c.ConsumerKey + ":" + c.ConsumerSecret))
	return "Basic " + encoded
}

// CertificateConfig points at the PKCS#12 client identity the identity
// provider requires.
type CertificateConfig struct {
	Path       string
	Passphrase string
}

func NewCertificateConfig(path, passphrase string) (CertificateConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return CertificateConfig{}, &core.ConfigurationError{Field: "certificate_path", Message: "certificate path is required"}
	}
	if passphrase == "" {
		return CertificateConfig{}, &core.ConfigurationError{Field: "certificate_password", Message: "certificate password is required"}
	}
	return CertificateConfig{Path: path, Passphrase: passphrase}, nil
}

// CheckFile verifies the certificate path names an existing regular file.
func (c CertificateConfig) CheckFile() error {
	info, err := os.Stat(c.Path)
	if err != nil {
		return &core.ConfigurationError{Field: "certificate_path", Message: "certificate file not found: " + c.Path}
	}
	if info.IsDir() {
		return &core.ConfigurationError{Field: "certificate_path", Message: "certificate path is not a file: " + c.Path}
	}
	return nil
}
