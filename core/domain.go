package core

import (
	"fmt"
	"strings"
	"time"
)

type Environment string

const (
	EnvironmentTrial      Environment = "Trial"
	EnvironmentProduction Environment = "Production"
)

const (
	AuthURLTrial      = "https://autenticacao.sapi.serpro.gov.br/authenticate"
	AuthURLProduction = "https://autenticacao.sapi.serpro.gov.br/authenticate"

	APIBaseURLTrial      = "https://gateway.apiserpro.serpro.gov.br/integra-contador-trial"
	APIBaseURLProduction = "https://gateway.apiserpro.serpro.gov.br/integra-contador"
)

// TrialToken is the fixed bearer token published for the trial gateway.
const TrialToken = "06aef429-a981-3ec5-a1f8-71d38d86481e"

func ParseEnvironment(value string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "trial":
		return EnvironmentTrial, nil
	case "production", "producao", "prod":
		return EnvironmentProduction, nil
	default:
		return "", &ConfigurationError{Field: "environment", Message: fmt.Sprintf("unknown environment %q", value)}
	}
}

func (e Environment) AuthURL() string {
	if e == EnvironmentProduction {
		return AuthURLProduction
	}
	return AuthURLTrial
}

func (e Environment) APIBaseURL() string {
	if e == EnvironmentProduction {
		return APIBaseURLProduction
	}
	return APIBaseURLTrial
}

func (e Environment) IsProduction() bool {
	return e == EnvironmentProduction
}

func (e Environment) String() string {
	return string(e)
}

// Token is the payload returned by the identity provider. AccessToken
// authorizes requests; JWTToken is the auxiliary token the production
// gateway additionally demands on every call.
type Token struct {
	AccessToken string
	JWTToken    string
	TokenType   string
	Scope       string
	ExpiresIn   int64
	JWTPucomex  string
}

func (t Token) Validate() error {
	if strings.TrimSpace(t.AccessToken) == "" {
		return &ConfigurationError{Field: "access_token", Message: "access token is required"}
	}
	if strings.TrimSpace(t.JWTToken) == "" {
		return &ConfigurationError{Field: "jwt_token", Message: "jwt token is required"}
	}
	if !strings.EqualFold(strings.TrimSpace(t.TokenType), "bearer") {
		return &ConfigurationError{Field: "token_type", Message: fmt.Sprintf("unexpected token type %q", t.TokenType)}
	}
	if t.ExpiresIn <= 0 {
		return &ConfigurationError{Field: "expires_in", Message: "expires_in must be positive"}
	}
	return nil
}

// TokenExpiryBuffer is subtracted from the nominal token lifetime so a
// token is never handed out moments before the gateway rejects it.
const TokenExpiryBuffer = 60 * time.Second

// CachedToken pairs a token with the instant it was obtained.
type CachedToken struct {
	Token
	ObtainedAt time.Time
}

func (c CachedToken) ExpiresAt() time.Time {
	return c.ObtainedAt.Add(time.Duration(c.ExpiresIn) * time.Second)
}

// Fresh reports whether the token is still usable at the given instant,
// applying the expiry buffer.
func (c CachedToken) Fresh(now time.Time) bool {
	if c.AccessToken == "" || c.ObtainedAt.IsZero() {
		return false
	}
	return now.Before(c.ExpiresAt().Add(-TokenExpiryBuffer))
}

// SavedConfig is the credential snapshot persisted alongside tokens so a
// production session can be rebuilt without re-entering secrets.
type SavedConfig struct {
	ConsumerKey         string
	ConsumerSecret      string
	CertificatePath     string
	CertificatePassword string
	Environment         Environment
	SavedAt             time.Time
}

func (c SavedConfig) Validate() error {
	if strings.TrimSpace(c.ConsumerKey) == "" {
		return &ConfigurationError{Field: "consumer_key", Message: "consumer key is required"}
	}
	if strings.TrimSpace(c.ConsumerSecret) == "" {
		return &ConfigurationError{Field: "consumer_secret", Message: "consumer secret is required"}
	}
	if strings.TrimSpace(c.CertificatePath) == "" {
		return &ConfigurationError{Field: "certificate_path", Message: "certificate path is required"}
	}
	return nil
}

// PartyType discriminates the document carried by a Party.
type PartyType int

const (
	PartyTypeCPF  PartyType = 1
	PartyTypeCNPJ PartyType = 2
)

// Party identifies one of the three actors every gateway request names:
// contratante, autor do pedido de dados, and contribuinte.
type Party struct {
	Number string
	Type   PartyType
}

func (p Party) Validate(field string) error {
	number := strings.TrimSpace(p.Number)
	if number == "" {
		return &ConfigurationError{Field: field, Message: "document number is required"}
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return &ConfigurationError{Field: field, Message: "document number must be numeric"}
		}
	}
	switch p.Type {
	case PartyTypeCPF:
		if len(number) != 11 {
			return &ConfigurationError{Field: field, Message: "CPF must have 11 digits"}
		}
	case PartyTypeCNPJ:
		if len(number) != 14 {
			return &ConfigurationError{Field: field, Message: "CNPJ must have 14 digits"}
		}
	default:
		return &ConfigurationError{Field: field, Message: fmt.Sprintf("unknown party type %d", p.Type)}
	}
	return nil
}

// RequestParties carries the actor triple attached to every service call.
type RequestParties struct {
	Contratante      Party
	AutorPedidoDados Party
	Contribuinte     Party
}

func (p RequestParties) Validate() error {
	if err := p.Contratante.Validate("contratante"); err != nil {
		return err
	}
	if err := p.AutorPedidoDados.Validate("autor_pedido_dados"); err != nil {
		return err
	}
	return p.Contribuinte.Validate("contribuinte")
}
