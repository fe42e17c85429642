package core

import (
	"testing"
	"time"
)

func TestParseEnvironment(t *testing.T) {
	cases := []struct {
		input   string
		want    Environment
		wantErr bool
	}{
		{"", EnvironmentTrial, false},
		{"trial", EnvironmentTrial, false},
		{"Trial", EnvironmentTrial, false},
		{"Production", EnvironmentProduction, false},
		{"producao", EnvironmentProduction, false},
		{"staging", "", true},
	}
	for _, tc := range cases {
		got, err := ParseEnvironment(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseEnvironment(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseEnvironment(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseEnvironment(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestEnvironmentURLs(t *testing.T) {
	if got := EnvironmentTrial.APIBaseURL(); got != APIBaseURLTrial {
		t.Fatalf("trial base url = %q", got)
	}
	if got := EnvironmentProduction.APIBaseURL(); got != APIBaseURLProduction {
		t.Fatalf("production base url = %q", got)
	}
	if EnvironmentTrial.IsProduction() {
		t.Fatalf("trial must not report production")
	}
}

func TestCachedTokenFreshAppliesBuffer(t *testing.T) {
	obtained := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	cached := CachedToken{
		Token: Token{
			AccessToken: "at",
			JWTToken:    "jwt",
			TokenType:   "Bearer",
			ExpiresIn:   3600,
		},
		ObtainedAt: obtained,
	}

	if !cached.Fresh(obtained.Add(30 * time.Minute)) {
		t.Fatalf("token should be fresh well before expiry")
	}
	// 3599s elapsed: inside the 60s buffer even though not expired.
	if cached.Fresh(obtained.Add(3599 * time.Second)) {
		t.Fatalf("token inside expiry buffer must not be fresh")
	}
	boundary := obtained.Add(3600*time.Second - TokenExpiryBuffer)
	if cached.Fresh(boundary) {
		t.Fatalf("token exactly at buffer boundary must not be fresh")
	}
	if !cached.Fresh(boundary.Add(-time.Second)) {
		t.Fatalf("token one second before buffer boundary must be fresh")
	}
}

func TestCachedTokenFreshZeroValue(t *testing.T) {
	var cached CachedToken
	if cached.Fresh(time.Now()) {
		t.Fatalf("zero cached token must not be fresh")
	}
}

func TestTokenValidate(t *testing.T) {
	valid := Token{AccessToken: "at", JWTToken: "jwt", TokenType: "Bearer", ExpiresIn: 100}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}

	caseInsensitive := valid
	caseInsensitive.TokenType = "bearer"
	if err := caseInsensitive.Validate(); err != nil {
		t.Fatalf("lowercase bearer rejected: %v", err)
	}

	wrongType := valid
	wrongType.TokenType = "mac"
	if err := wrongType.Validate(); err == nil {
		t.Fatalf("expected token type error")
	}

	missingJWT := valid
	missingJWT.JWTToken = ""
	if err := missingJWT.Validate(); err == nil {
		t.Fatalf("expected jwt error")
	}
}

func TestPartyValidate(t *testing.T) {
	cpf := Party{Number: "12345678901", Type: PartyTypeCPF}
	if err := cpf.Validate("contratante"); err != nil {
		t.Fatalf("valid CPF rejected: %v", err)
	}
	cnpj := Party{Number: "12345678000195", Type: PartyTypeCNPJ}
	if err := cnpj.Validate("contribuinte"); err != nil {
		t.Fatalf("valid CNPJ rejected: %v", err)
	}

	if err := (Party{Number: "123", Type: PartyTypeCPF}).Validate("x"); err == nil {
		t.Fatalf("expected CPF length error")
	}
	if err := (Party{Number: "12a45678901", Type: PartyTypeCPF}).Validate("x"); err == nil {
		t.Fatalf("expected non-numeric error")
	}
	if err := (Party{Number: "12345678901", Type: 9}).Validate("x"); err == nil {
		t.Fatalf("expected party type error")
	}
}
