package templates

import (
	"errors"
	"testing"
)

func TestDefinition_SerializeDadosCompactJSON(t *testing.T) {
	definition := Definition{System: "PGMEI", Service: "GERARDASPDF21"}
	serialized, err := definition.SerializeDados(map[string]any{"periodoApuracao": "202601"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if serialized != `{"periodoApuracao":"202601"}` {
		t.Fatalf("expected compact JSON, got %q", serialized)
	}
}

func TestDefinition_SerializeDadosKeepsHTMLCharacters(t *testing.T) {
	definition := Definition{System: "PGDASD", Service: "TRANSDECLARACAO11"}
	serialized, err := definition.SerializeDados(map[string]any{"obs": "a<b & c>d"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if serialized != `{"obs":"a<b & c>d"}` {
		t.Fatalf("expected unescaped HTML characters, got %q", serialized)
	}
}

func TestDefinition_SerializeDadosEmptyObject(t *testing.T) {
	definition := Definition{System: "X", Service: "Y"}
	serialized, err := definition.SerializeDados(map[string]any{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if serialized != "{}" {
		t.Fatalf("expected empty object, got %q", serialized)
	}
}

func TestDefinition_SerializeDadosBlankWhenEmpty(t *testing.T) {
	definition := Definition{System: "CCMEI", Service: "EMITIRCCMEI121", BlankDadosWhenEmpty: true}
	serialized, err := definition.SerializeDados(map[string]any{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if serialized != "" {
		t.Fatalf("expected blank dados, got %q", serialized)
	}

	// Non-empty data still serializes normally.
	serialized, err = definition.SerializeDados(map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if serialized != `{"k":"v"}` {
		t.Fatalf("unexpected serialization %q", serialized)
	}
}

func TestDefinition_ValidateWithoutFuncPassesThrough(t *testing.T) {
	definition := Definition{System: "X", Service: "Y"}
	validated, err := definition.Validate(nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(validated) != 0 {
		t.Fatalf("expected empty map for nil input, got %+v", validated)
	}
}

func TestPeriodField_Bounds(t *testing.T) {
	cases := []struct {
		value any
		ok    bool
	}{
		{"202601", true},
		{"190001", true},
		{"210012", true},
		{202601, true},
		{"189912", false},
		{"210101", false},
		{"2026-1", false},
		{"20261", false},
		{"abcdef", false},
		{nil, false},
	}
	for _, tc := range cases {
		_, err := periodField(map[string]any{"periodoApuracao": tc.value}, "periodoApuracao")
		if tc.ok && err != nil {
			t.Fatalf("period %v: unexpected error %v", tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("period %v: expected error", tc.value)
		}
	}
}

func TestMonthField_ZeroPads(t *testing.T) {
	value, err := monthField(map[string]any{"mesPA": 3}, "mesPA")
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if value != "03" {
		t.Fatalf("expected zero-padded month, got %q", value)
	}
	if _, err := monthField(map[string]any{"mesPA": "13"}, "mesPA"); err == nil {
		t.Fatalf("expected month 13 rejected")
	}
	if _, err := monthField(map[string]any{"mesPA": "0"}, "mesPA"); err == nil {
		t.Fatalf("expected month 0 rejected")
	}
}

func TestCalendarYearField_Bounds(t *testing.T) {
	if _, err := calendarYearField(map[string]any{"ano": "2026"}, "ano"); err != nil {
		t.Fatalf("year 2026: %v", err)
	}
	if _, err := calendarYearField(map[string]any{"ano": "1899"}, "ano"); err == nil {
		t.Fatalf("expected 1899 rejected")
	}
	if _, err := calendarYearField(map[string]any{"ano": "2101"}, "ano"); err == nil {
		t.Fatalf("expected 2101 rejected")
	}
}

func TestBase64Field(t *testing.T) {
	if _, err := base64Field(map[string]any{"xml": "PGFiYz4="}, "xml"); err != nil {
		t.Fatalf("valid base64: %v", err)
	}
	_, err := base64Field(map[string]any{"xml": "not base64!!"}, "xml")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidServiceData) {
		t.Fatalf("expected invalid-data sentinel")
	}
}

func TestRejectInput_ToleratesBlankValues(t *testing.T) {
	validate := rejectInput("DADOSCCMEI122")
	validated, err := validate(map[string]any{"ignored": "", "alsoIgnored": nil})
	if err != nil {
		t.Fatalf("expected blank values tolerated: %v", err)
	}
	if len(validated) != 0 {
		t.Fatalf("expected empty output, got %+v", validated)
	}
	if _, err := validate(map[string]any{"periodo": "202601"}); err == nil {
		t.Fatalf("expected non-empty input rejected")
	}
}
