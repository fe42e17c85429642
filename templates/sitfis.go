package templates

// SITFIS: fiscal situation reports. Requesting the report is a two-step
// flow: solicit a protocol, then emit the report for it.

func sitfisTemplates() []Definition {
	return []Definition{
		{
			System:              "SITFIS",
			Service:             "SOLICITARPROTOCOLO91",
			Version:             "1.0",
			Endpoint:            "Apoiar",
			BlankDadosWhenEmpty: true,
			ValidateFunc:        validateSitfisProtocolRequest,
		},
		{
			System:       "SITFIS",
			Service:      "RELATORIOSITFIS92",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: validateSitfisReport,
		},
	}
}

// The protocol request takes no input at all, even blank fields.
func validateSitfisProtocolRequest(dados map[string]any) (map[string]any, error) {
	for key := range dados {
		return nil, &ValidationError{
			Field:   key,
			Message: "service SOLICITARPROTOCOLO91 does not accept input data",
		}
	}
	return map[string]any{}, nil
}

func validateSitfisReport(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "protocoloRelatorio"); err != nil {
		return nil, err
	}
	protocolo, err := nonEmptyStringField(dados, "protocoloRelatorio")
	if err != nil {
		return nil, err
	}
	return map[string]any{"protocoloRelatorio": protocolo}, nil
}
