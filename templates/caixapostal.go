package templates

// CAIXAPOSTAL: taxpayer mailbox queries and new-message monitoring.

func caixaPostalTemplates() []Definition {
	return []Definition{
		{
			System:       "CAIXAPOSTAL",
			Service:      "MSGCONTRIBUINTE61",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: validateCaixaPostalMessageList,
		},
		{
			System:       "CAIXAPOSTAL",
			Service:      "MSGDETALHAMENTO62",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: validateCaixaPostalMessageDetail,
		},
		{
			System:              "CAIXAPOSTAL",
			Service:             "INNOVAMSG63",
			Version:             "1.0",
			Endpoint:            "Monitorar",
			BlankDadosWhenEmpty: true,
			ValidateFunc:        rejectInput("INNOVAMSG63"),
		},
	}
}

// All three paging fields are optional with documented defaults; when
// present they must already be strings.
func validateCaixaPostalMessageList(dados map[string]any) (map[string]any, error) {
	out := map[string]any{
		"statusLeitura":   "0",
		"indicadorPagina": "0",
		"ponteiroPagina":  "00000000000000",
	}
	for field := range out {
		value, present := dados[field]
		if !present || value == nil {
			continue
		}
		text, ok := value.(string)
		if !ok {
			return nil, &ValidationError{Field: field, Message: "must be a string"}
		}
		out[field] = text
	}
	return out, nil
}

func validateCaixaPostalMessageDetail(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "isn"); err != nil {
		return nil, err
	}
	isn, err := nonEmptyStringField(dados, "isn")
	if err != nil {
		return nil, err
	}
	return map[string]any{"isn": trimmed(isn)}, nil
}
