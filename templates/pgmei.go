package templates

// PGMEI: MEI payment documents and benefit updates.

func pgmeiTemplates() []Definition {
	return []Definition{
		{
			System:       "PGMEI",
			Service:      "GERARDASPDF21",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: singleFieldValidator("periodoApuracao", periodField),
		},
		{
			System:       "PGMEI",
			Service:      "GERARDASCODBARRA22",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: singleFieldValidator("periodoApuracao", periodField),
		},
		{
			System:       "PGMEI",
			Service:      "ATUBENEFICIO23",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: validatePgmeiBenefit,
		},
	}
}

func validatePgmeiBenefit(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "anoCalendario", "infoBeneficio"); err != nil {
		return nil, err
	}
	ano, ok := asInt(dados["anoCalendario"])
	if !ok || ano < 1900 || ano > 2100 {
		return nil, &ValidationError{Field: "anoCalendario", Message: "must be an integer year between 1900 and 2100"}
	}
	info, ok := dados["infoBeneficio"].([]any)
	if !ok {
		if typed, isTyped := dados["infoBeneficio"].([]map[string]any); isTyped {
			info = make([]any, 0, len(typed))
			for _, item := range typed {
				info = append(info, item)
			}
		} else {
			return nil, &ValidationError{Field: "infoBeneficio", Message: "must be a list"}
		}
	}
	if len(info) == 0 {
		return nil, &ValidationError{Field: "infoBeneficio", Message: "cannot be empty"}
	}
	return map[string]any{
		"anoCalendario": ano,
		"infoBeneficio": info,
	}, nil
}
