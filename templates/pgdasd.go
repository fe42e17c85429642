package templates

// PGDASD: Simples Nacional declarations and DAS payment documents.

func pgdasdTemplates() []Definition {
	return []Definition{
		{
			System:       "PGDASD",
			Service:      "CONSDECLARACAO13",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: singleFieldValidator("anoCalendario", calendarYearField),
		},
		{
			System:       "PGDASD",
			Service:      "CONSULTIMADECREC14",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: singleFieldValidator("periodoApuracao", periodField),
		},
		{
			System:       "PGDASD",
			Service:      "CONSDECREC15",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: validatePgdasdDeclarationNumber,
		},
		{
			System:       "PGDASD",
			Service:      "CONSEXTRATO16",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: singleFieldValidator("numeroDas", stringPassthroughField),
		},
		{
			System:       "PGDASD",
			Service:      "TRANSDECLARACAO11",
			Version:      "1.0",
			Endpoint:     "Declarar",
			ValidateFunc: validatePgdasdDeclaration,
		},
		{
			System:       "PGDASD",
			Service:      "GERARDAS12",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: singleFieldValidator("periodoApuracao", periodField),
		},
		{
			System:       "PGDASD",
			Service:      "GERARDASAVULSO19",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: validatePgdasdDasAvulso,
		},
		{
			System:       "PGDASD",
			Service:      "GERARDASCOBRANCA17",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: singleFieldValidator("periodoApuracao", periodField),
		},
		{
			System:       "PGDASD",
			Service:      "GERARDASPROCESSO18",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: singleFieldValidator("numeroProcesso", stringPassthroughField),
		},
	}
}

// TRANSDECLARACAO11 carries the whole declaration document; the gateway
// validates the structure, so anything non-empty goes through as-is.
func validatePgdasdDeclaration(dados map[string]any) (map[string]any, error) {
	if len(dados) == 0 {
		return nil, &ValidationError{Message: "declaration data cannot be empty"}
	}
	return dados, nil
}

func validatePgdasdDeclarationNumber(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "numeroDeclaracao"); err != nil {
		return nil, err
	}
	numero, err := nonEmptyStringField(dados, "numeroDeclaracao")
	if err != nil {
		return nil, err
	}
	return map[string]any{"numeroDeclaracao": numero}, nil
}

// GERARDASAVULSO19 takes a numeric period plus a tax breakdown list.
func validatePgdasdDasAvulso(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "PeriodoApuracao", "ListaTributos"); err != nil {
		return nil, err
	}
	periodo, ok := asInt(dados["PeriodoApuracao"])
	if !ok || periodo < 190000 || periodo > 210012 {
		return nil, &ValidationError{Field: "PeriodoApuracao", Message: "must be an integer period in YYYYMM format"}
	}
	tributos, ok := dados["ListaTributos"].([]any)
	if !ok {
		if typed, isTyped := dados["ListaTributos"].([]map[string]any); isTyped {
			tributos = make([]any, 0, len(typed))
			for _, item := range typed {
				tributos = append(tributos, item)
			}
		} else {
			return nil, &ValidationError{Field: "ListaTributos", Message: "must be a list"}
		}
	}
	if len(tributos) == 0 {
		return nil, &ValidationError{Field: "ListaTributos", Message: "cannot be empty"}
	}
	return map[string]any{
		"PeriodoApuracao": periodo,
		"ListaTributos":   tributos,
	}, nil
}

type fieldValidator func(dados map[string]any, field string) (string, error)

func singleFieldValidator(field string, validate fieldValidator) ValidateFunc {
	return func(dados map[string]any) (map[string]any, error) {
		if err := requireFields(dados, field); err != nil {
			return nil, err
		}
		value, err := validate(dados, field)
		if err != nil {
			return nil, err
		}
		return map[string]any{field: value}, nil
	}
}

func stringPassthroughField(dados map[string]any, field string) (string, error) {
	return nonEmptyStringField(dados, field)
}
