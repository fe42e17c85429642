package templates

// DCTFWEB: declaration queries, payment document generation, and signed
// declaration transmission.

func dctfwebTemplates() []Definition {
	return []Definition{
		{
			System:       "DCTFWEB",
			Service:      "CONSXMLDECLARACAO38",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: validateDctfwebPeriodQuery,
		},
		{
			System:       "DCTFWEB",
			Service:      "CONSRECIBO32",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: validateDctfwebReceiptQuery,
		},
		{
			System:       "DCTFWEB",
			Service:      "CONSDECCOMPLETA33",
			Version:      "1.0",
			Endpoint:     "Consultar",
			ValidateFunc: validateDctfwebFullReport,
		},
		{
			System:       "DCTFWEB",
			Service:      "GERARGUIA31",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: validateDctfwebGuia,
		},
		{
			System:       "DCTFWEB",
			Service:      "GERARGUIAANDAMENTO313",
			Version:      "1.0",
			Endpoint:     "Emitir",
			ValidateFunc: validateDctfwebPeriodQuery,
		},
		{
			System:       "DCTFWEB",
			Service:      "TRANSDECLARACAO310",
			Version:      "1.0",
			Endpoint:     "Transmitir",
			ValidateFunc: validateDctfwebTransmit,
		},
	}
}

// categoria + anoPA + mesPA; the category is a free-form label like
// "GERAL_MENSAL".
func validateDctfwebPeriodQuery(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "categoria", "anoPA", "mesPA"); err != nil {
		return nil, err
	}
	categoria, ano, mes, err := dctfwebCommonFields(dados)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"categoria": categoria,
		"anoPA":     ano,
		"mesPA":     mes,
	}, nil
}

// CONSRECIBO32 takes a numeric categoria, unlike the other services.
func validateDctfwebReceiptQuery(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "categoria", "anoPA", "mesPA", "numeroReciboEntrega"); err != nil {
		return nil, err
	}
	categoria, err := positiveIntField(dados, "categoria")
	if err != nil {
		return nil, err
	}
	ano, err := yearField(dados, "anoPA")
	if err != nil {
		return nil, err
	}
	mes, err := monthField(dados, "mesPA")
	if err != nil {
		return nil, err
	}
	recibo, err := positiveIntField(dados, "numeroReciboEntrega")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"categoria":           categoria,
		"anoPA":               ano,
		"mesPA":               mes,
		"numeroReciboEntrega": recibo,
	}, nil
}

func validateDctfwebFullReport(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "categoria", "anoPA", "mesPA", "numeroReciboEntrega"); err != nil {
		return nil, err
	}
	categoria, ano, mes, err := dctfwebCommonFields(dados)
	if err != nil {
		return nil, err
	}
	recibo, err := positiveIntField(dados, "numeroReciboEntrega")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"categoria":           categoria,
		"anoPA":               ano,
		"mesPA":               mes,
		"numeroReciboEntrega": recibo,
	}, nil
}

// GERARGUIA31 keeps mesPA exactly as provided, without zero padding.
func validateDctfwebGuia(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "categoria", "anoPA", "mesPA", "numeroReciboEntrega"); err != nil {
		return nil, err
	}
	categoria, err := nonEmptyStringField(dados, "categoria")
	if err != nil {
		return nil, err
	}
	ano, err := yearField(dados, "anoPA")
	if err != nil {
		return nil, err
	}
	mes, ok := asString(dados["mesPA"])
	if !ok {
		return nil, &ValidationError{Field: "mesPA", Message: "must be a string or integer"}
	}
	mes = trimmed(mes)
	if !digitsOnly(mes) {
		return nil, &ValidationError{Field: "mesPA", Message: "must be a valid month (1-12)"}
	}
	if parsed := atoiSafe(mes); parsed < 1 || parsed > 12 {
		return nil, &ValidationError{Field: "mesPA", Message: "must be a valid month (1-12)"}
	}
	recibo, err := positiveIntField(dados, "numeroReciboEntrega")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"categoria":           trimmed(categoria),
		"anoPA":               ano,
		"mesPA":               mes,
		"numeroReciboEntrega": recibo,
	}, nil
}

func validateDctfwebTransmit(dados map[string]any) (map[string]any, error) {
	if err := requireFields(dados, "categoria", "anoPA", "mesPA", "xmlAssinadoBase64"); err != nil {
		return nil, err
	}
	categoria, ano, mes, err := dctfwebCommonFields(dados)
	if err != nil {
		return nil, err
	}
	xml, err := base64Field(dados, "xmlAssinadoBase64")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"categoria":         categoria,
		"anoPA":             ano,
		"mesPA":             mes,
		"xmlAssinadoBase64": xml,
	}, nil
}

func dctfwebCommonFields(dados map[string]any) (categoria, ano, mes string, err error) {
	categoria, err = nonEmptyStringField(dados, "categoria")
	if err != nil {
		return "", "", "", err
	}
	ano, err = yearField(dados, "anoPA")
	if err != nil {
		return "", "", "", err
	}
	mes, err = monthField(dados, "mesPA")
	if err != nil {
		return "", "", "", err
	}
	return trimmed(categoria), ano, mes, nil
}
