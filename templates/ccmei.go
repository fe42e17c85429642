package templates

// CCMEI: MEI registration certificate services. All three derive their
// input from the request parties, so the dados block stays empty.

func ccmeiTemplates() []Definition {
	return []Definition{
		{
			System:              "CCMEI",
			Service:             "EMITIRCCMEI121",
			Version:             "1.0",
			Endpoint:            "Emitir",
			BlankDadosWhenEmpty: true,
			ValidateFunc:        rejectInput("EMITIRCCMEI121"),
		},
		{
			System:              "CCMEI",
			Service:             "DADOSCCMEI122",
			Version:             "1.0",
			Endpoint:            "Consultar",
			BlankDadosWhenEmpty: true,
			ValidateFunc:        rejectInput("DADOSCCMEI122"),
		},
		{
			System:              "CCMEI",
			Service:             "CCMEISITCADASTRAL123",
			Version:             "1.0",
			Endpoint:            "Consultar",
			BlankDadosWhenEmpty: true,
			ValidateFunc:        rejectInput("CCMEISITCADASTRAL123"),
		},
	}
}
