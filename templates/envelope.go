package templates

import (
	"github.com/goliatone/go-integra/core"
)

// BuildRequest assembles the gateway envelope: the three request parties
// plus the pedidoDados block with the serialized dados string.
func BuildRequest(parties core.RequestParties, template Template, dados map[string]any) (map[string]any, error) {
	if template == nil {
		return nil, &ValidationError{Message: "template is required"}
	}
	if err := parties.Validate(); err != nil {
		return nil, err
	}

	validated, err := template.Validate(dados)
	if err != nil {
		return nil, err
	}
	serialized, err := template.SerializeDados(validated)
	if err != nil {
		return nil, err
	}

	descriptor := template.Descriptor()
	return map[string]any{
		"contratante":      partyMap(parties.Contratante),
		"autorPedidoDados": partyMap(parties.AutorPedidoDados),
		"contribuinte":     partyMap(parties.Contribuinte),
		"pedidoDados": map[string]any{
			"idSistema":     descriptor.System,
			"idServico":     descriptor.Service,
			"versaoSistema": descriptor.Version,
			"dados":         serialized,
		},
	}, nil
}

func partyMap(party core.Party) map[string]any {
	return map[string]any{
		"numero": party.Number,
		"tipo":   int(party.Type),
	}
}
