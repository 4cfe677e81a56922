package llm

// Catalog action names. The dispatcher switches on these; anything else the
// model produces is handled by the unknown-action fallback.
const (
	ActionAddPet               = "add_pet"
	ActionDeletePet            = "delete_pet"
	ActionScheduleConsultation = "schedule_consultation"
	ActionListPets             = "list_pets"
	ActionSendPetReport        = "send_pet_report"
	ActionReportIssue          = "report_issue"
)

// Catalog returns the fixed set of actions offered to the model on every
// completion. Descriptions are user-language (pt-BR) on purpose: they double
// as routing hints for the model.
func Catalog() []Tool {
	return []Tool{
		{
			Name:        ActionAddPet,
			Description: "Cadastrar um novo pet no sistema.",
			Parameters: map[string]any{
				"petName": map[string]any{"type": "string", "description": "Nome do pet"},
				"species": map[string]any{"type": "string", "description": "Espécie (cão, gato, etc.)"},
				"breed":   map[string]any{"type": "string", "description": "Raça do pet (opcional)"},
			},
			Required: []string{"petName", "species"},
		},
		{
			Name:        ActionListPets,
			Description: "Listar todos os pets cadastrados do cliente.",
		},
		{
			Name:        ActionSendPetReport,
			Description: "Enviar ou agendar o relatório de status do pet (banho, tosa, hospedagem, transporte).",
			Parameters: map[string]any{
				"petName":    map[string]any{"type": "string", "description": "Nome do pet"},
				"service":    map[string]any{"type": "string", "description": "Serviço (banho, tosa, hospedagem, etc.)"},
				"statusType": map[string]any{"type": "string", "description": "Tipo de relatório (início, finalização, saída para entrega, etc.)"},
				"sendTime":   map[string]any{"type": "string", "description": "Horário de envio do relatório"},
			},
			Required: []string{"petName"},
		},
		{
			Name:        ActionDeletePet,
			Description: "Solicitar a exclusão de um pet do cadastro (gera pedido pendente).",
			Parameters: map[string]any{
				"petName": map[string]any{"type": "string", "description": "Nome do pet a ser removido"},
				"reason":  map[string]any{"type": "string", "description": "Motivo opcional da remoção (ex: pet doado, faleceu, etc.)"},
			},
			Required: []string{"petName"},
		},
		{
			Name:        ActionScheduleConsultation,
			Description: "Solicitar o agendamento de uma consulta veterinária, a ser validada por um atendente humano.",
			Parameters: map[string]any{
				"petName":          map[string]any{"type": "string", "description": "Nome do pet para a consulta"},
				"consultationType": map[string]any{"type": "string", "description": "Tipo de consulta (ex.: vacinação, check-up, comportamento, emergência, retorno, etc.)"},
				"preferredTime":    map[string]any{"type": "string", "description": "Horário ou período desejado (opcional, ex.: amanhã à tarde)"},
			},
			Required: []string{"petName", "consultationType"},
		},
		{
			Name:        ActionReportIssue,
			Description: "Registrar uma reclamação ou ocorrência do cliente.",
			Parameters: map[string]any{
				"description": map[string]any{"type": "string", "description": "Descrição da ocorrência"},
			},
			Required: []string{"description"},
		},
	}
}
