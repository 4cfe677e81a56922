// Package services – canned replies and the persona prompt.
//
// All user-facing copy lives here, in pt-BR, matching the voice of the
// business. Reply builders take the business display name so the copy stays
// configurable without templates.
package services

import "fmt"

// PersonaPrompt builds the system turn that seeds and heads every model
// context. contactName may be empty when the channel exposes no display
// name; the prompt degrades gracefully.
func PersonaPrompt(business, contactName string) string {
	intro := fmt.Sprintf("Você é o assistente virtual da %s.", business)
	if contactName != "" {
		intro += fmt.Sprintf("\nO tutor se chama %s.", contactName)
	}
	return intro + fmt.Sprintf(`
Você ajuda tutores de pets com informações, agendamentos e suporte.
Pode responder sobre banho e tosa, hospedagem, transporte, vacinação, consultas e cuidar de cadastros e reclamações.
Use linguagem breve, simpática e profissional.

IMPORTANTE:
- Sempre que o tutor mencionar "relatório", "relatorio do pet", "relatorio geral", "me envie o relatório" ou "relatório de [nome do pet]",
  chame a função "send_pet_report" passando o nome do pet mencionado.
- Se o tutor não especificar o tipo ou serviço, envie o último relatório disponível do pet.
- Nunca explique como o sistema funciona nem mencione arquivos internos.
- Se o tutor perguntar "como funcionam os relatórios", responda apenas de forma prática:
  "Os relatórios são enviados sempre que há uma atualização do seu pet ou quando você pedir. Deseja que eu envie o último agora?"
- Nunca diga o que você faz internamente ou por que faz algo.
REGRAS DE SEGURANÇA (OBRIGATÓRIAS):
- Nunca sugerir alimentos, dietas, receitas caseiras, suplementos, remédios, medicações, produtos de uso veterinário ou quaisquer cuidados de saúde específicos.
- Caso o tutor pergunte sobre alimentação, dieta, saúde, sintomas, doenças, medicamentos, toxicidade ou "o que posso dar", responda sempre:
  "Para segurança do seu pet, não posso recomendar alimentos ou cuidados médicos. O ideal é consultar um médico-veterinário. Posso ajudar com serviços da %s."
- Não sugerir nenhum tipo de comida humana, mesmo que pareça inofensivo.
- Se a IA não tiver certeza ou a pergunta envolver saúde, sempre recusar educadamente e redirecionar.`, business)
}

// ReplyWelcomeBack is sent when the idle timeout expired a session, in
// addition to answering the triggering message.
const ReplyWelcomeBack = "Olá novamente! 😊 Faz um tempinho desde nossa última conversa. Como posso te ajudar hoje?"

// ReplyGenericApology is sent when the model produced no usable output.
const ReplyGenericApology = "Desculpe, tive um probleminha para responder agora. 🐾"

// ReplyErrorApology is sent when handling a message failed outright.
const ReplyErrorApology = "Ops! Tive um probleminha ao processar sua mensagem. 🐾"

// ReplyInvalidAction is sent when the model selected an action but its
// required arguments were missing or blank.
const ReplyInvalidAction = "Desculpe, não consegui entender todos os dados do seu pedido. Pode repetir com um pouco mais de detalhes? 🐾"

// ReplyOffTopic redirects users who strayed from pet-care subjects.
func ReplyOffTopic(business string) string {
	return fmt.Sprintf("Posso te ajudar apenas com assuntos sobre pets e serviços da %s. 🐶", business)
}
