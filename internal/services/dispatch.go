// Package services – Dispatcher
//
// Dispatcher executes the structured action the model selected for a turn:
// registry writes, pending-request logging, report delivery. Every branch
// returns the exact user-facing reply; the orchestrator records and sends it.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
	"github.com/Lehmann-Bruno/petup-assistant/internal/llm"
)

// PetRepo abstracts pet-registry persistence for the dispatcher.
type PetRepo interface {
	CreatePet(ctx context.Context, db *gorm.DB, userID, name, species, breed string, status domain.PetStatus) (*domain.Pet, error)
	ListPets(ctx context.Context, db *gorm.DB, userID string) ([]domain.Pet, error)
}

// PendingRepo abstracts the append-only staff-review log.
type PendingRepo interface {
	AppendPendingRequest(ctx context.Context, db *gorm.DB, userID, intent, text string) (*domain.PendingRequest, error)
}

// ReportArchive resolves report entries and artifact files by pet name.
type ReportArchive interface {
	Latest(petName string) (Entry, bool)
	ArtifactPath(petName string) (string, bool)
}

// Entry mirrors reports.Entry so the dispatcher does not depend on the
// archive implementation.
type Entry struct {
	Message    string
	Service    string
	StatusType string
}

// FileSender delivers a file attachment to a user over the channel.
type FileSender interface {
	SendFile(ctx context.Context, userID, path string) error
}

// Dispatcher maps model-selected actions to side effects and replies.
type Dispatcher struct {
	DB      *gorm.DB
	Pets    PetRepo
	Pending PendingRepo
	Reports ReportArchive
	Files   FileSender
	Refs    *RefStore
	Log     zerolog.Logger

	// Business is the display name used in reply copy.
	Business string
	// DemoPets prepends the showcase pets to listings when enabled.
	DemoPets bool
}

// NewDispatcher wires a dispatcher over the given collaborators.
func NewDispatcher(db *gorm.DB, pets PetRepo, pending PendingRepo, reports ReportArchive, files FileSender, refs *RefStore, log zerolog.Logger, business string, demoPets bool) *Dispatcher {
	return &Dispatcher{
		DB:       db,
		Pets:     pets,
		Pending:  pending,
		Reports:  reports,
		Files:    files,
		Refs:     refs,
		Log:      log,
		Business: business,
		DemoPets: demoPets,
	}
}

// demoPets is the fixed showcase pair prepended to listings when DemoPets is
// on. They are never persisted.
func demoPets() []domain.Pet {
	return []domain.Pet{
		{Name: "Thor", Species: "Cachorro", Breed: "Labrador Retriever", Status: domain.PetStatusConfirmed},
		{Name: "Mia", Species: "Gato", Breed: "SRD", Status: domain.PetStatusConfirmed},
	}
}

type addPetArgs struct {
	PetName string `json:"petName"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
}

type deletePetArgs struct {
	PetName string `json:"petName"`
	Reason  string `json:"reason"`
}

type consultationArgs struct {
	PetName          string `json:"petName"`
	ConsultationType string `json:"consultationType"`
	PreferredTime    string `json:"preferredTime"`
}

type reportArgs struct {
	PetName string `json:"petName"`
}

type issueArgs struct {
	Description string `json:"description"`
}

// Dispatch executes one action for userID. rawText is the user's original
// message, logged verbatim into pending requests so staff see the request in
// the user's own words. The returned reply is always safe to send; a non-nil
// error means no side effect completed and the caller should apologize.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, rawText string, call llm.ActionCall) (string, error) {
	switch call.Name {
	case llm.ActionAddPet:
		return d.addPet(ctx, userID, rawText, call.Arguments)
	case llm.ActionDeletePet:
		return d.deletePet(ctx, userID, rawText, call.Arguments)
	case llm.ActionScheduleConsultation:
		return d.scheduleConsultation(ctx, userID, rawText, call.Arguments)
	case llm.ActionListPets:
		return d.listPets(ctx, userID)
	case llm.ActionSendPetReport:
		return d.sendPetReport(ctx, userID, call.Arguments)
	case llm.ActionReportIssue:
		return d.reportIssue(call.Arguments)
	default:
		return d.unknownAction(ctx, userID, rawText, call.Name)
	}
}

func (d *Dispatcher) addPet(ctx context.Context, userID, rawText string, raw json.RawMessage) (string, error) {
	var args addPetArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return ReplyInvalidAction, nil
	}
	// A Caser carries per-use state and must not be shared across
	// goroutines, so each call builds its own.
	name := cases.Title(language.BrazilianPortuguese).String(strings.TrimSpace(args.PetName))
	species := strings.TrimSpace(args.Species)
	if name == "" || species == "" {
		return ReplyInvalidAction, nil
	}
	breed := strings.TrimSpace(args.Breed)

	if _, err := d.Pets.CreatePet(ctx, d.DB, userID, name, species, breed, domain.PetStatusPending); err != nil {
		return "", fmt.Errorf("create pet: %w", err)
	}
	d.logPending(ctx, userID, "Validação de cadastro de pet", rawText)

	detail := species
	if breed != "" {
		detail += " - " + breed
	}
	return fmt.Sprintf("Adicionei o pet *%s* (%s) como pendente no sistema. 🐾\n\n"+
		"Um atendente da %s vai validar as informações antes de confirmar o cadastro.", name, detail, d.Business), nil
}

func (d *Dispatcher) deletePet(ctx context.Context, userID, rawText string, raw json.RawMessage) (string, error) {
	var args deletePetArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return ReplyInvalidAction, nil
	}
	name := strings.TrimSpace(args.PetName)
	if name == "" {
		return ReplyInvalidAction, nil
	}

	d.logPending(ctx, userID, "Validação de remoção de pet", rawText)

	reply := fmt.Sprintf("Entendi o pedido de remoção do pet *%s*.\n"+
		"Vou transferir para um atendente da %s validar antes de prosseguir. 🐾", name, d.Business)
	if reason := strings.TrimSpace(args.Reason); reason != "" {
		reply += "\nMotivo informado: " + reason
	}
	return reply, nil
}

func (d *Dispatcher) scheduleConsultation(ctx context.Context, userID, rawText string, raw json.RawMessage) (string, error) {
	var args consultationArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return ReplyInvalidAction, nil
	}
	name := strings.TrimSpace(args.PetName)
	ctype := strings.TrimSpace(args.ConsultationType)
	if name == "" || ctype == "" {
		return ReplyInvalidAction, nil
	}

	d.logPending(ctx, userID, fmt.Sprintf("Solicitação de agendamento de consulta (%s)", ctype), rawText)

	reply := fmt.Sprintf("Perfeito! Vou transferir o pedido de agendamento de *%s* "+
		"para um atendente da %s validar e confirmar o horário.\n\nPet: %s", ctype, d.Business, name)
	if pref := strings.TrimSpace(args.PreferredTime); pref != "" {
		reply += " | Preferência: " + pref
	}
	return reply, nil
}

func (d *Dispatcher) listPets(ctx context.Context, userID string) (string, error) {
	registered, err := d.Pets.ListPets(ctx, d.DB, userID)
	if err != nil {
		return "", fmt.Errorf("list pets: %w", err)
	}

	var all []domain.Pet
	if d.DemoPets {
		all = append(all, demoPets()...)
	}
	all = append(all, registered...)

	if len(all) == 0 {
		return "Você ainda não tem pets cadastrados. Deseja adicionar um? 🐕🐈", nil
	}

	var b strings.Builder
	b.WriteString("Aqui estão seus pets:")
	for _, p := range all {
		b.WriteString("\n• ")
		b.WriteString(p.Describe())
	}
	return b.String(), nil
}

func (d *Dispatcher) sendPetReport(ctx context.Context, userID string, raw json.RawMessage) (string, error) {
	var args reportArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return ReplyInvalidAction, nil
	}
	name := strings.TrimSpace(args.PetName)
	if name == "" {
		return ReplyInvalidAction, nil
	}

	// Remember the pet either way so a follow-up "sim" can resolve once a
	// report shows up.
	d.Refs.Set(userID, name)

	path, ok := d.Reports.ArtifactPath(name)
	if !ok {
		return fmt.Sprintf("Ainda não há PDF disponível para o pet *%s*. "+
			"Assim que o relatório for gerado, aviso por aqui. 🐾", name), nil
	}
	if err := d.Files.SendFile(ctx, userID, path); err != nil {
		return "", fmt.Errorf("send report file: %w", err)
	}
	return fmt.Sprintf("Segue o relatório mais recente de *%s* 🐾", name), nil
}

// reportIssue only echoes the complaint back for confirmation; unlike the
// other actions it queues nothing.
func (d *Dispatcher) reportIssue(raw json.RawMessage) (string, error) {
	var args issueArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return ReplyInvalidAction, nil
	}
	desc := strings.TrimSpace(args.Description)
	if desc == "" {
		return ReplyInvalidAction, nil
	}
	return fmt.Sprintf("Posso registrar sua mensagem como ocorrência: %q. Deseja prosseguir? 💬", desc), nil
}

func (d *Dispatcher) unknownAction(ctx context.Context, userID, rawText, name string) (string, error) {
	label := name
	if label == "" {
		label = "função não identificada"
	}
	d.logPending(ctx, userID, fmt.Sprintf("Solicitação de função desconhecida (%s)", label), rawText)
	return fmt.Sprintf("Entendi que você quer %s, mas ainda não consigo fazer isso automaticamente. "+
		"Registrei sua solicitação para a equipe da %s. 🐾", label, d.Business), nil
}

// logPending appends to the staff log, logging and swallowing failures: a
// broken review queue must not block the user's reply.
func (d *Dispatcher) logPending(ctx context.Context, userID, intent, text string) {
	if _, err := d.Pending.AppendPendingRequest(ctx, d.DB, userID, intent, text); err != nil {
		d.Log.Error().Err(err).Str("intent", intent).Msg("append pending request failed")
	}
}
