package services

import "testing"

func TestTopicGuardAllowsPetTalk(t *testing.T) {
	g := NewTopicGuard(DefaultDenyList())

	for _, text := range []string{
		"Quero agendar banho e tosa para o Rex",
		"Me envia o relatório da Mia?",
		"Quais horários vocês têm para consulta?",
	} {
		if !g.Allow(text) {
			t.Errorf("Allow(%q) = false, want true", text)
		}
	}
}

func TestTopicGuardBlocksDeniedSubjects(t *testing.T) {
	g := NewTopicGuard(DefaultDenyList())

	for _, text := range []string{
		"Me conta uma piada",
		"Qual sua RECEITA de bolo?",
		"o que você acha de política?",
	} {
		if g.Allow(text) {
			t.Errorf("Allow(%q) = true, want false", text)
		}
	}
}

func TestTopicGuardEmptyListAllowsAll(t *testing.T) {
	g := NewTopicGuard(nil)
	if !g.Allow("me conta uma piada") {
		t.Fatal("empty denylist must allow everything")
	}
}

func TestTopicGuardNormalizesList(t *testing.T) {
	g := NewTopicGuard([]string{"  PIADA  ", ""})
	if g.Allow("conta uma piada aí") {
		t.Fatal("denylist entries must match case-insensitively after trimming")
	}
}
