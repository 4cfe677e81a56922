// Package services – TopicGuard
//
// A pure, dependency-free keyword filter applied before any model call or
// memory write. Off-topic turns must never pollute conversation context and
// must never incur model cost, so the orchestrator consults the guard first.
package services

import "strings"

// DefaultDenyList returns the fixed off-topic keyword set the business
// refuses to engage with. Matching is case-insensitive substring.
func DefaultDenyList() []string {
	return []string{
		"receita",
		"filme",
		"política",
		"piada",
		"dinheiro",
		"história",
		"programar",
		"cozinhar",
		"chatgpt",
		"hack",
		"porn",
		"religião",
	}
}

// TopicGuard rejects input containing any denied substring.
type TopicGuard struct {
	deny []string
}

// NewTopicGuard builds a guard over the given denylist; an empty list
// allows everything.
func NewTopicGuard(deny []string) *TopicGuard {
	lowered := make([]string, 0, len(deny))
	for _, w := range deny {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			lowered = append(lowered, w)
		}
	}
	return &TopicGuard{deny: lowered}
}

// Allow reports whether the text stays on topic.
func (g *TopicGuard) Allow(text string) bool {
	t := strings.ToLower(text)
	for _, w := range g.deny {
		if strings.Contains(t, w) {
			return false
		}
	}
	return true
}
