package schema

import (
	"strings"

	"github.com/vovakirdan/wee/internal/engine"
)

// Replacement substitutes Value for every occurrence of Placeholder.
type Replacement struct {
	Placeholder string
	Value       string
}

// ReplaceText applies replacements, in order, to the text of every DrawText
// action and to the intro text. Actions nested in Random actions are included.
func ReplaceText(def *engine.Definition, replacements ...Replacement) {
	if len(replacements) == 0 {
		return
	}
	def.IntroText = substitute(def.IntroText, replacements)
	for i := range def.Objects {
		rules := def.Objects[i].Rules
		for j := range rules {
			for k, a := range rules[j].Actions {
				rules[j].Actions[k] = replaceInAction(a, replacements)
			}
		}
	}
}

func replaceInAction(a engine.Action, replacements []Replacement) engine.Action {
	switch a := a.(type) {
	case engine.DrawText:
		a.Text = substitute(a.Text, replacements)
		return a
	case engine.RandomAction:
		inner := make([]engine.Action, len(a.Actions))
		for i, act := range a.Actions {
			inner[i] = replaceInAction(act, replacements)
		}
		return engine.RandomAction{Actions: inner}
	}
	return a
}

func substitute(s string, replacements []Replacement) string {
	for _, r := range replacements {
		if r.Placeholder == "" {
			continue
		}
		s = strings.ReplaceAll(s, r.Placeholder, r.Value)
	}
	return s
}
