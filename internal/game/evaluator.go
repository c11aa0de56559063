// Package game holds the pure round-scoring rules: rock beats scissors,
// scissors beats paper, paper beats rock.
package game

import "github.com/duelware/rps-arena/internal/model"

// beats maps each choice to the choice it defeats
var beats = map[model.Choice]model.Choice{
	model.ChoiceRock:     model.ChoiceScissors,
	model.ChoiceScissors: model.ChoicePaper,
	model.ChoicePaper:    model.ChoiceRock,
}

// Evaluate scores a round from a's perspective
func Evaluate(a, b model.Choice) model.Outcome {
	if a == b {
		return model.OutcomeDraw
	}
	if beats[a] == b {
		return model.OutcomeWin
	}
	return model.OutcomeLose
}

// Invert flips an outcome to the opposing participant's perspective.
// Deriving the second result by inversion rather than re-evaluation
// guarantees the two participants always see mutually consistent results.
func Invert(o model.Outcome) model.Outcome {
	switch o {
	case model.OutcomeWin:
		return model.OutcomeLose
	case model.OutcomeLose:
		return model.OutcomeWin
	default:
		return model.OutcomeDraw
	}
}
