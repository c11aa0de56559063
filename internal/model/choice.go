package model

// Choice is one of the three legal plays in a round
type Choice string

const (
	ChoiceRock     Choice = "rock"
	ChoicePaper    Choice = "paper"
	ChoiceScissors Choice = "scissors"
)

// ParseChoice validates a wire value against the closed choice set
func ParseChoice(s string) (Choice, error) {
	switch Choice(s) {
	case ChoiceRock, ChoicePaper, ChoiceScissors:
		return Choice(s), nil
	default:
		return "", ErrInvalidChoice
	}
}

// Outcome is the result of a round relative to one participant
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeDraw Outcome = "draw"
)
