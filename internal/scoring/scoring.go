// Package scoring holds the pure score/hp/energy arithmetic shared by
// both participants' devices. Every function here is deterministic and
// side-effect free: identical inputs produce identical results on both
// clients, which is what lets the optimistic, non-transactional duel
// store stay eventually consistent without server-side validation.
package scoring

import "github.com/rcsinavim/arena/internal/domain"

// Outcome is the 0-3 confidence scale used in self-study mode. Duel mode
// collapses it to a boolean mapped to the two extremes.
type Outcome int

const (
	OutcomeMiss    Outcome = 0 // incorrect
	OutcomeWeak    Outcome = 1 // weak recall, still counts as a miss for HP
	OutcomeGood    Outcome = 2 // correct, medium confidence
	OutcomePerfect Outcome = 3 // correct, high confidence
)

// Energy pacing bounds
const (
	MaxEnergy = 5
	MinEnergy = 0
)

// FromJudgment maps a referee verdict to the outcome extremes
func FromJudgment(j domain.Judgment) Outcome {
	if j == domain.JudgmentCorrect {
		return OutcomePerfect
	}
	return OutcomeMiss
}

// Correct reports whether the outcome counts as a correct answer
func (o Outcome) Correct() bool {
	return o >= OutcomeGood
}

// ScoreDelta returns the score awarded for an outcome
func ScoreDelta(o Outcome) int {
	switch o {
	case OutcomePerfect:
		return 10
	case OutcomeGood:
		return 8
	case OutcomeWeak:
		return 4
	default:
		return 0
	}
}

// HPDelta returns the (non-positive) HP change for an outcome. Incorrect
// answers cost 15 HP; correct answers never heal, so HP is monotonically
// non-increasing over a duel.
func HPDelta(o Outcome) int {
	if o.Correct() {
		return 0
	}
	return -15
}

// ApplyHP applies a delta to an HP value, clamping to [0, MaxHP]
func ApplyHP(hp, delta int) int {
	hp += delta
	if hp < 0 {
		return 0
	}
	if hp > domain.MaxHP {
		return domain.MaxHP
	}
	return hp
}

// EnergyDelta returns the energy change for a pacing step: attempting a
// question costs one, resolving one recharges one. Energy is a UI pacing
// resource only and plays no part in win/loss determination.
func EnergyDelta(advance bool) int {
	if advance {
		return 1
	}
	return -1
}

// ApplyEnergy applies a delta to an energy value, clamping to [MinEnergy, MaxEnergy]
func ApplyEnergy(energy, delta int) int {
	energy += delta
	if energy < MinEnergy {
		return MinEnergy
	}
	if energy > MaxEnergy {
		return MaxEnergy
	}
	return energy
}

// Progress computes the 0-100 progress value after answering the card at
// cursor in a deck of deckLen cards.
func Progress(cursor, deckLen int) int {
	if deckLen <= 0 {
		return domain.MaxProgress
	}
	p := (cursor + 1) * domain.MaxProgress / deckLen
	if p > domain.MaxProgress {
		return domain.MaxProgress
	}
	return p
}
