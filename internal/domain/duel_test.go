package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAnswerPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload *AnswerPayload
		wantErr bool
	}{
		{"drawing with path", DrawingAnswer("M0,0 L10,10"), false},
		{"drawing without path", &AnswerPayload{Kind: AnswerKindDrawing}, true},
		{"swipe pass", SwipeAnswer(SwipePass), false},
		{"swipe hit", SwipeAnswer(SwipeHit), false},
		{"swipe critical", SwipeAnswer(SwipeCritical), false},
		{"swipe with unknown outcome", &AnswerPayload{Kind: AnswerKindSwipe, Outcome: "graze"}, true},
		{"unknown kind", &AnswerPayload{Kind: "typed"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedBattleState)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnswerPayloadKey(t *testing.T) {
	a := DrawingAnswer("M0,0 L10,10")
	b := DrawingAnswer("M0,0 L10,10")
	c := DrawingAnswer("M0,0 L10,11")

	assert.Equal(t, a.Key(), b.Key(), "identical content must produce the same key")
	assert.NotEqual(t, a.Key(), c.Key(), "different content must produce different keys")
	assert.Len(t, a.Key(), 16)

	assert.NotEqual(t, SwipeAnswer(SwipeHit).Key(), SwipeAnswer(SwipeCritical).Key())
}

func TestBattleStateValidate(t *testing.T) {
	valid := NewBattleState()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*BattleState)
	}{
		{"negative hp", func(b *BattleState) { b.HP = -1 }},
		{"hp above max", func(b *BattleState) { b.HP = MaxHP + 1 }},
		{"negative progress", func(b *BattleState) { b.Progress = -5 }},
		{"progress above max", func(b *BattleState) { b.Progress = MaxProgress + 1 }},
		{"negative score", func(b *BattleState) { b.CurrentScore = -10 }},
		{"unknown judgment", func(b *BattleState) { b.Judgment = "maybe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewBattleState()
			tt.mutate(&state)
			assert.ErrorIs(t, state.Validate(), ErrMalformedBattleState)
		})
	}
}

func TestDuelSessionParticipants(t *testing.T) {
	challenger := uuid.New()
	opponent := uuid.New()
	stranger := uuid.New()

	duel := &DuelSession{
		ID:           uuid.New(),
		ChallengerID: challenger,
		OpponentID:   opponent,
		Status:       DuelStatusPending,
		CreatedAt:    time.Now(),
	}

	assert.Equal(t, opponent, duel.OpponentOf(challenger))
	assert.Equal(t, challenger, duel.OpponentOf(opponent))

	assert.True(t, duel.IsParticipant(challenger))
	assert.True(t, duel.IsParticipant(opponent))
	assert.False(t, duel.IsParticipant(stranger))

	assert.True(t, duel.IsReferee(challenger))
	assert.False(t, duel.IsReferee(opponent))
}

func TestDuelSessionBothJoined(t *testing.T) {
	challenger := uuid.New()
	opponent := uuid.New()
	duel := &DuelSession{ChallengerID: challenger, OpponentID: opponent}

	assert.False(t, duel.BothJoined())

	duel.LiveStats = map[string]BattleState{
		challenger.String(): NewBattleState(),
	}
	assert.False(t, duel.BothJoined())

	duel.LiveStats[opponent.String()] = NewBattleState()
	assert.True(t, duel.BothJoined())

	state, ok := duel.Stats(challenger)
	assert.True(t, ok)
	assert.Equal(t, MaxHP, state.HP)

	_, ok = duel.Stats(uuid.New())
	assert.False(t, ok)
}
