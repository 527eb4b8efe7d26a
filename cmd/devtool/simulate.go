package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/battle"
	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/duelstore"
	"github.com/rcsinavim/arena/internal/referee"
	"github.com/rcsinavim/arena/internal/scoring"
)

const simPollInterval = 5 * time.Millisecond

// simCollector gathers final tallies from both machines
type simCollector struct {
	mu      sync.Mutex
	results map[uuid.UUID]domain.DuelResult
	done    chan struct{}
}

func newSimCollector() *simCollector {
	return &simCollector{
		results: make(map[uuid.UUID]domain.DuelResult),
		done:    make(chan struct{}),
	}
}

func (c *simCollector) Complete(_ context.Context, _ uuid.UUID, participantID uuid.UUID, result domain.DuelResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[participantID] = result
	if len(c.results) == 2 {
		close(c.done)
	}
	return nil
}

// runSimulate plays one complete duel in-process against the in-memory
// store: a self-judged challenger hosting the referee on one side, a
// judged opponent on the other. Useful for eyeballing engine behavior
// without a database or two devices.
func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cards := fs.Int("cards", 10, "number of cards in the generated deck")
	accuracy := fs.Int("accuracy", 70, "percent of answers judged correct")
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *cards < 1 {
		return fmt.Errorf("cards must be at least 1")
	}
	if *accuracy < 0 || *accuracy > 100 {
		return fmt.Errorf("accuracy must be between 0 and 100")
	}
	rng := rand.New(rand.NewSource(*seed))

	deck := make([]domain.Card, *cards)
	for i := range deck {
		deck[i] = domain.Card{
			Front:   fmt.Sprintf("Soru %d", i+1),
			Back:    fmt.Sprintf("Cevap %d", i+1),
			Subject: "simulation",
		}
	}

	ctx := context.Background()
	store := duelstore.NewMemoryStore()
	defer store.Close()

	challengerID := uuid.New()
	opponentID := uuid.New()
	session := &domain.DuelSession{
		ChallengerID: challengerID,
		OpponentID:   opponentID,
		DeckID:       uuid.New(),
		Status:       domain.DuelStatusActive,
		CreatedAt:    time.Now(),
	}
	duelID, err := store.Create(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to create duel document: %w", err)
	}
	session.ID = duelID

	PrintHeader("Duel simulation")
	PrintInfo("duel %s, %d cards, %d%% accuracy, seed %d", duelID, *cards, *accuracy, *seed)

	collector := newSimCollector()

	challenger, err := battle.New(battle.ModeSelfJudged, duelID, challengerID, deck, store, collector)
	if err != nil {
		return fmt.Errorf("failed to build challenger machine: %w", err)
	}
	opponent, err := battle.New(battle.ModeJudged, duelID, opponentID, deck, store, collector)
	if err != nil {
		return fmt.Errorf("failed to build opponent machine: %w", err)
	}

	// The referee rules on each fresh opponent answer as it arrives
	judge, err := referee.NewJudge(store, session, challengerID, nil)
	if err != nil {
		return fmt.Errorf("failed to build referee: %w", err)
	}
	if err := judge.Start(); err != nil {
		return err
	}
	defer judge.Stop()

	if err := challenger.Start(ctx); err != nil {
		return err
	}
	if err := opponent.Start(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(3)

	// Challenger plays through the deck by self-review
	go func() {
		defer wg.Done()
		for challenger.Phase() != battle.PhaseFinished {
			if challenger.Phase() != battle.PhasePresenting {
				time.Sleep(simPollInterval)
				continue
			}
			outcome := scoring.OutcomeMiss
			if rng.Intn(100) < *accuracy {
				outcome = scoring.Outcome(2 + rng.Intn(2))
			}
			if err := challenger.Review(ctx, outcome); err != nil {
				PrintError("challenger review failed: %v", err)
				return
			}
		}
	}()

	// Opponent submits a swipe answer per card and waits for the verdict
	go func() {
		defer wg.Done()
		for opponent.Phase() != battle.PhaseFinished {
			if opponent.Phase() != battle.PhasePresenting {
				time.Sleep(simPollInterval)
				continue
			}
			if err := opponent.Submit(ctx, domain.SwipeAnswer(domain.SwipeHit)); err != nil {
				PrintError("opponent submit failed: %v", err)
				return
			}
		}
	}()

	// Referee loop: rule on each answer as it shows up
	go func() {
		defer wg.Done()
		for opponent.Phase() != battle.PhaseFinished {
			if _, ok := judge.PendingAnswer(); !ok {
				time.Sleep(simPollInterval)
				continue
			}
			correct := rng.Intn(100) < *accuracy
			if err := judge.Judge(ctx, correct); err != nil {
				PrintError("verdict failed: %v", err)
				return
			}
		}
	}()

	select {
	case <-collector.done:
	case <-time.After(30 * time.Second):
		return fmt.Errorf("simulation did not finish within 30s")
	}
	wg.Wait()
	challenger.Stop()
	opponent.Stop()

	printSimResult("challenger", collector.results[challengerID], challenger.HP())
	printSimResult("opponent", collector.results[opponentID], opponent.HP())

	cr, or := collector.results[challengerID], collector.results[opponentID]
	switch {
	case cr.Score > or.Score:
		PrintSuccess("winner: challenger")
	case or.Score > cr.Score:
		PrintSuccess("winner: opponent")
	default:
		PrintInfo("draw")
	}
	return nil
}

func printSimResult(who string, r domain.DuelResult, hp int) {
	PrintInfo("%-10s score=%d correct=%d/%d hp=%d time=%ds",
		who, r.Score, r.CorrectCount, r.TotalCount, hp, r.TimeSpent)
}
