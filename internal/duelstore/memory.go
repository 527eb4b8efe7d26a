package duelstore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rcsinavim/arena/internal/domain"
	"github.com/rcsinavim/arena/internal/logger"
)

// subscriber owns a buffered snapshot channel drained by its own
// dispatch goroutine, so document mutations never block on a slow
// callback.
type subscriber struct {
	ch        chan *domain.DuelSession
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscriber) stop() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// MemoryStore is an in-process Store implementation. Documents live in a
// mutex-guarded map and every mutation fans the merged snapshot out to
// the duel's subscribers.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]*domain.DuelSession
	subs      map[uuid.UUID]map[int64]*subscriber
	nextSubID int64

	// available simulates the transport link. While false, Patch fails
	// with ErrStoreUnavailable and subscribers silently receive nothing.
	available atomic.Bool

	wg sync.WaitGroup
}

// NewMemoryStore creates a connected in-memory duel store
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		documents: make(map[uuid.UUID]*domain.DuelSession),
		subs:      make(map[uuid.UUID]map[int64]*subscriber),
	}
	s.available.Store(true)
	return s
}

// Create stores the session document and returns its ID, assigning one
// if the session does not carry one yet.
func (s *MemoryStore) Create(ctx context.Context, session *domain.DuelSession) (uuid.UUID, error) {
	if !s.available.Load() {
		return uuid.Nil, domain.ErrStoreUnavailable
	}

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	s.mu.Lock()
	s.documents[session.ID] = cloneSession(session)
	s.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgDocumentCreated, "duel_id", session.ID)
	return session.ID, nil
}

// Get returns a snapshot of the current document
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*domain.DuelSession, error) {
	if !s.available.Load() {
		return nil, domain.ErrStoreUnavailable
	}

	s.mu.RLock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.RUnlock()
		return nil, domain.ErrDuelNotFound
	}
	snapshot := cloneSession(doc)
	s.mu.RUnlock()

	return snapshot, nil
}

// Patch merges the given leaf fields into the document and notifies all
// subscribers of the duel with the merged snapshot, the local writer
// included.
func (s *MemoryStore) Patch(ctx context.Context, id uuid.UUID, patch Patch) error {
	if !s.available.Load() {
		return domain.ErrStoreUnavailable
	}

	s.mu.Lock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrDuelNotFound
	}

	patch.apply(doc, domain.NewBattleState)
	touchStats(doc, patch)
	snapshot := cloneSession(doc)
	subs := s.subsFor(id)
	s.mu.Unlock()

	logger.FromContext(ctx).Debug(LogMsgDocumentPatched, "duel_id", id)
	for _, sub := range subs {
		deliver(sub, snapshot)
	}
	return nil
}

// Subscribe registers a callback for merged snapshots of one duel. The
// current document is delivered immediately so a reconnecting client can
// resume from the remote state. The returned unsubscribe is idempotent.
func (s *MemoryStore) Subscribe(id uuid.UUID, fn SnapshotFunc) (UnsubscribeFunc, error) {
	sub := &subscriber{
		ch:   make(chan *domain.DuelSession, SubscriberBuffer),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	doc, ok := s.documents[id]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrDuelNotFound
	}
	s.nextSubID++
	subID := s.nextSubID
	if s.subs[id] == nil {
		s.subs[id] = make(map[int64]*subscriber)
	}
	s.subs[id][subID] = sub
	initial := cloneSession(doc)
	s.mu.Unlock()

	s.wg.Add(1)
	go s.dispatch(sub, fn)

	if s.available.Load() {
		deliver(sub, initial)
	}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[id], subID)
			s.mu.Unlock()
			sub.stop()
		})
	}
	return unsubscribe, nil
}

// SetAvailable flips the simulated transport link. Reconnecting
// re-delivers the current document to every subscriber, which is all a
// state machine needs to resume.
func (s *MemoryStore) SetAvailable(up bool) {
	wasUp := s.available.Swap(up)
	if !up || wasUp {
		return
	}

	s.mu.RLock()
	type pair struct {
		sub  *subscriber
		snap *domain.DuelSession
	}
	var pending []pair
	for id, subs := range s.subs {
		doc, ok := s.documents[id]
		if !ok {
			continue
		}
		for _, sub := range subs {
			pending = append(pending, pair{sub, cloneSession(doc)})
		}
	}
	s.mu.RUnlock()

	for _, p := range pending {
		deliver(p.sub, p.snap)
	}
}

// Close stops all dispatch goroutines and waits for them to drain
func (s *MemoryStore) Close() {
	s.mu.Lock()
	for _, subs := range s.subs {
		for _, sub := range subs {
			sub.stop()
		}
	}
	s.subs = make(map[uuid.UUID]map[int64]*subscriber)
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *MemoryStore) dispatch(sub *subscriber, fn SnapshotFunc) {
	defer s.wg.Done()
	for {
		select {
		case snapshot := <-sub.ch:
			fn(snapshot)
		case <-sub.done:
			return
		}
	}
}

// subsFor returns the duel's subscribers while suppressing delivery when
// the link is down. Caller must hold the lock.
func (s *MemoryStore) subsFor(id uuid.UUID) []*subscriber {
	if !s.available.Load() {
		return nil
	}
	subs := make([]*subscriber, 0, len(s.subs[id]))
	for _, sub := range s.subs[id] {
		subs = append(subs, sub)
	}
	return subs
}

// deliver sends a snapshot without ever blocking a writer. When the
// subscriber's buffer is full the oldest pending snapshot is dropped:
// consumers react to the current merged document, never to deltas, so
// coalescing is safe.
func deliver(sub *subscriber, snapshot *domain.DuelSession) {
	for {
		select {
		case sub.ch <- snapshot:
			return
		case <-sub.done:
			return
		default:
		}
		select {
		case <-sub.ch:
		default:
		}
	}
}

// touchStats stamps LastUpdate on every stats entry the patch wrote
func touchStats(doc *domain.DuelSession, patch Patch) {
	now := time.Now()
	for id := range patch.Stats {
		if stats, ok := doc.LiveStats[id]; ok {
			stats.LastUpdate = now
			doc.LiveStats[id] = stats
		}
	}
}

func cloneSession(doc *domain.DuelSession) *domain.DuelSession {
	out := *doc
	if doc.LiveStats != nil {
		out.LiveStats = make(map[string]domain.BattleState, len(doc.LiveStats))
		for id, stats := range doc.LiveStats {
			if stats.CurrentAnswer != nil {
				a := *stats.CurrentAnswer
				stats.CurrentAnswer = &a
			}
			out.LiveStats[id] = stats
		}
	}
	if doc.Results != nil {
		out.Results = make(map[string]*domain.DuelResult, len(doc.Results))
		for id, res := range doc.Results {
			r := *res
			out.Results[id] = &r
		}
	}
	if doc.WinnerID != nil {
		w := *doc.WinnerID
		out.WinnerID = &w
	}
	if doc.CompletedAt != nil {
		c := *doc.CompletedAt
		out.CompletedAt = &c
	}
	return &out
}
