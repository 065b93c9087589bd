package stats

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/store"
)

// --- in-memory fakes ---

type fakeDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
}

func (f *fakeDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := f.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (f *fakeDeckStore) ListByOwner(_ context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	var out []*domain.Deck
	for _, deck := range f.decks {
		if deck.UserID == userID {
			out = append(out, deck)
		}
	}
	return out, nil
}

func (f *fakeDeckStore) ListPublic(_ context.Context) ([]*domain.Deck, error) {
	var out []*domain.Deck
	for _, deck := range f.decks {
		if deck.IsPublic {
			out = append(out, deck)
		}
	}
	return out, nil
}

func (f *fakeDeckStore) Update(_ context.Context, deck *domain.Deck) error {
	if _, ok := f.decks[deck.ID]; !ok {
		return store.ErrDeckNotFound
	}
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeDeckStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(f.decks, id)
	return nil
}

func (f *fakeDeckStore) WithTx(_ *sql.Tx) store.DeckStore { return f }

type fakeCardStore struct {
	cards map[uuid.UUID]*domain.Card
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeCardStore) Create(_ context.Context, card *domain.Card) error {
	f.cards[card.ID] = card
	return nil
}

func (f *fakeCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := f.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (f *fakeCardStore) ListByDeck(_ context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, card := range f.cards {
		if card.DeckID == deckID {
			out = append(out, card)
		}
	}
	return out, nil
}

func (f *fakeCardStore) Update(_ context.Context, card *domain.Card) error {
	if _, ok := f.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	f.cards[card.ID] = card
	return nil
}

func (f *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) WithTx(_ *sql.Tx) store.CardStore { return f }

type stateKey struct {
	user uuid.UUID
	card uuid.UUID
}

type fakeStateStore struct {
	states map[stateKey]*domain.ReviewState
	cards  *fakeCardStore
}

func newFakeStateStore(cards *fakeCardStore) *fakeStateStore {
	return &fakeStateStore{states: make(map[stateKey]*domain.ReviewState), cards: cards}
}

func (f *fakeStateStore) Get(_ context.Context, userID, cardID uuid.UUID) (domain.ReviewStateLookup, error) {
	if state, ok := f.states[stateKey{userID, cardID}]; ok {
		return domain.FoundState(state), nil
	}
	return domain.DefaultState(userID, cardID, time.Now().UTC()), nil
}

func (f *fakeStateStore) EnsureDefault(_ context.Context, userID, cardID uuid.UUID, now time.Time) error {
	key := stateKey{userID, cardID}
	if _, ok := f.states[key]; !ok {
		f.states[key] = domain.NewReviewState(userID, cardID, now)
	}
	return nil
}

func (f *fakeStateStore) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (domain.ReviewStateLookup, error) {
	return f.Get(ctx, userID, cardID)
}

func (f *fakeStateStore) Upsert(_ context.Context, state *domain.ReviewState) error {
	f.states[stateKey{state.UserID, state.CardID}] = state
	return nil
}

func (f *fakeStateStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.ReviewState, error) {
	var out []*domain.ReviewState
	for key, state := range f.states {
		if key.user == userID {
			out = append(out, state)
		}
	}
	return out, nil
}

func (f *fakeStateStore) ListByUserAndDeck(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.ReviewState, error) {
	all, err := f.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []*domain.ReviewState
	for _, state := range all {
		card, ok := f.cards.cards[state.CardID]
		if ok && card.DeckID == deckID {
			out = append(out, state)
		}
	}
	return out, nil
}

func (f *fakeStateStore) WithTx(_ *sql.Tx) store.ReviewStateStore { return f }

type fakeAttemptStore struct {
	records []*domain.AttemptRecord
}

func (f *fakeAttemptStore) Create(_ context.Context, record *domain.AttemptRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeAttemptStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*domain.AttemptRecord, error) {
	var out []*domain.AttemptRecord
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAttemptStore) ListByUserAndDeck(ctx context.Context, userID, deckID uuid.UUID, limit int) ([]*domain.AttemptRecord, error) {
	all, err := f.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	var out []*domain.AttemptRecord
	for _, record := range all {
		if record.DeckID == deckID {
			out = append(out, record)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAttemptStore) WithTx(_ *sql.Tx) store.AttemptStore { return f }

type analyticsKey struct {
	user     uuid.UUID
	category string
}

type fakeAnalyticsStore struct {
	rows    map[analyticsKey]*domain.CategoryAnalytics
	upserts int
}

func newFakeAnalyticsStore() *fakeAnalyticsStore {
	return &fakeAnalyticsStore{rows: make(map[analyticsKey]*domain.CategoryAnalytics)}
}

func (f *fakeAnalyticsStore) Upsert(_ context.Context, analytics *domain.CategoryAnalytics) error {
	f.upserts++
	f.rows[analyticsKey{analytics.UserID, analytics.Category}] = analytics
	return nil
}

func (f *fakeAnalyticsStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*domain.CategoryAnalytics, error) {
	var out []*domain.CategoryAnalytics
	for key, row := range f.rows {
		if key.user == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAnalyticsStore) GetByCategory(_ context.Context, userID uuid.UUID, category string) (*domain.CategoryAnalytics, error) {
	row, ok := f.rows[analyticsKey{userID, category}]
	if !ok {
		return nil, store.ErrAnalyticsNotFound
	}
	return row, nil
}

func (f *fakeAnalyticsStore) WithTx(_ *sql.Tx) store.AnalyticsStore { return f }

// --- fixture ---

type statsFixture struct {
	svc       *Service
	decks     *fakeDeckStore
	cards     *fakeCardStore
	states    *fakeStateStore
	attempts  *fakeAttemptStore
	analytics *fakeAnalyticsStore
	userID    uuid.UUID
	now       time.Time
}

func newFixture(t *testing.T) *statsFixture {
	t.Helper()

	decks := newFakeDeckStore()
	cards := newFakeCardStore()
	states := newFakeStateStore(cards)
	attempts := &fakeAttemptStore{}
	analytics := newFakeAnalyticsStore()

	svc, err := NewService(decks, cards, states, attempts, analytics, slog.Default())
	require.NoError(t, err)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) // a Sunday
	svc.now = func() time.Time { return now }

	return &statsFixture{
		svc:       svc,
		decks:     decks,
		cards:     cards,
		states:    states,
		attempts:  attempts,
		analytics: analytics,
		userID:    uuid.New(),
		now:       now,
	}
}

func (f *statsFixture) addDeck(t *testing.T, category string, isPublic bool) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(f.userID, category+" deck", "", category, isPublic)
	require.NoError(t, err)
	f.decks.decks[deck.ID] = deck
	return deck
}

func (f *statsFixture) addCard(t *testing.T, deckID uuid.UUID, tags ...string) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(deckID, "question", "answer", 1)
	require.NoError(t, err)
	card.Tags = tags
	f.cards.cards[card.ID] = card
	return card
}

func (f *statsFixture) addState(cardID uuid.UUID, total, correct int, mastered bool) *domain.ReviewState {
	state := domain.NewReviewState(f.userID, cardID, f.now)
	state.TotalAttempts = total
	state.CorrectAttempts = correct
	state.IsMastered = mastered
	if mastered {
		state.NextReviewAt = f.now.AddDate(0, 0, 6)
	}
	f.states.states[stateKey{f.userID, cardID}] = state
	return state
}

func (f *statsFixture) addAttempt(t *testing.T, cardID, deckID uuid.UUID, correct bool, at time.Time) {
	t.Helper()
	record, err := domain.NewAttemptRecord(f.userID, cardID, deckID, "answer", correct, at)
	require.NoError(t, err)
	f.attempts.records = append(f.attempts.records, record)
}

// --- tests ---

func TestUserStats(t *testing.T) {
	t.Run("empty account", func(t *testing.T) {
		f := newFixture(t)

		stats, err := f.svc.UserStats(context.Background(), f.userID)
		require.NoError(t, err)

		assert.Equal(t, 0, stats.Decks.Total)
		assert.Equal(t, 0, stats.Flashcards.Total)
		assert.Equal(t, 0, stats.Accuracy.Average)
		assert.Equal(t, 0, stats.DailyStreak.Count)
		assert.Nil(t, stats.DailyStreak.LastActivity)
	})

	t.Run("aggregates decks, cards, and reviews", func(t *testing.T) {
		f := newFixture(t)
		public := f.addDeck(t, "Geography", true)
		private := f.addDeck(t, "History", false)

		c1 := f.addCard(t, public.ID)
		c2 := f.addCard(t, public.ID)
		c3 := f.addCard(t, private.ID)

		f.addState(c1.ID, 5, 4, true)  // 80%
		f.addState(c2.ID, 4, 1, false) // 25%
		_ = c3                         // never reviewed, counts toward total only

		f.addAttempt(t, c1.ID, public.ID, true, f.now.Add(-time.Hour))
		f.addAttempt(t, c2.ID, public.ID, false, f.now.AddDate(0, 0, -1))

		stats, err := f.svc.UserStats(context.Background(), f.userID)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.Decks.Total)
		assert.Equal(t, 1, stats.Decks.Public)
		assert.Equal(t, 1, stats.Decks.Private)

		assert.Equal(t, 3, stats.Flashcards.Total)
		assert.Equal(t, 1, stats.Flashcards.Learned)
		assert.Equal(t, 1, stats.Flashcards.InProgress)

		// mean of 80% and 25%, rounded
		assert.Equal(t, 53, stats.Accuracy.Average)
		assert.Equal(t, 9, stats.Accuracy.TotalReviews)
		assert.Equal(t, 5, stats.Accuracy.CorrectReviews)

		assert.Equal(t, 2, stats.DailyStreak.Count)
		require.NotNil(t, stats.DailyStreak.LastActivity)
		assert.Equal(t, f.now.Add(-time.Hour), *stats.DailyStreak.LastActivity)
	})

	t.Run("ignores other users' decks", func(t *testing.T) {
		f := newFixture(t)
		other, err := domain.NewDeck(uuid.New(), "Foreign", "", "Science", true)
		require.NoError(t, err)
		f.decks.decks[other.ID] = other

		stats, err := f.svc.UserStats(context.Background(), f.userID)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Decks.Total)
	})
}

func TestDeckStats(t *testing.T) {
	t.Run("counts mastered and due cards", func(t *testing.T) {
		f := newFixture(t)
		deck := f.addDeck(t, "Geography", false)
		c1 := f.addCard(t, deck.ID)
		c2 := f.addCard(t, deck.ID)
		c3 := f.addCard(t, deck.ID) // never reviewed, due by default

		f.addState(c1.ID, 2, 2, true) // mastered, due in 6 days
		f.addState(c2.ID, 3, 1, false)

		stats, err := f.svc.DeckStats(context.Background(), f.userID, deck.ID)
		require.NoError(t, err)

		assert.Equal(t, 3, stats.TotalCards)
		assert.Equal(t, 1, stats.Mastered)
		// c2 (unmastered) and c3 (never reviewed) are due; c1 is not yet
		assert.Equal(t, 2, stats.DueForReview)
		assert.Equal(t, 1, stats.NewCards)
		// mean of 100% and 33%, rounded
		assert.Equal(t, 67, stats.Accuracy)
		// c2's review slot comes before c1's six-day interval
		require.NotNil(t, stats.NextReviewAt)
		assert.Equal(t, f.now, *stats.NextReviewAt)
		_ = c3
	})

	t.Run("unknown deck", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.DeckStats(context.Background(), f.userID, uuid.New())
		assert.ErrorIs(t, err, ErrDeckNotFound)
	})

	t.Run("private deck of another user", func(t *testing.T) {
		f := newFixture(t)
		deck := f.addDeck(t, "Geography", false)
		_, err := f.svc.DeckStats(context.Background(), uuid.New(), deck.ID)
		assert.ErrorIs(t, err, ErrNoAccess)
	})
}

func TestWeeklyProgress(t *testing.T) {
	f := newFixture(t)
	deck := f.addDeck(t, "Geography", false)
	card := f.addCard(t, deck.ID)

	state := f.addState(card.ID, 4, 3, true)
	reviewed := f.now.Add(-2 * time.Hour)
	state.LastReviewedAt = &reviewed

	days, err := f.svc.WeeklyProgress(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Equal(t, "Mon", days[0].Day)
	assert.Equal(t, "Sun", days[6].Day)
	// the fixture clock is a Sunday, so the review lands in the last slot
	assert.Equal(t, 1, days[6].CardsLearned)
	assert.Equal(t, 75, days[6].Accuracy)
	assert.Equal(t, 0, days[0].CardsLearned)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	deck := f.addDeck(t, "Geography", false)
	card := f.addCard(t, deck.ID)
	for i := 0; i < 60; i++ {
		f.addAttempt(t, card.ID, deck.ID, true, f.now.Add(-time.Duration(i)*time.Minute))
	}

	t.Run("default limit", func(t *testing.T) {
		records, err := f.svc.History(context.Background(), f.userID, uuid.Nil, 0)
		require.NoError(t, err)
		assert.Len(t, records, historyDefaultLimit)
	})

	t.Run("explicit limit, newest first", func(t *testing.T) {
		records, err := f.svc.History(context.Background(), f.userID, uuid.Nil, 5)
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, f.now, records[0].CreatedAt)
	})

	t.Run("filtered by deck", func(t *testing.T) {
		other := f.addDeck(t, "History", false)
		otherCard := f.addCard(t, other.ID)
		f.addAttempt(t, otherCard.ID, other.ID, false, f.now.Add(time.Minute))

		records, err := f.svc.History(context.Background(), f.userID, other.ID, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, other.ID, records[0].DeckID)
	})
}

func TestGenerateAnalytics(t *testing.T) {
	t.Run("no review activity", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GenerateAnalytics(context.Background(), f.userID)
		assert.ErrorIs(t, err, ErrNoProgress)
		assert.Equal(t, 0, f.analytics.upserts)
	})

	t.Run("upserts one row per category", func(t *testing.T) {
		f := newFixture(t)
		geo := f.addDeck(t, "Geography", false)
		hist := f.addDeck(t, "History", false)

		strong := f.addCard(t, geo.ID, "capitals")
		weak := f.addCard(t, geo.ID, "rivers")
		dates := f.addCard(t, hist.ID, "dates")

		f.addState(strong.ID, 5, 5, true) // 100%
		f.addState(weak.ID, 5, 1, false)  // 20%, weak
		f.addState(dates.ID, 4, 3, false) // 75%

		rows, err := f.svc.GenerateAnalytics(context.Background(), f.userID)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		// categories come back alphabetically
		assert.Equal(t, "Geography", rows[0].Category)
		assert.Equal(t, "History", rows[1].Category)

		// 6 correct of 10 attempts across the category
		assert.InDelta(t, 60.0, rows[0].Performance, 0.01)
		assert.Equal(t, []string{"rivers"}, rows[0].WeakAreas)
		assert.Contains(t, rows[0].Recommendations, "Review Geography concepts regularly")
		assert.Contains(t, rows[0].Recommendations, "Review rivers topics in Geography")

		assert.InDelta(t, 75.0, rows[1].Performance, 0.01)
		assert.Empty(t, rows[1].WeakAreas)
		assert.Contains(t, rows[1].Recommendations, "Great progress in History! Try advanced topics")

		stored, err := f.analytics.GetByCategory(context.Background(), f.userID, "Geography")
		require.NoError(t, err)
		assert.InDelta(t, 60.0, stored.Performance, 0.01)
	})

	t.Run("regeneration replaces rows", func(t *testing.T) {
		f := newFixture(t)
		deck := f.addDeck(t, "Geography", false)
		card := f.addCard(t, deck.ID)
		state := f.addState(card.ID, 2, 1, false)

		_, err := f.svc.GenerateAnalytics(context.Background(), f.userID)
		require.NoError(t, err)

		state.CorrectAttempts = 2
		_, err = f.svc.GenerateAnalytics(context.Background(), f.userID)
		require.NoError(t, err)

		rows, err := f.analytics.ListByUser(context.Background(), f.userID, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.InDelta(t, 100.0, rows[0].Performance, 0.01)
	})

	t.Run("skips states whose card was deleted", func(t *testing.T) {
		f := newFixture(t)
		deck := f.addDeck(t, "Geography", false)
		card := f.addCard(t, deck.ID)
		f.addState(card.ID, 3, 3, true)
		f.addState(uuid.New(), 2, 0, false) // dangling state

		rows, err := f.svc.GenerateAnalytics(context.Background(), f.userID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.InDelta(t, 100.0, rows[0].Performance, 0.01)
	})
}

func TestAnalyticsByCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AnalyticsByCategory(context.Background(), f.userID, "Geography")
	assert.ErrorIs(t, err, store.ErrAnalyticsNotFound)

	row, err := domain.NewCategoryAnalytics(f.userID, "Geography", 80, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.analytics.Upsert(context.Background(), row))

	got, err := f.svc.AnalyticsByCategory(context.Background(), f.userID, "Geography")
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
}
