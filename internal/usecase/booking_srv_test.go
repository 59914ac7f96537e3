package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"story-booking/internal/data/entity"
	"story-booking/internal/data/repository"
	"story-booking/internal/dto/request"
	"story-booking/internal/usecase"
	"story-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- in-memory transactional ledger ----------------------------------------
//
// The doubles below model the storage contract the coordinator relies on:
// BeginSerializable takes an exclusive lock, writes are staged on the tx and
// become visible only on Commit, Rollback discards them. That is enough to
// exercise the no-overbooking and atomicity guarantees without a database.

type memoryStore struct {
	mu         sync.Mutex
	stories    map[uuid.UUID]*entity.Story
	bookings   []*entity.Booking
	travellers []*entity.Traveller

	failBookingCreate   error
	failTravellerCreate error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{stories: make(map[uuid.UUID]*entity.Story)}
}

type memTx struct {
	store  *memoryStore
	staged []func()
	done   bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("tx already closed")
	}
	for _, apply := range t.staged {
		apply()
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.staged = nil
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected raw query")
}

func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (t *memTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected raw exec")
}

type memDB struct {
	store      *memoryStore
	failBegin  error
	beginCount int
}

func (d *memDB) BeginSerializable(ctx context.Context) (database.Tx, error) {
	d.beginCount++
	if d.failBegin != nil {
		return nil, d.failBegin
	}
	d.store.mu.Lock()
	return &memTx{store: d.store}, nil
}

func (d *memDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected raw query")
}

func (d *memDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (d *memDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected raw exec")
}

func (d *memDB) Ping(ctx context.Context) error { return nil }
func (d *memDB) Close()                         {}

// ---- repository doubles ----------------------------------------------------

type memStoryRepo struct {
	store *memoryStore
}

var _ repository.StoryRepository = (*memStoryRepo)(nil)

func (r *memStoryRepo) WithTx(q database.Querier) repository.StoryRepository { return r }

func (r *memStoryRepo) Create(ctx context.Context, story *entity.Story) error {
	r.store.stories[story.ID] = story
	return nil
}

func (r *memStoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Story, error) {
	return r.store.stories[id], nil
}

func (r *memStoryRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Story, error) {
	return r.store.stories[id], nil
}

func (r *memStoryRepo) FindPublished(ctx context.Context, limit, offset int) ([]*entity.Story, error) {
	var out []*entity.Story
	for _, s := range r.store.stories {
		if s.Status == entity.StoryStatusPublished {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStoryRepo) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	for _, s := range r.store.stories {
		if s.Status == entity.StoryStatusPublished {
			count++
		}
	}
	return count, nil
}

func (r *memStoryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.StoryStatus) error {
	story, ok := r.store.stories[id]
	if !ok {
		return errors.New("story not found")
	}
	story.Status = status
	return nil
}

type memBookingRepo struct {
	store *memoryStore
	tx    *memTx
}

var _ repository.BookingRepository = (*memBookingRepo)(nil)

func (r *memBookingRepo) WithTx(q database.Querier) repository.BookingRepository {
	tx, _ := q.(*memTx)
	return &memBookingRepo{store: r.store, tx: tx}
}

func (r *memBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if r.store.failBookingCreate != nil {
		return r.store.failBookingCreate
	}
	b := *booking
	r.tx.staged = append(r.tx.staged, func() {
		r.store.bookings = append(r.store.bookings, &b)
	})
	return nil
}

func (r *memBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	for _, b := range r.store.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	return nil, errors.New("not implemented")
}

func (r *memBookingRepo) FindByStoryID(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	return nil, errors.New("not implemented")
}

func (r *memBookingRepo) CountByStoryID(ctx context.Context, storyID uuid.UUID) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *memBookingRepo) FindConfirmedInRange(ctx context.Context, storyID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if b.StoryID != storyID || b.Status != entity.BookingStatusConfirmed {
			continue
		}
		if !b.StartDate.After(to) && !b.EndDate.Before(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	r.tx.staged = append(r.tx.staged, func() {
		for _, b := range r.store.bookings {
			if b.ID == bookingID {
				b.Status = status
			}
		}
	})
	return nil
}

type memTravellerRepo struct {
	store *memoryStore
	tx    *memTx
}

var _ repository.TravellerRepository = (*memTravellerRepo)(nil)

func (r *memTravellerRepo) WithTx(q database.Querier) repository.TravellerRepository {
	tx, _ := q.(*memTx)
	return &memTravellerRepo{store: r.store, tx: tx}
}

func (r *memTravellerRepo) CreateBatch(ctx context.Context, travellers []*entity.Traveller) error {
	if r.store.failTravellerCreate != nil {
		return r.store.failTravellerCreate
	}
	ts := travellers
	r.tx.staged = append(r.tx.staged, func() {
		r.store.travellers = append(r.store.travellers, ts...)
	})
	return nil
}

func (r *memTravellerRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Traveller, error) {
	var out []*entity.Traveller
	for _, t := range r.store.travellers {
		if t.BookingID == bookingID {
			out = append(out, t)
		}
	}
	return out, nil
}

// ---- helpers ---------------------------------------------------------------

func newTestService(store *memoryStore) (usecase.BookingService, *memDB) {
	db := &memDB{store: store}
	repo := &repository.Repository{
		Story:     &memStoryRepo{store: store},
		Booking:   &memBookingRepo{store: store},
		Traveller: &memTravellerRepo{store: store},
	}
	return usecase.NewBookingService(db, repo, zap.NewNop()), db
}

func publishedStory(lengthDays, maxTravellers int) *entity.Story {
	now := time.Now()
	return &entity.Story{
		Base:                entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		HostID:              uuid.New(),
		Title:               "Sunrise Trek",
		Location:            "Bromo",
		StoryLengthDays:     lengthDays,
		MaxTravellersPerDay: maxTravellers,
		PricePerTraveller:   100000,
		Status:              entity.StoryStatusPublished,
	}
}

func seedBooking(store *memoryStore, storyID uuid.UUID, start, end string, travellers int) *entity.Booking {
	b := &entity.Booking{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		BookingCode:     "STORY-SEED",
		StoryID:         storyID,
		StartDate:       day(start),
		EndDate:         day(end),
		TotalTravellers: travellers,
		Status:          entity.BookingStatusConfirmed,
	}
	store.bookings = append(store.bookings, b)
	return b
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func reserveRequest(storyID uuid.UUID, start, end string, travellers int) *request.CreateBookingRequest {
	details := make([]request.TravellerRequest, travellers)
	for i := range details {
		details[i] = request.TravellerRequest{
			FullName:     "Traveller Name",
			EmailAddress: "traveller@example.com",
			PhoneNumber:  "+6281234567",
		}
	}
	base := int64(travellers) * 100000
	return &request.CreateBookingRequest{
		StoryID:        storyID.String(),
		StartDate:      start,
		EndDate:        end,
		NoOfTravellers: travellers,
		Travellers:     details,
		Payment: request.PaymentRequest{
			TotalBase:    base,
			PlatformFee:  500,
			TotalPayment: base + 500,
		},
	}
}

// ---- CreateBooking ---------------------------------------------------------

func TestCreateBooking_AdmitsAndPersistsConfirmed(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	svc, _ := newTestService(store)

	resp, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-10", "2025-11-14", 4))

	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.Equal(t, 4, resp.TotalTravellers)
	assert.Equal(t, "2025-11-10", resp.StartDate)
	assert.Equal(t, "2025-11-14", resp.EndDate)
	assert.NotEmpty(t, resp.BookingCode)

	require.Len(t, store.bookings, 1)
	assert.Len(t, store.travellers, 4)
}

func TestCreateBooking_RejectsWhenCapacityExceeded(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	seedBooking(store, story.ID, "2025-11-10", "2025-11-14", 7)
	svc, _ := newTestService(store)

	_, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-10", "2025-11-14", 4))

	var capErr *usecase.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, day("2025-11-10"), capErr.Date)
	assert.Equal(t, 3, capErr.Remaining)

	// Ledger untouched beyond the seed.
	assert.Len(t, store.bookings, 1)
	assert.Empty(t, store.travellers)
}

func TestCreateBooking_RejectsDurationMismatch(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(3, 10)
	store.stories[story.ID] = story
	svc, _ := newTestService(store)

	_, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-10", "2025-11-14", 2))

	assert.ErrorIs(t, err, usecase.ErrDurationMismatch)
	assert.Empty(t, store.bookings)
}

func TestCreateBooking_RejectsUnbookableStory(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	story.Status = entity.StoryStatusDraft
	store.stories[story.ID] = story
	svc, _ := newTestService(store)

	_, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-10", "2025-11-14", 2))

	assert.ErrorIs(t, err, usecase.ErrStoryNotBookable)
	assert.Empty(t, store.bookings)
}

func TestCreateBooking_RejectsUnknownStory(t *testing.T) {
	store := newMemoryStore()
	svc, _ := newTestService(store)

	_, err := svc.CreateBooking(context.Background(), reserveRequest(uuid.New(), "2025-11-10", "2025-11-14", 2))

	assert.ErrorIs(t, err, usecase.ErrStoryNotFound)
}

func TestCreateBooking_RejectsTravellerCountMismatchBeforeTx(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	svc, db := newTestService(store)

	req := reserveRequest(story.ID, "2025-11-10", "2025-11-14", 3)
	req.Travellers = req.Travellers[:2]

	_, err := svc.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, usecase.ErrTravellerCountMismatch)
	assert.Zero(t, db.beginCount, "validation failures must not open a transaction")
}

func TestCreateBooking_RejectsInconsistentPayment(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	svc, db := newTestService(store)

	req := reserveRequest(story.ID, "2025-11-10", "2025-11-14", 2)
	req.Payment.TotalPayment = req.Payment.TotalPayment + 1

	_, err := svc.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, usecase.ErrInvalidPayment)
	assert.Zero(t, db.beginCount)
}

func TestCreateBooking_RejectsEndBeforeStart(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	svc, db := newTestService(store)

	_, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-14", "2025-11-10", 2))

	assert.ErrorIs(t, err, usecase.ErrValidation)
	assert.Zero(t, db.beginCount)
}

func TestCreateBooking_StorageFailureLeavesNoPartialState(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	store.failTravellerCreate = errors.New("connection reset")
	svc, _ := newTestService(store)

	_, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-10", "2025-11-14", 4))

	require.ErrorIs(t, err, usecase.ErrReservationFailed)
	assert.Empty(t, store.bookings, "rolled back booking must not be visible")
	assert.Empty(t, store.travellers)
}

func TestCreateBooking_BeginFailureIsRetryable(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	svc, db := newTestService(store)
	db.failBegin = errors.New("too many connections")

	_, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-10", "2025-11-14", 2))

	assert.ErrorIs(t, err, usecase.ErrReservationFailed)
}

func TestCreateBooking_ConcurrentRivalsNeverOverbook(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(1, 10)
	store.stories[story.ID] = story
	svc, _ := newTestService(store)

	// Two rivals of 6 travellers against a ceiling of 10: exactly one fits.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(),
				reserveRequest(story.ID, "2025-11-10", "2025-11-10", 6))
		}(i)
	}
	wg.Wait()

	var admitted, rejected int
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		var capErr *usecase.CapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, 4, capErr.Remaining)
		rejected++
	}

	assert.Equal(t, 1, admitted)
	assert.Equal(t, 1, rejected)

	total := 0
	for _, b := range store.bookings {
		if b.Status == entity.BookingStatusConfirmed && b.Covers(day("2025-11-10")) {
			total += b.TotalTravellers
		}
	}
	assert.LessOrEqual(t, total, 10)
}

// ---- CancelBooking ---------------------------------------------------------

func TestCancelBooking_FreesCapacity(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	seeded := seedBooking(store, story.ID, "2025-11-10", "2025-11-14", 7)
	svc, _ := newTestService(store)

	require.NoError(t, svc.CancelBooking(context.Background(), seeded.ID.String()))
	assert.Equal(t, entity.BookingStatusCancelled, seeded.Status)

	// The freed capacity is immediately reservable.
	_, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-10", "2025-11-14", 8))
	assert.NoError(t, err)
}

func TestCancelBooking_RejectsAlreadyCancelled(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	seeded := seedBooking(store, story.ID, "2025-11-10", "2025-11-14", 7)
	seeded.Status = entity.BookingStatusCancelled
	svc, _ := newTestService(store)

	err := svc.CancelBooking(context.Background(), seeded.ID.String())

	assert.ErrorIs(t, err, usecase.ErrBookingNotCancellable)
}

func TestCancelBooking_UnknownBooking(t *testing.T) {
	store := newMemoryStore()
	svc, _ := newTestService(store)

	err := svc.CancelBooking(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, usecase.ErrBookingNotFound)
}

// ---- GetBookingByID --------------------------------------------------------

func TestGetBookingByID_ReturnsTravellers(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	svc, _ := newTestService(store)

	created, err := svc.CreateBooking(context.Background(), reserveRequest(story.ID, "2025-11-10", "2025-11-14", 3))
	require.NoError(t, err)

	got, err := svc.GetBookingByID(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.BookingCode, got.BookingCode)
	assert.Len(t, got.Travellers, 3)
}
