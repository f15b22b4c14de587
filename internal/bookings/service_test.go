package bookings

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codr1/Courtly/internal/apperr"
	"github.com/codr1/Courtly/internal/clock"
	"github.com/codr1/Courtly/internal/courts"
	"github.com/codr1/Courtly/internal/db"
	dbgen "github.com/codr1/Courtly/internal/db/generated"
	"github.com/codr1/Courtly/internal/money"
	"github.com/codr1/Courtly/internal/testutil"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func slot(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	db     *db.DB
	clock  *clock.Mock
	svc    *Service
	court  dbgen.Court
	player dbgen.User
	other  dbgen.User
	admin  dbgen.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	clk := clock.NewMock(testNow)
	return &fixture{
		db:     database,
		clock:  clk,
		svc:    NewService(database, clk),
		court:  testutil.CreateCourt(t, database, "Court 1", 3000, 0),
		player: testutil.CreateUser(t, database, testutil.UserOptions{Name: "Player One"}),
		other:  testutil.CreateUser(t, database, testutil.UserOptions{Name: "Player Two"}),
		admin:  testutil.CreateUser(t, database, testutil.UserOptions{Role: "ADMIN"}),
	}
}

func (f *fixture) book(t *testing.T, userID string, start, end time.Time) Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), CreateInput{
		UserID:    userID,
		CourtID:   f.court.ID,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		t.Fatalf("create booking %v-%v: %v", start, end, err)
	}
	return b
}

func TestCreateDisjointAndAdjacentBookings(t *testing.T) {
	f := newFixture(t)

	first := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))
	second := f.book(t, f.other.ID, slot(1, 10, 0), slot(1, 11, 0))
	third := f.book(t, f.other.ID, slot(1, 14, 0), slot(1, 15, 0))

	for _, b := range []Booking{first, second, third} {
		if b.Status != StatusPending {
			t.Fatalf("booking %s: got status %s want PENDING", b.ID, b.Status)
		}
	}
}

func TestCreateOverlapConflictsInEitherOrder(t *testing.T) {
	tests := []struct {
		name          string
		first, second [2]time.Time
	}{
		{name: "later overlaps earlier", first: [2]time.Time{slot(1, 9, 0), slot(1, 10, 0)}, second: [2]time.Time{slot(1, 9, 30), slot(1, 10, 30)}},
		{name: "earlier overlaps later", first: [2]time.Time{slot(1, 9, 30), slot(1, 10, 30)}, second: [2]time.Time{slot(1, 9, 0), slot(1, 10, 0)}},
		{name: "contained", first: [2]time.Time{slot(1, 9, 0), slot(1, 12, 0)}, second: [2]time.Time{slot(1, 10, 0), slot(1, 11, 0)}},
		{name: "identical", first: [2]time.Time{slot(1, 9, 0), slot(1, 10, 0)}, second: [2]time.Time{slot(1, 9, 0), slot(1, 10, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.book(t, f.player.ID, tt.first[0], tt.first[1])

			_, err := f.svc.Create(context.Background(), CreateInput{
				UserID:    f.other.ID,
				CourtID:   f.court.ID,
				StartTime: tt.second[0],
				EndTime:   tt.second[1],
			})
			if !errors.Is(err, apperr.ErrBookingConflict) {
				t.Fatalf("expected BOOKING_CONFLICT, got %v", err)
			}
		})
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    CreateInput
		want  error
		setup func()
	}{
		{
			name: "end before start",
			in:   CreateInput{UserID: f.player.ID, CourtID: f.court.ID, StartTime: slot(1, 10, 0), EndTime: slot(1, 9, 0)},
			want: apperr.ErrInvalidTimeRange,
		},
		{
			name: "empty range",
			in:   CreateInput{UserID: f.player.ID, CourtID: f.court.ID, StartTime: slot(1, 10, 0), EndTime: slot(1, 10, 0)},
			want: apperr.ErrInvalidTimeRange,
		},
		{
			name: "unknown court",
			in:   CreateInput{UserID: f.player.ID, CourtID: "missing", StartTime: slot(1, 9, 0), EndTime: slot(1, 10, 0)},
			want: apperr.ErrCourtNotFound,
		},
		{
			name: "unknown user",
			in:   CreateInput{UserID: "missing", CourtID: f.court.ID, StartTime: slot(1, 9, 0), EndTime: slot(1, 10, 0)},
			want: apperr.ErrUserNotFound,
		},
		{
			name: "admin block in the past",
			in:   CreateInput{UserID: f.admin.ID, CourtID: f.court.ID, StartTime: testNow.Add(-time.Hour), EndTime: testNow.Add(time.Hour), AdminBlock: true},
			want: apperr.ErrPastBooking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Create(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("got %v want %v", err, tt.want)
			}
		})
	}
}

func TestCreatePastBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{
		UserID:    f.player.ID,
		CourtID:   f.court.ID,
		StartTime: testNow.Add(-time.Second),
		EndTime:   testNow.Add(time.Hour),
	})
	if !errors.Is(err, apperr.ErrPastBooking) {
		t.Fatalf("one second in the past: expected PAST_BOOKING, got %v", err)
	}

	b, err := f.svc.Create(ctx, CreateInput{
		UserID:    f.player.ID,
		CourtID:   f.court.ID,
		StartTime: testNow.Add(time.Second),
		EndTime:   testNow.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("one second in the future: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("got status %s want PENDING", b.Status)
	}
}

func TestCreateAdminBlock(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), CreateInput{
		UserID:     f.admin.ID,
		CourtID:    f.court.ID,
		StartTime:  slot(1, 9, 0),
		EndTime:    slot(1, 10, 0),
		AdminBlock: true,
	})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	if b.Status != StatusBlocked {
		t.Fatalf("got status %s want BLOCKED", b.Status)
	}

	if _, err := f.svc.Create(context.Background(), CreateInput{
		UserID: f.player.ID, CourtID: f.court.ID, StartTime: slot(1, 9, 30), EndTime: slot(1, 10, 30),
	}); !errors.Is(err, apperr.ErrBookingConflict) {
		t.Fatalf("blocked slot should conflict, got %v", err)
	}
}

func TestCreateUsesMemberTariff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	court := testutil.CreateCourt(t, f.db, "Court M", 4000, 3200)
	member := testutil.CreateUser(t, f.db, testutil.UserOptions{MembershipStatus: "MEMBER"})

	b, err := f.svc.Create(ctx, CreateInput{UserID: member.ID, CourtID: court.ID, StartTime: slot(2, 9, 0), EndTime: slot(2, 11, 0)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.TotalPrice != 6000 {
		t.Fatalf("member 2h price: got %s want 60.00", b.TotalPrice)
	}

	b, err = f.svc.Create(ctx, CreateInput{UserID: f.player.ID, CourtID: court.ID, StartTime: slot(2, 12, 0), EndTime: slot(2, 13, 30)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.TotalPrice != 5200 {
		t.Fatalf("standard 1.5h price: got %s want 52.00", b.TotalPrice)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))

	cancelled, err := f.svc.Cancel(ctx, b.ID, Actor{UserID: f.player.ID})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("got status %s want CANCELLED", cancelled.Status)
	}
	if cancelled.TotalPrice != b.TotalPrice {
		t.Fatalf("cancel changed price: got %s want %s", cancelled.TotalPrice, b.TotalPrice)
	}

	f.book(t, f.other.ID, slot(1, 9, 0), slot(1, 10, 0))

	if _, err := f.svc.Cancel(ctx, b.ID, Actor{UserID: f.player.ID}); !errors.Is(err, apperr.ErrAlreadyCancelled) {
		t.Fatalf("re-cancel: expected ALREADY_CANCELLED, got %v", err)
	}
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))

	if _, err := f.svc.Cancel(ctx, b.ID, Actor{UserID: f.other.ID}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("non-owner: expected FORBIDDEN, got %v", err)
	}
	if _, err := f.svc.Cancel(ctx, b.ID, Actor{UserID: f.player.ID}); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, "missing", Actor{UserID: f.player.ID}); !errors.Is(err, apperr.ErrBookingNotFound) {
		t.Fatalf("missing: expected BOOKING_NOT_FOUND, got %v", err)
	}
}

func TestCancelPastBookingOnlyByAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))
	f.clock.Set(slot(1, 9, 30))

	if _, err := f.svc.Cancel(ctx, b.ID, Actor{UserID: f.player.ID}); !errors.Is(err, apperr.ErrPastBooking) {
		t.Fatalf("owner after start: expected PAST_BOOKING, got %v", err)
	}
	if _, err := f.svc.Cancel(ctx, b.ID, Actor{UserID: f.admin.ID, IsAdmin: true}); err != nil {
		t.Fatalf("admin after start: %v", err)
	}
}

func TestCreateForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateForUser(ctx, CreateForUserInput{
		UserEmail: "  " + f.player.Email + " ",
		CourtID:   f.court.ID,
		StartTime: slot(1, 9, 0),
		EndTime:   slot(1, 10, 0),
		Status:    StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create for user by email: %v", err)
	}
	if b.UserID != f.player.ID || b.Status != StatusConfirmed {
		t.Fatalf("got owner %s status %s", b.UserID, b.Status)
	}
	stored, err := Load(ctx, f.db.Queries, b.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Status != StatusConfirmed {
		t.Fatalf("stored status: got %s want CONFIRMED", stored.Status)
	}

	blocked, err := f.svc.CreateForUser(ctx, CreateForUserInput{
		UserID: f.other.ID, CourtID: f.court.ID, StartTime: slot(1, 10, 0), EndTime: slot(1, 11, 0), Status: StatusBlocked,
	})
	if err != nil {
		t.Fatalf("create blocked for user: %v", err)
	}
	if blocked.Status != StatusBlocked {
		t.Fatalf("got status %s want BLOCKED", blocked.Status)
	}

	tests := []struct {
		name string
		in   CreateForUserInput
		want error
	}{
		{name: "neither id nor email", in: CreateForUserInput{CourtID: f.court.ID, StartTime: slot(1, 12, 0), EndTime: slot(1, 13, 0)}, want: apperr.ErrInvalidInput},
		{name: "both id and email", in: CreateForUserInput{UserID: f.player.ID, UserEmail: f.player.Email, CourtID: f.court.ID, StartTime: slot(1, 12, 0), EndTime: slot(1, 13, 0)}, want: apperr.ErrInvalidInput},
		{name: "unknown email", in: CreateForUserInput{UserEmail: "nobody@example.com", CourtID: f.court.ID, StartTime: slot(1, 12, 0), EndTime: slot(1, 13, 0)}, want: apperr.ErrUserNotFound},
		{name: "cancelled status", in: CreateForUserInput{UserID: f.player.ID, CourtID: f.court.ID, StartTime: slot(1, 12, 0), EndTime: slot(1, 13, 0), Status: StatusCancelled}, want: apperr.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.CreateForUser(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("got %v want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateAsAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))
	neighbour := f.book(t, f.other.ID, slot(1, 11, 0), slot(1, 12, 0))

	// Shifting within its own slot does not conflict with itself.
	newStart, newEnd := slot(1, 9, 30), slot(1, 11, 0)
	updated, err := f.svc.UpdateAsAdmin(ctx, b.ID, UpdateInput{StartTime: &newStart, EndTime: &newEnd})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.StartTime.Equal(newStart) || !updated.EndTime.Equal(newEnd) {
		t.Fatalf("update times: got %v-%v", updated.StartTime, updated.EndTime)
	}
	if updated.TotalPrice != 3900 {
		t.Fatalf("re-priced 1.5h standard: got %s want 39.00", updated.TotalPrice)
	}

	clash := slot(1, 11, 30)
	if _, err := f.svc.UpdateAsAdmin(ctx, b.ID, UpdateInput{EndTime: &clash}); !errors.Is(err, apperr.ErrBookingConflict) {
		t.Fatalf("overlap with neighbour: expected BOOKING_CONFLICT, got %v", err)
	}

	before := slot(1, 9, 0)
	if _, err := f.svc.UpdateAsAdmin(ctx, b.ID, UpdateInput{EndTime: &before}); !errors.Is(err, apperr.ErrInvalidTimeRange) {
		t.Fatalf("merged range invalid: expected INVALID_TIME_RANGE, got %v", err)
	}

	missing := "missing"
	if _, err := f.svc.UpdateAsAdmin(ctx, b.ID, UpdateInput{CourtID: &missing}); !errors.Is(err, apperr.ErrCourtNotFound) {
		t.Fatalf("unknown court: expected COURT_NOT_FOUND, got %v", err)
	}

	// A cancelled booking may overlap; reactivating it re-checks conflicts.
	cancelled := StatusCancelled
	if _, err := f.svc.UpdateAsAdmin(ctx, neighbour.ID, UpdateInput{Status: &cancelled}); err != nil {
		t.Fatalf("cancel neighbour: %v", err)
	}
	if _, err := f.svc.UpdateAsAdmin(ctx, b.ID, UpdateInput{EndTime: &clash}); err != nil {
		t.Fatalf("extend over cancelled neighbour: %v", err)
	}
	pending := StatusPending
	if _, err := f.svc.UpdateAsAdmin(ctx, neighbour.ID, UpdateInput{Status: &pending}); !errors.Is(err, apperr.ErrBookingConflict) {
		t.Fatalf("reactivate neighbour: expected BOOKING_CONFLICT, got %v", err)
	}
}

func TestUpdateAsAdminRepricesAgainstCurrentMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	court := testutil.CreateCourt(t, f.db, "Court M", 4000, 3200)
	b, err := f.svc.Create(ctx, CreateInput{UserID: f.player.ID, CourtID: court.ID, StartTime: slot(3, 9, 0), EndTime: slot(3, 10, 0)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.TotalPrice != 4000 {
		t.Fatalf("initial price: got %s want 40.00", b.TotalPrice)
	}

	if _, err := f.db.Queries.UpdateUserMembership(ctx, dbgen.UpdateUserMembershipParams{
		ID:               f.player.ID,
		MembershipStatus: "MEMBER",
		UpdatedAt:        testNow.UnixMilli(),
	}); err != nil {
		t.Fatalf("grant membership: %v", err)
	}

	notes := "moved by staff"
	updated, err := f.svc.UpdateAsAdmin(ctx, b.ID, UpdateInput{Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalPrice != 3200 {
		t.Fatalf("re-priced: got %s want 32.00", updated.TotalPrice)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Fatalf("notes not saved: %v", updated.Notes)
	}
}

func TestDeleteAsAdminRemovesPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))
	if _, err := f.db.Queries.UpsertPendingPayment(ctx, dbgen.UpsertPendingPaymentParams{
		ID: "pay-1", BookingID: b.ID, UserID: f.player.ID, AmountCents: 3000, CreatedAt: 1, UpdatedAt: 1,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	if err := f.svc.DeleteAsAdmin(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.db.Queries.GetPaymentByBookingID(ctx, b.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("payment should be gone, got %v", err)
	}
	if err := f.svc.DeleteAsAdmin(ctx, b.ID); !errors.Is(err, apperr.ErrBookingNotFound) {
		t.Fatalf("second delete: expected BOOKING_NOT_FOUND, got %v", err)
	}
}

func TestGetVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))

	if _, err := f.svc.Get(ctx, b.ID, Actor{UserID: f.player.ID}); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := f.svc.Get(ctx, b.ID, Actor{UserID: f.admin.ID, IsAdmin: true}); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := f.svc.Get(ctx, b.ID, Actor{UserID: f.other.ID}); !errors.Is(err, apperr.ErrBookingNotFound) {
		t.Fatalf("other user: expected BOOKING_NOT_FOUND, got %v", err)
	}
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	early := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))
	late := f.book(t, f.player.ID, slot(2, 9, 0), slot(2, 10, 0))
	theirs := f.book(t, f.other.ID, slot(1, 12, 0), slot(1, 13, 0))
	if _, err := f.svc.Cancel(ctx, theirs.ID, Actor{UserID: f.other.ID}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	mine, err := f.svc.ListForUser(ctx, f.player.ID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != late.ID || mine[1].ID != early.ID {
		t.Fatalf("list for user: unexpected order or size: %+v", mine)
	}

	all, err := f.svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list all: got %d want 3", len(all))
	}

	active, err := f.svc.ListForCourt(ctx, f.court.ID, nil, nil)
	if err != nil {
		t.Fatalf("list for court: %v", err)
	}
	if len(active) != 2 || active[0].ID != early.ID {
		t.Fatalf("list for court: unexpected result %+v", active)
	}

	from, to := slot(1, 0, 0), slot(1, 23, 59)
	day, err := f.svc.ListForCourt(ctx, f.court.ID, &from, &to)
	if err != nil {
		t.Fatalf("list for court within: %v", err)
	}
	if len(day) != 1 || day[0].ID != early.ID {
		t.Fatalf("list for court within: unexpected result %+v", day)
	}

	if _, err := f.svc.ListForCourt(ctx, "missing", nil, nil); !errors.Is(err, apperr.ErrCourtNotFound) {
		t.Fatalf("unknown court: expected COURT_NOT_FOUND, got %v", err)
	}
}

func TestReleaseStalePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))
	paid := f.book(t, f.other.ID, slot(1, 10, 0), slot(1, 11, 0))
	if _, err := f.db.Queries.UpsertPendingPayment(ctx, dbgen.UpsertPendingPaymentParams{
		ID: "pay-1", BookingID: paid.ID, UserID: f.other.ID, AmountCents: 3000, CreatedAt: 1, UpdatedAt: 1,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if _, err := f.db.Queries.CompletePayment(ctx, dbgen.CompletePaymentParams{BookingID: paid.ID, UpdatedAt: 2}); err != nil {
		t.Fatalf("complete payment: %v", err)
	}

	f.clock.Advance(10 * time.Minute)
	fresh := f.book(t, f.player.ID, slot(1, 12, 0), slot(1, 13, 0))

	f.clock.Advance(25 * time.Minute)
	released, err := f.svc.ReleaseStalePending(ctx, 30*time.Minute)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released != 1 {
		t.Fatalf("released: got %d want 1", released)
	}

	for id, want := range map[string]Status{stale.ID: StatusCancelled, paid.ID: StatusPending, fresh.ID: StatusPending} {
		b, err := Load(ctx, f.db.Queries, id)
		if err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
		if b.Status != want {
			t.Fatalf("booking %s: got %s want %s", id, b.Status, want)
		}
	}
}

func TestStorageRejectsOverlapWithoutServiceCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.book(t, f.player.ID, slot(1, 9, 0), slot(1, 10, 0))

	_, err := f.db.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
		ID:              "raw",
		UserID:          f.other.ID,
		CourtID:         b.CourtID,
		StartTime:       clock.ToMillis(slot(1, 9, 30)),
		EndTime:         clock.ToMillis(slot(1, 10, 30)),
		TotalPriceCents: 3000,
		Status:          string(StatusPending),
		CreatedAt:       1,
		UpdatedAt:       1,
	})
	if err == nil {
		t.Fatalf("expected storage to reject overlapping insert")
	}
	if got := storageError("create booking", err); !errors.Is(got, apperr.ErrBookingConflict) {
		t.Fatalf("expected BOOKING_CONFLICT mapping, got %v", got)
	}
}

func TestConcurrentOverlappingCreatesExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	users := make([]dbgen.User, attempts)
	for i := range users {
		users[i] = testutil.CreateUser(t, f.db, testutil.UserOptions{})
	}

	var succeeded, conflicted atomic.Int32
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		userID := users[i].ID
		// Every range overlaps 10:00-10:30.
		start := slot(1, 9, 30).Add(time.Duration(i) * 5 * time.Minute)
		g.Go(func() error {
			_, err := f.svc.Create(ctx, CreateInput{
				UserID:    userID,
				CourtID:   f.court.ID,
				StartTime: start,
				EndTime:   start.Add(time.Hour),
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, apperr.ErrBookingConflict):
				conflicted.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error from concurrent create: %v", err)
	}

	if succeeded.Load() != 1 {
		t.Fatalf("successful creates: got %d want 1", succeeded.Load())
	}
	if conflicted.Load() != attempts-1 {
		t.Fatalf("conflicts: got %d want %d", conflicted.Load(), attempts-1)
	}

	active, err := f.svc.ListForCourt(ctx, f.court.ID, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("active bookings: got %d want 1", len(active))
	}
}

func TestEndToEndScenario(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	clk := clock.NewMock(testNow)
	svc := NewService(database, clk)
	catalog := courts.NewService(database, clk)

	rate := money.Cents(3000)
	court, err := catalog.Create(ctx, courts.CreateInput{Name: "Center Court", PricePerHour: rate})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}
	alice := testutil.CreateUser(t, database, testutil.UserOptions{Name: "Alice"})
	bob := testutil.CreateUser(t, database, testutil.UserOptions{Name: "Bob"})

	start, _ := time.Parse(time.RFC3339, "2024-06-01T09:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2024-06-01T10:00:00Z")
	b, err := svc.Create(ctx, CreateInput{UserID: alice.ID, CourtID: court.ID, StartTime: start, EndTime: end})
	if err != nil {
		t.Fatalf("alice booking: %v", err)
	}
	if b.Status != StatusPending || b.TotalPrice != 3000 {
		t.Fatalf("alice booking: got %s %s want PENDING 30.00", b.Status, b.TotalPrice)
	}

	if _, err := svc.Create(ctx, CreateInput{
		UserID: bob.ID, CourtID: court.ID, StartTime: start.Add(30 * time.Minute), EndTime: end.Add(30 * time.Minute),
	}); !errors.Is(err, apperr.ErrBookingConflict) {
		t.Fatalf("bob booking: expected BOOKING_CONFLICT, got %v", err)
	}

	if _, err := database.Queries.UpsertPendingPayment(ctx, dbgen.UpsertPendingPaymentParams{
		ID: "pay-alice", BookingID: b.ID, UserID: alice.ID, AmountCents: 3000, CreatedAt: 1, UpdatedAt: 1,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	if err := catalog.Delete(ctx, court.ID); err != nil {
		t.Fatalf("delete court: %v", err)
	}
	if _, err := Load(ctx, database.Queries, b.ID); !errors.Is(err, apperr.ErrBookingNotFound) {
		t.Fatalf("booking should be gone, got %v", err)
	}
	if _, err := database.Queries.GetPaymentByBookingID(ctx, b.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("payment should be gone, got %v", err)
	}
}

type cancelNotice struct {
	bookingID string
	reason    string
}

type recordingNotifier struct {
	notices []cancelNotice
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, bookingID, reason string) {
	n.notices = append(n.notices, cancelNotice{bookingID: bookingID, reason: reason})
}

func TestCancellationNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	f.svc.WithNotifier(notifier)

	own := f.book(t, f.player.ID, slot(2, 9, 0), slot(2, 10, 0))
	byAdmin := f.book(t, f.player.ID, slot(2, 10, 0), slot(2, 11, 0))

	if _, err := f.svc.Cancel(ctx, own.ID, Actor{UserID: f.player.ID}); err != nil {
		t.Fatalf("cancel own: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, byAdmin.ID, Actor{UserID: f.admin.ID, IsAdmin: true}); err != nil {
		t.Fatalf("cancel as admin: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, own.ID, Actor{UserID: f.player.ID}); !errors.Is(err, apperr.ErrAlreadyCancelled) {
		t.Fatalf("expected ALREADY_CANCELLED, got %v", err)
	}

	stale := f.book(t, f.other.ID, slot(3, 9, 0), slot(3, 10, 0))
	f.clock.Advance(time.Hour)
	if _, err := f.svc.ReleaseStalePending(ctx, 30*time.Minute); err != nil {
		t.Fatalf("release: %v", err)
	}

	want := []cancelNotice{
		{bookingID: own.ID, reason: ""},
		{bookingID: byAdmin.ID, reason: "Cancelled by the club"},
		{bookingID: stale.ID, reason: "Payment was not received in time"},
	}
	if len(notifier.notices) != len(want) {
		t.Fatalf("notices: got %v want %v", notifier.notices, want)
	}
	for i := range want {
		if notifier.notices[i] != want[i] {
			t.Fatalf("notice %d: got %+v want %+v", i, notifier.notices[i], want[i])
		}
	}
}
