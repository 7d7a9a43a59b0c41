package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	bookingRepo "coursebook/database/repository/booking"
	sessionRepo "coursebook/database/repository/session"
	"coursebook/models"
)

type fakeSessionRepo struct {
	sessions map[string]*models.Session
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*models.Session, error) {
	return f.sessions[id], nil
}

func (f *fakeSessionRepo) ListByProgram(_ context.Context, programID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range f.sessions {
		if s.ProgramID == programID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Create(_ context.Context, s *models.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) AcquireSeat(_ context.Context, id string) error {
	s, ok := f.sessions[id]
	if !ok {
		return sessionRepo.ErrSessionNotFound
	}
	if s.CurrentCapacity >= s.MaxCapacity {
		return sessionRepo.ErrSessionFull
	}
	s.CurrentCapacity++
	return nil
}

func (f *fakeSessionRepo) ReleaseSeat(_ context.Context, id string) error {
	s, ok := f.sessions[id]
	if !ok {
		return nil
	}
	if s.CurrentCapacity > 0 {
		s.CurrentCapacity--
	}
	return nil
}

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
	sessions *fakeSessionRepo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByPaymentIntent(_ context.Context, piID string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.PaymentIntentID == piID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id, newStatus string, expected ...string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrNoTransition
	}
	for _, exp := range expected {
		if b.Status == exp {
			b.Status = newStatus
			return nil
		}
	}
	return bookingRepo.ErrNoTransition
}

func (f *fakeBookingRepo) HasActiveBooking(_ context.Context, userID, programID string) (bool, error) {
	for _, b := range f.bookings {
		if b.UserID == userID && b.ProgramID == programID && b.OccupiesSeat() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) CancelWithRelease(ctx context.Context, bookingID, sessionID string) error {
	b, ok := f.bookings[bookingID]
	if !ok || b.IsTerminal() {
		return bookingRepo.ErrNoTransition
	}
	released := b.OccupiesSeat()
	b.Status = models.BookingStatusCancelled
	if sessionID != "" && released {
		return f.sessions.ReleaseSeat(ctx, sessionID)
	}
	return nil
}

type fakeProgramRepo struct {
	programs map[string]*models.Program
}

func (f *fakeProgramRepo) GetByID(_ context.Context, id string) (*models.Program, error) {
	return f.programs[id], nil
}

func (f *fakeProgramRepo) GetAll(_ context.Context) ([]models.Program, error) { return nil, nil }

func (f *fakeProgramRepo) Create(_ context.Context, p *models.Program) error {
	f.programs[p.ID] = p
	return nil
}

func (f *fakeProgramRepo) UpdateFields(_ context.Context, id string, _ bson.M) (*models.Program, error) {
	return f.programs[id], nil
}

func (f *fakeProgramRepo) Delete(_ context.Context, id string) error {
	delete(f.programs, id)
	return nil
}

type fakePayments struct {
	lastAmount   int64
	lastCurrency string
	lastMetadata map[string]string
	err          error
}

func (f *fakePayments) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.lastAmount = amount
	f.lastCurrency = currency
	f.lastMetadata = metadata
	return "pi_test", "pi_test_secret", nil
}

type fakeTaskQueue struct {
	notifications []models.NotificationPayload
	reminders     []models.ReminderPayload
	enqueueErr    error
}

func (f *fakeTaskQueue) EnqueueNotification(_ context.Context, p models.NotificationPayload) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.notifications = append(f.notifications, p)
	return nil
}

func (f *fakeTaskQueue) ScheduleReminder(_ context.Context, p models.ReminderPayload, _ time.Time) error {
	f.reminders = append(f.reminders, p)
	return nil
}

func newTestService() (*DefaultBookingService, *fakeBookingRepo, *fakeSessionRepo, *fakeProgramRepo, *fakePayments, *fakeTaskQueue) {
	sessions := &fakeSessionRepo{sessions: map[string]*models.Session{}}
	bookings := &fakeBookingRepo{bookings: map[string]*models.Booking{}, sessions: sessions}
	programs := &fakeProgramRepo{programs: map[string]*models.Program{}}
	payments := &fakePayments{}
	queue := &fakeTaskQueue{}
	svc := &DefaultBookingService{
		Repo:        bookings,
		SessionRepo: sessions,
		ProgramRepo: programs,
		Payments:    payments,
		Tasks:       queue,
	}
	return svc, bookings, sessions, programs, payments, queue
}

func TestCancelReleasesSeat(t *testing.T) {
	svc, bookings, sessions, _, _, queue := newTestService()
	sessions.sessions["s1"] = &models.Session{ID: "s1", ProgramID: "p1", CurrentCapacity: 3, MaxCapacity: 10}
	bookings.bookings["42"] = &models.Booking{
		ID: "42", UserID: "u1", ProgramID: "p1", SessionID: "s1",
		Status: models.BookingStatusConfirmed,
	}

	warning, err := svc.Cancel(context.Background(), "42", models.AuthUser{ID: "u1"})
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %q", warning)
	}
	if got := bookings.bookings["42"].Status; got != models.BookingStatusCancelled {
		t.Errorf("status = %q, want %q", got, models.BookingStatusCancelled)
	}
	if got := sessions.sessions["s1"].CurrentCapacity; got != 2 {
		t.Errorf("capacity = %d, want 2", got)
	}
	if len(queue.notifications) != 1 {
		t.Errorf("notifications enqueued = %d, want 1", len(queue.notifications))
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	svc, bookings, sessions, _, _, _ := newTestService()
	sessions.sessions["s1"] = &models.Session{ID: "s1", ProgramID: "p1", CurrentCapacity: 3, MaxCapacity: 10}
	bookings.bookings["42"] = &models.Booking{
		ID: "42", UserID: "u1", ProgramID: "p1", SessionID: "s1",
		Status: models.BookingStatusCancelled,
	}

	_, err := svc.Cancel(context.Background(), "42", models.AuthUser{ID: "u1"})
	var sc *StateConflictError
	if !errors.As(err, &sc) {
		t.Fatalf("Cancel returned %v, want StateConflictError", err)
	}
	if sc.Status != models.BookingStatusCancelled {
		t.Errorf("conflict status = %q, want %q", sc.Status, models.BookingStatusCancelled)
	}
	if got := sessions.sessions["s1"].CurrentCapacity; got != 3 {
		t.Errorf("capacity = %d, want 3 (unchanged)", got)
	}
}

func TestCancelCompletedDoesNotTouchCapacity(t *testing.T) {
	svc, bookings, sessions, _, _, _ := newTestService()
	sessions.sessions["s1"] = &models.Session{ID: "s1", ProgramID: "p1", CurrentCapacity: 5, MaxCapacity: 10}
	bookings.bookings["b1"] = &models.Booking{
		ID: "b1", UserID: "u1", ProgramID: "p1", SessionID: "s1",
		Status: models.BookingStatusCompleted,
	}

	_, err := svc.Cancel(context.Background(), "b1", models.AuthUser{ID: "u1"})
	if !IsStateConflict(err) {
		t.Fatalf("Cancel returned %v, want state conflict", err)
	}
	if got := sessions.sessions["s1"].CurrentCapacity; got != 5 {
		t.Errorf("capacity = %d, want 5 (unchanged)", got)
	}
}

func TestCancelChecksOwnershipBeforeStatus(t *testing.T) {
	svc, bookings, _, _, _, _ := newTestService()
	bookings.bookings["b1"] = &models.Booking{
		ID: "b1", UserID: "u1", ProgramID: "p1",
		Status: models.BookingStatusCancelled,
	}

	// A foreign requester gets the ownership error even on a terminal
	// booking: existence, then ownership, then status.
	_, err := svc.Cancel(context.Background(), "b1", models.AuthUser{ID: "intruder"})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Cancel returned %v, want ErrNotOwner", err)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.Cancel(context.Background(), "missing", models.AuthUser{ID: "u1"})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("Cancel returned %v, want ErrBookingNotFound", err)
	}
}

func TestCancelSurvivesNotificationFailure(t *testing.T) {
	svc, bookings, _, _, _, queue := newTestService()
	queue.enqueueErr = errors.New("redis down")
	bookings.bookings["b1"] = &models.Booking{
		ID: "b1", UserID: "u1", ProgramID: "p1",
		Status: models.BookingStatusPending,
	}

	warning, err := svc.Cancel(context.Background(), "b1", models.AuthUser{ID: "u1"})
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if warning == "" {
		t.Error("expected a warning when the notification enqueue fails")
	}
	if got := bookings.bookings["b1"].Status; got != models.BookingStatusCancelled {
		t.Errorf("status = %q, want %q", got, models.BookingStatusCancelled)
	}
}

func TestConfirmByPaymentIntent(t *testing.T) {
	svc, bookings, sessions, _, _, queue := newTestService()
	sessions.sessions["s1"] = &models.Session{
		ID: "s1", ProgramID: "p1", CurrentCapacity: 0, MaxCapacity: 2,
		StartTime: time.Now().Add(72 * time.Hour),
	}
	bookings.bookings["b1"] = &models.Booking{
		ID: "b1", UserID: "u1", ProgramID: "p1", SessionID: "s1",
		Status: models.BookingStatusPending, PaymentIntentID: "pi_1",
	}

	if err := svc.ConfirmByPaymentIntent(context.Background(), "pi_1"); err != nil {
		t.Fatalf("ConfirmByPaymentIntent returned error: %v", err)
	}
	if got := bookings.bookings["b1"].Status; got != models.BookingStatusConfirmed {
		t.Errorf("status = %q, want %q", got, models.BookingStatusConfirmed)
	}
	if got := sessions.sessions["s1"].CurrentCapacity; got != 1 {
		t.Errorf("capacity = %d, want 1", got)
	}
	if len(queue.notifications) != 1 {
		t.Errorf("notifications enqueued = %d, want 1", len(queue.notifications))
	}
	if len(queue.reminders) != 1 {
		t.Errorf("reminders scheduled = %d, want 1", len(queue.reminders))
	}
}

func TestConfirmReplayKeepsCapacity(t *testing.T) {
	svc, bookings, sessions, _, _, _ := newTestService()
	sessions.sessions["s1"] = &models.Session{ID: "s1", ProgramID: "p1", CurrentCapacity: 1, MaxCapacity: 2}
	bookings.bookings["b1"] = &models.Booking{
		ID: "b1", UserID: "u1", ProgramID: "p1", SessionID: "s1",
		Status: models.BookingStatusConfirmed, PaymentIntentID: "pi_1",
	}

	// A webhook replay finds the booking already Confirmed. The seat taken
	// for the retry must be handed back.
	err := svc.ConfirmByPaymentIntent(context.Background(), "pi_1")
	if !IsStateConflict(err) {
		t.Fatalf("ConfirmByPaymentIntent returned %v, want state conflict", err)
	}
	if got := sessions.sessions["s1"].CurrentCapacity; got != 1 {
		t.Errorf("capacity = %d, want 1 (unchanged)", got)
	}
}

func TestConfirmFullSession(t *testing.T) {
	svc, bookings, sessions, _, _, _ := newTestService()
	sessions.sessions["s1"] = &models.Session{ID: "s1", ProgramID: "p1", CurrentCapacity: 2, MaxCapacity: 2}
	bookings.bookings["b1"] = &models.Booking{
		ID: "b1", UserID: "u1", ProgramID: "p1", SessionID: "s1",
		Status: models.BookingStatusPending, PaymentIntentID: "pi_1",
	}

	err := svc.ConfirmByPaymentIntent(context.Background(), "pi_1")
	if !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("ConfirmByPaymentIntent returned %v, want ErrSeatUnavailable", err)
	}
	if got := bookings.bookings["b1"].Status; got != models.BookingStatusPending {
		t.Errorf("status = %q, want %q", got, models.BookingStatusPending)
	}
	if got := sessions.sessions["s1"].CurrentCapacity; got != 2 {
		t.Errorf("capacity = %d, want 2 (unchanged)", got)
	}
}

func TestConfirmMissingSessionIsNotSeatUnavailable(t *testing.T) {
	svc, bookings, _, _, _, _ := newTestService()
	bookings.bookings["b1"] = &models.Booking{
		ID: "b1", UserID: "u1", ProgramID: "p1", SessionID: "ghost",
		Status: models.BookingStatusPending, PaymentIntentID: "pi_1",
	}

	// A dangling session reference is an integrity fault, not a capacity
	// outcome; it must stay retryable.
	err := svc.ConfirmByPaymentIntent(context.Background(), "pi_1")
	if err == nil {
		t.Fatal("expected an error for a missing session")
	}
	if errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("ConfirmByPaymentIntent returned %v, want a plain error", err)
	}
	if !errors.Is(err, sessionRepo.ErrSessionNotFound) {
		t.Fatalf("ConfirmByPaymentIntent returned %v, want it to wrap ErrSessionNotFound", err)
	}
}

func TestCheckoutCreatesPendingBooking(t *testing.T) {
	svc, bookings, sessions, programs, payments, _ := newTestService()
	programs.programs["p1"] = &models.Program{ID: "p1", Title: "Go Basics", Price: 49.99}
	sessions.sessions["s1"] = &models.Session{ID: "s1", ProgramID: "p1", MaxCapacity: 10}

	res, err := svc.Checkout(context.Background(), models.AuthUser{ID: "u1"}, models.CheckoutRequest{
		ProgramID: "p1", SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if res.ClientSecret != "pi_test_secret" {
		t.Errorf("clientSecret = %q, want %q", res.ClientSecret, "pi_test_secret")
	}
	if payments.lastAmount != 4999 {
		t.Errorf("amount = %d, want 4999", payments.lastAmount)
	}
	stored := bookings.bookings[res.Booking.ID]
	if stored == nil {
		t.Fatal("booking was not persisted")
	}
	if stored.Status != models.BookingStatusPending {
		t.Errorf("status = %q, want %q", stored.Status, models.BookingStatusPending)
	}
	if payments.lastMetadata["booking_id"] != stored.ID {
		t.Errorf("payment metadata booking_id = %q, want %q", payments.lastMetadata["booking_id"], stored.ID)
	}
	// Capacity moves at confirmation time, not at checkout.
	if got := sessions.sessions["s1"].CurrentCapacity; got != 0 {
		t.Errorf("capacity = %d, want 0", got)
	}
}

func TestCheckoutUnknownProgram(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.Checkout(context.Background(), models.AuthUser{ID: "u1"}, models.CheckoutRequest{ProgramID: "nope"})
	if !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("Checkout returned %v, want ErrProgramNotFound", err)
	}
}

func TestCheckoutSessionFromOtherProgram(t *testing.T) {
	svc, _, sessions, programs, _, _ := newTestService()
	programs.programs["p1"] = &models.Program{ID: "p1", Price: 10}
	sessions.sessions["s9"] = &models.Session{ID: "s9", ProgramID: "p9", MaxCapacity: 5}

	_, err := svc.Checkout(context.Background(), models.AuthUser{ID: "u1"}, models.CheckoutRequest{
		ProgramID: "p1", SessionID: "s9",
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Checkout returned %v, want ErrSessionNotFound", err)
	}
}

func TestComplete(t *testing.T) {
	svc, bookings, _, _, _, _ := newTestService()
	bookings.bookings["b1"] = &models.Booking{ID: "b1", UserID: "u1", Status: models.BookingStatusConfirmed}
	bookings.bookings["b2"] = &models.Booking{ID: "b2", UserID: "u1", Status: models.BookingStatusPending}

	if err := svc.Complete(context.Background(), "b1"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if got := bookings.bookings["b1"].Status; got != models.BookingStatusCompleted {
		t.Errorf("status = %q, want %q", got, models.BookingStatusCompleted)
	}

	if err := svc.Complete(context.Background(), "b2"); !IsStateConflict(err) {
		t.Errorf("Complete on a pending booking returned %v, want state conflict", err)
	}
}

func TestGetByIDVisibility(t *testing.T) {
	svc, bookings, _, _, _, _ := newTestService()
	bookings.bookings["b1"] = &models.Booking{ID: "b1", UserID: "u1", Status: models.BookingStatusPending}

	if _, err := svc.GetByID(context.Background(), "b1", models.AuthUser{ID: "u1"}); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "b1", models.AuthUser{ID: "staff", Role: "admin"}); err != nil {
		t.Errorf("admin lookup failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "b1", models.AuthUser{ID: "other"}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("foreign lookup returned %v, want ErrNotOwner", err)
	}
}
