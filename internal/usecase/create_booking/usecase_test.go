package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/atelier-scheduling/internal/domain"
	appointmentRepo "github.com/m04kA/atelier-scheduling/internal/infra/storage/appointment"
	"github.com/m04kA/atelier-scheduling/pkg/logger"
	"github.com/m04kA/atelier-scheduling/pkg/metrics"
	"github.com/m04kA/atelier-scheduling/pkg/ptr"
	"github.com/m04kA/atelier-scheduling/pkg/slotlock"
	"github.com/m04kA/atelier-scheduling/pkg/types"
)

// monday 16 марта 2026 - понедельник
var monday = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	return types.MustTimeString(hhmm).On(monday, time.UTC)
}

// memoryAppointments хранилище записей в памяти.
// Create повторяет ограничение БД: пересекающаяся активная запись отклоняется с ErrOverlap
type memoryAppointments struct {
	mu        sync.Mutex
	items     []*domain.Appointment
	nextID    int64
	findErr   error
	createErr error
	jitter    bool
}

func (m *memoryAppointments) FindOverlapping(_ context.Context, start, end time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	m.pause()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findErr != nil {
		return nil, m.findErr
	}

	result := make([]*domain.Appointment, 0)
	for _, appt := range m.items {
		if containsStatus(statuses, appt.Status) && appt.Overlaps(start, end) {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (m *memoryAppointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	m.pause()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return nil, m.createErr
	}

	for _, existing := range m.items {
		if existing.IsActive() && existing.Overlaps(appt.DatetimeStart, appt.DatetimeEnd) {
			return nil, fmt.Errorf("%w: Create - execute insert", appointmentRepo.ErrOverlap)
		}
	}

	m.nextID++
	created := *appt
	created.ID = m.nextID
	m.items = append(m.items, &created)
	return &created, nil
}

func (m *memoryAppointments) pause() {
	if m.jitter {
		time.Sleep(time.Duration(rand.Intn(300)) * time.Microsecond)
	}
}

func (m *memoryAppointments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memoryCalendar struct {
	items []*domain.CalendarEvent
	err   error
}

func (c *memoryCalendar) Find(_ context.Context, filter domain.CalendarEventFilter) ([]*domain.CalendarEvent, error) {
	if c.err != nil {
		return nil, c.err
	}

	result := make([]*domain.CalendarEvent, 0)
	for _, event := range c.items {
		if filter.From != nil && event.Start.Before(*filter.From) {
			continue
		}
		if filter.To != nil && event.Start.After(*filter.To) {
			continue
		}
		if filter.OwnerUserID != nil && event.OwnerUserID != *filter.OwnerUserID {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

// passThroughTx выполняет функцию без транзакции; commitErr имитирует ошибку фиксации
type passThroughTx struct {
	commitErr error
}

func (tx *passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return tx.commitErr
}

// trackingLocker считает захваты и освобождения блокировок
type trackingLocker struct {
	inner    Locker
	err      error
	acquired atomic.Int32
	released atomic.Int32
}

func (l *trackingLocker) Acquire(ctx context.Context, key string) (slotlock.Release, error) {
	if l.err != nil {
		return nil, l.err
	}

	release, err := l.inner.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	l.acquired.Add(1)

	return func(ctx context.Context) error {
		l.released.Add(1)
		return release(ctx)
	}, nil
}

// nopLocker не блокирует ничего: атомарность держится только на хранилище
type nopLocker struct{}

func (nopLocker) Acquire(context.Context, string) (slotlock.Release, error) {
	return func(context.Context) error { return nil }, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	booked []int64
	err    error
}

func (n *recordingNotifier) AppointmentBooked(_ context.Context, appt *domain.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, appt.ID)
	return n.err
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *recordingMetrics) ObserveBooking(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) ObserveLockWait(time.Duration) {}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func containsStatus(statuses []domain.AppointmentStatus, s domain.AppointmentStatus) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

func weekdayHours(t *testing.T) domain.BusinessHours {
	t.Helper()

	days := []domain.BusinessDay{{DayOfWeek: time.Sunday, Closed: true}}
	for d := time.Monday; d <= time.Saturday; d++ {
		days = append(days, domain.BusinessDay{
			DayOfWeek: d,
			Open:      types.MustTimeString("10:00"),
			Close:     types.MustTimeString("19:00"),
		})
	}

	hours, err := domain.NewBusinessHours(days)
	require.NoError(t, err)
	return hours
}

type fixture struct {
	uc       *UseCase
	appts    *memoryAppointments
	calendar *memoryCalendar
	tx       *passThroughTx
	locker   *trackingLocker
	notifier *recordingNotifier
	metrics  *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		appts:    &memoryAppointments{},
		calendar: &memoryCalendar{},
		tx:       &passThroughTx{},
		locker:   &trackingLocker{inner: slotlock.NewLocalLocker(slotlock.Options{WaitTimeout: 5 * time.Second})},
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{},
	}

	f.uc = NewUseCase(
		f.appts,
		f.calendar,
		f.tx,
		f.locker,
		f.notifier,
		weekdayHours(t),
		domain.SlotPolicy{DurationMinutes: 30, BufferMinutes: 15},
		time.UTC,
		f.metrics,
		logger.NewNop(),
	)
	f.uc.timeProvider = fixedTime{now: monday.AddDate(0, 0, -1)}

	return f
}

func (f *fixture) seed(start string, minutes int, status domain.AppointmentStatus) {
	f.appts.nextID++
	f.appts.items = append(f.appts.items, &domain.Appointment{
		ID:            f.appts.nextID,
		CustomerName:  "Existing",
		DatetimeStart: at(start),
		DatetimeEnd:   at(start).Add(time.Duration(minutes) * time.Minute),
		Status:        status,
	})
}

func bookingRequest(start string) *Request {
	return &Request{
		CustomerName:    "Client",
		CustomerPhone:   ptr.Ptr("+79990000000"),
		Start:           at(start),
		DurationMinutes: 30,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), bookingRequest("10:45"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, at("10:45"), resp.DatetimeStart)
	assert.Equal(t, at("11:15"), resp.DatetimeEnd)
	assert.Equal(t, []int64{1}, f.notifier.booked)
	assert.Equal(t, []string{metrics.BookingCreated}, f.metrics.outcomes)
	assert.Equal(t, int32(1), f.locker.acquired.Load())
	assert.Equal(t, int32(1), f.locker.released.Load())
}

func TestExecute_DefaultDuration(t *testing.T) {
	f := newFixture(t)

	req := bookingRequest("12:15")
	req.DurationMinutes = 0

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, resp.DatetimeEnd.Sub(resp.DatetimeStart))
}

func TestExecute_PartialOverlapConflicts(t *testing.T) {
	tests := []struct {
		name  string
		start string
	}{
		{name: "starts inside existing", start: "10:15"},
		{name: "ends inside existing", start: "09:45"},
		{name: "exact match", start: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed("10:00", 30, domain.StatusConfirmed)
			f.uc.hours = mustAlwaysOpen(t)

			_, err := f.uc.Execute(context.Background(), bookingRequest(tt.start))
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.Equal(t, 1, f.appts.count())
			assert.Empty(t, f.notifier.booked)
			assert.Equal(t, []string{metrics.BookingConflict}, f.metrics.outcomes)
			assert.Equal(t, int32(1), f.locker.released.Load())
		})
	}
}

func TestExecute_AdjacentIntervalsDoNotConflict(t *testing.T) {
	f := newFixture(t)
	f.seed("10:00", 30, domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), bookingRequest("10:30"))
	require.NoError(t, err)
	assert.Equal(t, 2, f.appts.count())
}

func TestExecute_InactiveAppointmentsDoNotBlock(t *testing.T) {
	for _, status := range domain.InactiveStatuses {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			f.seed("10:00", 30, status)

			ok, err := f.uc.Reserve(context.Background(), at("10:00"), 30)
			require.NoError(t, err)
			assert.True(t, ok)

			_, err = f.uc.Execute(context.Background(), bookingRequest("10:00"))
			require.NoError(t, err)
		})
	}
}

func TestExecute_CalendarBlock(t *testing.T) {
	block := &domain.CalendarEvent{
		ID:          9,
		OwnerUserID: 7,
		Title:       "Private fitting",
		Start:       at("13:00"),
		End:         at("14:00"),
		Type:        domain.EventTypeBlocked,
	}

	t.Run("overlapping block rejects booking", func(t *testing.T) {
		f := newFixture(t)
		f.calendar.items = []*domain.CalendarEvent{block}

		req := bookingRequest("13:45")
		req.AssignedUserID = ptr.Ptr(int64(7))

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("block of another staff member is ignored", func(t *testing.T) {
		f := newFixture(t)
		f.calendar.items = []*domain.CalendarEvent{block}

		req := bookingRequest("13:45")
		req.AssignedUserID = ptr.Ptr(int64(8))

		_, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("personal event does not block", func(t *testing.T) {
		f := newFixture(t)
		personal := *block
		personal.Type = domain.EventTypePersonal
		f.calendar.items = []*domain.CalendarEvent{&personal}

		_, err := f.uc.Execute(context.Background(), bookingRequest("13:15"))
		require.NoError(t, err)
	})
}

func TestExecute_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
		err    error
	}{
		{name: "empty customer name", mutate: func(req *Request) { req.CustomerName = "  " }, err: ErrInvalidInput},
		{name: "zero start", mutate: func(req *Request) { req.Start = time.Time{} }, err: ErrInvalidInput},
		{name: "negative duration", mutate: func(req *Request) { req.DurationMinutes = -30 }, err: ErrInvalidInput},
		{name: "non-positive staff", mutate: func(req *Request) { req.AssignedUserID = ptr.Ptr(int64(0)) }, err: ErrInvalidInput},
		{name: "in the past", mutate: func(req *Request) { req.Start = monday.AddDate(0, 0, -2).Add(11 * time.Hour) }, err: ErrStartInPast},
		{name: "closed day", mutate: func(req *Request) { req.Start = at("11:00").AddDate(0, 0, 6) }, err: ErrOutsideBusinessHours},
		{name: "before opening", mutate: func(req *Request) { req.Start = at("09:30") }, err: ErrOutsideBusinessHours},
		{name: "ends after closing", mutate: func(req *Request) { req.Start = at("18:45") }, err: ErrOutsideBusinessHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := bookingRequest("11:30")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.err)
			assert.Zero(t, f.locker.acquired.Load(), "rejected before locking")
			assert.Equal(t, []string{metrics.BookingRejected}, f.metrics.outcomes)
		})
	}
}

func TestExecute_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.appts.findErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), bookingRequest("10:00"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, []string{metrics.BookingError}, f.metrics.outcomes)
	assert.Equal(t, int32(1), f.locker.released.Load())
	assert.Empty(t, f.notifier.booked)
}

func TestExecute_CalendarFailure(t *testing.T) {
	f := newFixture(t)
	f.calendar.err = errors.New("timeout")

	_, err := f.uc.Execute(context.Background(), bookingRequest("10:00"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Zero(t, f.appts.count())
}

func TestExecute_SerializationFailure(t *testing.T) {
	t.Run("on insert", func(t *testing.T) {
		f := newFixture(t)
		f.appts.createErr = fmt.Errorf("%w: Create - execute insert", appointmentRepo.ErrSerialization)

		_, err := f.uc.Execute(context.Background(), bookingRequest("10:00"))
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.Equal(t, int32(1), f.locker.released.Load())
	})

	t.Run("on commit", func(t *testing.T) {
		f := newFixture(t)
		f.tx.commitErr = fmt.Errorf("commit transaction: %w", &pq.Error{Code: "40001"})

		_, err := f.uc.Execute(context.Background(), bookingRequest("10:00"))
		assert.ErrorIs(t, err, ErrConcurrentModification)
		assert.Empty(t, f.notifier.booked)
	})
}

func TestExecute_ExclusionConstraintBackstop(t *testing.T) {
	f := newFixture(t)
	f.appts.createErr = fmt.Errorf("%w: Create - execute insert", appointmentRepo.ErrOverlap)

	_, err := f.uc.Execute(context.Background(), bookingRequest("10:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_LockTimeout(t *testing.T) {
	f := newFixture(t)
	f.locker.err = fmt.Errorf("%w: key=appointments:2026-03-16", slotlock.ErrLockTimeout)
	f.appts.findErr = errors.New("must not be called")

	_, err := f.uc.Execute(context.Background(), bookingRequest("10:00"))
	assert.ErrorIs(t, err, ErrSlotBusy)
	assert.Equal(t, []string{metrics.BookingConflict}, f.metrics.outcomes)
}

func TestExecute_NotifierFailureKeepsBooking(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("broker down")

	resp, err := f.uc.Execute(context.Background(), bookingRequest("10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 1, f.appts.count())
}

func TestReserve(t *testing.T) {
	f := newFixture(t)
	f.seed("10:00", 30, domain.StatusConfirmed)

	tests := []struct {
		name  string
		start string
		want  bool
	}{
		{name: "partial overlap", start: "10:15", want: false},
		{name: "exact", start: "10:00", want: false},
		{name: "adjacent after", start: "10:30", want: true},
		{name: "adjacent before", start: "09:30", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.uc.Reserve(context.Background(), at(tt.start), 30)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	assert.Equal(t, 1, f.appts.count(), "reserve never writes")
}

func TestReserve_DoesNotHoldTime(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		ok, err := f.uc.Reserve(context.Background(), at("10:00"), 30)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 0, f.appts.count())

	_, err := f.uc.Execute(context.Background(), bookingRequest("10:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), bookingRequest("10:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	ok, err := f.uc.Reserve(context.Background(), at("10:00"), 30)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReserve_InvalidInput(t *testing.T) {
	f := newFixture(t)
	f.appts.findErr = errors.New("must not be called")

	_, err := f.uc.Reserve(context.Background(), at("10:00"), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Reserve(context.Background(), time.Time{}, 30)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReserve_StoreFailureIsNotAvailability(t *testing.T) {
	f := newFixture(t)
	f.appts.findErr = errors.New("connection refused")

	ok, err := f.uc.Reserve(context.Background(), at("10:00"), 30)
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, ok)
}

func TestExecute_ConcurrentSameWindow(t *testing.T) {
	lockers := map[string]func() Locker{
		"day lock": func() Locker {
			return slotlock.NewLocalLocker(slotlock.Options{WaitTimeout: 10 * time.Second})
		},
		"storage constraint only": func() Locker { return nopLocker{} },
	}

	const (
		trials   = 20
		requests = 16
	)

	for name, newLocker := range lockers {
		t.Run(name, func(t *testing.T) {
			for trial := 0; trial < trials; trial++ {
				f := newFixture(t)
				f.appts.jitter = true
				f.uc.locker = newLocker()

				var (
					wg        sync.WaitGroup
					succeeded atomic.Int32
					conflicts atomic.Int32
				)

				startSignal := make(chan struct{})
				for i := 0; i < requests; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						<-startSignal

						_, err := f.uc.Execute(context.Background(), bookingRequest("14:30"))
						switch {
						case err == nil:
							succeeded.Add(1)
						case errors.Is(err, ErrSlotNotAvailable):
							conflicts.Add(1)
						default:
							t.Errorf("unexpected error: %v", err)
						}
					}()
				}

				close(startSignal)
				wg.Wait()

				require.Equal(t, int32(1), succeeded.Load(), "trial %d", trial)
				require.Equal(t, int32(requests-1), conflicts.Load(), "trial %d", trial)
				require.Equal(t, 1, f.appts.count(), "trial %d", trial)
			}
		})
	}
}

func mustAlwaysOpen(t *testing.T) domain.BusinessHours {
	t.Helper()

	days := make([]domain.BusinessDay, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days = append(days, domain.BusinessDay{
			DayOfWeek: d,
			Open:      types.MustTimeString("00:00"),
			Close:     types.MustTimeString("23:59"),
		})
	}

	hours, err := domain.NewBusinessHours(days)
	require.NoError(t, err)
	return hours
}
