package services

import (
	"errors"
	"testing"
	"time"

	"builder-market/models"

	"github.com/google/uuid"
)

var (
	testBuilderID     = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testSessionTypeID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	otherBuilderID    = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

// testNow is well before the test dates so notice/horizon filters stay out of
// the way unless a test configures them.
var testNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func utcSettings() models.SchedulingSettings {
	return models.SchedulingSettings{
		BuilderID:      testBuilderID,
		Timezone:       "UTC",
		MaxAdvanceDays: 90,
	}
}

func sessionType(minutes int) models.SessionType {
	return models.SessionType{
		ID:              testSessionTypeID,
		BuilderID:       testBuilderID,
		Name:            "Consultation",
		DurationMinutes: minutes,
		IsActive:        true,
	}
}

func mondayRule(start, end string) models.AvailabilityRule {
	return models.AvailabilityRule{
		ID:        uuid.New(),
		BuilderID: testBuilderID,
		DayOfWeek: 1,
		StartTime: start,
		EndTime:   end,
	}
}

// 2026-08-31 is a Monday.
const testMonday = "2026-08-31"

func mondayAt(h, m int) time.Time {
	return time.Date(2026, 8, 31, h, m, 0, 0, time.UTC)
}

func generate(t *testing.T, rules []models.AvailabilityRule, exceptions []models.AvailabilityException, bookings []models.Booking) []models.TimeSlot {
	t.Helper()
	slots, err := GenerateSlots(testBuilderID,
		DateRange{From: testMonday, To: testMonday},
		sessionType(60), utcSettings(), rules, exceptions, bookings, testNow)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	return slots
}

func TestGenerateSlotsWeeklyRule(t *testing.T) {
	slots := generate(t, []models.AvailabilityRule{mondayRule("09:00", "12:00")}, nil, nil)

	want := []time.Time{mondayAt(9, 0), mondayAt(10, 0), mondayAt(11, 0)}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d: %+v", len(want), len(slots), slots)
	}
	for i, s := range slots {
		if !s.StartUTC.Equal(want[i]) {
			t.Errorf("slot %d starts at %v, want %v", i, s.StartUTC, want[i])
		}
		if s.EndUTC.Sub(s.StartUTC) != time.Hour {
			t.Errorf("slot %d has duration %v, want 1h", i, s.EndUTC.Sub(s.StartUTC))
		}
		if s.BuilderID != testBuilderID || s.SessionTypeID != testSessionTypeID {
			t.Errorf("slot %d carries wrong identifiers: %+v", i, s)
		}
	}
}

func TestGenerateSlotsBlockedException(t *testing.T) {
	exceptions := []models.AvailabilityException{{
		ID:          uuid.New(),
		BuilderID:   testBuilderID,
		Date:        testMonday,
		IsAvailable: false,
	}}

	slots := generate(t, []models.AvailabilityRule{mondayRule("09:00", "12:00")}, exceptions, nil)
	if len(slots) != 0 {
		t.Fatalf("blocked exception must win over rules, got %d slots", len(slots))
	}
}

func TestGenerateSlotsOverrideException(t *testing.T) {
	start, end := "14:00", "16:00"
	exceptions := []models.AvailabilityException{{
		ID:          uuid.New(),
		BuilderID:   testBuilderID,
		Date:        testMonday,
		IsAvailable: true,
		StartTime:   &start,
		EndTime:     &end,
	}}

	slots := generate(t, []models.AvailabilityRule{mondayRule("09:00", "12:00")}, exceptions, nil)
	if len(slots) != 2 {
		t.Fatalf("expected override window to replace rules, got %d slots", len(slots))
	}
	if !slots[0].StartUTC.Equal(mondayAt(14, 0)) || !slots[1].StartUTC.Equal(mondayAt(15, 0)) {
		t.Errorf("override slots wrong: %+v", slots)
	}
}

func TestGenerateSlotsExistingBookingCarvesOut(t *testing.T) {
	bookings := []models.Booking{{
		BuilderID: testBuilderID,
		StartUTC:  mondayAt(10, 0),
		EndUTC:    mondayAt(11, 0),
		Status:    models.BookingStatusConfirmed,
	}}

	slots := generate(t, []models.AvailabilityRule{mondayRule("09:00", "12:00")}, nil, bookings)
	if len(slots) != 2 {
		t.Fatalf("expected 2 remaining slots, got %d", len(slots))
	}
	if !slots[0].StartUTC.Equal(mondayAt(9, 0)) || !slots[1].StartUTC.Equal(mondayAt(11, 0)) {
		t.Errorf("wrong surviving slots: %+v", slots)
	}
}

func TestGenerateSlotsCancelledBookingIgnored(t *testing.T) {
	bookings := []models.Booking{{
		BuilderID: testBuilderID,
		StartUTC:  mondayAt(10, 0),
		EndUTC:    mondayAt(11, 0),
		Status:    models.BookingStatusCancelled,
	}}

	slots := generate(t, []models.AvailabilityRule{mondayRule("09:00", "12:00")}, nil, bookings)
	if len(slots) != 3 {
		t.Fatalf("cancelled booking must not block slots, got %d", len(slots))
	}
}

func TestGenerateSlotsTrailingPartialDropped(t *testing.T) {
	slots, err := GenerateSlots(testBuilderID,
		DateRange{From: testMonday, To: testMonday},
		sessionType(30), utcSettings(),
		[]models.AvailabilityRule{mondayRule("09:00", "09:50")}, nil, nil, testNow)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}

	if len(slots) != 1 {
		t.Fatalf("expected exactly 1 slot from a 50-minute window, got %d", len(slots))
	}
	if !slots[0].StartUTC.Equal(mondayAt(9, 0)) || !slots[0].EndUTC.Equal(mondayAt(9, 30)) {
		t.Errorf("wrong slot: %+v", slots[0])
	}
}

func TestGenerateSlotsWindowShorterThanDuration(t *testing.T) {
	slots := generate(t, []models.AvailabilityRule{mondayRule("09:00", "09:45")}, nil, nil)
	if len(slots) != 0 {
		t.Fatalf("window shorter than duration must yield nothing, got %d", len(slots))
	}
}

func TestGenerateSlotsNoRuleForWeekday(t *testing.T) {
	// Only a Tuesday rule, generating for Monday.
	rule := mondayRule("09:00", "12:00")
	rule.DayOfWeek = 2

	slots := generate(t, []models.AvailabilityRule{rule}, nil, nil)
	if len(slots) != 0 {
		t.Fatalf("no rule for the weekday must yield no slots, got %d", len(slots))
	}
}

func TestGenerateSlotsOverlappingRulesDeduplicated(t *testing.T) {
	rules := []models.AvailabilityRule{
		mondayRule("09:00", "12:00"),
		mondayRule("09:00", "11:00"),
	}

	slots := generate(t, rules, nil, nil)
	if len(slots) != 3 {
		t.Fatalf("identical candidates must be deduplicated, got %d slots", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].StartUTC.Before(slots[i].StartUTC) {
			t.Errorf("slots not strictly ordered: %v then %v", slots[i-1].StartUTC, slots[i].StartUTC)
		}
	}
}

func TestGenerateSlotsNoPairOverlaps(t *testing.T) {
	rules := []models.AvailabilityRule{
		mondayRule("09:00", "12:00"),
		mondayRule("10:00", "13:00"),
	}

	slots := generate(t, rules, nil, nil)
	for i := range slots {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if a.StartUTC.Before(b.EndUTC) && b.StartUTC.Before(a.EndUTC) {
				t.Errorf("returned slots overlap: %+v and %+v", a, b)
			}
		}
	}
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	rules := []models.AvailabilityRule{mondayRule("09:00", "12:00")}

	first := generate(t, rules, nil, nil)
	second := generate(t, rules, nil, nil)

	if len(first) != len(second) {
		t.Fatalf("idempotence violated: %d vs %d slots", len(first), len(second))
	}
	for i := range first {
		if !first[i].StartUTC.Equal(second[i].StartUTC) || !first[i].EndUTC.Equal(second[i].EndUTC) {
			t.Errorf("slot %d differs between runs", i)
		}
	}
}

func TestGenerateSlotsMinimumNotice(t *testing.T) {
	settings := utcSettings()
	settings.MinNoticeMinutes = 24 * 60

	// now is Monday 09:30; with 24h notice every slot that day is too soon.
	now := mondayAt(9, 30)
	slots, err := GenerateSlots(testBuilderID,
		DateRange{From: testMonday, To: testMonday},
		sessionType(60), settings,
		[]models.AvailabilityRule{mondayRule("09:00", "12:00")}, nil, nil, now)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("minimum notice must filter same-day slots, got %d", len(slots))
	}
}

func TestGenerateSlotsAdvanceHorizon(t *testing.T) {
	settings := utcSettings()
	settings.MaxAdvanceDays = 3

	// The Monday is 7 days past now, beyond the 3-day horizon.
	slots, err := GenerateSlots(testBuilderID,
		DateRange{From: testMonday, To: testMonday},
		sessionType(60), settings,
		[]models.AvailabilityRule{mondayRule("09:00", "12:00")}, nil, nil, testNow)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("advance horizon must filter far-future slots, got %d", len(slots))
	}
}

func TestGenerateSlotsDSTSpringForward(t *testing.T) {
	settings := utcSettings()
	settings.Timezone = "America/New_York"

	// 2026-03-08 is a Sunday: clocks jump from 02:00 EST to 03:00 EDT.
	rule := models.AvailabilityRule{
		ID:        uuid.New(),
		BuilderID: testBuilderID,
		DayOfWeek: 0,
		StartTime: "01:00",
		EndTime:   "04:00",
	}

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slots, err := GenerateSlots(testBuilderID,
		DateRange{From: "2026-03-08", To: "2026-03-08"},
		sessionType(60), settings, []models.AvailabilityRule{rule}, nil, nil, now)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}

	// 01:00-02:00 EST and 03:00-04:00 EDT survive; the 02:00-03:00 wall-clock
	// candidate does not exist and is dropped.
	want := []time.Time{
		time.Date(2026, 3, 8, 6, 0, 0, 0, time.UTC), // 01:00 EST (UTC-5)
		time.Date(2026, 3, 8, 7, 0, 0, 0, time.UTC), // 03:00 EDT (UTC-4)
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots across the DST gap, got %d: %+v", len(want), len(slots), slots)
	}
	for i, s := range slots {
		if !s.StartUTC.Equal(want[i]) {
			t.Errorf("slot %d starts at %v, want %v", i, s.StartUTC, want[i])
		}
		if s.EndUTC.Sub(s.StartUTC) != time.Hour {
			t.Errorf("slot %d has UTC duration %v, want 1h", i, s.EndUTC.Sub(s.StartUTC))
		}
	}
}

func TestGenerateSlotsMultiDayOrdering(t *testing.T) {
	rules := []models.AvailabilityRule{
		mondayRule("09:00", "11:00"),
		{ID: uuid.New(), BuilderID: testBuilderID, DayOfWeek: 2, StartTime: "08:00", EndTime: "10:00"},
	}

	slots, err := GenerateSlots(testBuilderID,
		DateRange{From: testMonday, To: "2026-09-01"},
		sessionType(60), utcSettings(), rules, nil, nil, testNow)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots over two days, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].StartUTC.Before(slots[i-1].StartUTC) {
			t.Errorf("slots out of order at %d: %v before %v", i, slots[i].StartUTC, slots[i-1].StartUTC)
		}
	}
}

func TestGenerateSlotsValidationErrors(t *testing.T) {
	rules := []models.AvailabilityRule{mondayRule("09:00", "12:00")}

	cases := []struct {
		name     string
		mutate   func(*DateRange, *models.SessionType, *models.SchedulingSettings, *[]models.AvailabilityRule)
		expected error
	}{
		{"reversed range", func(r *DateRange, _ *models.SessionType, _ *models.SchedulingSettings, _ *[]models.AvailabilityRule) {
			r.From, r.To = "2026-09-07", "2026-08-31"
		}, ErrInvalidRange},
		{"range too long", func(r *DateRange, _ *models.SessionType, _ *models.SchedulingSettings, _ *[]models.AvailabilityRule) {
			r.To = "2026-12-31"
		}, ErrInvalidRange},
		{"malformed date", func(r *DateRange, _ *models.SessionType, _ *models.SchedulingSettings, _ *[]models.AvailabilityRule) {
			r.From = "31/08/2026"
		}, ErrInvalidRange},
		{"zero duration", func(_ *DateRange, st *models.SessionType, _ *models.SchedulingSettings, _ *[]models.AvailabilityRule) {
			st.DurationMinutes = 0
		}, ErrInvalidSessionType},
		{"negative duration", func(_ *DateRange, st *models.SessionType, _ *models.SchedulingSettings, _ *[]models.AvailabilityRule) {
			st.DurationMinutes = -30
		}, ErrInvalidSessionType},
		{"inactive session type", func(_ *DateRange, st *models.SessionType, _ *models.SchedulingSettings, _ *[]models.AvailabilityRule) {
			st.IsActive = false
		}, ErrInvalidSessionType},
		{"bad timezone", func(_ *DateRange, _ *models.SessionType, s *models.SchedulingSettings, _ *[]models.AvailabilityRule) {
			s.Timezone = "Mars/Olympus_Mons"
		}, ErrInvalidTimezone},
		{"foreign rule", func(_ *DateRange, _ *models.SessionType, _ *models.SchedulingSettings, rs *[]models.AvailabilityRule) {
			foreign := mondayRule("09:00", "12:00")
			foreign.BuilderID = otherBuilderID
			*rs = append(*rs, foreign)
		}, ErrOwnershipMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := DateRange{From: testMonday, To: testMonday}
			st := sessionType(60)
			settings := utcSettings()
			rs := append([]models.AvailabilityRule(nil), rules...)

			tc.mutate(&rng, &st, &settings, &rs)

			_, err := GenerateSlots(testBuilderID, rng, st, settings, rs, nil, nil, testNow)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestGenerateSlotsForeignException(t *testing.T) {
	exceptions := []models.AvailabilityException{{
		ID:        uuid.New(),
		BuilderID: otherBuilderID,
		Date:      testMonday,
	}}

	_, err := GenerateSlots(testBuilderID,
		DateRange{From: testMonday, To: testMonday},
		sessionType(60), utcSettings(),
		[]models.AvailabilityRule{mondayRule("09:00", "12:00")}, exceptions, nil, testNow)
	if !errors.Is(err, ErrOwnershipMismatch) {
		t.Fatalf("expected ErrOwnershipMismatch, got %v", err)
	}
}
