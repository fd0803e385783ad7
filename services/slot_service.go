package services

import (
	"fmt"
	"sort"
	"time"

	"builder-market/database"
	"builder-market/models"

	"github.com/google/uuid"
)

// MaxRangeDays caps a single slot-listing request so output stays bounded.
const MaxRangeDays = 90

// DateRange is an inclusive span of calendar dates in the builder's timezone.
type DateRange struct {
	From string // "2006-01-02"
	To   string
}

type clockWindow struct {
	startMin int // minutes since local midnight
	endMin   int
}

// GenerateSlots computes every bookable slot for one builder over dateRange.
// It is pure: all state comes in as arguments (now included), so identical
// inputs always produce identical output and it is safe to call concurrently.
//
// Per local date, an exception for that date wins over the weekly rules:
// a blocked exception yields no windows, an available one yields only its
// override window. Each window is sliced into consecutive duration-sized
// intervals from its start; a trailing partial interval is dropped. Both
// endpoints are converted to UTC independently through the builder's location,
// so days with DST transitions come out correct. Candidates overlapping a
// non-cancelled booking, starting before now+minimum-notice, or starting after
// the advance-booking horizon are filtered out.
func GenerateSlots(
	builderID uuid.UUID,
	dateRange DateRange,
	sessionType models.SessionType,
	settings models.SchedulingSettings,
	rules []models.AvailabilityRule,
	exceptions []models.AvailabilityException,
	bookings []models.Booking,
	now time.Time,
) ([]models.TimeSlot, error) {
	if sessionType.DurationMinutes <= 0 || !sessionType.IsActive {
		return nil, ErrInvalidSessionType
	}

	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, settings.Timezone)
	}

	from, err := models.ParseLocalDate(dateRange.From, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	to, err := models.ParseLocalDate(dateRange.To, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: start date is after end date", ErrInvalidRange)
	}
	if to.Sub(from) > MaxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidRange, MaxRangeDays)
	}

	for _, r := range rules {
		if r.BuilderID != builderID {
			return nil, ErrOwnershipMismatch
		}
	}
	exceptionsByDate := make(map[string]models.AvailabilityException, len(exceptions))
	for _, e := range exceptions {
		if e.BuilderID != builderID {
			return nil, ErrOwnershipMismatch
		}
		exceptionsByDate[e.Date] = e
	}

	duration := time.Duration(sessionType.DurationMinutes) * time.Minute
	earliestStart := now.Add(time.Duration(settings.MinNoticeMinutes) * time.Minute)
	horizon := now.Add(time.Duration(settings.MaxAdvanceDays) * 24 * time.Hour)

	type slotKey struct{ start, end int64 }
	seen := make(map[slotKey]bool)
	slots := make([]models.TimeSlot, 0)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		windows, err := dayWindows(day, rules, exceptionsByDate)
		if err != nil {
			return nil, err
		}

		for _, w := range windows {
			for m := w.startMin; m+sessionType.DurationMinutes <= w.endMin; m += sessionType.DurationMinutes {
				start := time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc)
				endMin := m + sessionType.DurationMinutes
				end := time.Date(day.Year(), day.Month(), day.Day(), endMin/60, endMin%60, 0, 0, loc)

				// A candidate straddling a DST transition has a UTC length that
				// differs from its wall-clock length; it cannot satisfy the
				// fixed-duration contract, so it is not offered.
				if end.Sub(start) != duration {
					continue
				}

				key := slotKey{start.Unix(), end.Unix()}
				if seen[key] {
					continue
				}
				seen[key] = true

				startUTC := start.UTC()
				endUTC := end.UTC()
				if startUTC.Before(earliestStart) || startUTC.After(horizon) {
					continue
				}
				if hasBookingConflict(bookings, startUTC, endUTC) {
					continue
				}

				slots = append(slots, models.TimeSlot{
					BuilderID:     builderID,
					SessionTypeID: sessionType.ID,
					StartUTC:      startUTC,
					EndUTC:        endUTC,
				})
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].StartUTC.Equal(slots[j].StartUTC) {
			return slots[i].StartUTC.Before(slots[j].StartUTC)
		}
		return slots[i].EndUTC.Before(slots[j].EndUTC)
	})

	return slots, nil
}

// dayWindows resolves the availability windows for one local date. An
// exception for the date replaces the weekly rules entirely.
func dayWindows(day time.Time, rules []models.AvailabilityRule, exceptions map[string]models.AvailabilityException) ([]clockWindow, error) {
	if exc, ok := exceptions[day.Format(models.DateLayout)]; ok {
		if !exc.IsAvailable || exc.StartTime == nil || exc.EndTime == nil {
			return nil, nil
		}
		w, err := parseWindow(*exc.StartTime, *exc.EndTime)
		if err != nil {
			return nil, fmt.Errorf("availability exception %s: %w", exc.ID, err)
		}
		return []clockWindow{w}, nil
	}

	weekday := int(day.Weekday()) // Sunday=0, same convention as AvailabilityRule
	var windows []clockWindow
	for _, r := range rules {
		if r.DayOfWeek != weekday {
			continue
		}
		w, err := parseWindow(r.StartTime, r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("availability rule %s: %w", r.ID, err)
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func parseWindow(start, end string) (clockWindow, error) {
	startMin, err := models.ParseClock(start)
	if err != nil {
		return clockWindow{}, err
	}
	endMin, err := models.ParseClock(end)
	if err != nil {
		return clockWindow{}, err
	}
	if startMin >= endMin {
		return clockWindow{}, fmt.Errorf("window start %s is not before end %s", start, end)
	}
	return clockWindow{startMin: startMin, endMin: endMin}, nil
}

func hasBookingConflict(bookings []models.Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		if b.StartUTC.Before(end) && start.Before(b.EndUTC) {
			return true
		}
	}
	return false
}

// GenerateSlotsForBuilder loads the builder's availability configuration and
// current bookings and runs GenerateSlots against them.
func GenerateSlotsForBuilder(builderID, sessionTypeID uuid.UUID, dateRange DateRange) ([]models.TimeSlot, error) {
	var sessionType models.SessionType
	if err := database.DB.First(&sessionType, "id = ? AND builder_id = ?", sessionTypeID, builderID).Error; err != nil {
		return nil, fmt.Errorf("%w: session type not found for builder", ErrInvalidSessionType)
	}

	settings := SettingsForBuilder(builderID)

	var rules []models.AvailabilityRule
	if err := database.DB.Where("builder_id = ?", builderID).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	var exceptions []models.AvailabilityException
	if err := database.DB.Where("builder_id = ?", builderID).Find(&exceptions).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	bookings, err := bookingsAround(builderID, dateRange, settings)
	if err != nil {
		return nil, err
	}

	return GenerateSlots(builderID, dateRange, sessionType, settings, rules, exceptions, bookings, time.Now().UTC())
}

// SettingsForBuilder returns the builder's scheduling settings, falling back
// to defaults for builders who never customized them.
func SettingsForBuilder(builderID uuid.UUID) models.SchedulingSettings {
	var settings models.SchedulingSettings
	if err := database.DB.First(&settings, "builder_id = ?", builderID).Error; err != nil {
		return models.DefaultSchedulingSettings(builderID)
	}
	return settings
}

// bookingsAround fetches the builder's non-cancelled bookings that could
// conflict with any candidate in dateRange. The bounds are padded by a day on
// each side so timezone offsets never exclude a relevant row.
func bookingsAround(builderID uuid.UUID, dateRange DateRange, settings models.SchedulingSettings) ([]models.Booking, error) {
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, settings.Timezone)
	}
	from, err := models.ParseLocalDate(dateRange.From, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	to, err := models.ParseLocalDate(dateRange.To, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	lower := from.AddDate(0, 0, -1).UTC()
	upper := to.AddDate(0, 0, 2).UTC()

	var bookings []models.Booking
	err = database.DB.
		Where("builder_id = ? AND status <> ? AND start_utc < ? AND end_utc > ?",
			builderID, models.BookingStatusCancelled, upper, lower).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return bookings, nil
}
