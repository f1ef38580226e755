package availability

import (
	"sort"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/pkg/timeutil"
)

// Resolve classifies every candidate slot for one doctor on one date.
// Pure given the snapshot. Classification order: booked (an active
// appointment occupies the exact time) beats past beats available.
// Slots on non-working days or starting inside the break window are
// not emitted at all. Sparse inputs (no blocks, no association) yield
// an empty result, never an error; the returned error list only
// carries malformed upstream records that were skipped.
func Resolve(snap *Snapshot, doctorID, specialtyID uuid.UUID, date string) ([]model.Slot, []error) {
	weekday, ok := weekdayOf(date)
	if !ok {
		return nil, nil
	}
	if !snap.Settings.IsWorkingDay(weekday) {
		return nil, nil
	}

	blocks := snap.BlocksFor(doctorID, specialtyID, date)
	duration := snap.DurationFor(doctorID, specialtyID)

	times, skipped := Generate(blocks, duration)
	if len(times) == 0 {
		return nil, skipped
	}

	slots := make([]model.Slot, 0, len(times))
	for _, t := range times {
		if IsBreakTime(&snap.Settings, t) {
			continue
		}

		slot := model.Slot{
			Time:        t,
			Date:        date,
			DoctorID:    doctorID,
			SpecialtyID: specialtyID,
		}

		switch apt := snap.ActiveAppointmentAt(doctorID, date, t); {
		case apt != nil:
			slot.Status = model.SlotStatusBooked
			slot.Appointment = apt
		case IsPastTime(date, t, snap.Now):
			slot.Status = model.SlotStatusPast
		default:
			slot.Status = model.SlotStatusAvailable
		}
		slots = append(slots, slot)
	}
	return slots, skipped
}

// ResolveGrid resolves each doctor independently and aligns the rows
// on the sorted union of candidate times, so a multi-doctor grid stays
// rectangular even when schedules are asymmetric. A doctor simply has
// no slot at a time outside their blocks; such cells are absent, not
// unavailable.
func ResolveGrid(snap *Snapshot, doctorIDs []uuid.UUID, specialtyID uuid.UUID, date string) (*model.SlotGrid, []error) {
	grid := &model.SlotGrid{
		Date:    date,
		Doctors: make(map[uuid.UUID][]model.Slot, len(doctorIDs)),
	}

	var allSkipped []error
	union := make(map[string]struct{})

	for _, id := range doctorIDs {
		slots, skipped := Resolve(snap, id, specialtyID, date)
		allSkipped = append(allSkipped, skipped...)
		if len(slots) == 0 {
			continue
		}
		grid.Doctors[id] = slots
		for _, s := range slots {
			union[s.Time] = struct{}{}
		}
	}

	grid.Times = make([]string, 0, len(union))
	for t := range union {
		grid.Times = append(grid.Times, t)
	}
	sort.Strings(grid.Times)

	return grid, allSkipped
}

// Bounds computes the display axis for rendering a grid. It defaults
// to the clinic open/close window and narrows or widens to the span of
// the selected doctor's blocks when one is selected.
func Bounds(snap *Snapshot, doctorID, specialtyID uuid.UUID, date string) model.DisplayBounds {
	bounds := model.DisplayBounds{
		StartTime: snap.Settings.OpenTime,
		EndTime:   snap.Settings.CloseTime,
		Duration:  snap.DurationFor(doctorID, specialtyID),
	}
	if doctorID == uuid.Nil {
		return bounds
	}

	blocks := snap.BlocksFor(doctorID, specialtyID, date)
	minStart, maxEnd := -1, -1
	for _, b := range blocks {
		start, err := timeutil.ToMinutes(b.StartTime)
		if err != nil {
			continue
		}
		end, err := timeutil.ToMinutes(b.EndTime)
		if err != nil {
			continue
		}
		if minStart < 0 || start < minStart {
			minStart = start
		}
		if end > maxEnd {
			maxEnd = end
		}
	}
	if minStart >= 0 && maxEnd > minStart {
		if s, err := timeutil.ToTimeString(minStart); err == nil {
			bounds.StartTime = s
		}
		if e, err := timeutil.ToTimeString(maxEnd); err == nil {
			bounds.EndTime = e
		}
	}
	return bounds
}
