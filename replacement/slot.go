package replacement

import "fmt"

// A Slot is the residency state of a frame. It is either empty or holds
// exactly one page. The zero value is an empty slot.
type Slot struct {
	page     int
	occupied bool
}

// EmptySlot returns an unoccupied slot.
func EmptySlot() Slot {
	return Slot{}
}

// OccupiedSlot returns a slot holding page.
func OccupiedSlot(page int) Slot {
	return Slot{page: page, occupied: true}
}

// Page returns the resident page and true, or false if the slot is empty.
func (s Slot) Page() (int, bool) {
	return s.page, s.occupied
}

// IsEmpty returns true if no page is resident.
func (s Slot) IsEmpty() bool {
	return !s.occupied
}

// Holds returns true if page is resident in the slot.
func (s Slot) Holds(page int) bool {
	return s.occupied && s.page == page
}

func (s Slot) String() string {
	if !s.occupied {
		return "empty"
	}

	return fmt.Sprintf("page %d", s.page)
}
