package availability

// Court is one court in an availability response, with the sports it hosts
// and the open slots for the requested date.
type Court struct {
	Name           string     `json:"name"`
	SportIDs       []string   `json:"sport_ids"`
	AvailableSlots []TimeSlot `json:"available_slots"`
}

// TimeSlot is a single reservable start. Duration is optional and unused by
// the watcher; it is kept so responses that carry it still decode cleanly.
type TimeSlot struct {
	Start    string `json:"start"`
	Duration int    `json:"duration,omitempty"`
}

// dayResponse is the wire shape of a per-club, per-date availability call.
type dayResponse struct {
	AvailableCourts []Court `json:"available_courts"`
}
