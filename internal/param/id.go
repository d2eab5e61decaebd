package param

import "github.com/google/uuid"

// AssignID generates and sets a random unique id on h, used for
// components that do not have a caller-supplied stable id (spec.md §3
// "id" field of the component header).
func (h *Header) AssignID() string {
	id := uuid.NewString()
	h.SetID(id)
	return id
}
