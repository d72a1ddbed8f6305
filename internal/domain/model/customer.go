package model

// Customer is the backend record created at checkout. Name is set to the
// conversation id; the backend is the source of truth.
type Customer struct {
	ID    string
	Name  string
	Email string
}
