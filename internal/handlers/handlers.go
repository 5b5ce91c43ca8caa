package handlers

// Handlers contains all HTTP handlers for the API. There is no per-request
// shared state: each request runs one sequential chain of store calls
// through database.DB, and the store's constraints are the arbiter for
// ownership and duplicate likes.
type Handlers struct{}

// NewHandlers creates a new handlers instance
func NewHandlers() *Handlers {
	return &Handlers{}
}
