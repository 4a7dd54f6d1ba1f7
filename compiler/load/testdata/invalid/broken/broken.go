package broken

// Broken does not type-check.
//
//ddl:entity
type Broken struct {
	ID Missing
}
