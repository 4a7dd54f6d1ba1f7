package bad

// Code cannot be mapped to a table.
//
//ddl:entity
type Code int
