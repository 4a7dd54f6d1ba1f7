package entity

// Widget is mapped to a table of the same name.
//
//ddl:entity
type Widget struct {
	ID   int64 `ddl:"pk"`
	Name string
}
