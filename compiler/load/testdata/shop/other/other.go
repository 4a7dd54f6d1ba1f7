package other

// Outside lives outside the entity namespace.
//
//ddl:entity
type Outside struct {
	ID int64
}
