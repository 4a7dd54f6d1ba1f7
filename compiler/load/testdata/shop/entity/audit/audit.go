package audit

// Event carries both markers and is mapped as an entity.
//
//ddl:entity
//ddl:mapped-superclass
type Event struct {
	ID     int64 `ddl:"pk,auto"`
	Action string
}
