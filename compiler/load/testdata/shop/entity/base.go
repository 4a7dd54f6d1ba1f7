package entity

import "time"

// Base holds the columns shared by all shop tables.
//
//ddl:mapped-superclass
type Base struct {
	ID        int64 `ddl:"pk,auto"`
	CreatedAt time.Time
	UpdatedAt *time.Time
}
