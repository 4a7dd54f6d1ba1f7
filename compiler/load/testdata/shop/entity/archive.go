//go:build archive

package entity

// Archive is only visible with the archive build tag.
//
//ddl:entity
type Archive struct {
	ID   int64 `ddl:"pk"`
	Data string
}
