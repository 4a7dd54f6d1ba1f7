package model

// Plain carries no mapping marker.
type Plain struct {
	ID   int64
	Name string
}
