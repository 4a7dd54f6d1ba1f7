package entity

// Customer places orders.
//
//ddl:entity
type Customer struct {
	Base
	Email    string `ddl:"size=120,unique"`
	Nickname *string
	Orders   []*Order
	Notes    string `ddl:"-"`
	secret   string
}

// Helper is not mapped.
type Helper struct {
	Name string
}
