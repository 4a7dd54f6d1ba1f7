package entity

// Status of an order.
type Status string

type (
	// Order is a customer order.
	//
	//ddl:entity table=orders
	Order struct {
		Base
		Customer *Customer `ddl:"notnull,ondelete=cascade"`
		Total    float64
		Status   Status `ddl:"size=16,index"`
		Payload  []byte
	}

	// LineItem is an order position.
	//
	//ddl:entity
	LineItem struct {
		ID       int64 `ddl:"pk,auto"`
		Order    *Order
		Sku      string `ddl:"name=sku_code,uniqueIndex=item_order_sku"`
		Quantity int32
	}
)
