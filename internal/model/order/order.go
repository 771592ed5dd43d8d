package order

import "time"

// Status describes where an order is in its lifecycle.
type Status string

const (
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCanceled   Status = "canceled"
)

// Order is one food order tracked by the services module's tools.
type Order struct {
	ID          int64     `json:"id"`
	PersonName  string    `json:"personName"`
	PhoneNumber string    `json:"phoneNumber"`
	Items       string    `json:"items"`
	Status      Status    `json:"status"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Seed provides sample orders loaded when the orders table is first created.
func Seed() []Order {
	return []Order{
		{ID: 87, PersonName: "Sara", PhoneNumber: "09120000087", Items: "Pepperoni Pizza x1", Status: StatusDelivering},
		{ID: 88, PersonName: "Omid", PhoneNumber: "09120000088", Items: "Pad Thai x2", Status: StatusPreparing},
		{ID: 90, PersonName: "Lena", PhoneNumber: "09120000090", Items: "Caesar Salad x1, Tomato Basil Soup x1", Status: StatusDelivered},
		{ID: 91, PersonName: "Reza", PhoneNumber: "09120000091", Items: "Chicken Biryani x1", Status: StatusPreparing},
	}
}
