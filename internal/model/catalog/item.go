package catalog

// Item is one orderable dish exposed by a partner restaurant.
type Item struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Restaurant string  `json:"restaurant"`
	Price      float64 `json:"price"`
}

// Seed provides the default catalog used when the SQLite database is
// created for the first time and by in-memory stores in tests.
func Seed() []Item {
	return []Item{
		{Name: "Margherita Pizza", Category: "Pizza", Restaurant: "Napoli House", Price: 12.50},
		{Name: "Pepperoni Pizza", Category: "Pizza", Restaurant: "Napoli House", Price: 14.00},
		{Name: "Classic Cheeseburger", Category: "Burger", Restaurant: "Grill Town", Price: 9.90},
		{Name: "Spicy Chicken Burger", Category: "Burger", Restaurant: "Grill Town", Price: 10.50},
		{Name: "Salmon Nigiri Set", Category: "Sushi", Restaurant: "Tokyo Corner", Price: 18.00},
		{Name: "Vegetable Maki Roll", Category: "Sushi", Restaurant: "Tokyo Corner", Price: 11.00},
		{Name: "Pad Thai", Category: "Thai", Restaurant: "Bangkok Bites", Price: 13.25},
		{Name: "Green Curry", Category: "Thai", Restaurant: "Bangkok Bites", Price: 12.75},
		{Name: "Caesar Salad", Category: "Salad", Restaurant: "Green Fork", Price: 8.50},
		{Name: "Falafel Wrap", Category: "Vegetarian", Restaurant: "Green Fork", Price: 7.90},
		{Name: "Chicken Biryani", Category: "Indian", Restaurant: "Spice Route", Price: 14.50},
		{Name: "Paneer Tikka Masala", Category: "Indian", Restaurant: "Spice Route", Price: 13.00},
		{Name: "Spaghetti Carbonara", Category: "Pasta", Restaurant: "Napoli House", Price: 13.75},
		{Name: "Beef Kebab Plate", Category: "Grill", Restaurant: "Grill Town", Price: 16.00},
		{Name: "Tomato Basil Soup", Category: "Soup", Restaurant: "Green Fork", Price: 6.50},
	}
}
