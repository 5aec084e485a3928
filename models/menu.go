package models

// MenuItem is a row from menu_items. Price is the current catalog price;
// carts and orders copy it rather than reading it live.
type MenuItem struct {
	ID          int64
	Name        string
	Description string
	Price       Amount
	Category    string
	ImageURL    string
	Available   bool
}

const (
	CategoryPizza      = "Pizza"
	CategorySalads     = "Salads"
	CategoryBurgers    = "Burgers"
	CategoryPasta      = "Pasta"
	CategoryMainCourse = "Main Course"
	CategoryDesserts   = "Desserts"
	CategoryBeverages  = "Beverages"
)

const placeholderImage = "/placeholder.svg?height=200&width=300"

// SeedMenu is the catalog loaded on first initialization.
var SeedMenu = []MenuItem{
	{Name: "Margherita Pizza", Description: "Classic pizza with tomato sauce, mozzarella, and fresh basil", Price: Major(1400), Category: CategoryPizza},
	{Name: "Pepperoni Pizza", Description: "Traditional pizza with pepperoni and mozzarella cheese", Price: Major(4060), Category: CategoryPizza},
	{Name: "Caesar Salad", Description: "Fresh romaine lettuce with Caesar dressing and croutons", Price: Major(1120), Category: CategorySalads},
	{Name: "Grilled Chicken Burger", Description: "Juicy grilled chicken with lettuce, tomato, and mayo", Price: Major(840), Category: CategoryBurgers},
	{Name: "Beef Burger", Description: "Classic beef burger with cheese, lettuce, and tomato", Price: Major(500), Category: CategoryBurgers},
	{Name: "Spaghetti Carbonara", Description: "Creamy pasta with bacon, eggs, and parmesan cheese", Price: Major(1500), Category: CategoryPasta},
	{Name: "Fish and Chips", Description: "Crispy battered fish with golden fries", Price: Major(700), Category: CategoryMainCourse},
	{Name: "Chocolate Cake", Description: "Rich chocolate cake with chocolate frosting", Price: Major(560), Category: CategoryDesserts},
	{Name: "Tiramisu", Description: "Classic Italian dessert with coffee and mascarpone", Price: Major(650), Category: CategoryDesserts},
	{Name: "Fresh Orange Juice", Description: "Freshly squeezed orange juice", Price: Major(930), Category: CategoryBeverages},
	{Name: "Coffee", Description: "Premium roasted coffee", Price: Major(700), Category: CategoryBeverages},
	{Name: "Iced Tea", Description: "Refreshing iced tea with lemon", Price: Major(420), Category: CategoryBeverages},
}

func init() {
	for i := range SeedMenu {
		SeedMenu[i].ImageURL = placeholderImage
		SeedMenu[i].Available = true
	}
}
