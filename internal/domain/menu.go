package domain

// Dish is the single daily special. The store holds at most one record;
// callers treat a missing record as "no special today".
type Dish struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type MenuCategory string

const (
	CategorySandwiches MenuCategory = "Sandwiches"
	CategoryPizza      MenuCategory = "Pizza"
	CategorySalads     MenuCategory = "Salads"
	CategoryBeverages  MenuCategory = "Beverages"
)

type MenuItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    MenuCategory `json:"category"`
	Price       string       `json:"price"`
	IsAvailable bool         `json:"isAvailable"`
}

// DefaultMenu seeds the catalog when the collection is empty. Prices are
// pre-formatted display strings, not numbers.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{ID: "s1", Name: "Veggie Delight Sandwich", Category: CategorySandwiches, Price: "₹120", IsAvailable: true},
		{ID: "s2", Name: "Chicken Tikka Sandwich", Category: CategorySandwiches, Price: "₹150", IsAvailable: true},
		{ID: "p1", Name: "Margherita Pizza", Category: CategoryPizza, Price: "₹250", IsAvailable: true},
		{ID: "p2", Name: "Pepperoni Pizza", Category: CategoryPizza, Price: "₹300", IsAvailable: true},
		{ID: "sa1", Name: "Classic Caesar Salad", Category: CategorySalads, Price: "₹180", IsAvailable: true},
		{ID: "b1", Name: "Espresso Coffee", Category: CategoryBeverages, Price: "₹80", IsAvailable: true},
		{ID: "b2", Name: "Iced Tea", Category: CategoryBeverages, Price: "₹70", IsAvailable: true},
	}
}
