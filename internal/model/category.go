package model

// CategoryID identifies a spending category.
type CategoryID string

// Spending category constants. The set is fixed; CategoryGeneral is the
// catch-all for merchants nothing else claims.
const (
	CategoryDining    CategoryID = "dining"
	CategoryTransport CategoryID = "transport"
	CategoryOnline    CategoryID = "online"
	CategoryGroceries CategoryID = "groceries"
	CategoryPetrol    CategoryID = "petrol"
	CategoryBills     CategoryID = "bills"
	CategoryTravel    CategoryID = "travel"
	CategoryGeneral   CategoryID = "general"
)

// categoryNames maps category ids to their human-readable labels.
var categoryNames = map[CategoryID]string{
	CategoryDining:    "Dining",
	CategoryTransport: "Transport",
	CategoryOnline:    "Online Shopping",
	CategoryGroceries: "Groceries",
	CategoryPetrol:    "Petrol",
	CategoryBills:     "Bills & Utilities",
	CategoryTravel:    "Travel",
	CategoryGeneral:   "General Spending",
}

// AllCategories lists every category in display order.
var AllCategories = []CategoryID{
	CategoryDining,
	CategoryTransport,
	CategoryOnline,
	CategoryGroceries,
	CategoryPetrol,
	CategoryBills,
	CategoryTravel,
	CategoryGeneral,
}

// Name returns the human-readable label for the category, or the raw id
// when the category is unknown.
func (c CategoryID) Name() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether the category is one of the fixed set.
func (c CategoryID) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}
