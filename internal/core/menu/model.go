package menu

// Item a branch menu entry
type Item struct {
	ID       int    `json:"id"`
	Branch   int    `json:"branch"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Portion  string `json:"portion"`
	Price    int    `json:"price"`
	Serves   int    `json:"serves"`
}

// Review a customer review of one menu item
type Review struct {
	ID           int    `json:"id"`
	Review       string `json:"review"`
	CustomerName string `json:"customer_name"`
	Date         string `json:"date"`
}

// ReviewedItem menu item with its reviews
type ReviewedItem struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    int      `json:"price"`
	Reviews  []Review `json:"reviews"`
}

// normalizeServes enforces serving capacity >= 1
func normalizeServes(items []Item) []Item {
	for i := range items {
		if items[i].Serves < 1 {
			items[i].Serves = 1
		}
	}
	return items
}
