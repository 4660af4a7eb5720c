package menu

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PGRepo implements Repository using Postgres
type PGRepo struct {
	DB *sql.DB
}

// Menu returns the menu of one branch
func (r *PGRepo) Menu(ctx context.Context, branch int) ([]Item, error) {
	const query = `
SELECT id, branch, name, category, portion, price, serves
FROM menu
WHERE branch = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, branch)
	if err != nil {
		return nil, fmt.Errorf("query menu: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		var portion sql.NullString
		if err := rows.Scan(&it.ID, &it.Branch, &it.Name, &it.Category, &portion, &it.Price, &it.Serves); err != nil {
			return nil, fmt.Errorf("scan menu: %w", err)
		}
		it.Portion = portion.String
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu: %w", err)
	}
	return normalizeServes(items), nil
}

// OrderCounts returns how often each item was ordered at branch
func (r *PGRepo) OrderCounts(ctx context.Context, branch int) (map[string]int, error) {
	const query = `
SELECT item_name, COUNT(*) AS cnt
FROM orders
WHERE branch = $1
GROUP BY item_name`
	rows, err := r.DB.QueryContext(ctx, query, branch)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var cnt int
		if err := rows.Scan(&name, &cnt); err != nil {
			return nil, fmt.Errorf("scan orders: %w", err)
		}
		counts[name] = cnt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return counts, nil
}

// ReviewedMenu returns all menu items with their reviews, items without reviews included
func (r *PGRepo) ReviewedMenu(ctx context.Context) ([]ReviewedItem, error) {
	const query = `
SELECT m.id, m.name, m.category, m.price, r.id, r.review, r.customer_name, r.review_date
FROM menu m
LEFT JOIN reviews r ON r.menu_id = m.id
ORDER BY m.id, r.id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	items := make([]ReviewedItem, 0)
	index := make(map[int]int)
	for rows.Next() {
		var (
			id         int
			name, cat  string
			price      int
			reviewID   sql.NullInt64
			text, cust sql.NullString
			date       sql.NullTime
		)
		if err := rows.Scan(&id, &name, &cat, &price, &reviewID, &text, &cust, &date); err != nil {
			return nil, fmt.Errorf("scan reviews: %w", err)
		}

		pos, ok := index[id]
		if !ok {
			items = append(items, ReviewedItem{ID: id, Name: name, Category: cat, Price: price, Reviews: []Review{}})
			pos = len(items) - 1
			index[id] = pos
		}
		if !reviewID.Valid {
			continue
		}

		rv := Review{ID: int(reviewID.Int64), Review: text.String, CustomerName: cust.String}
		if date.Valid {
			rv.Date = date.Time.Format(time.DateOnly)
		}
		items[pos].Reviews = append(items[pos].Reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return items, nil
}

// Ping checks the database connection
func (r *PGRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
