package models

import "time"

// Transaction is one sale record as stored and served.
type Transaction struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	Image       string    `json:"image,omitempty" db:"image"`
	Sold        bool      `json:"sold" db:"sold"`
	DateOfSale  time.Time `json:"dateOfSale" db:"date_of_sale"`
}

type Summary struct {
	TotalSaleAmount float64 `json:"totalSaleAmount"`
	SoldItems       int64   `json:"soldItems"`
	NotSoldItems    int64   `json:"notSoldItems"`
}

type BucketCount struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int64 `json:"total_pages"`
}

type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

// Combined is the merged dashboard payload for a single month.
type Combined struct {
	Transactions []Transaction   `json:"transactions"`
	Statistics   Summary         `json:"statistics"`
	BarChart     []BucketCount   `json:"barChart"`
	PieChart     []CategoryCount `json:"pieChart"`
}
