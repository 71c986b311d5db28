package models

const (
	// DefaultUnit is the unit of measure assigned when the user never picked one.
	DefaultUnit = "pcs"

	// DefaultThreshold is the minimum-stock threshold for new products.
	DefaultThreshold = 1.0
)

// StockStatus is the derived stock level of a product relative to its
// minimum threshold. It drives iconography and shopping-list bucketing.
type StockStatus int

const (
	StatusLow StockStatus = iota
	StatusAtLimit
	StatusOK
)

func (s StockStatus) String() string {
	switch s {
	case StatusLow:
		return "low"
	case StatusAtLimit:
		return "at_limit"
	default:
		return "ok"
	}
}

type Product struct {
	ID         int64   `json:"id" db:"id"`
	OwnerID    int64   `json:"owner_id" db:"owner_id"`
	CategoryID *int64  `json:"category_id" db:"category_id"`
	Name       string  `json:"name" db:"name"`
	Quantity   float64 `json:"quantity" db:"quantity"`
	Unit       string  `json:"unit" db:"unit"`
	Threshold  float64 `json:"threshold" db:"threshold"`

	// CategoryName is the joined category name; only populated by list
	// queries, nil for orphan products.
	CategoryName *string `json:"category_name,omitempty" db:"category_name"`
}

// Status reports the tri-state stock level: low when quantity is below the
// threshold, at-limit when exactly on it, ok otherwise.
func (p *Product) Status() StockStatus {
	switch {
	case p.Quantity < p.Threshold:
		return StatusLow
	case p.Quantity == p.Threshold:
		return StatusAtLimit
	default:
		return StatusOK
	}
}
