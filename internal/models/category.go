package models

type Category struct {
	ID      int64  `json:"id" db:"id"`
	OwnerID int64  `json:"owner_id" db:"owner_id"`
	Name    string `json:"name" db:"name"`
}
