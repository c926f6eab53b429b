package entity

import "time"

// Company represents a principal employer the service provider bills.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	GSTIN     string    `json:"gstin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee is a rostered worker belonging to a company. The roster is
// advisory only: attendance rows are matched against it to warn about
// unknown names, never to block a calculation.
type Employee struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	Trade     string    `json:"trade,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
