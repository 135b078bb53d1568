package models

import "time"

// Customer owns invoices and is the aggregate root for balance purposes.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
	Email     *string   `json:"email"`
	Gstin     *string   `json:"gstin"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerInput is used for creating/updating customers.
type CustomerInput struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Gstin   *string `json:"gstin"`
}

func (c *CustomerInput) Validate() string {
	if c.Name == "" {
		return "name is required"
	}
	return ""
}
