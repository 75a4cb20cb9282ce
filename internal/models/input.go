// Package models provides the data structures used throughout the application.
package models

import "strings"

// RawRow is one input record as read from a file: column name to scalar value.
// Values are typically strings but may be numbers, time.Time or nil.
type RawRow map[string]any

// ColumnMapping tells the engine which input columns hold which attribute.
// CustomerName and Salesperson are optional.
type ColumnMapping struct {
	CustomerID   string `json:"customer_id" yaml:"customer_id" form:"customer_id"`
	CustomerName string `json:"customer_name,omitempty" yaml:"customer_name" form:"customer_name"`
	Salesperson  string `json:"salesperson,omitempty" yaml:"salesperson" form:"salesperson"`
	OrderDate    string `json:"order_date" yaml:"order_date" form:"order_date"`
	OrderValue   string `json:"order_value" yaml:"order_value" form:"order_value"`
}

// HasRequired reports whether the customer id, order date and order value
// columns are all set.
func (m ColumnMapping) HasRequired() bool {
	return strings.TrimSpace(m.CustomerID) != "" &&
		strings.TrimSpace(m.OrderDate) != "" &&
		strings.TrimSpace(m.OrderValue) != ""
}

// Merge returns m with every empty field filled from fallback.
func (m ColumnMapping) Merge(fallback ColumnMapping) ColumnMapping {
	pick := func(primary, secondary string) string {
		if strings.TrimSpace(primary) != "" {
			return primary
		}
		return secondary
	}
	return ColumnMapping{
		CustomerID:   pick(m.CustomerID, fallback.CustomerID),
		CustomerName: pick(m.CustomerName, fallback.CustomerName),
		Salesperson:  pick(m.Salesperson, fallback.Salesperson),
		OrderDate:    pick(m.OrderDate, fallback.OrderDate),
		OrderValue:   pick(m.OrderValue, fallback.OrderValue),
	}
}
