// Package filter describes typed list conditions that handlers build from
// query parameters and repositories translate into SQL.
package filter

// ComparisonType defines a comparison kind.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	Greater        ComparisonType = "gt"
	LessOrEqual    ComparisonType = "lte"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"  // ILIKE %val%
	NotContains    ComparisonType = "ncontains" // NOT ILIKE %val%
	IsNull         ComparisonType = "null"
	IsNotNull      ComparisonType = "not_null"
)

// Item is one filter condition.
type Item struct {
	Field    string         `json:"field"` // column name (snake_case)
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}

// Eq is shorthand for an equality condition.
func Eq(field string, value any) Item {
	return Item{Field: field, Operator: Equal, Value: value}
}
