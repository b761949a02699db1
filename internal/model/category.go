package model

type CategoryID string

// Category is purely descriptive; tasks, goals and section rules
// reference it by id.
type Category struct {
	ID    CategoryID `json:"id"`
	Name  string     `json:"name"`
	Color string     `json:"color,omitempty"`
	Icon  string     `json:"icon,omitempty"`
}
