package model

import "slices"

type SectionID string

type RuleType string

const (
	RuleCategory RuleType = "category"
	RuleGoal     RuleType = "goal"
	RuleName     RuleType = "name"
)

// SectionRule auto-assigns tasks to a section. Rules are evaluated in
// slice order, first match wins.
type SectionRule struct {
	Type  RuleType `json:"type"`
	Value string   `json:"value"`
}

// Section is a display bucket for tasks. TaskOrder lists explicitly
// placed task ids; manual placement beats every rule.
type Section struct {
	ID        SectionID     `json:"id"`
	Name      string        `json:"name"`
	Rules     []SectionRule `json:"rules,omitempty"`
	TaskOrder []TaskID      `json:"taskOrder,omitempty"`
}

func (s *Section) Contains(id TaskID) bool {
	return slices.Contains(s.TaskOrder, id)
}
