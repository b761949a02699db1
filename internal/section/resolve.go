// Package section assigns tasks to display sections and orders them.
// Resolution is total: every task lands in exactly one section, even
// when the caller supplies no sections at all.
package section

import (
	"strings"

	"github.com/a-bunting/daily-grind-sub000/internal/model"
)

const DefaultID = model.SectionID("default")
const DefaultName = "My Tasks"

// Fallback is the built-in section returned when resolution exhausts
// every other option.
func Fallback() model.Section {
	return model.Section{ID: DefaultID, Name: DefaultName}
}

// Resolve finds the section a task belongs to. Manual placement in a
// section's taskOrder wins unconditionally; otherwise sections and
// their rules are scanned in order, first match wins; otherwise the
// default section, then the section named "My Tasks", then the first
// section, then the built-in fallback.
func Resolve(t model.Task, sections []model.Section) model.Section {
	for _, s := range sections {
		if s.Contains(t.ID) {
			return s
		}
	}
	for _, s := range sections {
		for _, r := range s.Rules {
			if ruleMatches(r, t) {
				return s
			}
		}
	}
	for _, s := range sections {
		if s.ID == DefaultID {
			return s
		}
	}
	for _, s := range sections {
		if s.Name == DefaultName {
			return s
		}
	}
	if len(sections) > 0 {
		return sections[0]
	}
	return Fallback()
}

func ruleMatches(r model.SectionRule, t model.Task) bool {
	if r.Value == "" {
		// An unset relationship key matches nothing.
		return false
	}
	switch r.Type {
	case model.RuleCategory:
		return r.Value == string(t.CategoryID)
	case model.RuleGoal:
		return r.Value == string(t.GoalID)
	case model.RuleName:
		return strings.Contains(strings.ToLower(t.Name), strings.ToLower(r.Value))
	}
	return false
}

// TasksIn filters candidates to the tasks resolving to sec and orders
// them: tasks listed in sec.TaskOrder come first in that exact order,
// everything else follows in its original relative order.
func TasksIn(sec model.Section, sections []model.Section, candidates []model.Task) []model.Task {
	matched := make([]model.Task, 0, len(candidates))
	for _, t := range candidates {
		if Resolve(t, sections).ID == sec.ID {
			matched = append(matched, t)
		}
	}
	if len(sec.TaskOrder) == 0 {
		return matched
	}

	byID := make(map[model.TaskID]model.Task, len(matched))
	for _, t := range matched {
		byID[t.ID] = t
	}

	out := make([]model.Task, 0, len(matched))
	for _, id := range sec.TaskOrder {
		if t, ok := byID[id]; ok {
			out = append(out, t)
			delete(byID, id)
		}
	}
	for _, t := range matched {
		if _, ok := byID[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}
