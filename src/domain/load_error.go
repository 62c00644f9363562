package domain

import (
	"fmt"
	"sort"
	"strings"
)

type Rule string

const (
	RuleUnknownDepartment     Rule = "unknown_department"
	RuleUnknownManager        Rule = "unknown_manager"
	RuleReportsToCycle        Rule = "reports_to_cycle"
	RuleSelfReport            Rule = "self_report"
	RuleDuplicateEmployeeID   Rule = "duplicate_employee_id"
	RuleDuplicateDepartmentID Rule = "duplicate_department_id"
	RuleDuplicateShortName    Rule = "duplicate_department_short_name"
	RuleUnknownEmploysTarget  Rule = "unknown_employs_target"
	RuleMissingEmploysEdge    Rule = "missing_employs_edge"
	RuleDuplicateEmploysEdge  Rule = "duplicate_employs_edge"
	RuleInvalidField          Rule = "invalid_field"
)

// ruleOrder fixes the order violations are reported in.
var ruleOrder = map[Rule]int{
	RuleDuplicateDepartmentID: 0,
	RuleDuplicateShortName:    1,
	RuleDuplicateEmployeeID:   2,
	RuleInvalidField:          3,
	RuleUnknownDepartment:     4,
	RuleUnknownManager:        5,
	RuleSelfReport:            6,
	RuleReportsToCycle:        7,
	RuleUnknownEmploysTarget:  8,
	RuleMissingEmploysEdge:    9,
	RuleDuplicateEmploysEdge:  10,
}

type EntityKind string

const (
	KindEmployee   EntityKind = "employee"
	KindDepartment EntityKind = "department"
	KindEmploys    EntityKind = "employs"
)

// Violation é uma única quebra de invariante encontrada na carga.
type Violation struct {
	Rule   Rule       `json:"rule"`
	Kind   EntityKind `json:"kind"`
	ID     int64      `json:"id"`
	Detail string     `json:"detail"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %d: %s (%s)", v.Kind, v.ID, v.Rule, v.Detail)
}

// LoadError lists every violation found while validating a dataset. A load
// that returns it is rejected as a whole.
type LoadError struct {
	Violations []Violation `json:"violations"`
}

func (e *LoadError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("%s: %d violation(s): %s", ErrInvalidDataset, len(e.Violations), strings.Join(parts, "; "))
}

func (e *LoadError) Unwrap() error {
	return ErrInvalidDataset
}

func (e *LoadError) Add(v Violation) {
	e.Violations = append(e.Violations, v)
}

// HasViolations is what callers check before turning a LoadError into an error.
func (e *LoadError) HasViolations() bool {
	return e != nil && len(e.Violations) > 0
}

// ByRule returns the ids cited under a rule, in report order.
func (e *LoadError) ByRule(rule Rule) []int64 {
	var ids []int64
	for _, v := range e.Violations {
		if v.Rule == rule {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// Cites reports whether any violation names the given entity id.
func (e *LoadError) Cites(kind EntityKind, id int64) bool {
	for _, v := range e.Violations {
		if v.Kind == kind && v.ID == id {
			return true
		}
	}
	return false
}

// Sort orders violations by rule, then id.
func (e *LoadError) Sort() {
	sort.SliceStable(e.Violations, func(i, j int) bool {
		a, b := e.Violations[i], e.Violations[j]
		if ruleOrder[a.Rule] != ruleOrder[b.Rule] {
			return ruleOrder[a.Rule] < ruleOrder[b.Rule]
		}
		return a.ID < b.ID
	})
}
