package repositories

import (
	"fmt"
	"orghierarchy/src/domain"
	"strings"
)

// depthArg traduz maxDepth para o parâmetro das CTEs: -1 significa sem limite.
func depthArg(maxDepth *int) int {
	if maxDepth == nil {
		return -1
	}
	return *maxDepth
}

// employsFilterClause monta o WHERE da consulta de EMPLOYS. placeholder
// recebe a posição (1-based) do argumento e devolve a sintaxe do dialeto.
func employsFilterClause(filter domain.CompanyAttributeFilter, placeholder func(position int) string) (string, []any) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)

	add := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, placeholder(len(args))))
	}

	if filter.Type != nil {
		add("type = %s", string(*filter.Type))
	}
	if filter.SalaryRange != nil {
		if filter.SalaryRange.Min != nil {
			add("salary >= %s", *filter.SalaryRange.Min)
		}
		if filter.SalaryRange.Max != nil {
			add("salary <= %s", *filter.SalaryRange.Max)
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func questionMark(int) string {
	return "?"
}

func dollarPosition(position int) string {
	return fmt.Sprintf("$%d", position)
}
