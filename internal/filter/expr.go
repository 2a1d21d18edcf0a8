package filter

import (
	"fmt"
	"strings"

	"github.com/gridforge-labs/gridforge/internal/document"
)

// exprOps maps expression tokens to filter operators, tried in order so
// ">" and "<" win over "=" inside quoted values.
var exprOps = []struct {
	token string
	op    document.FilterOperator
}{
	{">", document.FilterGreaterThan},
	{"<", document.FilterLessThan},
	{"~", document.FilterContains},
	{"=", document.FilterEquals},
}

// ParseExpr parses a filter expression of the form "column op value",
// where op is one of =, ~, >, <. The column is matched by name,
// case-insensitively.
func ParseExpr(sheet *document.Sheet, expr string) (document.FilterConfig, error) {
	for _, o := range exprOps {
		idx := strings.Index(expr, o.token)
		if idx <= 0 {
			continue
		}
		name := strings.TrimSpace(expr[:idx])
		value := strings.TrimSpace(expr[idx+len(o.token):])
		for _, col := range sheet.Columns {
			if strings.EqualFold(col.Name, name) {
				return document.FilterConfig{
					ColumnID: col.ID,
					Operator: o.op,
					Value:    value,
				}, nil
			}
		}
		return document.FilterConfig{}, fmt.Errorf("unknown column %q", name)
	}
	return document.FilterConfig{}, fmt.Errorf("expected column op value, e.g. Name~sword")
}

// ParseExprList parses a comma-separated list of filter expressions.
func ParseExprList(sheet *document.Sheet, exprs string) ([]document.FilterConfig, error) {
	var configs []document.FilterConfig
	for _, part := range strings.Split(exprs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cfg, err := ParseExpr(sheet, part)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
