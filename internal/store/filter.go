package store

import (
	"fmt"
	"strings"

	"catalog-service/internal/models"

	"github.com/shopspring/decimal"
)

// ProductFilter narrows a product listing. Zero values impose no constraint.
type ProductFilter struct {
	CategoryID  *int64
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	ProductType string
	InStock     bool
	Attributes  []AttributeFilter
}

// AttributeFilter matches products whose EAV value for AttributeID equals Value
type AttributeFilter struct {
	AttributeID int64
	Value       string
}

// IsEmpty reports whether the filter constrains nothing
func (f ProductFilter) IsEmpty() bool {
	p := f.predicate()
	return len(p.joins) == 0 && len(p.clauses) == 1
}

type clause struct {
	column string
	op     string
	value  interface{}
}

// predicate is the compiled-to-be form of a ProductFilter
type predicate struct {
	joins   []string
	clauses []clause
}

func (f ProductFilter) predicate() predicate {
	p := predicate{
		clauses: []clause{{"p.is_active", "=", true}},
	}

	if f.CategoryID != nil && *f.CategoryID != 0 {
		p.joins = append(p.joins, "INNER JOIN product_categories pc ON p.id = pc.product_id")
		p.clauses = append(p.clauses, clause{"pc.category_id", "=", *f.CategoryID})
	}
	if f.MinPrice != nil && !f.MinPrice.IsZero() {
		p.clauses = append(p.clauses, clause{"p.price", ">=", *f.MinPrice})
	}
	if f.MaxPrice != nil && !f.MaxPrice.IsZero() {
		p.clauses = append(p.clauses, clause{"p.price", "<=", *f.MaxPrice})
	}
	if f.ProductType != "" {
		p.clauses = append(p.clauses, clause{"p.product_type", "=", f.ProductType})
	}
	if f.InStock {
		p.clauses = append(p.clauses, clause{"p.stock_status", "=", models.StockStatusInStock})
	}

	for i, attr := range f.Attributes {
		value := strings.TrimSpace(attr.Value)
		if attr.AttributeID == 0 || value == "" {
			continue
		}
		alias := fmt.Sprintf("pav%d", i)
		p.joins = append(p.joins, fmt.Sprintf("INNER JOIN product_attribute_values %s ON p.id = %s.product_id", alias, alias))
		p.clauses = append(p.clauses,
			clause{alias + ".attribute_id", "=", attr.AttributeID},
			clause{alias + ".value", "=", value},
		)
	}

	return p
}

// compile renders the joins and WHERE clause with placeholders numbered from 1
func (p predicate) compile() (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, len(p.clauses))

	for _, join := range p.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}

	for i, c := range p.clauses {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, c.value)
		fmt.Fprintf(&sb, "%s %s $%d", c.column, c.op, len(args))
	}

	return sb.String(), args
}
