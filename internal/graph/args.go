package graph

import (
	"fmt"
	"strconv"
	"strings"

	"catalog-service/internal/store"

	"github.com/shopspring/decimal"
)

// productFilter maps a ProductFilterInput onto a repository filter. Missing, null and
// falsy fields leave the filter unconstrained.
func productFilter(raw interface{}) store.ProductFilter {
	var f store.ProductFilter
	m, ok := raw.(map[string]interface{})
	if !ok {
		return f
	}

	if id, ok := toID(m["categoryId"]); ok && id != 0 {
		f.CategoryID = &id
	}
	if v, ok := toFloat(m["minPrice"]); ok {
		d := decimal.NewFromFloat(v)
		f.MinPrice = &d
	}
	if v, ok := toFloat(m["maxPrice"]); ok {
		d := decimal.NewFromFloat(v)
		f.MaxPrice = &d
	}
	if v, ok := m["productType"].(string); ok {
		f.ProductType = strings.TrimSpace(v)
	}
	if v, ok := m["inStock"].(bool); ok && v {
		f.InStock = true
	}

	if list, ok := m["attributes"].([]interface{}); ok {
		for _, item := range list {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			id, _ := toID(entry["attributeId"])
			value, _ := entry["value"].(string)
			f.Attributes = append(f.Attributes, store.AttributeFilter{AttributeID: id, Value: value})
		}
	}

	return f
}

// idArg parses an ID argument, which arrives as a string from literals and variables
func idArg(args map[string]interface{}, name string) (int64, error) {
	raw, present := args[name]
	if !present || raw == nil {
		return 0, fmt.Errorf("missing %s", name)
	}
	id, ok := toID(raw)
	if !ok {
		return 0, fmt.Errorf("invalid %s %q", name, fmt.Sprint(raw))
	}
	return id, nil
}

// optionalIDArg is idArg for nullable ID arguments
func optionalIDArg(args map[string]interface{}, name string) (*int64, error) {
	if raw, ok := args[name]; !ok || raw == nil {
		return nil, nil
	}
	id, err := idArg(args, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// toID accepts the string form graphql ID values take as well as plain numbers
func toID(v interface{}) (int64, bool) {
	if s, ok := v.(string); ok {
		id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return id, err == nil
	}
	return toInt64(v)
}

// pageArgs reads limit and offset, falling back to defaultLimit
func pageArgs(args map[string]interface{}, defaultLimit int) (int, int, error) {
	limit := defaultLimit
	if v, ok := toInt64(args["limit"]); ok {
		limit = int(v)
	}
	offset := 0
	if v, ok := toInt64(args["offset"]); ok {
		offset = int(v)
	}
	if limit < 0 || offset < 0 {
		return 0, 0, fmt.Errorf("limit and offset must not be negative")
	}
	return limit, offset, nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
