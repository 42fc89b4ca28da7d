package query

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	srvErrors "github.com/xfinder/reporting-api/pkg/errors"
)

const ColumnFiltersParam = "column_filters"

// Compile turns request parameters into a tenant scoped predicate.
//
// Fields are compiled in schema order, column filters afterwards in key order.
// Parameters without a matching field, empty values and values that do not
// parse for their kind are skipped. The only error is a missing tenant.
func Compile(schema Schema, tenant string, params url.Values) (Predicate, error) {
	pred, err := ForTenant(schema.TenantColumn, tenant)
	if err != nil {
		return Predicate{}, srvErrors.NewMissingTenantError()
	}

	for _, f := range schema.Fields {
		pred = pred.And(compileField(f, params)...)
	}

	if schema.ColumnFilters != nil {
		raw := strings.TrimSpace(params.Get(ColumnFiltersParam))
		if raw != "" {
			conds, err := compileColumnFilters(schema, raw)
			if err != nil {
				zap.S().Named("filter_compiler").Warnw("ignoring column filters", "tenant", tenant, "error", err)
			}
			pred = pred.And(conds...)
		}
	}

	return pred, nil
}

func compileField(f Field, params url.Values) []sq.Sqlizer {
	col := string(f.Column)

	switch f.Kind {
	case Equality:
		if v := firstValue(params, f.Param); v != "" {
			return []sq.Sqlizer{sq.Eq{col: v}}
		}
	case Substring:
		if v := firstValue(params, f.Param); v != "" {
			return []sq.Sqlizer{sq.Like{col: "%" + v + "%"}}
		}
	case SetMembership:
		values := splitValues(params[f.Param])
		switch len(values) {
		case 0:
		case 1:
			return []sq.Sqlizer{sq.Eq{col: values[0]}}
		default:
			return []sq.Sqlizer{sq.Eq{col: values}}
		}
	case Boolean:
		if b, err := strconv.ParseBool(firstValue(params, f.Param)); err == nil && (b || !f.OnlyTrue) {
			return []sq.Sqlizer{sq.Eq{col: b}}
		}
	case Range:
		var conds []sq.Sqlizer
		if v, ok := boundValue(f, params, f.MinParam); ok {
			conds = append(conds, sq.GtOrEq{col: v})
		}
		if v, ok := boundValue(f, params, f.MaxParam); ok {
			conds = append(conds, sq.LtOrEq{col: v})
		}
		return conds
	}

	return nil
}

func compileColumnFilters(schema Schema, raw string) ([]sq.Sqlizer, error) {
	var filters map[string]any
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		return nil, srvErrors.NewMalformedInputError(ColumnFiltersParam, err)
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conds []sq.Sqlizer
	for _, key := range keys {
		col, ok := schema.ColumnFilters[key]
		if !ok {
			continue
		}
		v, ok := scalarString(filters[key])
		if !ok {
			continue
		}
		// Allow-listed columns are not all text, so they are compared as text.
		text := "CAST(" + string(col) + " AS CHAR)"
		if schema.ColumnFilterKind == Equality {
			conds = append(conds, sq.Expr(text+" = ?", v))
		} else {
			conds = append(conds, sq.Expr(text+" LIKE ?", "%"+v+"%"))
		}
	}

	return conds, nil
}

func boundValue(f Field, params url.Values, param string) (any, bool) {
	if param == "" {
		return nil, false
	}
	v := firstValue(params, param)
	if v == "" {
		return nil, false
	}
	if !f.Numeric {
		return v, true
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, false
	}
	return n, true
}

func firstValue(params url.Values, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSpace(params.Get(key))
}

// splitValues accepts both repeated parameters and comma separated lists.
func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// scalarString renders JSON scalars. Objects, arrays and null are rejected.
func scalarString(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
