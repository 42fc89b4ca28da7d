// Package query builds tenant scoped, parameterized SQL predicates and
// pagination clauses for the raw dataset endpoints.
//
// # Identifiers
//
// Table and Column are only declared in code (the dataset catalog and the
// report queries). Request input selects identifiers through the maps of a
// Schema or SortPolicy and is never converted into one, so no free-form
// string reaches SQL text as an identifier.
//
// # Filter Compiler
//
// Compile reads request parameters for every Field of a Schema:
//
//	┌───────────────┬──────────────────────────┬──────────────────────────────┐
//	│ Kind          │ Input                    │ SQL                          │
//	├───────────────┼──────────────────────────┼──────────────────────────────┤
//	│ Equality      │ dev_eui=A                │ dev_eui = ?                  │
//	│ Substring     │ customer_name=acme       │ customer_name LIKE ? (%v%)   │
//	│ Range         │ start_date / end_date    │ ts >= ? / ts <= ?            │
//	│ SetMembership │ dev_eui=A,B              │ dev_eui IN (?,?)             │
//	│ Boolean       │ is_valid_event=true      │ is_valid_event = ?           │
//	└───────────────┴──────────────────────────┴──────────────────────────────┘
//
// column_filters is a JSON object; keys must be present in the schema's
// ColumnFilters allow-list and are compared as text (CAST(col AS CHAR)), since
// the listed columns include numbers, booleans and timestamps. A payload that
// is not a JSON object is logged and ignored.
//
// A Toggle is a Boolean field that is skipped when false.
//
// The returned Predicate always starts with the tenant condition, so the first
// bound argument of every compiled statement is the company id:
//
//	pred, _ := query.Compile(schema, "42", url.Values{"dev_eui": {"A,B"}})
//	sql, args, _ := pred.ToSql()
//	// (company_id = ? AND dev_eui IN (?,?))  [42 A B]
//
// # Pagination
//
// Resolve coerces page to >= 1, limit to [1, MaxLimit] (DefaultLimit when not a
// number), sortBy to the policy default when not allow-listed and sortOrder to
// DESC unless it is "asc" in any case.
package query
