package model

// Filter selects documents for the adapter operations. Only a small closed
// set of predicates is supported: exact match on id, exact match on one
// queryable field, or no predicate at all (full scan, Find only).
type Filter struct {
	id    string
	field string
	value interface{}
	scan  bool
}

// ByID matches the document with the given id.
func ByID(id string) Filter {
	return Filter{id: id}
}

// ByField matches documents whose field equals value. The field must be in
// the entity's queryable set or the operation fails with
// domain.ErrUnsupportedQuery.
func ByField(field string, value interface{}) Filter {
	return Filter{field: field, value: value}
}

// All matches every document in the collection.
func All() Filter {
	return Filter{scan: true}
}
