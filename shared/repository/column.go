package repository

import "reflect"

type column struct {
	name  string
	table string
	alias string
}

func (c column) expr() string {
	qualified := c.table + "." + c.name
	if c.alias != "" {
		return qualified + " AS " + c.alias
	}

	return qualified
}

// columnsOf walks the db tags of t. Fields tagged with a foreign `table` are
// selectable but never inserted.
func columnsOf(table string, t reflect.Type) (selectable []column, insertable []string) {
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nestedSelect, nestedInsert := columnsOf(table, field.Type)
			selectable = append(selectable, nestedSelect...)
			insertable = append(insertable, nestedInsert...)

			continue
		}

		name := field.Tag.Get("db")
		if name == "" || name == "-" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		if owner == table {
			insertable = append(insertable, name)
		}

		if source := field.Tag.Get("column"); source != "" {
			selectable = append(selectable, column{name: source, table: owner, alias: name})

			continue
		}

		selectable = append(selectable, column{name: name, table: owner})
	}

	return selectable, insertable
}
