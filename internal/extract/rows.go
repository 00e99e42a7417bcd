package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"udyami/internal/domain"
)

// FromRow maps one tabular row onto a record of kind using the column
// aliases of the extraction table. Cells go through the same numeric, enum
// and absent-value rules as markdown labels, and the same required fields
// apply. Columns may also be named by the record's JSON field name.
func FromRow(kind domain.DocumentKind, header, row []string) (domain.Record, bool) {
	tbl, ok := tableFor(kind)
	if !ok {
		return nil, false
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := headerKey(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	vals := make(values, len(tbl.fields))
	for i := range tbl.fields {
		f := &tbl.fields[i]
		candidates := make([]string, 0, len(f.columns)+1)
		candidates = append(candidates, f.columns...)
		for _, col := range append(candidates, f.name) {
			pos, found := index[headerKey(col)]
			if !found || pos >= len(row) {
				continue
			}
			if v, ok := f.convert(row[pos]); ok {
				vals[f.name] = v
				break
			}
		}
	}
	return tbl.complete(vals)
}

// Columns returns the preferred header for every field of kind, in table order.
func Columns(kind domain.DocumentKind) []string {
	tbl, ok := tableFor(kind)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(tbl.fields))
	for i := range tbl.fields {
		out = append(out, tbl.fields[i].columns[0])
	}
	return out
}

func headerKey(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// ToRow renders rec as cells in the order of Columns(rec.Kind()). Absent
// optional fields become empty cells.
func ToRow(rec domain.Record) []string {
	if rec == nil {
		return nil
	}
	tbl, ok := tableFor(rec.Kind())
	if !ok {
		return nil
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil
	}

	out := make([]string, len(tbl.fields))
	for i := range tbl.fields {
		switch v := m[tbl.fields[i].name].(type) {
		case string:
			out[i] = v
		case json.Number:
			out[i] = v.String()
		}
	}
	return out
}
