package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Dataset names one of the tracked observation sources.
type Dataset string

const (
	Weather     Dataset = "weather"
	Financial   Dataset = "financial"
	Health      Dataset = "health"
	Tech        Dataset = "tech"
	Agriculture Dataset = "agriculture"
)

// Datasets lists every known dataset in display order.
var Datasets = []Dataset{Weather, Financial, Health, Tech, Agriculture}

// ParseDataset resolves a user-supplied name against the closed set.
func ParseDataset(name string) (Dataset, error) {
	d := Dataset(name)
	if !slices.Contains(Datasets, d) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDataset, name)
	}
	return d, nil
}

// FieldType is the semantic type of a record field.
type FieldType int

const (
	Numeric FieldType = iota
	Categorical
)

// Field describes one named field of a dataset.
type Field struct {
	Name string
	Type FieldType
}

// Schema is the ordered field list of a dataset, excluding date.
type Schema []Field

// NumericFields returns the names of numeric fields in schema order.
func (s Schema) NumericFields() []string {
	var out []string
	for _, f := range s {
		if f.Type == Numeric {
			out = append(out, f.Name)
		}
	}
	return out
}

var schemas = map[Dataset]Schema{
	Weather: {
		{"temperature", Numeric},
		{"humidity", Numeric},
		{"pressure", Numeric},
	},
	Financial: {
		{"symbol", Categorical},
		{"close", Numeric},
		{"volume", Numeric},
		{"high", Numeric},
		{"low", Numeric},
	},
	Health: {
		{"cases", Numeric},
		{"deaths", Numeric},
		{"recovered", Numeric},
	},
	Tech: {
		{"company", Categorical},
		{"company_name", Categorical},
		{"category", Categorical},
		{"stock_price", Numeric},
		{"trading_volume", Numeric},
		{"market_cap", Numeric},
		{"volatility", Numeric},
	},
	Agriculture: {
		{"crop", Categorical},
		{"region", Categorical},
		{"temperature", Numeric},
		{"humidity", Numeric},
		{"production", Numeric},
		{"rainfall", Numeric},
		{"soil_moisture", Numeric},
	},
}

// SchemaFor returns the field schema of a dataset, or nil for an unknown one.
func SchemaFor(d Dataset) Schema {
	return schemas[d]
}

// Record is one normalized observation. Numeric fields absent from Numbers are null.
type Record struct {
	Date    string
	Numbers map[string]float64
	Labels  map[string]string
}

// Number returns a numeric field and whether it is non-null.
func (r Record) Number(name string) (float64, bool) {
	v, ok := r.Numbers[name]
	return v, ok
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{
		Date:    r.Date,
		Numbers: maps.Clone(r.Numbers),
		Labels:  maps.Clone(r.Labels),
	}
}

// Series is the ordered record collection of one dataset.
type Series struct {
	Dataset Dataset
	Schema  Schema
	Records []Record
}

// EmptySeries returns a series with the dataset schema and no records.
func EmptySeries(d Dataset) Series {
	return Series{Dataset: d, Schema: SchemaFor(d)}
}

// Len returns the number of records.
func (s Series) Len() int { return len(s.Records) }

// Clone returns a deep copy of the series.
func (s Series) Clone() Series {
	out := Series{Dataset: s.Dataset, Schema: slices.Clone(s.Schema)}
	if s.Records != nil {
		out.Records = make([]Record, len(s.Records))
		for i, r := range s.Records {
			out.Records[i] = r.Clone()
		}
	}
	return out
}

// Flatten renders each record as a flat object keyed by field name.
// Null numeric fields are present with a nil value.
func (s Series) Flatten() []map[string]any {
	out := make([]map[string]any, 0, len(s.Records))
	for _, r := range s.Records {
		row := make(map[string]any, len(s.Schema)+1)
		row["date"] = r.Date
		for _, f := range s.Schema {
			switch f.Type {
			case Numeric:
				if v, ok := r.Numbers[f.Name]; ok {
					row[f.Name] = v
				} else {
					row[f.Name] = nil
				}
			case Categorical:
				row[f.Name] = r.Labels[f.Name]
			}
		}
		out = append(out, row)
	}
	return out
}

// MarshalJSON encodes the series as an array of flat objects.
func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flatten())
}

func sortByDate(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		default:
			return 0
		}
	})
}
