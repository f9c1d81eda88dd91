// Package stats defines the category registry, per-category schemas, typed
// record values, and the error taxonomy shared by the scrape, store, convert
// and validate layers.
package stats

import (
	"fmt"
	"math"
	"strings"
)

// Category is one tracked position grouping. Each category owns a fixed,
// ordered schema.
type Category string

const (
	QB Category = "qb"
	RB Category = "rb"
	WR Category = "wr"
	TE Category = "te"
)

// Categories lists all supported categories in scrape order.
var Categories = []Category{QB, RB, WR, TE}

// ParseCategory resolves a case-insensitive category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Registry[c]; !ok {
		return "", fmt.Errorf("unknown category %q (expected one of %v)", s, Categories)
	}
	return c, nil
}

// FieldType is the declared semantic type of a schema field.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldDecimal
)

// Field is one (name, type) pair of a category schema.
type Field struct {
	Name string
	Type FieldType
}

// RangeRule bounds a numeric field, inclusive on both ends.
type RangeRule struct {
	Field string
	Min   float64
	Max   float64
}

// CategoryConfig is the immutable schema descriptor for one category.
type CategoryConfig struct {
	ID     Category
	Name   string
	Schema []Field
	Ranges []RangeRule
}

// PrimaryField identifies a record; rows whose primary field does not coerce
// are dropped from the record set.
const PrimaryField = "Player"

// Valid season range for the source site's advanced stats pages.
const (
	MinPeriod = 2013
	MaxPeriod = 2024
)

// ValidPeriod reports whether a season year is inside the supported range.
func ValidPeriod(period int) bool {
	return period >= MinPeriod && period <= MaxPeriod
}

var rankingRanges = []RangeRule{
	{Field: "Rank", Min: 1, Max: math.Inf(1)},
	{Field: "G", Min: 0, Max: 18},
}

// Registry maps each category to its schema descriptor. Adding a category
// means adding one entry here; no other component branches on categories.
var Registry = map[Category]CategoryConfig{
	QB: {
		ID:   QB,
		Name: "Quarterback",
		Schema: []Field{
			{"Rank", FieldInt},
			{"Player", FieldString},
			{"Team", FieldString},
			{"G", FieldInt},
			{"COMP", FieldInt},
			{"ATT", FieldInt},
			{"PCT", FieldDecimal},
			{"YDS", FieldInt},
			{"Y/A", FieldDecimal},
			{"AIR", FieldInt},
			{"AIR/A", FieldDecimal},
			{"10+ YDS", FieldInt},
			{"20+ YDS", FieldInt},
			{"30+ YDS", FieldInt},
			{"40+ YDS", FieldInt},
			{"50+ YDS", FieldInt},
			{"PKT TIME", FieldDecimal},
			{"SACK", FieldInt},
			{"KNCK", FieldInt},
			{"HRRY", FieldInt},
			{"BLITZ", FieldInt},
			{"POOR", FieldInt},
			{"DROP", FieldInt},
			{"RZ ATT", FieldInt},
			{"RTG", FieldDecimal},
		},
		Ranges: append([]RangeRule{
			{Field: "PCT", Min: 0, Max: 100},
		}, rankingRanges...),
	},
	RB: {
		ID:   RB,
		Name: "Running Back",
		Schema: []Field{
			{"Rank", FieldInt},
			{"Player", FieldString},
			{"Team", FieldString},
			{"G", FieldInt},
			{"ATT", FieldInt},
			{"YDS", FieldInt},
			{"Y/ATT", FieldDecimal},
			{"YBCON", FieldInt},
			{"YBCON/ATT", FieldDecimal},
			{"YACON (Rushing)", FieldInt},
			{"YACON/ATT", FieldDecimal},
			{"BRKTKL", FieldInt},
			{"TK LOSS", FieldInt},
			{"TK LOSS YDS", FieldInt},
			{"LNG TD", FieldInt},
			{"10+ YDS", FieldInt},
			{"20+ YDS", FieldInt},
			{"30+ YDS", FieldInt},
			{"40+ YDS", FieldInt},
			{"50+ YDS", FieldInt},
			{"LNG", FieldInt},
			{"REC", FieldInt},
			{"TGT", FieldInt},
			{"RZ TGT", FieldInt},
			{"YACON (Receiving)", FieldInt},
		},
		Ranges: rankingRanges,
	},
	WR: {
		ID:     WR,
		Name:   "Wide Receiver",
		Schema: receivingSchema,
		Ranges: append([]RangeRule{
			{Field: "% TM", Min: 0, Max: 100},
		}, rankingRanges...),
	},
	TE: {
		ID:     TE,
		Name:   "Tight End",
		Schema: receivingSchema,
		Ranges: append([]RangeRule{
			{Field: "% TM", Min: 0, Max: 100},
		}, rankingRanges...),
	},
}

// WR and TE share the receiving stat layout on the source site.
var receivingSchema = []Field{
	{"Rank", FieldInt},
	{"Player", FieldString},
	{"Team", FieldString},
	{"G", FieldInt},
	{"REC", FieldInt},
	{"YDS", FieldInt},
	{"Y/R", FieldDecimal},
	{"YBC", FieldInt},
	{"YBC/R", FieldDecimal},
	{"AIR", FieldInt},
	{"AIR/R", FieldDecimal},
	{"YAC", FieldInt},
	{"YAC/R", FieldDecimal},
	{"YACON", FieldInt},
	{"YACON/R", FieldDecimal},
	{"BRKTKL", FieldInt},
	{"TGT", FieldInt},
	{"% TM", FieldDecimal},
	{"CATCHABLE", FieldInt},
	{"DROP", FieldInt},
	{"RZ TGT", FieldInt},
	{"10+ YDS", FieldInt},
	{"20+ YDS", FieldInt},
	{"30+ YDS", FieldInt},
	{"40+ YDS", FieldInt},
	{"50+ YDS", FieldInt},
	{"LNG", FieldInt},
}

// FieldNames returns the schema field names in declared order.
func (c CategoryConfig) FieldNames() []string {
	names := make([]string, len(c.Schema))
	for i, f := range c.Schema {
		names[i] = f.Name
	}
	return names
}

// FieldByName looks up a schema field by name.
func (c CategoryConfig) FieldByName(name string) (Field, bool) {
	for _, f := range c.Schema {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
