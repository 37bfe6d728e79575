package core

import "strings"

// Fixed SIRUTA enumerations. Descriptions are kept exactly as published,
// including their irregular spacing.

// regionNames maps development region codes to their names.
var regionNames = map[int]string{
	1: "Nord-Est",
	2: "Sud-Est",
	3: "Sud-Muntenia",
	4: "Sud-Vest Oltenia",
	5: "Vest",
	6: "Nord-Vest",
	7: "Centru",
	8: "București-Ilfov",
}

// typeNames maps entity type codes to their descriptions.
var typeNames = map[int]string{
	1:  "municipiu reședință de județ",
	2:  "oraș ce aparține de județ",
	3:  "comună",
	4:  "municipiu, altul decât reședința de județ",
	5:  "oraș reședință de județ",
	6:  "Sector al  municipiului București",
	9:  "localitate  componentă, reședință de municipiu",
	10: "localitate componentă a unui municipiu alta decât reședință de municipiu",
	11: "sat ce aparține de municipiu",
	17: "localitate componentă, reședință a orașului",
	18: "localitate  componentă a unui oraș, alta decât reședință de oraș",
	19: "sat care aparține unui oraș",
	22: "sat reședință de comună",
	23: "sat ce aparține de comună, altul decât reședință de comună ",
	40: "județ",
}

// namePrefixes are stripped, in order, from names requested without prefix.
var namePrefixes = []string{"JUDEȚUL ", "MUNICIPIUL ", "ORAȘ ", "BUCUREȘTI "}

// countyPrefixes is the subset of namePrefixes used on county names.
var countyPrefixes = namePrefixes[:2]

// RegionName returns the canonical name of a development region.
func RegionName(region int) (string, bool) {
	name, ok := regionNames[region]
	return name, ok
}

// TypeName returns the canonical description of an entity type.
func TypeName(typeCode int) (string, bool) {
	name, ok := typeNames[typeCode]
	return name, ok
}

// stripPrefixes removes each prefix in order from the start of name and trims
// the result.
func stripPrefixes(name string, prefixes []string) string {
	for _, p := range prefixes {
		name = strings.TrimPrefix(name, p)
	}
	return strings.TrimSpace(name)
}
