package models

import "strings"

// Location is one row of the Rwanda administrative hierarchy, or a picked address.
type Location struct {
	Province string `bson:"province" json:"province"`
	District string `bson:"district" json:"district"`
	Sector   string `bson:"sector" json:"sector"`
	Cell     string `bson:"cell" json:"cell"`
	Village  string `bson:"village" json:"village"`
}

// FullAddress joins the picked levels into the address stored on an order.
func (l Location) FullAddress() string {
	return JoinAddress(l.Province, l.District, l.Sector, l.Cell, l.Village)
}

// JoinAddress joins the non-empty parts with ", ".
func JoinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// LocationLevel names one level of the hierarchy.
type LocationLevel string

const (
	LevelProvince LocationLevel = "province"
	LevelDistrict LocationLevel = "district"
	LevelSector   LocationLevel = "sector"
	LevelCell     LocationLevel = "cell"
	LevelVillage  LocationLevel = "village"
)

// LocationLevels is the cascade order.
var LocationLevels = []LocationLevel{LevelProvince, LevelDistrict, LevelSector, LevelCell, LevelVillage}

type LocationSource string

const (
	LocationRemote   LocationSource = "remote"
	LocationCache    LocationSource = "cache"
	LocationFallback LocationSource = "fallback"
)

// LevelResult is one cascading dropdown's options.
type LevelResult struct {
	Level  LocationLevel  `json:"level"`
	Values []string       `json:"values"`
	Source LocationSource `json:"source"`
}
