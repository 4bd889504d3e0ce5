package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRegion is the sentinel behind every InvalidRegionError.
var ErrInvalidRegion = errors.New("invalid region")

// Region is a coarse geographic tag attached to an order.
type Region string

const (
	RegionNortheast Region = "northeast"
	RegionSoutheast Region = "southeast"
	RegionMidwest   Region = "midwest"
	RegionSouthwest Region = "southwest"
	RegionWest      Region = "west"

	// RegionGlobal is only valid as a trending query, never on an order.
	RegionGlobal Region = "global"

	DefaultRegion = RegionSoutheast
)

// Regions lists the order regions in display order.
var Regions = []Region{RegionNortheast, RegionSoutheast, RegionMidwest, RegionSouthwest, RegionWest}

// InvalidRegionError keeps the rejected input so it can be echoed back to the client.
type InvalidRegionError struct {
	Value string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("invalid region: %s", e.Value)
}

func (e *InvalidRegionError) Unwrap() error {
	return ErrInvalidRegion
}

// ParseRegion accepts one of Regions, case-insensitively.
func ParseRegion(s string) (Region, error) {
	r := Region(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Regions {
		if r == known {
			return r, nil
		}
	}
	return "", &InvalidRegionError{Value: s}
}

// ParseTrendingRegion accepts one of Regions or RegionGlobal.
func ParseTrendingRegion(s string) (Region, error) {
	if Region(strings.ToLower(strings.TrimSpace(s))) == RegionGlobal {
		return RegionGlobal, nil
	}
	return ParseRegion(s)
}

// IsGlobal reports whether r is the unfiltered trending sentinel.
func (r Region) IsGlobal() bool {
	return r == RegionGlobal
}
