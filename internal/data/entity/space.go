package entity

import (
	"fmt"
	"time"
)

type SpaceType string

const (
	SpaceTypeCoworking  SpaceType = "Co-working"
	SpaceTypeConference SpaceType = "Conference"
)

// ParseSpaceType validates a caller-supplied space type string.
func ParseSpaceType(s string) (SpaceType, error) {
	switch SpaceType(s) {
	case SpaceTypeCoworking:
		return SpaceTypeCoworking, nil
	case SpaceTypeConference:
		return SpaceTypeConference, nil
	default:
		return "", fmt.Errorf("unknown space type %q", s)
	}
}

// SpaceRates is the pricing configuration for one space type.
type SpaceRates struct {
	TotalSpace         int
	PricePerSeatHour   float64
	WholeSpaceDiscount float64
}

// Catalog is the static space configuration, loaded once at startup.
// Lookups fail only on an unknown space type, which is a programming error
// rather than a runtime condition.
type Catalog struct {
	rates map[SpaceType]SpaceRates
	order []SpaceType
}

func NewCatalog(coworking, conference SpaceRates) *Catalog {
	return &Catalog{
		rates: map[SpaceType]SpaceRates{
			SpaceTypeCoworking:  coworking,
			SpaceTypeConference: conference,
		},
		order: []SpaceType{SpaceTypeCoworking, SpaceTypeConference},
	}
}

// Types returns all configured space types in a stable order.
func (c *Catalog) Types() []SpaceType {
	return c.order
}

// Capacity returns the fixed seat capacity of a space type.
func (c *Catalog) Capacity(spaceType SpaceType) (int, error) {
	rates, ok := c.rates[spaceType]
	if !ok {
		return 0, fmt.Errorf("unknown space type %q", spaceType)
	}
	return rates.TotalSpace, nil
}

// Rates returns the pricing configuration of a space type.
func (c *Catalog) Rates(spaceType SpaceType) (SpaceRates, error) {
	rates, ok := c.rates[spaceType]
	if !ok {
		return SpaceRates{}, fmt.Errorf("unknown space type %q", spaceType)
	}
	return rates, nil
}

// Price computes the booking amount. A whole-space booking pays for the
// full capacity minus the flat discount.
func (c *Catalog) Price(spaceType SpaceType, seats int, wholeSpace bool, hours int) (float64, error) {
	rates, ok := c.rates[spaceType]
	if !ok {
		return 0, fmt.Errorf("unknown space type %q", spaceType)
	}

	if wholeSpace {
		return rates.PricePerSeatHour*float64(rates.TotalSpace)*float64(hours) - rates.WholeSpaceDiscount, nil
	}
	return rates.PricePerSeatHour * float64(seats) * float64(hours), nil
}

// SpaceStats is the denormalized per-type counter row. It is a rebuildable
// cache and a lock anchor for admissions; availability is always derived
// from the bookings themselves.
type SpaceStats struct {
	SpaceType      SpaceType `db:"space_type"`
	AvailableSpace int       `db:"available_space"`
	BookedSpace    int       `db:"booked_space"`
	TotalSpace     int       `db:"total_space"`
	UpdatedAt      time.Time `db:"updated_at"`
}
