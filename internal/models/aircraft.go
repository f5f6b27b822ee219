package models

// Aircraft represents immutable aircraft reference data with per-class capacities
type Aircraft struct {
	AircraftID    string `json:"aircraft_id" db:"aircraft_id"`
	AircraftType  string `json:"aircraft_type" db:"aircraft_type"`
	TotalSeats    int    `json:"total_seats" db:"total_seats"`
	FirstSeats    int    `json:"first_class_seats" db:"first_class_seats"`
	BusinessSeats int    `json:"business_class_seats" db:"business_class_seats"`
	EconomySeats  int    `json:"economy_class_seats" db:"economy_class_seats"`
	Manufacturer  string `json:"manufacturer" db:"manufacturer"`
	Status        string `json:"status" db:"status"`
}

// SeatsForClass returns the seat capacity of the given cabin class
func (a *Aircraft) SeatsForClass(class CabinClass) int {
	switch class {
	case CabinFirst:
		return a.FirstSeats
	case CabinBusiness:
		return a.BusinessSeats
	case CabinEconomy:
		return a.EconomySeats
	}
	return 0
}
