package entity

import (
	"time"
)

// DocumentType labels the source packet. It accompanies the upload; it is
// never inferred from content.
type DocumentType string

const (
	DocFinal  DocumentType = "final"
	DocPrelim DocumentType = "prelim"
)

// Valid reports whether the document type is one of the known values.
func (d DocumentType) Valid() bool {
	return d == DocFinal || d == DocPrelim
}

// Leg is one flight within a pairing. Day is the 1-based work-day index
// within the pairing. ArrivesNextDay is set when the arrival clock time is
// numerically earlier than departure, meaning the leg crossed midnight.
type Leg struct {
	Day            int           `json:"day"`
	FlightNumber   string        `json:"flight_number"`
	DisplayNumber  string        `json:"display_number"`
	Origin         string        `json:"origin"`
	Destination    string        `json:"destination"`
	Departure      ClockTime     `json:"departure"`
	Arrival        ClockTime     `json:"arrival"`
	Block          time.Duration `json:"block"`
	ArrivesNextDay bool          `json:"arrives_next_day"`
	Deadhead       bool          `json:"deadhead"`
}

// Layover is an overnight stop between duty days.
type Layover struct {
	City     string        `json:"city"`
	Hotel    string        `json:"hotel,omitempty"`
	Duration time.Duration `json:"duration"`
}

// PairingRecord is one parsed pairing. Constructed once by the extractor
// from a single segment and immutable thereafter.
type PairingRecord struct {
	ID         string    `json:"id"`
	TripNumber string    `json:"trip_number"`
	Base       string    `json:"base,omitempty"`
	Report     ClockTime `json:"report"`
	Release    ClockTime `json:"release"`
	Legs       []Leg     `json:"legs"`
	Layovers   []Layover `json:"layovers,omitempty"`

	TAFB         time.Duration `json:"tafb"`
	Credit       time.Duration `json:"credit,omitempty"`
	CreditPerDay float64       `json:"credit_per_day,omitempty"`
	PerDiem      float64       `json:"per_diem"`
	DaysOfWork   int           `json:"days_of_work"`

	Weekdays       WeekdayMask `json:"weekdays"`
	OperatingDates []string    `json:"operating_dates,omitempty"`

	Redeye         bool          `json:"redeye"`
	Commutable     bool          `json:"commutable"`
	Lazy           bool          `json:"lazy"`
	WeekdayOnly    bool          `json:"weekday_only"`
	HasDeadhead    bool          `json:"has_deadhead"`
	Prelim         bool          `json:"prelim,omitempty"`
	LongestLayover time.Duration `json:"longest_layover,omitempty"`
}

// Warning is a soft annotation attached to a ParseResult so affected
// pairings can be flagged without failing the upload.
type Warning struct {
	PairingID string `json:"pairing_id,omitempty"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// ParseResult is the unit stored in the cache and returned to the caller.
// Immutable once assembled.
type ParseResult struct {
	DocType  DocumentType    `json:"doc_type"`
	Month    time.Month      `json:"month"`
	Year     int             `json:"year"`
	Pairings []PairingRecord `json:"pairings"`
	Warnings []Warning       `json:"warnings,omitempty"`
}
