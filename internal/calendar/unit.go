package calendar

// Unit is a calendar granularity used for offsets and rounding.
type Unit int

// Supported units. The zero value is not a valid unit.
const (
	Millisecond Unit = iota + 1
	Second
	Minute
	Hour
	Day
	Week
	Month
	Quarter
	Year
)

var unitCodes = map[Unit]string{
	Millisecond: "ms",
	Second:      "s",
	Minute:      "m",
	Hour:        "h",
	Day:         "d",
	Week:        "w",
	Month:       "M",
	Quarter:     "Q",
	Year:        "y",
}

var unitNames = map[Unit]string{
	Millisecond: "millisecond",
	Second:      "second",
	Minute:      "minute",
	Hour:        "hour",
	Day:         "day",
	Week:        "week",
	Month:       "month",
	Quarter:     "quarter",
	Year:        "year",
}

var codeUnits = func() map[string]Unit {
	m := make(map[string]Unit, len(unitCodes))
	for u, code := range unitCodes {
		m[code] = u
	}
	return m
}()

// ParseUnit returns the unit for a short code such as "d" or "M".
// Codes are case-sensitive: "m" is minute and "M" is month.
func ParseUnit(code string) (Unit, bool) {
	u, ok := codeUnits[code]
	return u, ok
}

// Units returns every supported unit, largest first.
func Units() []Unit {
	return []Unit{Year, Quarter, Month, Week, Day, Hour, Minute, Second, Millisecond}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	_, ok := unitCodes[u]
	return ok
}

// Code returns the short code for the unit, e.g. "Q" for Quarter.
func (u Unit) Code() string {
	return unitCodes[u]
}

// String returns the long unit name.
func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return "unknown"
}
