package mode

// Mode is the query strategy.
type Mode string

// Query mode constants.
const (
	Default Mode = ""
	// Autocomplete matches titles by prefix.
	Autocomplete Mode = "autocomplete"
)

// Parse returns the mode named by s. Only "autocomplete" is recognized.
func Parse(s string) (Mode, bool) {
	if Mode(s) == Autocomplete {
		return Autocomplete, true
	}
	return Default, false
}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Default || m == Autocomplete
}
