// Package country maps ICAO 24-bit addresses to their State of registry.
package country

// Country is a State of registry with its ISO 3166 alpha-2 code
type Country struct {
	Name string
	Code string
}

// Unknown is returned for addresses outside every allocated block
var Unknown = Country{Name: "UFO", Code: "??"}

type allocation struct {
	shift    uint
	prefixes map[uint32]Country
}

// Find returns the State of registry for the address
func Find(icao uint32) Country {
	for _, a := range allocations {
		if c, ok := a.prefixes[icao>>a.shift]; ok {
			return c
		}
	}
	return Unknown
}

// Lookup returns the country name and code for the address
func Lookup(icao uint32) (string, string) {
	c := Find(icao)
	return c.Name, c.Code
}
