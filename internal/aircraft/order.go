package aircraft

import (
	"math"
	"sort"
)

// Sort orders planes by ICAO address, then applies one stable sort per key
// character in turn, so the last key is the primary one. Unknown values
// sort before known ones. Keys:
//
//	a/A altitude ascending/descending
//	c   category ascending
//	C   category descending
//	N/S latitude ascending/descending, whole degrees
//	W/E longitude ascending/descending, whole degrees
//	s   squawk
//	v/V vertical rate ascending/descending
//
// Unrecognised characters are ignored.
func Sort(planes []Plane, order string) {
	sort.SliceStable(planes, func(i, j int) bool { return planes[i].ICAO < planes[j].ICAO })

	for _, key := range order {
		switch key {
		case 'a':
			sortBy(planes, func(p *Plane) (float64, bool) { return intValue(p.Altitude) })
		case 'A':
			sortBy(planes, func(p *Plane) (float64, bool) { return intValue(p.Altitude) })
			reverse(planes)
		case 'c':
			sortBy(planes, func(p *Plane) (float64, bool) {
				return float64(p.Category[0]<<3 | p.Category[1]), true
			})
		case 'C':
			sortBy(planes, func(p *Plane) (float64, bool) {
				return -float64(p.Category[0]<<1 | p.Category[1]), true
			})
		case 'N':
			sortBy(planes, func(p *Plane) (float64, bool) { return positionValue(p, p.Lat) })
		case 'S':
			sortBy(planes, func(p *Plane) (float64, bool) { return negate(positionValue(p, p.Lat)) })
		case 'W':
			sortBy(planes, func(p *Plane) (float64, bool) { return positionValue(p, p.Lon) })
		case 'E':
			sortBy(planes, func(p *Plane) (float64, bool) { return negate(positionValue(p, p.Lon)) })
		case 's':
			sortBy(planes, func(p *Plane) (float64, bool) {
				if p.Squawk == nil {
					return 0, false
				}
				return float64(*p.Squawk), true
			})
		case 'v':
			sortBy(planes, func(p *Plane) (float64, bool) { return rateValue(p), true })
		case 'V':
			sortBy(planes, func(p *Plane) (float64, bool) { return -rateValue(p), true })
		}
	}
}

// sortBy stable sorts on an optional key, absent values first
func sortBy(planes []Plane, key func(*Plane) (float64, bool)) {
	sort.SliceStable(planes, func(i, j int) bool {
		vi, oki := key(&planes[i])
		vj, okj := key(&planes[j])
		if oki != okj {
			return !oki
		}
		return vi < vj
	})
}

func reverse(planes []Plane) {
	for i, j := 0, len(planes)-1; i < j; i, j = i+1, j-1 {
		planes[i], planes[j] = planes[j], planes[i]
	}
}

func intValue(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

// positionValue truncates a coordinate to whole degrees
func positionValue(p *Plane, v float64) (float64, bool) {
	if !p.HasPosition() {
		return 0, false
	}
	return math.Trunc(v), true
}

func negate(v float64, ok bool) (float64, bool) {
	return -v, ok
}

func rateValue(p *Plane) float64 {
	if p.VerticalRate == nil {
		return 0
	}
	return float64(*p.VerticalRate)
}
