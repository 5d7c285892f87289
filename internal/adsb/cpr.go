package adsb

import "math"

// cprModInt performs always positive MOD operation
func cprModInt(a, b int) int {
	res := a % b
	if res < 0 {
		res += b
	}
	return res
}

// cprNLTable holds the latitude thresholds below which NL takes the value
// 59 - index
var cprNLTable = [...]float64{
	10.47047130, 14.82817437, 18.18626357, 21.02939493, 23.54504487,
	25.82924707, 27.93898710, 29.91135686, 31.77209708, 33.53993436,
	35.22899598, 36.85025108, 38.41241892, 39.92256684, 41.38651832,
	42.80914012, 44.19454951, 45.54626723, 46.86733252, 48.16039128,
	49.42776439, 50.67150166, 51.89342469, 53.09516153, 54.27817472,
	55.44378444, 56.59318756, 57.72747354, 58.84763776, 59.95459277,
	61.04917774, 62.13216659, 63.20427479, 64.26616523, 65.31845310,
	66.36171008, 67.39646774, 68.42322022, 69.44242631, 70.45451075,
	71.45986473, 72.45884545, 73.45177442, 74.43893416, 75.42056257,
	76.39684391, 77.36789461, 78.33374083, 79.29428225, 80.24923213,
	81.19801349, 82.13956981, 83.07199445, 83.99173563, 84.89166191,
	85.75541621, 86.53536998, 87.00000000,
}

// NL returns the number of longitude zones at the given latitude
func NL(lat float64) int {
	absLat := math.Abs(lat)
	for i, threshold := range cprNLTable {
		if absLat < threshold {
			return 59 - i
		}
	}
	return 1
}

// fixedLatitude folds a zone latitude back into -90..90
func fixedLatitude(lat float64) float64 {
	switch {
	case lat >= 90:
		return lat - 360
	case lat <= -90:
		return lat + 360
	}
	return lat
}

// signedLongitude folds a longitude into -180..180
func signedLongitude(lon float64) float64 {
	switch {
	case lon >= 180:
		return lon - 360
	case lon <= -180:
		return lon + 360
	}
	return lon
}

// CPRLocation resolves an even (index 0) and odd (index 1) CPR pair into a
// global position. form selects the frame whose zone is used for the
// result; coeff is CPRAirborne or CPRSurface. ok is false when the two
// frames straddle a longitude zone boundary.
func CPRLocation(lat, lon [2]uint32, form uint32, coeff int) (float64, float64, bool) {
	if form > 1 || coeff <= 0 {
		return 0, 0, false
	}

	lat0 := float64(lat[0])
	lat1 := float64(lat[1])
	lon0 := float64(lon[0])
	lon1 := float64(lon[1])

	// Compute the Latitude Index "j"
	j := int(math.Floor((59*lat0-60*lat1)/CPRMax + 0.5))

	rlat := [2]float64{
		fixedLatitude(cprEvenLatStep * (float64(cprModInt(j, 60)) + lat0/CPRMax)),
		fixedLatitude(cprOddLatStep * (float64(cprModInt(j, 59)) + lat1/CPRMax)),
	}

	// Check that both are in the same latitude zone, or abort
	nl := NL(rlat[0])
	if nl != NL(rlat[1]) {
		return 0, 0, false
	}

	nlt := nl / coeff
	ni := nlt - int(form)
	if ni < 1 {
		ni = 1
	}

	m := int(math.Floor((lon0*float64(nlt-1)-lon1*float64(nlt))/CPRMax + 0.5))
	rlon := (360.0 / float64(ni)) * (float64(cprModInt(m, ni)) + float64(lon[form])/CPRMax)

	return rlat[form], signedLongitude(rlon), true
}
