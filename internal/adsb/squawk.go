package adsb

// Squawk decodes the 4096 identity code of a DF5/21 reply. The identity
// bits share MACode's layout, ordered A4 A2 A1, B4 B2 B1, C4 C2 C1 and
// D4 D2 D1 per digit.
func Squawk(m Message) uint32 {
	c := MACode(m)
	digit := func(four, two, one uint) uint32 {
		return codeBit(c, four)<<2 | codeBit(c, two)<<1 | codeBit(c, one)
	}

	a := digit(acA4, acA2, acA1)
	b := digit(acB4, acB2, acB1)
	cc := digit(acC4, acC2, acC1)
	d := digit(acD4, acD2, acD1)
	return a*1000 + b*100 + cc*10 + d
}
