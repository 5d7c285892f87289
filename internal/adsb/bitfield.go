package adsb

// bitLocation maps a 1-based Annex-10 bit position to its nibble index and
// the bit offset inside that nibble (0 = most significant).
func bitLocation(position uint) (int, uint) {
	return int((position - 1) / 4), (position - 1) % 4
}

// FlagAndRange extracts the value held in bits start..end (inclusive) and
// the single status bit at position flag. A flag of 0 means the field has
// no status bit and yields 0. ok is false when the range is inverted or
// falls outside the message.
func (m Message) FlagAndRange(flag, start, end uint) (uint32, uint32, bool) {
	if start == 0 || end < start || end > m.Bits() || flag > m.Bits() {
		return 0, 0, false
	}

	sIdx, sBit := bitLocation(start)
	eIdx, eBit := bitLocation(end)

	var value uint32
	switch eIdx - sIdx {
	case 0:
		value = (m[sIdx] & (0xF >> sBit)) >> (3 - eBit)
	case 1:
		value = (m[sIdx]&(0xF>>sBit))<<(eBit+1) | m[eIdx]>>(3-eBit)
	default:
		acc := m[sIdx] & (0xF >> sBit)
		for _, n := range m[sIdx+1 : eIdx] {
			acc = acc<<4 | n&0xF
		}
		value = acc<<(eBit+1) | m[eIdx]>>(3-eBit)
	}

	var status uint32
	if flag != 0 {
		fIdx, fBit := bitLocation(flag)
		status = (m[fIdx] >> (3 - fBit)) & 1
	}
	return status, value, true
}

// Range extracts bits start..end without a status bit
func (m Message) Range(start, end uint) (uint32, bool) {
	_, value, ok := m.FlagAndRange(0, start, end)
	return value, ok
}

// StatusFlagAndRange extracts a field that carries both a status bit and a
// sign bit ahead of its magnitude.
func (m Message) StatusFlagAndRange(status, sign, start, end uint) (uint32, uint32, uint32, bool) {
	s, value, ok := m.FlagAndRange(status, start, end)
	if !ok {
		return 0, 0, 0, false
	}
	g, _, ok := m.FlagAndRange(sign, start, end)
	if !ok {
		return 0, 0, 0, false
	}
	return s, g, value, true
}

// GoodFlags reports whether the status bit is set and the field is non-zero
func (m Message) GoodFlags(flag, start, end uint) bool {
	status, value, ok := m.FlagAndRange(flag, start, end)
	return ok && status == 1 && value != 0
}

// Consistent reports whether a status-gated field agrees with its status:
// set status with a non-zero value, or clear status with an all-zero value.
func (m Message) Consistent(flag, start, end uint) bool {
	status, value, ok := m.FlagAndRange(flag, start, end)
	if !ok {
		return false
	}
	return (status == 1) == (value != 0)
}

// bit returns the single bit at position p
func (m Message) bit(p uint) uint32 {
	v, _ := m.Range(p, p)
	return v
}
