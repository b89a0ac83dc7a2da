package sender

// panelHeader packs the per-send flags the 19-byte GameSnapshot frame
// itself has no room for — flash, beep_test, white_on_right, and
// brightness — into the single header byte the panel protocol prefixes to
// every binary transmission (spec §4.2: "packed into a header byte defined
// by the panel protocol (§6)").
type panelHeader struct {
	Flash        bool
	BeepTest     bool
	WhiteOnRight bool
	Brightness   uint8 // 0-31
}

func (h panelHeader) encode() byte {
	var b byte
	if h.Flash {
		b |= 1 << 0
	}
	if h.BeepTest {
		b |= 1 << 1
	}
	if h.WhiteOnRight {
		b |= 1 << 2
	}
	b |= (h.Brightness & 0x1F) << 3
	return b
}
