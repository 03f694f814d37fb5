package types

// EditInfo describes a single replacement in the transcript buffer.
// All offsets are rune indexes into the buffer.
type EditInfo struct {
	Start  int // First rune of the replaced text
	OldEnd int // End of the replaced text before the edit
	NewEnd int // End of the inserted text after the edit
}

// Delta returns how much the buffer length changed.
func (e EditInfo) Delta() int {
	return e.NewEnd - e.OldEnd
}
