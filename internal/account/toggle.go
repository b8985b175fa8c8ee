package account

// ProToggleTaps is how many consecutive avatar taps flip the plan
const ProToggleTaps = 5

// ProToggle is the hidden developer switch on the settings avatar. It is a
// testing shortcut, not an entitlement check.
type ProToggle struct {
	taps int
}

// records one tap; on the fifth it flips IsPro, resets the count and
// reports true
func (p *ProToggle) Tap(u *User) bool {
	p.taps++
	if p.taps < ProToggleTaps {
		return false
	}

	p.taps = 0
	u.IsPro = !u.IsPro

	return true
}

// clears the count, called when the settings view is left
func (p *ProToggle) Reset() {
	p.taps = 0
}

func (p *ProToggle) Taps() int {
	return p.taps
}
