package cpu

const (
	KEY_COUNT = 16
)

// Keypad is the pressed state of the 16 hex keys.
type Keypad [KEY_COUNT]bool

// Set updates the state of a key. Returns true if the key went from
// released to pressed.
func (kp *Keypad) Set(key int, pressed bool) (down bool) {
	down = pressed && !kp[key]
	kp[key] = pressed
	return
}

// Pressed returns the state of the key in the low nibble of key.
func (kp *Keypad) Pressed(key uint8) bool {
	return kp[key&0xf]
}
