package cpu

// Timer is a countdown register decremented at 60Hz.
type Timer uint8

// Tick decrements the timer, stopping at zero.
func (t *Timer) Tick() {
	if *t > 0 {
		*t--
	}
}

// Active returns true while the timer is counting.
func (t Timer) Active() bool {
	return t != 0
}
