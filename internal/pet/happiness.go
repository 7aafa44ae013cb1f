package pet

const (
	MinHappiness     = 0
	MaxHappiness     = 10
	DefaultHappiness = 5
)

// Clamp returns lo if x < lo, hi if x > hi, else x.
func Clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// AddClamped returns Clamp(cur+delta, MinHappiness, MaxHappiness) for cur in
// range, saturating instead of overflowing for extreme deltas.
func AddClamped(cur, delta int) int {
	cur = Clamp(cur, MinHappiness, MaxHappiness)
	if delta > MaxHappiness-cur {
		return MaxHappiness
	}
	if delta < MinHappiness-cur {
		return MinHappiness
	}
	return cur + delta
}

func clampHappiness(v int) int {
	return Clamp(v, MinHappiness, MaxHappiness)
}
