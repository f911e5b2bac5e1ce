package entity

// scriptRoller returns the given rolls in order and repeats the last
// one when exhausted.
func scriptRoller(rolls ...int) Roller {
	i := 0
	return func() int {
		if i >= len(rolls) {
			return rolls[len(rolls)-1]
		}
		roll := rolls[i]
		i++
		return roll
	}
}
