package game

// Effect resolution. Magnitudes come from card data and may exceed what a
// field holds, so every rule clamps instead of failing.

// fertilize turns up to n of the source's small units into big units and
// returns how many were converted.
func fertilize(src *Participant, n int) int {
	if n <= 0 {
		return 0
	}
	if small := src.field.Small(); small < n {
		n = small
	}
	src.field.AddSmall(-n)
	src.field.AddBig(n)
	return n
}

// giantTrade gives the source n small units.
func giantTrade(src *Participant, n int) int {
	if n <= 0 {
		return 0
	}
	return src.field.AddSmall(n)
}

// hobgoblin steals up to n small units from target. The target's protection
// is subtracted first and is used up whether or not it absorbed anything.
// It returns the units moved and the protection spent.
func hobgoblin(src, target *Participant, n int) (stolen, absorbed int) {
	absorbed = target.protection.Consume()
	n -= absorbed
	if n <= 0 {
		return 0, absorbed
	}
	if small := target.field.Small(); small < n {
		n = small
	}
	target.field.AddSmall(-n)
	src.field.AddSmall(n)
	return n, absorbed
}

// taupe destroys up to n of the target's big units. Nothing goes to the
// source.
func taupe(target *Participant, n int) int {
	if n <= 0 {
		return 0
	}
	return -target.field.AddBig(-n)
}

// guard adds n to the source's protection.
func guard(src *Participant, n int) int {
	if n <= 0 {
		return 0
	}
	src.protection.Add(n)
	return n
}
