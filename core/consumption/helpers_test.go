package consumption

// fracRand returns from + frac*(to-from) for every draw and cycles lines.
type fracRand struct {
	frac  float64
	lines []Source
	i     int
}

func (f *fracRand) Uniform(from, to float64) float64 {
	return from + f.frac*(to-from)
}

func (f *fracRand) Line() Source {
	if len(f.lines) == 0 {
		return Line1
	}
	l := f.lines[f.i%len(f.lines)]
	f.i++
	return l
}
