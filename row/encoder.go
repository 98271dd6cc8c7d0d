package row

// Encoder accumulates the sample pairs of one scanline.
type Encoder struct {
	empty     float64
	emptyByte byte

	started bool
	offset  int
	blanks  int
	data    []byte
}

// NewEncoder returns an Encoder for a plane whose neutral sample is empty.
func NewEncoder(empty float64) *Encoder {
	return &Encoder{
		empty:     empty,
		emptyByte: byte(empty),
	}
}

// Reset clears the encoder so it can be used for the next scanline.
func (e *Encoder) Reset() {
	e.started = false
	e.offset = 0
	e.blanks = 0
	e.data = nil
}

// Push appends the unrounded sample pair a, b found at column pair i. Pairs
// must be pushed in increasing column order.
func (e *Encoder) Push(i int, a, b float64) {
	if approxEqual(a, e.empty) && approxEqual(b, e.empty) {
		e.blanks++
		return
	}

	switch {
	case !e.started:
		e.started = true
		e.offset = i
	case e.blanks > 0:
		for n := 0; n < e.blanks; n++ {
			e.data = append(e.data, e.emptyByte, e.emptyByte)
		}
	}
	e.blanks = 0

	e.data = append(e.data, byte(a), byte(b))
}

// Row returns the encoded scanline, or nil if every pushed pair was empty.
func (e *Encoder) Row() (*Row, error) {
	if !e.started {
		return nil, nil
	}

	data := make([]byte, len(e.data))
	copy(data, e.data)

	c, err := compress(data)
	if err != nil {
		return nil, err
	}
	if len(c) < len(data) {
		return &Row{Offset: e.offset, Data: c, Compressed: true}, nil
	}
	return &Row{Offset: e.offset, Data: data}, nil
}
