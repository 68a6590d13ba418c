package position

// SpanSet records spans. Two positions are the same span when they start at
// the same offset and cover the same text.
type SpanSet struct {
	spans map[RawPosition]struct{}
}

func NewSpanSet() *SpanSet {
	return &SpanSet{spans: map[RawPosition]struct{}{}}
}

// Mark adds pos and reports whether it was new.
func (me *SpanSet) Mark(pos RawPosition) bool {
	if _, ok := me.spans[pos]; ok {
		return false
	}
	me.spans[pos] = struct{}{}
	return true
}

func (me *SpanSet) Has(pos RawPosition) bool {
	_, ok := me.spans[pos]
	return ok
}

func (me *SpanSet) Len() int {
	return len(me.spans)
}
