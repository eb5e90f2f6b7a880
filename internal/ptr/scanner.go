package ptr

import "strings"

// Match is one transaction row located in a transactions block. Offsets are
// byte positions in the block; Text is exactly block[Start:End].
type Match struct {
	Start int
	End   int
	Text  string

	Asset            string
	Type             string
	TransactionDate  string
	NotificationDate string
	Amount           string
	FilingStatus     string

	SubholdingOf *string
	Comment      *string
	Description  *string
}

func (m *Match) setAnnotation(name string, text *string) {
	switch name {
	case subholdingAnnotation.name:
		m.SubholdingOf = text
	case commentAnnotation.name:
		m.Comment = text
	case descriptionAnnotation.name:
		m.Description = text
	}
}

var (
	headAssetIndex            = headPattern.SubexpIndex("asset")
	headTypeIndex             = headPattern.SubexpIndex("type")
	headTransactionDateIndex  = headPattern.SubexpIndex("transaction_date")
	headNotificationDateIndex = headPattern.SubexpIndex("notification_date")
	headAmountIndex           = headPattern.SubexpIndex("amount")
)

// head is the fixed-shape prefix of a row, from the asset up to and including
// the filing status marker.
type head struct {
	ok  bool
	end int

	asset            string
	typeCode         string
	transactionDate  string
	notificationDate string
	amount           string
}

// scanner walks a block the way a backtracking regex engine would walk the
// row grammar: lazy free text, optional annotation groups tried before being
// skipped, and lookahead for the next row or the end of input.
type scanner struct {
	s     string
	heads map[int]head
	// lastHead is the greatest offset a head can start at, -1 if none can.
	lastHead int
}

func newScanner(s string) *scanner {
	return &scanner{s: s, heads: make(map[int]head), lastHead: lastHeadStart(s)}
}

// lastHeadStart returns the offset of the last opening bracket that precedes
// a complete head tail. The lazy asset span lets a head start at any offset
// up to it and at none after it.
func lastHeadStart(s string) int {
	for j := strings.LastIndexByte(s, ']'); j >= 0; j = strings.LastIndexByte(s[:j], ']') {
		if headTailPattern.MatchString(s[j:]) {
			return strings.LastIndexByte(s[:j], '[')
		}
	}
	return -1
}

// FindTransactionMatches returns every non-overlapping row match in block,
// left to right.
func FindTransactionMatches(block string) []Match {
	sc := newScanner(block)

	var matches []Match
	pos := 0
	for pos < len(block) {
		m, ok := sc.matchAt(pos)
		if !ok {
			// The asset span absorbs any prefix, so no head here means no
			// head anywhere further on either.
			break
		}
		matches = append(matches, m)
		pos = m.End
	}
	return matches
}

func (sc *scanner) head(pos int) head {
	if pos > sc.lastHead {
		return head{}
	}
	if h, ok := sc.heads[pos]; ok {
		return h
	}

	var h head
	if loc := headPattern.FindStringSubmatchIndex(sc.s[pos:]); loc != nil {
		group := func(i int) string { return sc.s[pos+loc[2*i] : pos+loc[2*i+1]] }
		h = head{
			ok:               true,
			end:              pos + loc[1],
			asset:            group(headAssetIndex),
			typeCode:         group(headTypeIndex),
			transactionDate:  group(headTransactionDateIndex),
			notificationDate: group(headNotificationDateIndex),
			amount:           group(headAmountIndex),
		}
	}
	sc.heads[pos] = h
	return h
}

func (sc *scanner) matchAt(pos int) (Match, bool) {
	h := sc.head(pos)
	if !h.ok {
		return Match{}, false
	}

	m := Match{
		Start:            pos,
		Asset:            h.asset,
		Type:             h.typeCode,
		TransactionDate:  h.transactionDate,
		NotificationDate: h.notificationDate,
		Amount:           h.amount,
	}
	matched := sc.freeText(h.end, filingStatusStops, func(textEnd, next int) bool {
		m.FilingStatus = sc.s[h.end:textEnd]
		end, ok := sc.trail(next, 0, &m)
		if ok {
			m.End = end
		}
		return ok
	})
	if !matched {
		return Match{}, false
	}
	m.Text = sc.s[m.Start:m.End]
	return m, true
}

// trail matches the optional annotation groups from stage onwards and then
// the row boundary, returning the end offset of the row.
func (sc *scanner) trail(pos, stage int, m *Match) (int, bool) {
	if stage == len(trailers) {
		return pos, sc.atRowBoundary(pos)
	}

	t := trailers[stage]
	if loc := t.open.FindStringIndex(sc.s[pos:]); loc != nil {
		start := pos + loc[1]
		var end int
		matched := sc.freeText(start, t.stops, func(textEnd, next int) bool {
			text := sc.s[start:textEnd]
			m.setAnnotation(t.name, &text)
			e, ok := sc.trail(next, stage+1, m)
			if ok {
				end = e
			}
			return ok
		})
		if matched {
			return end, true
		}
		m.setAnnotation(t.name, nil)
	}
	return sc.trail(pos, stage+1, m)
}

// freeText tries every end of a lazily matched run of text starting at start,
// shortest first. Text ends either at whitespace followed by one of stops, a
// new row or the end of input, or at the end of input itself. try receives
// the end of the text and the position after the consumed whitespace; the
// first call returning true wins.
func (sc *scanner) freeText(start int, stops []annotation, try func(textEnd, next int) bool) bool {
	for i := start; i <= len(sc.s); i++ {
		if i == len(sc.s) {
			return try(i, i)
		}
		if isSpace(sc.s[i]) && sc.stopsAt(i+1, stops) {
			if try(i, i+1) {
				return true
			}
		}
	}
	return false
}

func (sc *scanner) stopsAt(pos int, stops []annotation) bool {
	if pos >= len(sc.s) {
		return true
	}
	for _, a := range stops {
		if a.stop.MatchString(sc.s[pos:]) {
			return true
		}
	}
	return sc.head(pos).ok
}

// atRowBoundary reports whether only whitespace separates pos from the next
// row or the end of input.
func (sc *scanner) atRowBoundary(pos int) bool {
	for pos < len(sc.s) && isSpace(sc.s[pos]) {
		pos++
	}
	return pos == len(sc.s) || sc.head(pos).ok
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
