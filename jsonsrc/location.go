// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jsonsrc

import "fmt"

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the range of source text spanned by a token.
type Location struct {
	Pos, End    int // byte offsets, 0-based; End is noninclusive
	First, Last LineCol
}

// String renders the location as "line:col-col", or "line:col-line:col" if
// the location spans multiple lines.
func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%s-%d", loc.First, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}
