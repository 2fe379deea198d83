package domain

// PageQuery is an offset/limit window passed down to repositories. Offsets
// are always aligned to a page boundary: callers compute the page index by
// floor-dividing the requested offset by the page size, so an offset that is
// not a multiple of the size is rounded down to the nearest page start.
type PageQuery struct {
	Offset int
	Limit  int
}

// PageOf builds the PageQuery for the page containing the given offset.
func PageOf(from, size int) PageQuery {
	page := from / size
	return PageQuery{Offset: page * size, Limit: size}
}
