package catalog

// OffsetPage describes the window of a result set shown after Page pages.
// Items [0, End) are visible; [Start, End) arrived with the last page.
type OffsetPage struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	Start      int
	End        int
}

func Paginate(total, page int) OffsetPage {
	if page < 1 {
		page = 1
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + PageSize - 1) / PageSize
	start := min((page-1)*PageSize, total)
	end := min(page*PageSize, total)

	return OffsetPage{
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
	}
}

// HasMore reports whether a "load more" would reveal anything.
func (p OffsetPage) HasMore() bool {
	return p.End < p.Total
}
