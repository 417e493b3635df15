package orderfeed

// GapPage marks a collapsed run of page numbers in a pagination window.
const GapPage = -1

// PageWindow returns the page numbers a bounded pagination control renders:
// always the first and last page and two pages either side of the current
// one, with collapsed runs marked by GapPage.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	window := make([]int, 0, 9)
	prev := 0
	for page := 1; page <= total; page++ {
		if page != 1 && page != total && (page < current-2 || page > current+2) {
			continue
		}
		if prev != 0 && page-prev > 1 {
			window = append(window, GapPage)
		}
		window = append(window, page)
		prev = page
	}
	return window
}
