package menu

// Item is one visible menu line
type Item struct {
	Label       string
	Row         int // 0..MaxVisible-1
	Highlighted bool
}

// Items returns the visible window of the current page
func (c *Controller) Items() []Item {
	var out []Item
	for i := c.scroll; i < len(c.items) && i < c.scroll+MaxVisible; i++ {
		out = append(out, Item{
			Label:       c.items[i],
			Row:         i - c.scroll,
			Highlighted: i == c.sel,
		})
	}
	return out
}

// NavBar is the scroll indicator beside the menu
type NavBar struct {
	Up, Down bool // more items above / below the window
	Selected int
	Count    int
}

// Thumb returns the offset and length of the scroll thumb in a track of
// the given height
func (n NavBar) Thumb(height int) (pos, size int) {
	if n.Count == 0 {
		return 0, height
	}
	size = height / n.Count
	if size < 1 {
		size = 1
	}
	return n.Selected * size, size
}

// NavBar returns the scroll indicator state
func (c *Controller) NavBar() NavBar {
	n := len(c.items)
	return NavBar{
		Up:       c.scroll >= 1,
		Down:     n > MaxVisible && c.sel != n-1,
		Selected: c.sel,
		Count:    n,
	}
}
