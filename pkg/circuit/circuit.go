package circuit

// Circuit is the ordered collection of placed elements plus the current
// selection. Element order is z-order: the last element is drawn on top.
//
// The selection always mirrors the elements' Selected flags. Mutate it only
// through Select, ClearSelection, SelectAll, Remove and DeleteSelected.
type Circuit struct {
	elements []*Element
	selected []*Element
}

// New creates an empty circuit.
func New() *Circuit {
	return &Circuit{
		elements: make([]*Element, 0),
		selected: make([]*Element, 0),
	}
}

// Add appends e as the topmost element and returns it.
func (c *Circuit) Add(e *Element) *Element {
	c.elements = append(c.elements, e)
	return e
}

// Remove deletes e from the circuit and from the selection.
// Removing an element that is not present does nothing.
func (c *Circuit) Remove(e *Element) {
	i := indexOf(c.elements, e)
	if i < 0 {
		return
	}
	c.elements = append(c.elements[:i], c.elements[i+1:]...)
	if j := indexOf(c.selected, e); j >= 0 {
		c.selected = append(c.selected[:j], c.selected[j+1:]...)
		e.Selected = false
	}
}

// ElementAt returns the topmost element containing (x, y), or nil.
func (c *Circuit) ElementAt(x, y float64) *Element {
	for i := len(c.elements) - 1; i >= 0; i-- {
		if c.elements[i].ContainsPoint(x, y) {
			return c.elements[i]
		}
	}
	return nil
}

// Select adds e to the selection. Unless multi is set, the previous
// selection is cleared first. A nil e only clears. Selecting an element that
// is already selected leaves the selection untouched.
func (c *Circuit) Select(e *Element, multi bool) {
	if !multi {
		c.ClearSelection()
	}
	if e == nil || indexOf(c.selected, e) >= 0 {
		return
	}
	if indexOf(c.elements, e) < 0 {
		return
	}
	e.Selected = true
	c.selected = append(c.selected, e)
}

// SelectAll selects every element in z-order.
func (c *Circuit) SelectAll() {
	for _, e := range c.elements {
		c.Select(e, true)
	}
}

// ClearSelection deselects every element.
func (c *Circuit) ClearSelection() {
	for _, e := range c.selected {
		e.Selected = false
	}
	c.selected = c.selected[:0]
}

// DeleteSelected removes every selected element from the circuit.
func (c *Circuit) DeleteSelected() {
	doomed := make([]*Element, len(c.selected))
	copy(doomed, c.selected)
	for _, e := range doomed {
		c.Remove(e)
	}
}

// Clear removes all elements.
func (c *Circuit) Clear() {
	for _, e := range c.selected {
		e.Selected = false
	}
	c.elements = c.elements[:0]
	c.selected = c.selected[:0]
}

// Elements returns the elements in z-order. The slice is a copy.
func (c *Circuit) Elements() []*Element {
	out := make([]*Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Selection returns the selected elements in selection order. The slice is a copy.
func (c *Circuit) Selection() []*Element {
	out := make([]*Element, len(c.selected))
	copy(out, c.selected)
	return out
}

// Len returns the number of elements.
func (c *Circuit) Len() int {
	return len(c.elements)
}

// Contains returns true if e belongs to the circuit.
func (c *Circuit) Contains(e *Element) bool {
	return indexOf(c.elements, e) >= 0
}

// Bounds returns the union of all element bounds, or the zero Rect when the
// circuit is empty.
func (c *Circuit) Bounds() Rect {
	if len(c.elements) == 0 {
		return Rect{}
	}
	r := c.elements[0].Bounds()
	for _, e := range c.elements[1:] {
		r = r.Union(e.Bounds())
	}
	return r
}

func indexOf(list []*Element, e *Element) int {
	for i, x := range list {
		if x == e {
			return i
		}
	}
	return -1
}
