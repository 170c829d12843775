// Package variants resolves a shopper's color/size choice against a product's
// variant rows.
//
// A Selector holds the selection state for one product page. It is not safe
// for concurrent use; each request or session owns its own Selector.
package variants

import "sort"

type Option func(*Selector)

// WithDefaultColor overrides the initial color taken from the first variant.
func WithDefaultColor(id int64) Option {
	return func(s *Selector) { s.colorID = &id; s.colorSet = true }
}

// WithDefaultSize overrides the initial size taken from the first variant.
func WithDefaultSize(id int64) Option {
	return func(s *Selector) { s.sizeID = &id; s.sizeSet = true }
}

// WithInitialSelection starts the selector at exactly colorID and sizeID,
// nil meaning unselected, instead of at the first variant.
func WithInitialSelection(colorID, sizeID *int64) Option {
	return func(s *Selector) {
		s.colorID, s.sizeID = copyID(colorID), copyID(sizeID)
		s.colorSet, s.sizeSet = true, true
	}
}

// WithGalleries supplies per-color galleries used to derive GalleryIndex.
func WithGalleries(g []Gallery) Option {
	return func(s *Selector) { s.galleries = g }
}

// WithGalleryListener registers fn to be called with the new gallery index
// whenever it changes. It is not called for the initial index.
func WithGalleryListener(fn func(int)) Option {
	return func(s *Selector) { s.onGallery = fn }
}

type Selector struct {
	variants  []Variant
	colors    []Color
	sizes     []Size
	galleries []Gallery
	onGallery func(int)

	colorID  *int64
	sizeID   *int64
	colorSet bool
	sizeSet  bool

	galleryIndex int
}

func NewSelector(vs []Variant, opts ...Option) *Selector {
	s := &Selector{variants: vs}
	for _, opt := range opts {
		opt(s)
	}

	s.colors = collectColors(vs)
	s.sizes = collectSizes(vs)

	if len(vs) > 0 {
		first := vs[0]
		if !s.colorSet && first.Color != nil {
			id := first.Color.ID
			s.colorID = &id
		}
		if !s.sizeSet && first.Size != nil {
			id := first.Size.ID
			s.sizeID = &id
		}
	}

	s.galleryIndex = s.computeGalleryIndex()
	return s
}

func (s *Selector) SelectedColorID() *int64 { return copyID(s.colorID) }
func (s *Selector) SelectedSizeID() *int64  { return copyID(s.sizeID) }
func (s *Selector) AvailableColors() []Color {
	return append([]Color(nil), s.colors...)
}
func (s *Selector) AvailableSizes() []Size {
	return append([]Size(nil), s.sizes...)
}
func (s *Selector) GalleryIndex() int { return s.galleryIndex }

// SelectedVariant returns the first variant matching the current selection,
// or nil. A match does not imply both axes are chosen: a color-only variant
// matches while no size is selected.
func (s *Selector) SelectedVariant() *Variant {
	for i := range s.variants {
		if matches(s.variants[i], s.colorID, s.sizeID) {
			v := s.variants[i]
			return &v
		}
	}
	return nil
}

// SetSelectedColor selects a color. If the current size no longer forms a
// valid pair with it, the size is replaced by the first size offered with
// this color, or cleared. A nil id clears the color and never repairs.
func (s *Selector) SetSelectedColor(id *int64) {
	s.colorID = copyID(id)
	defer s.refreshGallery()

	if id == nil || s.sizeID == nil || s.compatible(s.colorID, s.sizeID) {
		return
	}

	s.sizeID = nil
	for _, v := range s.variants {
		if v.hasColor() && v.Color.ID == *id && v.hasSize() {
			sid := v.Size.ID
			s.sizeID = &sid
			return
		}
	}
}

// SetSelectedSize is the mirror of SetSelectedColor.
func (s *Selector) SetSelectedSize(id *int64) {
	s.sizeID = copyID(id)
	defer s.refreshGallery()

	if id == nil || s.colorID == nil || s.compatible(s.colorID, s.sizeID) {
		return
	}

	s.colorID = nil
	for _, v := range s.variants {
		if v.hasSize() && v.Size.ID == *id && v.hasColor() {
			cid := v.Color.ID
			s.colorID = &cid
			return
		}
	}
}

// MissingAxes lists the axes some variant defines but the selection lacks.
func (s *Selector) MissingAxes() []Axis {
	var out []Axis
	if s.colorID == nil && len(s.colors) > 0 {
		out = append(out, AxisColor)
	}
	if s.sizeID == nil && len(s.sizes) > 0 {
		out = append(out, AxisSize)
	}
	return out
}

func (s *Selector) Snapshot() Selection {
	return Selection{
		ColorID:         s.SelectedColorID(),
		SizeID:          s.SelectedSizeID(),
		Variant:         s.SelectedVariant(),
		AvailableColors: s.AvailableColors(),
		AvailableSizes:  s.AvailableSizes(),
		GalleryIndex:    s.galleryIndex,
		Missing:         s.MissingAxes(),
	}
}

func (s *Selector) compatible(colorID, sizeID *int64) bool {
	for _, v := range s.variants {
		if matches(v, colorID, sizeID) {
			return true
		}
	}
	return false
}

func (s *Selector) refreshGallery() {
	idx := s.computeGalleryIndex()
	if idx == s.galleryIndex {
		return
	}
	s.galleryIndex = idx
	if s.onGallery != nil {
		s.onGallery(idx)
	}
}

func (s *Selector) computeGalleryIndex() int {
	if s.colorID == nil {
		return 0
	}
	name, ok := "", false
	for _, c := range s.colors {
		if c.ID == *s.colorID {
			name, ok = c.Name, true
			break
		}
	}
	if !ok {
		return 0
	}
	for i, g := range s.galleries {
		if g.ColorName == name {
			return i
		}
	}
	return 0
}

// matches applies the per-shape rule: a variant only constrains the axes it defines.
func matches(v Variant, colorID, sizeID *int64) bool {
	switch {
	case !v.hasColor() && !v.hasSize():
		return true
	case v.hasColor() && !v.hasSize():
		return colorID != nil && *colorID == v.Color.ID
	case !v.hasColor() && v.hasSize():
		return sizeID != nil && *sizeID == v.Size.ID
	default:
		return colorID != nil && sizeID != nil &&
			*colorID == v.Color.ID && *sizeID == v.Size.ID
	}
}

func collectColors(vs []Variant) []Color {
	seen := make(map[int64]struct{})
	out := make([]Color, 0)
	for _, v := range vs {
		if v.Color == nil {
			continue
		}
		if _, ok := seen[v.Color.ID]; ok {
			continue
		}
		seen[v.Color.ID] = struct{}{}
		out = append(out, *v.Color)
	}
	return out
}

func collectSizes(vs []Variant) []Size {
	seen := make(map[int64]struct{})
	out := make([]Size, 0)
	for _, v := range vs {
		if v.Size == nil {
			continue
		}
		if _, ok := seen[v.Size.ID]; ok {
			continue
		}
		seen[v.Size.ID] = struct{}{}
		out = append(out, *v.Size)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sortOrder(out[i]) < sortOrder(out[j])
	})
	return out
}

func sortOrder(s Size) int {
	if s.SortOrder == nil {
		return 0
	}
	return *s.SortOrder
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
