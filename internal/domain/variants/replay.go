package variants

// Replay rebuilds a shopper's selection from stateless request parameters.
// With changed set, the other axis is taken as already selected and the
// changed axis is applied last, so its repair rules run exactly as on the
// product page. With changed empty, colorID and sizeID are taken as is; if
// both are nil the selector starts at its defaults.
func Replay(vs []Variant, galleries []Gallery, colorID, sizeID *int64, changed Axis) Selection {
	var s *Selector
	switch changed {
	case AxisColor:
		s = NewSelector(vs, WithGalleries(galleries), WithInitialSelection(nil, sizeID))
		s.SetSelectedColor(colorID)
	case AxisSize:
		s = NewSelector(vs, WithGalleries(galleries), WithInitialSelection(colorID, nil))
		s.SetSelectedSize(sizeID)
	default:
		if colorID == nil && sizeID == nil {
			s = NewSelector(vs, WithGalleries(galleries))
		} else {
			s = NewSelector(vs, WithGalleries(galleries), WithInitialSelection(colorID, sizeID))
		}
	}
	return s.Snapshot()
}

// ParseAxis maps "color" and "size" to their Axis; anything else is empty.
func ParseAxis(s string) Axis {
	switch Axis(s) {
	case AxisColor, AxisSize:
		return Axis(s)
	}
	return ""
}
