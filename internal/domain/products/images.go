package products

import (
	"sort"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/variants"
)

// OrderImages sorts images for display: product-level images before
// variant images, then primary first, then sort order, then id.
func OrderImages(images []Image) []Image {
	out := append([]Image(nil), images...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.VariantID == nil) != (b.VariantID == nil) {
			return a.VariantID == nil
		}
		if a.IsPrimary != b.IsPrimary {
			return a.IsPrimary
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID < b.ID
	})
	return out
}

// BuildGalleries groups variant images by the variant's color name, one
// gallery per color in first-seen variant order. Images are expected in
// display order.
func BuildGalleries(vs []variants.Variant, images []Image) []variants.Gallery {
	colorOf := make(map[int64]string, len(vs))
	var names []string
	seen := make(map[string]bool)
	for _, v := range vs {
		if v.Color == nil {
			continue
		}
		colorOf[v.ID] = v.Color.Name
		if !seen[v.Color.Name] {
			seen[v.Color.Name] = true
			names = append(names, v.Color.Name)
		}
	}

	byColor := make(map[string][]string)
	for _, img := range images {
		if img.VariantID == nil {
			continue
		}
		if name, ok := colorOf[*img.VariantID]; ok {
			byColor[name] = append(byColor[name], img.URL)
		}
	}

	out := make([]variants.Gallery, 0, len(names))
	for _, name := range names {
		urls := byColor[name]
		if len(urls) == 0 {
			continue
		}
		out = append(out, variants.Gallery{ColorName: name, Images: urls})
	}
	return out
}
