// internal/domain/models/sitesettings.go
package models

// DefaultSiteName is shown in the header until the village profile has
// been loaded (or when the backend has no profile yet).
const DefaultSiteName = "Gram Panchayat"

// SliderImage is one entry of the village hero slider.
type SliderImage struct {
	ID       string
	ImageURL string
	Captions map[string]string // language code -> caption
}

// SliderImages extracts the slider entries from a village profile record.
// Captions are keyed by language code; every language, English included,
// is stored under caption_<code> by the backend.
func SliderImages(village Resource, langs []string) []SliderImage {
	nested := village.Objects("sliderImages")
	out := make([]SliderImage, 0, len(nested))
	for _, n := range nested {
		out = append(out, NewSliderImage(n, langs))
	}
	return out
}

// NewSliderImage converts one slider record as returned by the slider
// endpoints.
func NewSliderImage(n Resource, langs []string) SliderImage {
	img := SliderImage{
		ID:       n.ID,
		ImageURL: n.Str("url"),
		Captions: make(map[string]string, len(langs)),
	}
	for _, code := range langs {
		img.Captions[code] = n.Str("caption_" + code)
	}
	return img
}
