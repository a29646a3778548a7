// internal/app/store/village/villagestore.go
package villagestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
	"github.com/dalemusser/grampanchayat/internal/domain/models"
)

const path = "/" + models.TypeVillage

var (
	// ErrSliderFull is returned when the slider already holds
	// models.MaxSliderImages entries.
	ErrSliderFull = errors.New("villagestore: slider is full")
	// ErrNoImage is returned by UploadSlide without file data.
	ErrNoImage = errors.New("villagestore: no image selected")
)

// Profile is the admin view of the village record.
type Profile struct {
	Record models.Resource
	Slides []models.SliderImage
}

// Store wraps the village profile and slider endpoints.
type Store struct {
	sess *apiclient.Session
}

// New creates a store bound to one caller's session.
func New(sess *apiclient.Session) *Store {
	return &Store{sess: sess}
}

// Public returns the village profile shown to visitors. A site that has
// not been set up yet has no profile; that is not an error.
func (s *Store) Public(ctx context.Context) (models.Resource, error) {
	res, err := s.sess.Fetch(ctx, path)
	if apiclient.IsNotFound(err) {
		return models.Resource{}, nil
	}
	return res, err
}

// Admin returns the full profile including slider entries.
func (s *Store) Admin(ctx context.Context) (Profile, error) {
	res, err := s.sess.Fetch(ctx, path+"/admin")
	if apiclient.IsNotFound(err) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, err
	}
	return Profile{Record: res, Slides: models.SliderImages(res, fieldmodel.Codes())}, nil
}

// Reset clears the profile after confirm agrees. It reports whether the
// reset was sent.
func (s *Store) Reset(ctx context.Context, confirm listing.Confirmer) (bool, error) {
	ok, err := confirm.Confirm(ctx, "reset village profile")
	if err != nil || !ok {
		return false, err
	}
	var out apiclient.StatusResult
	if err := s.sess.Delete(ctx, path, &out); err != nil {
		return false, err
	}
	return true, nil
}

type slidesResult struct {
	Data []models.Resource `json:"data"`
}

func toSlides(list []models.Resource) []models.SliderImage {
	codes := fieldmodel.Codes()
	out := make([]models.SliderImage, 0, len(list))
	for _, n := range list {
		out = append(out, models.NewSliderImage(n, codes))
	}
	return out
}

// UploadSlide adds an image to the slider. count is how many slides the
// caller currently shows; captions are keyed by language code.
func (s *Store) UploadSlide(ctx context.Context, count int, file apiclient.File, captions map[string]string) ([]models.SliderImage, error) {
	if count >= models.MaxSliderImages {
		return nil, ErrSliderFull
	}
	if len(file.Data) == 0 {
		return nil, ErrNoImage
	}
	file.Field = "image"
	body := apiclient.NewBody()
	for _, code := range fieldmodel.Codes() {
		body.Set("caption_"+code, captions[code])
	}
	body.Attach(file)

	var out slidesResult
	if err := s.sess.Post(ctx, path+"/slider/upload", body, &out); err != nil {
		return nil, err
	}
	return toSlides(out.Data), nil
}

// DeleteSlide removes one slide and returns what remains.
func (s *Store) DeleteSlide(ctx context.Context, id string) ([]models.SliderImage, error) {
	var out slidesResult
	if err := s.sess.Delete(ctx, path+"/slider/"+id, &out); err != nil {
		return nil, err
	}
	return toSlides(out.Data), nil
}

// UpdateCaption changes one language's caption on a slide.
func (s *Store) UpdateCaption(ctx context.Context, id, lang, caption string) (models.SliderImage, error) {
	if !fieldmodel.IsSupported(lang) {
		return models.SliderImage{}, fmt.Errorf("villagestore: unsupported language %q", lang)
	}
	lang = fieldmodel.Normalize(lang)
	var out apiclient.ItemResult
	body := apiclient.NewBody().Set("caption_"+lang, caption)
	if err := s.sess.Put(ctx, path+"/slider/"+id+"/caption", body, &out); err != nil {
		return models.SliderImage{}, err
	}
	return models.NewSliderImage(out.Data, fieldmodel.Codes()), nil
}
