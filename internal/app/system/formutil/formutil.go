// Package formutil reads admin form posts, including file uploads destined
// for the REST backend.
//
// Example usage:
//
//	if err := formutil.Parse(w, r, true); err != nil {
//		// oversized or malformed body
//	}
//	files, err := formutil.Files(r, "image")
//	d, err = draft.FromForm(d, r.PostForm, files)
package formutil

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/limits"
)

// ErrTooLarge is returned when the body exceeds the configured limit.
var ErrTooLarge = errors.New("formutil: request body too large")

// Parse reads the posted form. Multipart bodies are limited to
// limits.MaxUploadSize and everything else to limits.MaxFormSize.
func Parse(w http.ResponseWriter, r *http.Request, multipart bool) error {
	max := int64(limits.MaxFormSize)
	if multipart {
		max = limits.MaxUploadSize()
	}
	r.Body = http.MaxBytesReader(w, r.Body, max)

	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(max)
	} else {
		err = r.ParseForm()
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return ErrTooLarge
	}
	return err
}

func isMultipart(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "multipart/form-data"
}

// Files returns the uploaded file for each key that has one. Keys without
// a chosen file are absent from the map.
func Files(r *http.Request, keys ...string) (map[string]apiclient.File, error) {
	out := make(map[string]apiclient.File)
	if r.MultipartForm == nil {
		return out, nil
	}
	for _, key := range keys {
		f, ok, err := File(r, key)
		if err != nil {
			return nil, err
		}
		if ok {
			out[key] = f
		}
	}
	return out, nil
}

// File reads one uploaded file. ok is false when none was chosen.
func File(r *http.Request, key string) (apiclient.File, bool, error) {
	if r.MultipartForm == nil {
		return apiclient.File{}, false, nil
	}
	headers := r.MultipartForm.File[key]
	if len(headers) == 0 || headers[0].Size == 0 {
		return apiclient.File{}, false, nil
	}
	fh := headers[0]
	src, err := fh.Open()
	if err != nil {
		return apiclient.File{}, false, fmt.Errorf("open upload %s: %w", key, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return apiclient.File{}, false, fmt.Errorf("read upload %s: %w", key, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
			ct = byExt
		}
	}
	return apiclient.File{
		Field:       key,
		Name:        filepath.Base(fh.Filename),
		ContentType: ct,
		Data:        data,
	}, true, nil
}
