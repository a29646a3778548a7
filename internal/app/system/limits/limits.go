// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxFormSize is the maximum size for forms without file uploads
	// (contact forms, login, message replies).
	MaxFormSize = 1 << 20 // 1 MB

	// DefaultUploadMB is the upload limit used when none is configured.
	DefaultUploadMB = 5
)

var uploadMB = DefaultUploadMB

// SetUploadMB sets the limit for forms carrying an image or video.
// Values below 1 restore the default.
func SetUploadMB(mb int) {
	if mb < 1 {
		mb = DefaultUploadMB
	}
	uploadMB = mb
}

// MaxUploadSize is the maximum size of a multipart admin form, in bytes.
func MaxUploadSize() int64 {
	return int64(uploadMB) << 20
}
