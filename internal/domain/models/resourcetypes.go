// internal/domain/models/resourcetypes.go
package models

// Canonical resource type identifiers.
//
// These values double as the REST path segment on the backend (/news,
// /projects, ...) and as stable keys for schemas, routes and i18n labels.
const (
	TypeNews            = "news"
	TypeProjects        = "projects"
	TypeGallery         = "gallery"
	TypeContacts        = "contacts"
	TypeSchemes         = "schemes"
	TypeAwards          = "awards"
	TypeContactMessages = "contact-messages"
	TypeVillage         = "village"
)

// ResourceTypes lists the collection types managed from the admin area,
// in the order they appear in the admin navigation.
var ResourceTypes = []string{
	TypeNews,
	TypeProjects,
	TypeGallery,
	TypeContacts,
	TypeSchemes,
	TypeAwards,
}

// Enum option tables. The first entry of each list is the value a new
// draft starts with.
var (
	NewsCategories = []string{"news", "announcement", "update", "event", "development", "education"}

	ProjectCategories = []string{"infrastructure", "water", "education", "health", "roads", "electricity", "sanitation", "other"}
	ProjectStatuses   = []string{"planning", "in-progress", "completed", "on-hold"}

	GalleryCategories = []string{"village", "events", "development", "culture", "festival", "meeting", "other"}
	GalleryMediaTypes = []string{"image", "video"}

	SchemeCategories = []string{"agriculture", "education", "health", "housing", "employment", "welfare", "infrastructure", "other"}

	AwardCategories = []string{"village", "development", "education", "health", "environment", "culture", "other"}

	MessageStatuses = []string{"pending", "read", "replied", "closed"}
)

// Move directions accepted by PUT /<type>/<id>/move.
const (
	MoveUp   = "up"
	MoveDown = "down"
)

// MaxSliderImages caps the village hero slider.
const MaxSliderImages = 4
