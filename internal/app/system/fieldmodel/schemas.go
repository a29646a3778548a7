// internal/app/system/fieldmodel/schemas.go
package fieldmodel

import "github.com/dalemusser/grampanchayat/internal/domain/models"

func localized(name string, required bool) Field {
	return Field{Name: name, Kind: LocalizedText, Required: required}
}

func localizedLong(name string, required bool) Field {
	return Field{Name: name, Kind: LocalizedText, Long: true, Required: required}
}

func enum(name string, options []string) Field {
	return Field{Name: name, Kind: Enum, Options: options, Required: true}
}

func image(name string) Field {
	return Field{Name: name, Kind: MediaFile}
}

var schemas = map[string]Schema{
	models.TypeNews: {
		Type: models.TypeNews,
		Fields: []Field{
			localized("title", true),
			localizedLong("summary", false),
			localizedLong("content", true),
			enum("category", models.NewsCategories),
			image("image"),
		},
		SearchFields: []string{"title", "content"},
		FilterFields: []string{"category"},
		Columns:      []string{"title", "category"},
		TitleField:   "title",
	},

	models.TypeProjects: {
		Type: models.TypeProjects,
		Fields: []Field{
			localized("title", true),
			localizedLong("description", true),
			enum("category", models.ProjectCategories),
			enum("status", models.ProjectStatuses),
			{Name: "budget", Kind: Number, Step: "0.01"},
			{Name: "startDate", Kind: Date},
			{Name: "endDate", Kind: Date},
			image("image"),
		},
		SearchFields: []string{"title", "description"},
		FilterFields: []string{"category", "status"},
		Columns:      []string{"title", "category", "status", "budget"},
		TitleField:   "title",
	},

	models.TypeGallery: {
		Type: models.TypeGallery,
		Fields: []Field{
			localized("title", true),
			localizedLong("description", false),
			enum("category", models.GalleryCategories),
			enum("type", models.GalleryMediaTypes),
			{Name: "file", Kind: MediaFile, DisplayKey: "url", Required: true},
		},
		SearchFields: []string{"title", "description"},
		FilterFields: []string{"category", "type"},
		Columns:      []string{"title", "category", "type"},
		TitleField:   "title",
	},

	models.TypeContacts: {
		Type: models.TypeContacts,
		Fields: []Field{
			{Name: "name", Kind: PlainText, Required: true, MaxLen: 100},
			localized("position", true),
			localized("department", false),
			localizedLong("address", false),
			{Name: "phone", Kind: Phone},
			{Name: "email", Kind: Email},
			{Name: "order", Kind: Number, Step: "1"},
			image("image"),
		},
		Ordered:      true,
		SearchFields: []string{"name", "position", "department"},
		Columns:      []string{"name", "position", "phone"},
		TitleField:   "name",
	},

	models.TypeSchemes: {
		Type: models.TypeSchemes,
		Fields: []Field{
			localized("title", true),
			localizedLong("description", true),
			localizedLong("eligibility", false),
			localizedLong("benefits", false),
			enum("category", models.SchemeCategories),
			{Name: "applicationLink", Kind: URL},
			{Name: "lastDate", Kind: Date},
			{Name: "contactPerson", Kind: PlainText},
			{Name: "contactPhone", Kind: Phone},
			{Name: "isActive", Kind: Boolean},
			image("image"),
		},
		SearchFields: []string{"title", "description"},
		FilterFields: []string{"category"},
		Columns:      []string{"title", "category", "lastDate"},
		TitleField:   "title",
	},

	models.TypeAwards: {
		Type: models.TypeAwards,
		Fields: []Field{
			localized("title", true),
			localizedLong("description", false),
			localized("organization", false),
			enum("category", models.AwardCategories),
			{Name: "year", Kind: Number, Step: "1", Required: true, CurrentYear: true},
			image("image"),
		},
		SearchFields: []string{"title", "description", "organization"},
		FilterFields: []string{"category", "year"},
		Columns:      []string{"title", "organization", "year"},
		TitleField:   "title",
	},

	models.TypeContactMessages: {
		Type: models.TypeContactMessages,
		Fields: []Field{
			{Name: "name", Kind: PlainText, Required: true, MaxLen: 100},
			{Name: "email", Kind: Email, Required: true},
			{Name: "message", Kind: LongText, Required: true, MinLen: 10, MaxLen: 2000},
			enum("status", models.MessageStatuses),
			{Name: "adminReply", Kind: LongText},
		},
		ReadOnly:     true,
		SearchFields: []string{"name", "email", "message"},
		FilterFields: []string{"status"},
		Columns:      []string{"name", "email", "status"},
		TitleField:   "name",
	},

	models.TypeVillage: {
		Type: models.TypeVillage,
		Fields: []Field{
			localized("name", false),
			localized("taluka", false),
			localized("district", false),
			localized("state", false),
			localized("postOffice", false),
			{Name: "pinCode", Kind: PlainText, MaxLen: 6},
			{Name: "stdCode", Kind: PlainText, MaxLen: 8},
			localized("assemblyConstituency", false),
			localized("assemblyMLA", false),
			localized("lokSabhaConstituency", false),
			localized("parliamentMP", false),
			localized("sarpanch", false),
			{Name: "elevation", Kind: Number},
			{Name: "population", Kind: Number, Step: "1"},
			{Name: "malePopulation", Kind: Number, Step: "1"},
			{Name: "femalePopulation", Kind: Number, Step: "1"},
			{Name: "totalHouses", Kind: Number, Step: "1"},
			{Name: "literacyRate", Kind: Number, Step: "0.01"},
			{Name: "area", Kind: Number, Step: "0.01"},
			{Name: "establishedYear", Kind: Number, Step: "1"},
			{Name: "hospitals", Kind: Number, Step: "1"},
			{Name: "schools", Kind: Number, Step: "1"},
			{Name: "mapLink", Kind: URL},
			localized("grampanchayatContact", false),
			localized("mainOccupation", false),
			localizedLong("description", false),
			localizedLong("history", false),
			localizedLong("culture", false),
			localizedLong("festivals", false),
			localizedLong("climate", false),
		},
		ExplicitDefaultSuffix: "_en",
		Singleton:             true,
		TitleField:            "name",
	},
}
