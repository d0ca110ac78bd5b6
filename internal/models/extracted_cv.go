package models

// ExtractedCV is the structured résumé returned by the extraction provider.
type ExtractedCV struct {
	Name       string        `json:"name"`
	Profession string        `json:"profession"`
	Contact    Contact       `json:"contact"`
	Experience []*Experience `json:"experience"`
	Education  []Education   `json:"education"`

	Bio            *string   `json:"bio,omitempty"`
	SoftSkills     []string  `json:"soft_skills,omitempty"`
	Technologies   []string  `json:"technologies,omitempty"`
	Certifications []string  `json:"certifications,omitempty"`
	NativeLanguage *string   `json:"native_language,omitempty"`
	Languages      []string  `json:"languages,omitempty"`
	Projects       []Project `json:"projects,omitempty"`
}

type Contact struct {
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Portfolio *string `json:"portfolio,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	GitHub    *string `json:"github,omitempty"`
}

// Experience fields are nullable; the model often cannot fill every one.
type Experience struct {
	Company     *string `json:"company"`
	Position    *string `json:"position"`
	Duration    *string `json:"duration"`
	Description *string `json:"description"`
}

type Education struct {
	Duration    string `json:"duration"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
}

type Project struct {
	URL          string   `json:"url"`
	Technologies []string `json:"technologies"`
	Description  string   `json:"description"`
}
