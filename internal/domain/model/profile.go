package model

// UserProfile is the structured profile collected during onboarding. It is a
// read-only input to application processing; only the onboarding flow mutates
// it. Sections may be missing for partially onboarded users.
type UserProfile struct {
	PersonalInfo        map[string]string `json:"personal_info,omitempty"`
	WorkAuthorization   map[string]string `json:"work_authorization,omitempty"`
	Education           []Education       `json:"education,omitempty"`
	WorkExperience      []WorkExperience  `json:"work_experience,omitempty"`
	Skills              *Skills           `json:"skills,omitempty"`
	AdditionalQuestions map[string]string `json:"additional_questions,omitempty"`
	ResumePath          string            `json:"resume_path,omitempty"`
	CoverLetterPath     string            `json:"cover_letter_path,omitempty"`
}

type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	StartYear    int    `json:"start_year,omitempty"`
	EndYear      int    `json:"end_year,omitempty"`
	GPA          string `json:"gpa,omitempty"`
}

type WorkExperience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
	Current     bool   `json:"current,omitempty"`
}

type Skills struct {
	TechnicalSkills      []string `json:"technical_skills,omitempty"`
	ProgrammingLanguages []string `json:"programming_languages,omitempty"`
	Frameworks           []string `json:"frameworks,omitempty"`
	Tools                []string `json:"tools,omitempty"`
	Languages            []string `json:"languages,omitempty"`
	Certifications       []string `json:"certifications,omitempty"`
}
