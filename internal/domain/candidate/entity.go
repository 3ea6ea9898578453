package candidate

import "jobnest/internal/domain"

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type Profile struct {
	ID                int64    `json:"id,omitempty"`
	UserID            int64    `json:"userId,omitempty"`
	FullName          string   `json:"fullName,omitempty"`
	PhoneNumber       string   `json:"phoneNumber,omitempty"`
	DateOfBirth       string   `json:"dateOfBirth,omitempty"`
	Gender            Gender   `json:"gender,omitempty"`
	CurrentPosition   string   `json:"currentPosition,omitempty"`
	YearsOfExperience string   `json:"yearsOfExperience,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	AboutMe           string   `json:"aboutMe,omitempty"`
	AvatarURL         string   `json:"avatarUrl,omitempty"`
}

type ProfileRequest struct {
	FullName          string   `json:"fullName,omitempty"`
	PhoneNumber       string   `json:"phoneNumber,omitempty"`
	DateOfBirth       string   `json:"dateOfBirth,omitempty"`
	Gender            string   `json:"gender,omitempty"`
	CurrentPosition   string   `json:"currentPosition,omitempty"`
	YearsOfExperience string   `json:"yearsOfExperience,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	AboutMe           string   `json:"aboutMe,omitempty"`
}

type AvatarUpload struct {
	AvatarURL string `json:"avatarUrl"`
	Message   string `json:"message"`
}

type CV struct {
	ID          int64        `json:"id"`
	CandidateID int64        `json:"candidateId"`
	Title       string       `json:"title"`
	FileURL     string       `json:"fileUrl"`
	FileName    string       `json:"fileName"`
	FileSize    int64        `json:"fileSize"`
	IsDefault   bool         `json:"isDefault"`
	CreatedAt   *domain.Time `json:"createdAt,omitempty"`
	UpdatedAt   *domain.Time `json:"updatedAt,omitempty"`
}

type CVRequest struct {
	Title     string `json:"title"`
	FileURL   string `json:"fileUrl"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// DefaultCV returns the CV flagged as default, if any.
func DefaultCV(cvs []CV) (CV, bool) {
	for _, cv := range cvs {
		if cv.IsDefault {
			return cv, true
		}
	}
	return CV{}, false
}
