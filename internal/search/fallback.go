package search

import "jobnest/internal/domain/job"

type SourceKind int

const (
	Live SourceKind = iota
	Fallback
)

func (k SourceKind) String() string {
	if k == Fallback {
		return "fallback"
	}
	return "live"
}

func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Source tags a job collection with where it came from so placeholder data
// is never shown as real.
type Source struct {
	Kind SourceKind
	Jobs []job.Job
}

func LiveSource(jobs []job.Job) Source {
	return Source{Kind: Live, Jobs: jobs}
}

func FallbackSource() Source {
	return Source{Kind: Fallback, Jobs: MockJobs()}
}

// Resolve uses the backend jobs when there are any. An empty result turns
// into the placeholder set only when allowFallback is set.
func Resolve(jobs []job.Job, allowFallback bool) Source {
	if len(jobs) > 0 || !allowFallback {
		return LiveSource(jobs)
	}
	return FallbackSource()
}

// MockJobs returns the placeholder listing. IDs are negative so they can
// never collide with a backend id.
func MockJobs() []job.Job {
	out := make([]job.Job, len(mockJobs))
	copy(out, mockJobs)
	return out
}

var mockJobs = []job.Job{
	mock(-1, "Frontend Developer", "Udemy", "Hanoi, VN", "/images/j1.png", "fulltime", "1 - 2 Years", "Entry Level", "Bachelor's Degree",
		"Build and maintain user interfaces using React and Next.js.", "React,TypeScript,Next.js", 40000, 55000, "Development", false),
	mock(-2, "Backend Developer", "Beta Solutions", "Ho Chi Minh City, VN", "/images/j2.png", "parttime", "2 - 6 Years", "Mid Level", "Bachelor's Degree",
		"Design REST APIs with Spring Boot and Java.", "Java,Spring,SQL", 55000, 85000, "Development", false),
	mock(-3, "UI/UX Designer", "Creative Studio", "Da Nang, VN", "/images/j3.png", "fulltime", "2 - 6 Years", "Mid Level", "Associate Studies",
		"Design interfaces and experiences for web applications.", "Figma,UX,Prototyping", 55000, 85000, "Design", true),
	mock(-4, "DevOps Engineer", "CloudOps", "Remote", "/images/j4.png", "remote", "Over 6 Years", "Senior Level", "Masters Degree",
		"Maintain CI/CD pipelines and cloud infrastructure.", "AWS,Docker,Kubernetes", 115000, 145000, "Development", false),
	mock(-5, "QA Engineer", "QualityWorks", "Hanoi, VN", "/images/j5.png", "fulltime", "1 - 2 Years", "Entry Level", "Vocational Course",
		"Ensure product quality through testing and automation.", "Selenium,Testing", 40000, 55000, "Development", false),
	mock(-6, "Product Manager", "Prodify", "Hanoi, VN", "/images/j6.png", "fulltime", "2 - 6 Years", "Mid Level", "Masters Degree",
		"Lead product direction and roadmap.", "Roadmapping,Stakeholder Management", 85000, 115000, "Project Management", false),
	mock(-7, "Data Scientist", "Insight Labs", "Ho Chi Minh City, VN", "/images/j7.png", "fulltime", "2 - 6 Years", "Mid Level", "PHD",
		"Analyze data and build predictive models.", "Python,ML", 85000, 115000, "Development", false),
	mock(-8, "Mobile Developer", "Appify", "Da Nang, VN", "/images/j8.png", "freelance", "1 - 2 Years", "Entry Level", "Graduated High School",
		"Develop mobile apps using React Native.", "React Native,iOS,Android", 55000, 85000, "Development", false),
	mock(-9, "System Administrator", "InfraHub", "Remote", "/images/j9.png", "remote", "Over 6 Years", "Senior Level", "Associate Studies",
		"Manage servers and networks.", "Linux,Networking", 115000, 145000, "Development", true),
	mock(-10, "Technical Writer", "DocsCo", "Hanoi, VN", "/images/l1.png", "parttime", "Under 1 Year", "Entry Level", "Bachelor's Degree",
		"Write technical documentation and guides.", "Writing,Markdown", 40000, 55000, "Marketing", false),
	mock(-11, "Sales Engineer", "SalesTech", "Ho Chi Minh City, VN", "/images/l2.png", "fulltime", "2 - 6 Years", "Mid Level", "Bachelor's Degree",
		"Support sales with technical expertise.", "Pre-sales,Demos", 85000, 115000, "Marketing", false),
	mock(-12, "Customer Success", "HappyClients", "Da Nang, VN", "/images/l3.png", "fulltime", "1 - 2 Years", "Entry Level", "Vocational Course",
		"Ensure customers achieve value from our product.", "Support,Onboarding", 55000, 85000, "Customer Service", false),
}

func mock(id int64, title, company, location, logo, typ, experience, level, education, desc, skills string, minSalary, maxSalary float64, category string, urgent bool) job.Job {
	return job.Job{
		ID:              id,
		Title:           title,
		CompanyName:     company,
		Location:        location,
		CompanyLogo:     logo,
		Type:            typ,
		Experience:      experience,
		ExperienceLevel: level,
		Education:       education,
		Description:     desc,
		Skills:          skills,
		MinSalary:       minSalary,
		MaxSalary:       maxSalary,
		CategoryName:    category,
		IsUrgent:        urgent,
		Status:          "ACTIVE",
	}
}
