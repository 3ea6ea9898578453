package search

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobnest/internal/domain"
	"jobnest/internal/domain/job"
)

func TestSalaryBucket(t *testing.T) {
	cases := []struct {
		min, max float64
		want     string
		ok       bool
	}{
		{40000, 55000, SalaryBand40to55, true},
		{55000, 85000, SalaryBand55to85, true},
		{90000, 100000, SalaryBand85to115, true},
		{145000, 175000, SalaryBand145to175, true},
		// straddles two bands; midpoint 70k
		{50000, 90000, SalaryBand55to85, true},
		// midpoint 200k, above every band
		{150000, 250000, SalaryBand145to175, true},
		{30000, 40000, SalaryBand40to55, true},
		{0, 55000, "", false},
		{40000, 0, "", false},
	}
	for _, tc := range cases {
		got, ok := SalaryBucket(tc.min, tc.max)
		assert.Equal(t, tc.ok, ok, "SalaryBucket(%v, %v)", tc.min, tc.max)
		assert.Equal(t, tc.want, got, "SalaryBucket(%v, %v)", tc.min, tc.max)
	}
}

func TestSalaryFilter_ExactBand(t *testing.T) {
	jobs := []job.Job{
		{ID: 1, MinSalary: 40000, MaxSalary: 55000},
		{ID: 2, MinSalary: 40000, MaxSalary: 55000, Title: "other"},
		{ID: 3, MinSalary: 60000, MaxSalary: 80000},
	}
	q := Query{Selected: map[FilterCategory][]string{CategorySalary: {SalaryBand40to55}}}
	got := Filter(jobs, q)
	require.Len(t, got, 2)
	for _, j := range got {
		v, ok := ValueFor(j, CategorySalary)
		assert.True(t, ok)
		assert.Equal(t, "$40k -55k", v)
	}
}

func TestEmploymentLabel(t *testing.T) {
	assert.Equal(t, "Full Time", EmploymentLabel("fulltime"))
	assert.Equal(t, "Full Time", EmploymentLabel("FULL_TIME"))
	assert.Equal(t, "Part Time", EmploymentLabel("PartTime"))
	assert.Equal(t, "Co Founder", EmploymentLabel("Co Founder"))
	assert.Equal(t, "Full Time", EmploymentLabel("Full time"))
	assert.Equal(t, "Full Time", EmploymentLabel("full-time"))
	assert.Equal(t, "Volunteer", EmploymentLabel("Volunteer"))
	assert.Equal(t, "", EmploymentLabel(""))
}

func TestFilter_EmploymentSpellingsShareOneOption(t *testing.T) {
	jobs := []job.Job{{ID: 1, Type: "Full time"}, {ID: 2, Type: "FULL_TIME"}, {ID: 3, Type: "parttime"}}
	q := Query{Selected: map[FilterCategory][]string{CategoryEmployment: {"Full Time"}}}
	assert.Equal(t, []int64{1, 2}, ids(Filter(jobs, q)))
	assert.Equal(t, 2, CountMatches(jobs, Query{}).Get(CategoryEmployment, "Full Time"))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	groups := Catalog()
	require.Len(t, groups, len(Categories()))
	var first FilterGroup = groups[0]
	first.Values[0] = "changed"
	assert.NotEqual(t, "changed", Catalog()[0].Values[0])
}

func TestFilterJobsByField_CaseOnly(t *testing.T) {
	jobs := []job.Job{{ID: 1, Title: "Café Manager"}, {ID: 2, Title: "Cafe Lead"}, {ID: 3, Title: "CAFE host"}}
	assert.Equal(t, []int64{2, 3}, ids(FilterJobsByField(jobs, FieldTitle, "cafe")))
	assert.Equal(t, []int64{1}, ids(FilterJobsByField(jobs, FieldTitle, "CAFÉ")))
	assert.Empty(t, FilterJobsByField(jobs, FieldTitle, ""))
}

func TestFilter_DiacriticsOnlyWhenAsked(t *testing.T) {
	jobs := []job.Job{{ID: 1, Location: "Hà Nội"}, {ID: 2, Location: "Ha Noi"}}
	assert.Equal(t, []int64{2}, ids(Filter(jobs, Query{Location: "ha noi"})))
	assert.Equal(t, []int64{1, 2}, ids(Filter(jobs, Query{Location: "ha noi", IgnoreDiacritics: true})))

	idx := NewIndex(jobs)
	assert.Equal(t, []int64{2}, ids(idx.Filter(Query{Location: "ha noi"})))
	assert.Equal(t, []int64{1, 2}, ids(idx.Filter(Query{Location: "ha noi", IgnoreDiacritics: true})))
}

func TestSort_UrgentFirstIsStable(t *testing.T) {
	jobs := []job.Job{
		{ID: 1}, {ID: 2, IsUrgent: true}, {ID: 3}, {ID: 4, IsUrgent: true}, {ID: 5}, {ID: 6, IsUrgent: true},
	}
	got := Sort(jobs, SortUrgentFirst)
	assert.Equal(t, []int64{2, 4, 6, 1, 3, 5}, ids(got))
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(jobs), "input must not be reordered")
}

func TestSort_Modes(t *testing.T) {
	at := func(d int) *domain.Time {
		return domain.NewTime(time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC))
	}
	jobs := []job.Job{
		{ID: 1, PostedAt: at(2), MinSalary: 50, MaxSalary: 90},
		{ID: 2, PostedAt: nil, MinSalary: 10, MaxSalary: 100},
		{ID: 3, PostedAt: at(5), MinSalary: 30, MaxSalary: 90},
		{ID: 4, PostedAt: at(2), MinSalary: 10, MaxSalary: 40},
	}

	assert.Equal(t, []int64{3, 1, 4, 2}, ids(Sort(jobs, SortRecent)))
	assert.Equal(t, []int64{2, 1, 4, 3}, ids(Sort(jobs, SortOldest)))
	assert.Equal(t, []int64{2, 1, 3, 4}, ids(Sort(jobs, SortSalaryHigh)))
	assert.Equal(t, []int64{2, 4, 3, 1}, ids(Sort(jobs, SortSalaryLow)))
	assert.Equal(t, []int64{3, 1, 4, 2}, ids(Sort(jobs, "")))
}

func TestParseSort(t *testing.T) {
	m, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortRecent, m)

	_, err = ParseSort("random")
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestFilterJobsByField(t *testing.T) {
	jobs := []job.Job{
		{ID: 1, Title: "Go Developer", Location: "Hà Nội", CompanyName: "Acme"},
		{ID: 2, Title: "Frontend dev", Location: "Da Nang", CompanyName: "Beta"},
		{ID: 3, Title: "Designer", Location: "Remote", CompanyName: "DevShop"},
	}

	assert.Empty(t, FilterJobsByField(jobs, FieldTitle, ""))
	assert.Empty(t, FilterJobsByField(nil, FieldTitle, ""))

	for _, q := range []string{"dev", "DEV", "Designer", "o", "zzz"} {
		got := FilterJobsByField(jobs, FieldTitle, q)
		var want []int64
		for _, j := range jobs {
			if strings.Contains(strings.ToLower(j.Title), strings.ToLower(q)) {
				want = append(want, j.ID)
			}
		}
		assert.Equal(t, want, ids(got), "query %q", q)
	}

	assert.Equal(t, []int64{1}, ids(FilterJobsByField(jobs, FieldCompanyLocation, "ha noi")))
	assert.Equal(t, []int64{3}, ids(FilterJobsByField(jobs, FieldCompanyName, "shop")))
	assert.Empty(t, FilterJobsByField(jobs, "salary", "1"))
}

func TestSuggest(t *testing.T) {
	jobs := []job.Job{{Title: "Go Dev"}, {Title: "Go Dev"}, {Title: "Go Lead"}, {Title: "Rust"}}
	assert.Equal(t, []string{"Go Dev", "Go Lead"}, Suggest(jobs, FieldTitle, "go", 0))
	assert.Equal(t, []string{"Go Dev"}, Suggest(jobs, FieldTitle, "go", 1))
}

func TestPagination(t *testing.T) {
	jobs := make([]job.Job, 10)
	for i := range jobs {
		jobs[i].ID = int64(i + 1)
	}

	assert.Equal(t, 3, PageCount(len(jobs), 4))
	off := OffsetForPage(2, 4, len(jobs))
	assert.Equal(t, 8, off)
	assert.Equal(t, []int64{9, 10}, ids(Paginate(jobs, off, 4)))

	assert.Empty(t, Paginate(jobs, 40, 4))
	assert.NotNil(t, Paginate(jobs, 40, 4))
	assert.Equal(t, 0, PageCount(0, 4))
	assert.Equal(t, 0, OffsetForPage(3, 4, 0))
	assert.Equal(t, 2, PageIndex(8, 4))
}

func TestCounts_ExcludeOwnSelection(t *testing.T) {
	jobs := []job.Job{
		{ID: 1, Type: "fulltime", CategoryName: "Development"},
		{ID: 2, Type: "parttime", CategoryName: "Development"},
		{ID: 3, Type: "parttime", CategoryName: "Development"},
		{ID: 4, Type: "parttime", CategoryName: "Design"},
		{ID: 5, Type: "fulltime", CategoryName: "Design"},
	}
	q := Query{Selected: map[FilterCategory][]string{
		CategoryEmployment:  {"Full Time"},
		CategoryJobCategory: {"Development"},
	}}

	counts := CountMatches(jobs, q)
	assert.Equal(t, 2, counts.Get(CategoryEmployment, "Part Time"))
	assert.Equal(t, 1, counts.Get(CategoryEmployment, "Full Time"))
	assert.Equal(t, 1, counts.Get(CategoryJobCategory, "Design"))
	assert.Equal(t, 1, counts.Get(CategoryJobCategory, "Development"))
	assert.Equal(t, 0, counts.Get(CategoryEmployment, "Contract"))

	assert.Equal(t, []int64{1}, ids(Filter(jobs, q)))
}

func TestIndex_MatchesScan(t *testing.T) {
	jobs := MockJobs()
	queries := []Query{
		{},
		{Title: "dev"},
		{Location: "ha noi"},
		{Location: "ha noi", IgnoreDiacritics: true},
		{Title: "engineer", Selected: map[FilterCategory][]string{CategoryEmployment: {"Full Time", "Remote"}}},
		{Selected: map[FilterCategory][]string{
			CategoryExperienceLevel: {"Mid Level"},
			CategorySalary:          {SalaryBand85to115},
			CategoryEducation:       {},
		}},
	}
	idx := NewIndex(jobs)
	for i, q := range queries {
		t.Run(fmt.Sprintf("query_%d", i), func(t *testing.T) {
			assert.Equal(t, CountMatches(jobs, q), idx.Counts(q))
			assert.Equal(t, ids(Filter(jobs, q)), ids(idx.Filter(q)))
		})
	}
}

func TestQuery_Validate(t *testing.T) {
	assert.NoError(t, Query{}.Validate())
	assert.ErrorIs(t, Query{Selected: map[FilterCategory][]string{"colour": {"red"}}}.Validate(), ErrUnknownCategory)
	assert.ErrorIs(t, Query{Sort: "best"}.Validate(), ErrUnknownSort)
	assert.ErrorIs(t, Query{Offset: -1}.Validate(), ErrInvalidQuery)

	_, err := Run(LiveSource(nil), Query{Selected: map[FilterCategory][]string{"colour": nil}})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestQuery_SelectResetsOffset(t *testing.T) {
	q := Query{Offset: 8}
	q = q.Select(CategoryEmployment, "Full Time", true)
	q = q.Select(CategoryEmployment, "Full Time", true)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, []string{"Full Time"}, q.Selected[CategoryEmployment])

	q = q.Select(CategoryEmployment, "Full Time", false)
	assert.Empty(t, q.Selected[CategoryEmployment])
	assert.Empty(t, q.Reset().Selected)
}

func TestResolve_Fallback(t *testing.T) {
	src := Resolve(nil, true)
	assert.Equal(t, Fallback, src.Kind)
	require.Len(t, src.Jobs, 12)
	for _, j := range src.Jobs {
		assert.Less(t, j.ID, int64(0))
	}

	live := []job.Job{{ID: 10, Title: "Real"}}
	src = Resolve(live, true)
	assert.Equal(t, Live, src.Kind)
	assert.Equal(t, []int64{10}, ids(src.Jobs))

	src = Resolve(nil, false)
	assert.Equal(t, Live, src.Kind)
	assert.Empty(t, src.Jobs)
}

func TestRun_EndToEnd(t *testing.T) {
	listing, err := Run(Resolve(nil, true), Query{})
	require.NoError(t, err)
	assert.Equal(t, Fallback, listing.Source)
	assert.Equal(t, 12, listing.Total)
	assert.Equal(t, 3, listing.PageCount)
	assert.Len(t, listing.Page, 4)

	listing, err = Run(Resolve([]job.Job{{ID: 99, Title: "Real job", Type: "fulltime"}}, true), Query{Title: "real"})
	require.NoError(t, err)
	assert.Equal(t, Live, listing.Source)
	assert.Equal(t, []int64{99}, ids(listing.Jobs))
	for _, j := range listing.Jobs {
		assert.GreaterOrEqual(t, j.ID, int64(0))
	}
	assert.Equal(t, 1, listing.Counts.Get(CategoryEmployment, "Full Time"))
}

func TestRun_UrgentPage(t *testing.T) {
	listing, err := Run(FallbackSource(), Query{Sort: SortUrgentFirst, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{-3, -9}, ids(listing.Page))
	assert.Equal(t, 6, listing.PageCount)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "ha noi", Fold("Hà Nội"))
	assert.Equal(t, "da nang", Fold("Đà Nẵng"))
	assert.Equal(t, "ho chi minh city", Fold("Hồ Chí Minh City"))
	assert.Equal(t, "", Fold(""))
}

func ids(jobs []job.Job) []int64 {
	if len(jobs) == 0 {
		return nil
	}
	out := make([]int64, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}
