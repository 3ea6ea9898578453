package search

const (
	SalaryBand40to55   = "$40k -55k"
	SalaryBand55to85   = "$55k - 85k"
	SalaryBand85to115  = "$85k - 115k"
	SalaryBand115to145 = "$115k - 145k"
	SalaryBand145to175 = "$145k - 175k"
)

type salaryBand struct {
	label    string
	min, max float64
}

var salaryBands = []salaryBand{
	{SalaryBand40to55, 40000, 55000},
	{SalaryBand55to85, 55000, 85000},
	{SalaryBand85to115, 85000, 115000},
	{SalaryBand115to145, 115000, 145000},
	{SalaryBand145to175, 145000, 175000},
}

// SalaryBucket places a salary range in the first band that contains it.
// Ranges no band contains go to the band their midpoint falls under. A
// missing bound gives no bucket.
func SalaryBucket(min, max float64) (string, bool) {
	if min == 0 || max == 0 {
		return "", false
	}
	for _, b := range salaryBands {
		if min >= b.min && max <= b.max {
			return b.label, true
		}
	}

	avg := (min + max) / 2
	for _, b := range salaryBands[:len(salaryBands)-1] {
		if avg < b.max {
			return b.label, true
		}
	}
	return SalaryBand145to175, true
}
