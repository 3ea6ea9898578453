package job

import (
	"reflect"
	"testing"
)

func TestJob_SkillList(t *testing.T) {
	cases := []struct {
		skills string
		want   []string
	}{
		{skills: "", want: nil},
		{skills: "Go, PostgreSQL ,,Redis", want: []string{"Go", "PostgreSQL", "Redis"}},
		{skills: "React Native", want: []string{"React Native"}},
	}
	for _, tc := range cases {
		got := Job{Skills: tc.skills}.SkillList()
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SkillList(%q) = %v, want %v", tc.skills, got, tc.want)
		}
	}
}
