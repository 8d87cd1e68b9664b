package version

import (
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{name: "完整注入", version: "v1.2.0", commit: "abc1234", date: "2026-10-12 09:00:00", want: "v1.2.0, commit abc1234, built at 2026-10-12 09:00:00"},
		{name: "只注入版本", version: "v1.2.0", commit: "", date: "", want: "v1.2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, tt.commit, tt.date
			got := GetVersionString()
			if tt.commit != "" && got != tt.want {
				t.Errorf("GetVersionString() = %q, 期望 %q", got, tt.want)
			}
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("GetVersionString() = %q, 应以 %q 开头", got, tt.want)
			}
		})
	}
}
