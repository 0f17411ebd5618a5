package scan

import "testing"

func TestMinConfidence_Buckets(t *testing.T) {
	p := DefaultThresholdProfile

	cases := []struct {
		name  string
		total int
		wins  int
		want  int
	}{
		{"too few results falls back", 7, 7, 50},
		{"zero results falls back", 0, 0, 50},
		{"poor win rate tightens", 10, 4, 60},   // 40%
		{"weak win rate", 10, 5, 55},            // 50%
		{"fair win rate", 10, 6, 50},            // 60%
		{"strong win rate relaxes", 10, 7, 45},  // 70%
		{"boundary 45 percent", 20, 9, 55},      // exactly 45
		{"boundary 55 percent", 20, 11, 50},     // exactly 55
		{"boundary 65 percent", 20, 13, 45},     // exactly 65
		{"exactly min results uses rate", 8, 0, 60},
	}
	for _, tc := range cases {
		if got := p.MinConfidence(tc.total, tc.wins); got != tc.want {
			t.Errorf("%s: MinConfidence(%d, %d) = %d, want %d",
				tc.name, tc.total, tc.wins, got, tc.want)
		}
	}
}

func TestThresholdProfile_Validate(t *testing.T) {
	if err := DefaultThresholdProfile.Validate(); err != nil {
		t.Errorf("default profile invalid: %v", err)
	}

	bad := DefaultThresholdProfile
	bad.Strong = 70 // better results must never raise the bar
	if err := bad.Validate(); err == nil {
		t.Error("increasing bucket order passed validation")
	}

	neg := DefaultThresholdProfile
	neg.MinResults = -1
	if err := neg.Validate(); err == nil {
		t.Error("negative min_results passed validation")
	}
}
