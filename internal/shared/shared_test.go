package shared

import "testing"

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name       string
		durationMS int
		want       string
	}{
		{
			name:       "zero",
			durationMS: 0,
			want:       "0:00",
		},
		{
			name:       "under a minute",
			durationMS: 45_000,
			want:       "0:45",
		},
		{
			name:       "pads seconds",
			durationMS: 125_000,
			want:       "2:05",
		},
		{
			name:       "truncates sub-second remainder",
			durationMS: 200_999,
			want:       "3:20",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.durationMS)
			if got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.durationMS, got, tt.want)
			}
		})
	}
}

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}

	if len(first) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(first))
	}

	second, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}

	if first == second {
		t.Error("consecutive state tokens should differ")
	}
}

func TestGenerateID(t *testing.T) {
	if GenerateID() == GenerateID() {
		t.Error("consecutive IDs should differ")
	}
}
