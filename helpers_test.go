package benang

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Cara Menjahit", "cara-menjahit"},
		{"  Pola & Potong  ", "pola-potong"},
		{"Kelas 101: Dasar", "kelas-101-dasar"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",jahit,", []string{"jahit"}},
		{",jahit,pola,", []string{"jahit", "pola"}},
		{",jahit, pola ,sulam,", []string{"jahit", "pola", "sulam"}},
	}
	for _, tt := range tests {
		got := parseList(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseList(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestStringListValue(t *testing.T) {
	v, err := StringList{"jahit", "pola"}.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != ",jahit,pola," {
		t.Errorf("Value = %q, want delimiter-wrapped form", v)
	}

	empty, err := StringList(nil).Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if empty != "" {
		t.Errorf("empty Value = %q, want empty string", empty)
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"jahit", " ", "", "pola"})
	if len(got) != 2 || got[0] != "jahit" || got[1] != "pola" {
		t.Errorf("FilterEmpty = %v, want [jahit pola]", got)
	}
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://benang.studio", "learning-center", "articles", "cara-menjahit")
	want := "https://benang.studio/learning-center/articles/cara-menjahit/"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}
