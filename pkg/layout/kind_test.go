package layout

import (
	"encoding/json"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"grid", Grid, false},
		{"GRID", Grid, false},
		{"pip", PictureInPicture, false},
		{"picture-in-picture", PictureInPicture, false},
		{"side-by-side", SideBySide, false},
		{"sideBySide", SideBySide, false},
		{" stacked-rows ", StackedRows, false},
		{"stackedRows", StackedRows, false},
		{"featured", Featured, false},
		{"mosaic", Grid, true},
		{"", Grid, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", k.String(), got, err, k)
		}
	}
}

func TestKindNextCycles(t *testing.T) {
	k := Grid
	seen := map[Kind]bool{}
	for range Kinds() {
		seen[k] = true
		k = k.Next()
	}
	if k != Grid {
		t.Errorf("after a full cycle got %v, want grid", k)
	}
	if len(seen) != len(Kinds()) {
		t.Errorf("Next visited %d kinds, want %d", len(seen), len(Kinds()))
	}
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Layout Kind `json:"layout"`
	}{Featured})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"layout":"featured"}` {
		t.Errorf("json = %s", data)
	}

	var out struct {
		Layout Kind `json:"layout"`
	}
	if err := json.Unmarshal([]byte(`{"layout":"pip"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Layout != PictureInPicture {
		t.Errorf("Layout = %v, want pip", out.Layout)
	}
}

func TestInvalidKindMarshalFails(t *testing.T) {
	if _, err := Kind(9).MarshalText(); err == nil {
		t.Error("MarshalText on invalid kind should fail")
	}
	if got := Kind(9).String(); got != "Kind(9)" {
		t.Errorf("String() = %q", got)
	}
}
