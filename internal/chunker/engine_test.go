package chunker

import (
	"math"
	"reflect"
	"testing"
)

func intPtr(v int) *int {
	return &v
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine()
	if engine == nil {
		t.Fatal("NewEngine() returned nil")
	}
	if got := engine.Params(); got != DefaultParams() {
		t.Errorf("NewEngine() params = %+v, want %+v", got, DefaultParams())
	}
	if got := engine.Chunks(); len(got) != 0 {
		t.Errorf("NewEngine() chunks = %d, want 0", len(got))
	}
}

func TestEngine_SetParameters(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize *int
		overlap   *int
		want      Params
	}{
		{
			name: "nil leaves values unchanged",
			want: Params{ChunkSize: 4000, Overlap: 200},
		},
		{
			name:      "chunk size only",
			chunkSize: intPtr(1000),
			want:      Params{ChunkSize: 1000, Overlap: 200},
		},
		{
			name:    "overlap only",
			overlap: intPtr(50),
			want:    Params{ChunkSize: 4000, Overlap: 50},
		},
		{
			name:      "both",
			chunkSize: intPtr(500),
			overlap:   intPtr(600),
			want:      Params{ChunkSize: 500, Overlap: 600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine()
			engine.SetParameters(tt.chunkSize, tt.overlap)
			if got := engine.Params(); got != tt.want {
				t.Errorf("Params() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEngine_RetainsLastResult(t *testing.T) {
	engine := NewEngineWithParams(Params{ChunkSize: 20, Overlap: 0})

	first := engine.SplitIntoChunks("aaaa. bbbb. cccc. dddd. eeee.")
	if !reflect.DeepEqual(engine.Chunks(), first) {
		t.Errorf("Chunks() = %q, want %q", engine.Chunks(), first)
	}

	sections := engine.SplitBySections("Intro text\n1. First\nBody A\n2. Second\nBody B")
	if !reflect.DeepEqual(engine.Chunks(), sections) {
		t.Errorf("Chunks() after SplitBySections = %q, want %q", engine.Chunks(), sections)
	}

	engine.SplitIntoChunks("")
	if got := engine.Chunks(); len(got) != 0 {
		t.Errorf("Chunks() after empty input = %q, want empty", got)
	}
}

func TestEngine_ChunksIsCopy(t *testing.T) {
	engine := NewEngine()
	engine.SplitIntoChunks("One sentence.")

	got := engine.Chunks()
	got[0] = "mutated"
	if engine.Chunks()[0] != "One sentence." {
		t.Error("Chunks() exposed internal state")
	}
}

func TestEngine_ExposesCorrectedParams(t *testing.T) {
	engine := NewEngine()
	engine.SetParameters(intPtr(100), intPtr(150))
	engine.SplitBySections("text")

	if got := engine.Params(); got != (Params{ChunkSize: 300, Overlap: 150}) {
		t.Errorf("Params() = %+v, want corrected {300 150}", got)
	}
}

func TestParams_Corrected(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   Params
	}{
		{name: "valid", params: Params{ChunkSize: 4000, Overlap: 200}, want: Params{ChunkSize: 4000, Overlap: 200}},
		{name: "equal values", params: Params{ChunkSize: 200, Overlap: 200}, want: Params{ChunkSize: 400, Overlap: 200}},
		{name: "overlap larger", params: Params{ChunkSize: 100, Overlap: 150}, want: Params{ChunkSize: 300, Overlap: 150}},
		{name: "negative overlap", params: Params{ChunkSize: 10, Overlap: -5}, want: Params{ChunkSize: 10, Overlap: 0}},
		{name: "zero overlap", params: Params{ChunkSize: 10, Overlap: 0}, want: Params{ChunkSize: 10, Overlap: 0}},
		{name: "largest doubled overlap", params: Params{ChunkSize: 1, Overlap: MaxOverlap}, want: Params{ChunkSize: MaxOverlap * 2, Overlap: MaxOverlap}},
		{name: "huge overlap saturates", params: Params{ChunkSize: 1, Overlap: math.MaxInt}, want: Params{ChunkSize: math.MaxInt, Overlap: math.MaxInt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Corrected(); got != tt.want {
				t.Errorf("Corrected() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeFixed},
		{in: "fixed", want: ModeFixed},
		{in: "sections", want: ModeSections},
		{in: "pages", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMode(%q) expected error, got nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSegment(t *testing.T) {
	raw := "Intro text\n1. First\nBody A!\n2. Second\nBody B"

	fixed := Segment(raw, ModeFixed, DefaultParams())
	if len(fixed) != 1 || fixed[0] != "Intro text 1. First Body A 2. Second Body B" {
		t.Errorf("Segment(fixed) = %q", fixed)
	}

	sections := Segment(raw, ModeSections, DefaultParams())
	want := []string{"Intro text", "\n1. First\nBody A", "\n2. Second\nBody B"}
	if !reflect.DeepEqual(sections, want) {
		t.Errorf("Segment(sections) = %q, want %q", sections, want)
	}
}
