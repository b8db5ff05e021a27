package scene

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input ID
		want  ID
	}{
		{
			name:  "known scene passes through",
			input: DevTodo,
			want:  DevTodo,
		},
		{
			name:  "empty maps to brain-dump",
			input: "",
			want:  BrainDump,
		},
		{
			name:  "unknown maps to brain-dump",
			input: "grocery-list",
			want:  BrainDump,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInstruction_UnknownSceneFallsBack(t *testing.T) {
	if Instruction("nope") != Instruction(BrainDump) {
		t.Error("unknown scene should use the general instruction")
	}
}

func TestDefaultTags(t *testing.T) {
	tests := []struct {
		id   ID
		want []string
	}{
		{DevTodo, []string{"dev"}},
		{ProjectBrainstorm, []string{"project"}},
		{DailyReminders, []string{"reminder"}},
		{BrainDump, nil},
	}

	for _, tt := range tests {
		got := DefaultTags(tt.id)
		if len(got) != len(tt.want) {
			t.Errorf("DefaultTags(%q) = %v, want %v", tt.id, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("DefaultTags(%q)[%d] = %q, want %q", tt.id, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseLabelOverrides(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  map[ID]string
	}{
		{
			name: "valid overrides",
			raw:  `{"dev-todo": "Engineering", "brain-dump": "Dump"}`,
			want: map[ID]string{DevTodo: "Engineering", BrainDump: "Dump"},
		},
		{
			name: "unknown keys dropped",
			raw:  `{"grocery": "Food", "dev-todo": "Engineering"}`,
			want: map[ID]string{DevTodo: "Engineering"},
		},
		{
			name: "non-string values dropped",
			raw:  `{"dev-todo": 7}`,
			want: map[ID]string{},
		},
		{
			name: "blank values dropped",
			raw:  `{"dev-todo": "   "}`,
			want: map[ID]string{},
		},
		{
			name: "invalid JSON yields empty map",
			raw:  `{not json`,
			want: map[ID]string{},
		},
		{
			name: "empty input yields empty map",
			raw:  "",
			want: map[ID]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLabelOverrides(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseLabelOverrides(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseLabelOverrides(%q)[%q] = %q, want %q", tt.raw, k, got[k], v)
				}
			}
		})
	}
}

func TestLabel_Override(t *testing.T) {
	overrides := map[ID]string{DevTodo: "Engineering"}
	if Label(DevTodo, overrides) != "Engineering" {
		t.Error("Label should honor override")
	}
	if Label(BrainDump, overrides) != "Brain Dump" {
		t.Error("Label should fall back to built-in")
	}
}
