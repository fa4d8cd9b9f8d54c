package formatter

import (
	"strings"
	"testing"

	"speclogic/internal/pipeline"
	"speclogic/internal/validator"
)

func TestTable_Render(t *testing.T) {
	tests := []struct {
		name     string
		table    Table
		expected string
	}{
		{
			name: "Basic table formatting",
			table: Table{
				Headers: []string{"Stage", "Records"},
				Rows:    [][]string{{"extract", "1200"}, {"map", "37"}},
			},
			expected: `
| Stage   | Records |
| ------- | ------- |
| extract |    1200 |
| map     |      37 |
`,
		},
		{
			name: "Minimum column width",
			table: Table{
				Headers: []string{"A", "B"},
				Rows:    [][]string{{"x", "y"}},
			},
			expected: `
| A   | B   |
| --- | --- |
| x   | y   |
`,
		},
		{
			name: "Pad short rows",
			table: Table{
				Headers: []string{"Type", "Note"},
				Rows:    [][]string{{"CPU"}},
			},
			expected: `
| Type | Note |
| ---- | ---- |
| CPU  |      |
`,
		},
		{
			name: "Wide characters",
			table: Table{
				Headers: []string{"Model", "Brand"},
				Rows:    [][]string{{"顯示卡", "ASUS"}},
			},
			expected: `
| Model  | Brand |
| ------ | ----- |
| 顯示卡 | ASUS  |
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.Render()
			want := strings.TrimPrefix(tt.expected, "\n")

			if got != want {
				t.Errorf("Render() mismatch.\nGot:\n%s\nWant:\n%s", got, want)
			}
		})
	}
}

func TestTable_RenderEmpty(t *testing.T) {
	if got := (&Table{}).Render(); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestCountTable_SortedKeys(t *testing.T) {
	got := CountTable("Type", "Extracted", map[string]int{"GPU": 2, "CPU": 10})

	cpu := strings.Index(got, "CPU")
	gpu := strings.Index(got, "GPU")

	if cpu < 0 || gpu < 0 || cpu > gpu {
		t.Errorf("expected CPU before GPU:\n%s", got)
	}
}

func TestAuditTable(t *testing.T) {
	report := &validator.Report{
		Total:   3,
		Valid:   2,
		Invalid: 1,
		ByType: map[string]validator.TypeCount{
			"RAM": {Total: 3, Valid: 2, Invalid: 1},
		},
	}

	got := AuditTable(report)

	for _, want := range []string{"| RAM  |     3 |     2 |       1 |", "| All  |     3 |     2 |       1 |"} {
		if !strings.Contains(got, want) {
			t.Errorf("AuditTable missing %q:\n%s", want, got)
		}
	}
}

func TestStageTable(t *testing.T) {
	stats := &pipeline.Stats{TotalExtracted: 12, Normalized: 12, Tagged: 12, Mapped: 10, Uploaded: 10}

	got := StageTable(stats, true)

	for _, want := range []string{
		"| Extracted          |      12 |",
		"| Mapped             |      10 |",
		"| Uploaded (dry run) |      10 |",
		"| Failed             |       0 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("StageTable missing %q:\n%s", want, got)
		}
	}
}
