package schema_test

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"

	"speclogic/internal/models"
	"speclogic/internal/normalizer"
	"speclogic/internal/schema"
	"speclogic/internal/tagger"
)

func cpuRecord() models.Record {
	return models.Record{
		"objectID":           "cpu-amd-ryzen-7-9700x",
		"component_type":     "CPU",
		"brand":              "AMD",
		"model":              "Ryzen 7 9700X",
		"socket":             "AM5",
		"tdp_watts":          65,
		"cores":              8,
		"threads":            16,
		"memory_type":        "DDR5",
		"price_usd":          359.0,
		"performance_tier":   "high-end",
		"compatibility_tags": []string{"am5", "ddr5"},
	}
}

// expectFields checks each named field of out against want.
func expectFields(t *testing.T, out models.Record, want map[string]any) {
	t.Helper()

	for name, v := range want {
		if got, ok := out[name]; !ok || !reflect.DeepEqual(got, v) {
			t.Errorf("%s = %#v, want %#v", name, got, v)
		}
	}
}

func expectAbsent(t *testing.T, out models.Record, names ...string) {
	t.Helper()

	for _, name := range names {
		if _, ok := out[name]; ok {
			t.Errorf("field %s should be omitted, got %#v", name, out[name])
		}
	}
}

func expectPrice(t *testing.T, out models.Record, want float64) {
	t.Helper()

	got, ok := out["price_usd"].(float64)
	if !ok || math.Abs(got-want) > 1e-9 {
		t.Errorf("price_usd = %#v, want %v", out["price_usd"], want)
	}
}

func TestLookup_AllTypes(t *testing.T) {
	required := []string{"objectID", "brand", "model", "price_usd", "performance_tier", "compatibility_tags"}

	for _, ct := range models.AllComponentTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			s, ok := schema.Lookup(ct)
			if !ok {
				t.Fatal("no schema")
			}

			if s.ComponentType != ct {
				t.Errorf("ComponentType = %v", s.ComponentType)
			}

			f, ok := s.Field("component_type")
			if !ok {
				t.Fatal("component_type field missing")
			}

			if f.Default != ct.String() {
				t.Errorf("component_type default = %v", f.Default)
			}

			fields := s.RequiredFields()
			for _, name := range required {
				if !slices.Contains(fields, name) {
					t.Errorf("required fields %v missing %s", fields, name)
				}
			}
		})
	}

	if _, ok := schema.Lookup(models.ComponentType(99)); ok {
		t.Error("unknown component type should have no schema")
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	s, _ := schema.Lookup(models.CPU)
	s.Fields[0].Name = "changed"

	again, _ := schema.Lookup(models.CPU)
	if again.Fields[0].Name != "objectID" {
		t.Errorf("schema table was mutated: first field %q", again.Fields[0].Name)
	}
}

func TestMapRecord_CPU(t *testing.T) {
	out, err := schema.NewMapper(nil).MapRecord(cpuRecord(), models.CPU)
	if err != nil {
		t.Fatalf("MapRecord failed: %v", err)
	}

	expectFields(t, out, map[string]any{
		"memory_type":         []any{"DDR5"},
		"integrated_graphics": false,
		"tdp_watts":           65,
		"price_usd":           359.0,
		"compatibility_tags":  []string{"am5", "ddr5"},
	})
	expectAbsent(t, out, "image_url")
}

func TestMapRecord_MissingRequiredSocket(t *testing.T) {
	m := schema.NewMapper(nil)

	r := cpuRecord()
	delete(r, "socket")

	out, err := m.MapRecord(r, models.CPU)
	if out != nil {
		t.Errorf("expected nil record, got %v", out)
	}

	if !errors.Is(err, schema.ErrMissingRequiredField) {
		t.Errorf("expected ErrMissingRequiredField, got %v", err)
	}

	r = cpuRecord()
	r["socket"] = math.NaN()

	if _, err = m.MapRecord(r, models.CPU); !errors.Is(err, schema.ErrMissingRequiredField) {
		t.Errorf("NaN socket: expected ErrMissingRequiredField, got %v", err)
	}
}

func TestMapRecord_MotherboardDefaults(t *testing.T) {
	out, err := schema.NewMapper(nil).MapRecord(models.Record{
		"objectID":           "motherboard-asus-b650",
		"brand":              "ASUS",
		"name":               "TUF B650-PLUS",
		"socket":             "AM5",
		"form_factor":        "ATX",
		"memory_type":        "DDR5",
		"price":              "$189.99",
		"performance_tier":   "mid-range",
		"compatibility_tags": []string{"am5"},
	}, models.Motherboard)
	if err != nil {
		t.Fatalf("MapRecord failed: %v", err)
	}

	expectFields(t, out, map[string]any{
		"wifi":           false,
		"memory_slots":   4,
		"max_memory_gb":  128,
		"m2_slots":       1,
		"component_type": "Motherboard",
		"model":          "TUF B650-PLUS",
	})
	expectPrice(t, out, 189.99)
	expectAbsent(t, out, "name", "price")
}

func TestMapRecord_Coercion(t *testing.T) {
	out, err := schema.NewMapper(nil).MapRecord(models.Record{
		"objectID":             "case-nzxt-h5",
		"brand":                "NZXT",
		"model":                "H5 Flow",
		"form_factor_support":  "ATX, Micro-ATX ,Mini-ITX",
		"max_gpu_length_mm":    "365mm",
		"max_cooler_height_mm": 165.7,
		"max_psu_length_mm":    "unknown",
		"drive_bays_35":        "1",
		"radiator_support":     240,
		"price_usd":            "94.99 USD",
		"performance_tier":     "mid-range",
		"compatibility_tags":   []string{},
	}, models.Case)
	if err != nil {
		t.Fatalf("MapRecord failed: %v", err)
	}

	expectFields(t, out, map[string]any{
		"form_factor_support":  []any{"ATX", "Micro-ATX", "Mini-ITX"},
		"max_gpu_length_mm":    365,
		"max_cooler_height_mm": 165,
		"drive_bays_35":        1,
		"drive_bays_25":        2,
		"radiator_support":     []any{240},
	})
	// A failed optional coercion drops the field.
	expectAbsent(t, out, "max_psu_length_mm")
	expectPrice(t, out, 94.99)
}

func TestMapRecord_Errors(t *testing.T) {
	badCores := cpuRecord()
	badCores["cores"] = "many"

	tests := []struct {
		name   string
		record models.Record
		ct     models.ComponentType
		want   error
	}{
		{"required coercion failure", badCores, models.CPU, schema.ErrCoercion},
		{"unknown type", cpuRecord(), models.ComponentType(42), schema.ErrUnknownSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := schema.NewMapper(nil).MapRecord(tt.record, tt.ct); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMapRecord_CanonicalWinsOverAlias(t *testing.T) {
	r := cpuRecord()
	r["name"] = "Alias Name"
	r["tdp"] = 120

	out, err := schema.NewMapper(nil).MapRecord(r, models.CPU)
	if err != nil {
		t.Fatalf("MapRecord failed: %v", err)
	}

	expectFields(t, out, map[string]any{"model": "Ryzen 7 9700X", "tdp_watts": 65})
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   schema.FieldType
		want  any
	}{
		{"int from watts", "65W", schema.TypeInt, 65},
		{"int truncates float", 16.9, schema.TypeInt, 16},
		{"int from bool", true, schema.TypeInt, 1},
		{"float from text", "3.8 GHz", schema.TypeFloat, 3.8},
		{"float from int", 7, schema.TypeFloat, 7.0},
		{"bool yes", "Yes", schema.TypeBool, true},
		{"bool t is false", "t", schema.TypeBool, false},
		{"bool number", 1, schema.TypeBool, true},
		{"str float", 4.0, schema.TypeString, "4.0"},
		{"str bool", true, schema.TypeString, "true"},
		{"list scalar", "DDR5", schema.TypeList, []any{"DDR5"}},
		{"list passthrough", []any{"a", 1}, schema.TypeList, []any{"a", 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.Coerce(tt.value, tt.typ)
			if err != nil {
				t.Fatalf("Coerce failed: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Coerce(%#v) = %#v, want %#v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCoerce_Failures(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   schema.FieldType
	}{
		{"infinite int", math.Inf(1), schema.TypeInt},
		{"list as float", []any{1}, schema.TypeFloat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := schema.Coerce(tt.value, tt.typ); !errors.Is(err, schema.ErrCoercion) {
				t.Errorf("expected ErrCoercion, got %v", err)
			}
		})
	}
}

func TestMapRecords(t *testing.T) {
	m := schema.NewMapper(nil)

	bad := cpuRecord()
	delete(bad, "brand")

	if out := m.MapRecords([]models.Record{cpuRecord(), bad, cpuRecord()}); len(out) != 2 {
		t.Errorf("mapped %d records, want 2", len(out))
	}

	for _, in := range [][]models.Record{
		nil,
		{{"brand": "AMD"}},
		{{"component_type": "Monitor"}},
	} {
		if out := m.MapRecords(in); len(out) != 0 {
			t.Errorf("MapRecords(%v) = %v, want empty", in, out)
		}
	}
}

func TestValidateRecord(t *testing.T) {
	if errs := schema.ValidateRecord(cpuRecord(), models.CPU); len(errs) != 0 {
		t.Errorf("valid record reported %v", errs)
	}

	r := cpuRecord()
	r["socket"] = ""
	delete(r, "cores")

	want := []string{
		"Missing required field: socket",
		"Missing required field: cores",
	}
	if got := schema.ValidateRecord(r, models.CPU); !reflect.DeepEqual(got, want) {
		t.Errorf("ValidateRecord = %v, want %v", got, want)
	}

	errs := schema.ValidateRecord(r, models.ComponentType(0))
	if len(errs) != 1 || !strings.Contains(errs[0], "Unknown component type") {
		t.Errorf("unknown type errors = %v", errs)
	}
}

func TestAttributes(t *testing.T) {
	if got := schema.SearchableAttributes(); !reflect.DeepEqual(got, []string{"model", "brand", "component_type"}) {
		t.Errorf("SearchableAttributes = %v", got)
	}

	if !slices.Contains(schema.FacetAttributes(), "compatibility_tags") {
		t.Error("compatibility_tags should be a facet")
	}

	if !slices.Contains(schema.NumericAttributes(), "max_cooler_height_mm") {
		t.Error("max_cooler_height_mm should be numeric")
	}

	facets := schema.FacetAttributes()
	facets[0] = "mutated"

	if got := schema.FacetAttributes()[0]; got != "component_type" {
		t.Errorf("facet list was mutated: %q", got)
	}
}

func TestFullCPUFlow(t *testing.T) {
	raw := models.Record{
		"component_type": "CPU",
		"name":           "Ryzen 7 9700X",
		"brand":          "AMD",
		"cores":          8,
		"threads":        16,
		"socket":         "Socket AM5",
		"tdp_watts":      65,
		"memory_type":    "DDR5",
		"price_usd":      359,
	}

	normalized := normalizer.NewProcessor(nil).NormalizeRecord(raw)
	tagged := tagger.NewTagger(nil).TagRecord(normalized)

	out, err := schema.NewMapper(nil).MapRecord(tagged, models.CPU)
	if err != nil {
		t.Fatalf("MapRecord failed: %v", err)
	}

	expectFields(t, out, map[string]any{"objectID": "cpu-amd-ryzen-7-9700x", "socket": "AM5"})

	tags, _ := out["compatibility_tags"].([]string)
	for _, want := range []string{"am5", "ddr5", "low-tdp", "octa-core"} {
		if !slices.Contains(tags, want) {
			t.Errorf("compatibility_tags %v missing %s", out["compatibility_tags"], want)
		}
	}
}
