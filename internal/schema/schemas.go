package schema

import "speclogic/internal/models"

func required(name string, t FieldType) Field { return Field{Name: name, Type: t, Required: true} }
func optional(name string, t FieldType) Field { return Field{Name: name, Type: t} }

func withDefault(name string, t FieldType, required bool, def any) Field {
	return Field{Name: name, Type: t, Required: required, Default: def}
}

// head returns the identity fields every schema starts with.
func head(componentType models.ComponentType) []Field {
	return []Field{
		required("objectID", TypeString),
		withDefault("component_type", TypeString, true, componentType.String()),
		required("brand", TypeString),
		required("model", TypeString),
	}
}

func tail(fields ...Field) []Field {
	return append(fields,
		required("performance_tier", TypeString),
		optional("image_url", TypeString),
		required("compatibility_tags", TypeList),
	)
}

func build(componentType models.ComponentType, body []Field, rest []Field) Schema {
	fields := head(componentType)
	fields = append(fields, body...)
	fields = append(fields, rest...)

	return Schema{ComponentType: componentType, Fields: fields}
}

var schemas = map[models.ComponentType]Schema{
	models.CPU: build(models.CPU, []Field{
		required("socket", TypeString),
		required("tdp_watts", TypeInt),
		optional("max_tdp_watts", TypeInt),
		required("cores", TypeInt),
		required("threads", TypeInt),
		optional("base_clock_ghz", TypeFloat),
		optional("boost_clock_ghz", TypeFloat),
		required("memory_type", TypeList),
		optional("pcie_version", TypeString),
		withDefault("integrated_graphics", TypeBool, false, false),
	}, tail(
		required("price_usd", TypeFloat),
		optional("release_date", TypeString),
	)),

	models.GPU: build(models.GPU, []Field{
		required("length_mm", TypeInt),
		required("tdp_watts", TypeInt),
		required("vram_gb", TypeInt),
		optional("memory_type", TypeString),
		optional("memory_bandwidth_gbps", TypeFloat),
		optional("pcie_version", TypeString),
		optional("power_connectors", TypeString),
		optional("recommended_psu_watts", TypeInt),
	}, tail(
		required("price_usd", TypeFloat),
		optional("release_date", TypeString),
	)),

	models.Motherboard: build(models.Motherboard, []Field{
		required("socket", TypeString),
		optional("chipset", TypeString),
		required("form_factor", TypeString),
		required("memory_type", TypeList),
		withDefault("memory_slots", TypeInt, false, 4),
		withDefault("max_memory_gb", TypeInt, false, 128),
		withDefault("m2_slots", TypeInt, false, 1),
		withDefault("wifi", TypeBool, false, false),
	}, tail(required("price_usd", TypeFloat))),

	models.RAM: build(models.RAM, []Field{
		required("memory_type", TypeString),
		required("speed_mhz", TypeInt),
		required("capacity_gb", TypeInt),
		withDefault("modules", TypeInt, false, 2),
		optional("cas_latency", TypeInt),
		optional("voltage", TypeFloat),
		withDefault("rgb", TypeBool, false, false),
	}, tail(required("price_usd", TypeFloat))),

	models.PSU: build(models.PSU, []Field{
		required("wattage", TypeInt),
		optional("efficiency_rating", TypeString),
		optional("modular", TypeString),
		withDefault("form_factor", TypeString, false, "ATX"),
	}, tail(required("price_usd", TypeFloat))),

	models.Case: build(models.Case, []Field{
		required("form_factor_support", TypeList),
		required("max_gpu_length_mm", TypeInt),
		required("max_cooler_height_mm", TypeInt),
		optional("max_psu_length_mm", TypeInt),
		withDefault("drive_bays_35", TypeInt, false, 2),
		withDefault("drive_bays_25", TypeInt, false, 2),
		optional("radiator_support", TypeList),
	}, tail(required("price_usd", TypeFloat))),

	models.Cooler: build(models.Cooler, []Field{
		required("cooler_type", TypeString),
		required("socket_support", TypeList),
		required("height_mm", TypeInt),
		optional("radiator_size_mm", TypeInt),
		optional("tdp_rating", TypeInt),
		withDefault("rgb", TypeBool, false, false),
	}, tail(required("price_usd", TypeFloat))),
}

// Lookup returns the schema for componentType.
func Lookup(componentType models.ComponentType) (Schema, bool) {
	s, ok := schemas[componentType]
	if !ok {
		return Schema{}, false
	}

	s.Fields = append([]Field(nil), s.Fields...)

	return s, true
}
