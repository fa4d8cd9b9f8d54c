package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"speclogic/internal/logger"
	"speclogic/internal/models"
	"speclogic/internal/normalizer"
)

// DefaultPCPartPickerRows caps how many lines of each export are read.
const DefaultPCPartPickerRows = 500

var pcpartpickerFiles = map[models.ComponentType]string{
	models.Motherboard: "motherboard.csv",
	models.PSU:         "power-supply.csv",
	models.Case:        "case.csv",
	models.Cooler:      "cpu-cooler.csv",
}

// knownBrands is searched in order; the first brand found anywhere in a
// product name wins.
var knownBrands = []string{
	"ASUS", "Asus", "MSI", "Gigabyte", "GIGABYTE", "ASRock", "EVGA",
	"Corsair", "NZXT", "Cooler Master", "be quiet!", "Fractal Design",
	"Lian Li", "Phanteks", "Thermaltake", "Seasonic", "Super Flower",
	"Noctua", "Arctic", "Deepcool", "DEEPCOOL", "Thermalright", "Scythe",
	"ID-COOLING", "ARCTIC", "Antec", "BitFenix", "Silverstone", "SilverStone",
	"Razer", "Intel", "AMD", "NVIDIA", "Sapphire", "XFX", "PowerColor",
	"Zotac", "ZOTAC", "PNY", "Palit", "Gainward", "Inno3D", "Colorful",
	"FSP", "Montech", "Rosewill", "Cougar", "GameMax", "Aerocool",
	"Biostar", "BIOSTAR", "ECS", "AORUS", "ROG", "TUF", "PRIME", "MAG",
	"ADATA", "Kingston", "G.Skill", "Crucial", "Samsung", "Western Digital",
	"Seagate", "Toshiba", "Patriot", "Team", "OLOy", "TEAMGROUP",
}

// defaultCoolerSockets is assumed for every cooler in the export, which
// carries no socket column.
var defaultCoolerSockets = []string{"AM4", "AM5", "LGA1700", "LGA1200", "LGA1151"}

// PCPartPickerSource reads the public PCPartPicker CSV exports
// (motherboard, power-supply, case, cpu-cooler) and derives the fields
// those exports lack from product names and case types.
type PCPartPickerSource struct {
	Dir string
	// MaxRows bounds the lines read per file, skipped lines included.
	MaxRows int
	// ImageManifest optionally maps case object IDs to image URLs.
	ImageManifest string
	logger        *logger.Logger
}

// NewPCPartPickerSource creates a source rooted at dir.
func NewPCPartPickerSource(dir string, log *logger.Logger) *PCPartPickerSource {
	return &PCPartPickerSource{Dir: dir, MaxRows: DefaultPCPartPickerRows, logger: logger.OrNop(log)}
}

// Extract maps the export for componentType into raw records. Types the
// exports do not cover wrap ErrSourceNotFound.
func (s *PCPartPickerSource) Extract(ctx context.Context, componentType models.ComponentType) ([]models.Record, error) {
	name, ok := pcpartpickerFiles[componentType]
	if !ok {
		return nil, fmt.Errorf("%s: no PCPartPicker export: %w", componentType, ErrSourceNotFound)
	}

	path := filepath.Join(s.Dir, name)
	s.logger.Info("Extracting PCPartPicker records", "component_type", componentType.String(), "path", path)

	rows, err := readTable(ctx, componentType, path)
	if err != nil {
		return nil, err
	}

	if s.MaxRows > 0 && len(rows) > s.MaxRows {
		rows = rows[:s.MaxRows]
	}

	var images map[string]string
	if componentType == models.Case {
		if images, err = loadImageManifest(s.ImageManifest); err != nil {
			s.logger.Warn("Ignoring case image manifest", "path", s.ImageManifest, "error", err)
		}
	}

	records := make([]models.Record, 0, len(rows))

	for i, r := range rows {
		name, ok := r.text("name")
		if !ok {
			continue
		}

		price, ok := normalizer.NormalizePrice(r.textOr("price", ""))
		if !ok || price <= 0 {
			continue
		}

		brand := ExtractBrand(name)
		base := models.Record{
			models.FieldComponentType: componentType.String(),
			"brand":                   brand,
			"model":                   strings.TrimSpace(strings.ReplaceAll(name, brand, "")),
			"name":                    name,
			"price_usd":               price,
			"color":                   nilIfEmpty(r.textOr("color", "")),
		}

		var record models.Record

		switch componentType {
		case models.Motherboard:
			record = motherboardRecord(i, name, r, base)
		case models.PSU:
			record = psuRecord(i, r, base)
		case models.Case:
			record = caseRecord(i, r, base, images)
		case models.Cooler:
			record = coolerRecord(i, name, r, base)
		}

		if record != nil {
			records = append(records, record)
		}
	}

	s.logger.Info("Extracted PCPartPicker records", "component_type", componentType.String(), "count", len(records))

	return records, nil
}

func motherboardRecord(i int, name string, r row, rec models.Record) models.Record {
	socket := r.textOr("socket", "")
	rec[models.FieldObjectID] = fmt.Sprintf("mb_%d", i)
	rec["socket"] = nilIfEmpty(SocketFamily(socket))
	rec["form_factor"] = r.textOr("form_factor", "ATX")
	rec["max_memory_gb"] = r.optionalInt("max_memory")
	rec["memory_type"] = MemoryTypeFromName(name)

	if slots, ok := r.integer("memory_slots"); ok && slots != 0 {
		rec["memory_slots"] = slots
	} else {
		rec["memory_slots"] = 4
	}

	return rec
}

func psuRecord(i int, r row, rec models.Record) models.Record {
	wattage, ok := r.integer("wattage")
	if !ok || wattage == 0 {
		return nil
	}

	rec[models.FieldObjectID] = fmt.Sprintf("psu_%d", i)
	rec["wattage"] = wattage
	rec["efficiency_rating"] = efficiencyRating(r.textOr("efficiency", ""))
	rec["modular"] = r.textOr("modular", "Non-Modular")
	rec["form_factor"] = r.textOr("type", "ATX")

	return rec
}

func efficiencyRating(efficiency string) string {
	lower := strings.ToLower(efficiency)

	for _, grade := range []string{"titanium", "platinum", "gold", "silver", "bronze"} {
		if strings.Contains(lower, grade) {
			return "80+ " + strings.ToUpper(grade[:1]) + grade[1:]
		}
	}

	return "80+"
}

func caseRecord(i int, r row, rec models.Record, images map[string]string) models.Record {
	caseType := r.textOr("type", "")
	objectID := fmt.Sprintf("case_%d", i)

	rec[models.FieldObjectID] = objectID
	rec["case_type"] = caseType
	if caseType == "" {
		rec["case_type"] = "ATX Mid Tower"
	}

	support, gpuLength := CaseLayout(caseType)
	rec["form_factor_support"] = support
	rec["max_gpu_length_mm"] = gpuLength
	rec["max_cooler_height_mm"] = 165
	rec["side_panel"] = r.textOr("side_panel", "Tempered Glass")

	if url := images[objectID]; url != "" {
		rec["image_url"] = url
	}

	return rec
}

// CaseLayout estimates the supported board form factors and the GPU
// clearance in mm from a case type such as "ATX Mid Tower".
func CaseLayout(caseType string) ([]any, int) {
	t := strings.ToLower(caseType)

	support := []any{"ATX", "Micro-ATX", "Mini-ITX"}
	switch {
	case strings.Contains(t, "full"):
		support = []any{"E-ATX", "ATX", "Micro-ATX", "Mini-ITX"}
	case strings.Contains(t, "mid"):
		// Mid towers keep the ATX default.
	case strings.Contains(t, "microatx"), strings.Contains(t, "micro atx"), strings.Contains(t, "micro-atx"):
		support = []any{"Micro-ATX", "Mini-ITX"}
	case strings.Contains(t, "mini"), strings.Contains(t, "itx"):
		support = []any{"Mini-ITX"}
	case strings.Contains(t, "micro"):
		support = []any{"Micro-ATX", "Mini-ITX"}
	}

	length := 350
	switch {
	case strings.Contains(t, "full"):
		length = 400
	case strings.Contains(t, "mid"):
	case strings.Contains(t, "mini"), strings.Contains(t, "itx"):
		length = 280
	case strings.Contains(t, "micro"):
		length = 320
	}

	return support, length
}

func coolerRecord(i int, name string, r row, rec models.Record) models.Record {
	rpm := r.textOr("rpm", "")
	if idx := strings.LastIndex(rpm, "-"); idx >= 0 {
		rpm = rpm[idx+1:]
	}

	coolerType := CoolerType(name)
	height := 160
	lower := strings.ToLower(name)

	switch {
	case coolerType == "AIO":
		height = 55
	case strings.Contains(lower, "low profile"), strings.Contains(lower, "lp"):
		height = 45
	}

	sockets := make([]any, len(defaultCoolerSockets))
	for j, socket := range defaultCoolerSockets {
		sockets[j] = socket
	}

	rec[models.FieldObjectID] = fmt.Sprintf("cooler_%d", i)
	rec["cooler_type"] = coolerType
	rec["height_mm"] = height
	rec["max_rpm"] = nil
	if n, ok := parseNumber(rpm); ok {
		rec["max_rpm"] = int(n)
	}

	rec["noise_db"] = r.optionalFloat("noise_level", "dB")
	rec["socket_support"] = sockets

	return rec
}

// CoolerType returns "AIO" for liquid coolers named as such or by radiator
// size, otherwise "Air".
func CoolerType(name string) string {
	lower := strings.ToLower(name)

	for _, marker := range []string{"aio", "liquid", "water", "240mm", "280mm", "360mm", "420mm"} {
		if strings.Contains(lower, marker) {
			return "AIO"
		}
	}

	return "Air"
}

// ExtractBrand returns the first known brand contained in name, or the
// first word of name. An empty name gives "Unknown".
func ExtractBrand(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Unknown"
	}

	upper := strings.ToUpper(name)
	for _, brand := range knownBrands {
		if strings.Contains(upper, strings.ToUpper(brand)) {
			return brand
		}
	}

	return strings.Fields(name)[0]
}

// SocketFamily maps a socket description onto its family name. Unmatched
// values are returned unchanged.
func SocketFamily(socket string) string {
	if socket == "" {
		return ""
	}

	upper := strings.ToUpper(socket)

	switch {
	case strings.Contains(upper, "AM5"):
		return "AM5"
	case strings.Contains(upper, "AM4"):
		return "AM4"
	case strings.Contains(upper, "1700"):
		return "LGA1700"
	case strings.Contains(upper, "1200"):
		return "LGA1200"
	case strings.Contains(upper, "1151"):
		return "LGA1151"
	case strings.Contains(upper, "1851"):
		return "LGA1851"
	case strings.Contains(upper, "TR"), strings.Contains(upper, "THREADRIPPER"):
		return "sTRX4"
	case strings.Contains(upper, "2066"):
		return "LGA2066"
	}

	return socket
}

// MemoryTypeFromName infers a board's memory generation from its product
// name, defaulting to DDR4.
func MemoryTypeFromName(name string) string {
	upper := strings.ToUpper(name)

	switch {
	case strings.Contains(upper, "DDR5"):
		return "DDR5"
	case strings.Contains(upper, "DDR4"):
		return "DDR4"
	}

	for _, marker := range []string{"AM5", "LGA1700", "Z790", "B650"} {
		if strings.Contains(upper, marker) {
			return "DDR5"
		}
	}

	return "DDR4"
}

type imageManifest struct {
	Cases map[string]struct {
		ImageURL string `json:"image_url"`
	} `json:"cases"`
}

// loadImageManifest reads {"cases": {objectID: {"image_url": ...}}}. An
// unset or missing manifest yields no images.
func loadImageManifest(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}

	var manifest imageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse image manifest: %w", err)
	}

	images := make(map[string]string, len(manifest.Cases))
	for id, entry := range manifest.Cases {
		if entry.ImageURL != "" {
			images[id] = entry.ImageURL
		}
	}

	return images, nil
}
