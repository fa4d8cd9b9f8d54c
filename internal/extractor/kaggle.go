package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"speclogic/internal/logger"
	"speclogic/internal/models"
)

// Kaggle dataset file names.
const (
	KaggleGPUFile   = "gpu_specs_v7.csv"
	KaggleAMDFile   = "AMDfullspecs_adjusted.csv"
	KaggleIntelFile = "INTELpartialspecs_adjusted.csv"
	KaggleRAMFile   = "RAM_Benchmarks_megalist.csv"
)

// KaggleLimits caps how many rows each dataset contributes after filtering.
type KaggleLimits struct {
	GPU   int
	AMD   int
	Intel int
	DDR4  int
	DDR5  int
}

// DefaultKaggleLimits keeps the index focused on recent parts.
var DefaultKaggleLimits = KaggleLimits{GPU: 150, AMD: 80, Intel: 80, DDR4: 150, DDR5: 50}

var (
	recentYear    = regexp.MustCompile(`202[0-9]`)
	laptopPattern = regexp.MustCompile(`(?i)laptop|mobile`)
	ryzenPattern  = regexp.MustCompile(`(?i)ryzen`)
	intelDesktop  = regexp.MustCompile(`(?i)core i[3579]|core ultra`)
	ramSpeed      = regexp.MustCompile(`\d{4,5}`)
	trademarks    = strings.NewReplacer("™", "", "®", "")
)

// KaggleSource reads the public Kaggle hardware datasets: GPU specs, AMD
// and Intel CPU specs, and RAM benchmarks. Each dataset has its own column
// layout; rows are filtered to recent desktop parts and mapped onto raw
// component records. Prices the datasets lack are estimated from specs.
type KaggleSource struct {
	Dir    string
	Limits KaggleLimits
	logger *logger.Logger
}

// NewKaggleSource creates a source rooted at dir.
func NewKaggleSource(dir string, log *logger.Logger) *KaggleSource {
	return &KaggleSource{Dir: dir, Limits: DefaultKaggleLimits, logger: logger.OrNop(log)}
}

// Extract maps the datasets for componentType. CPUs combine the AMD and
// Intel files. Types with no dataset wrap ErrSourceNotFound.
func (s *KaggleSource) Extract(ctx context.Context, componentType models.ComponentType) ([]models.Record, error) {
	var (
		records []models.Record
		err     error
	)

	switch componentType {
	case models.GPU:
		records, err = s.load(ctx, componentType, KaggleGPUFile, s.gpus)
	case models.RAM:
		records, err = s.load(ctx, componentType, KaggleRAMFile, s.ram)
	case models.CPU:
		records, err = s.cpus(ctx)
	default:
		return nil, fmt.Errorf("%s: no Kaggle dataset: %w", componentType, ErrSourceNotFound)
	}

	if err != nil {
		return nil, err
	}

	s.logger.Info("Extracted Kaggle records", "component_type", componentType.String(), "count", len(records))

	return records, nil
}

func (s *KaggleSource) load(ctx context.Context, componentType models.ComponentType, file string, mapRows func([]row) []models.Record) ([]models.Record, error) {
	path := filepath.Join(s.Dir, file)
	s.logger.Info("Extracting Kaggle records", "component_type", componentType.String(), "path", path)

	rows, err := readTable(ctx, componentType, path)
	if err != nil {
		return nil, err
	}

	return mapRows(rows), nil
}

func (s *KaggleSource) cpus(ctx context.Context) ([]models.Record, error) {
	amd, amdErr := s.load(ctx, models.CPU, KaggleAMDFile, s.amdCPUs)
	if amdErr != nil && !errors.Is(amdErr, ErrSourceNotFound) {
		return nil, amdErr
	}

	intel, intelErr := s.load(ctx, models.CPU, KaggleIntelFile, s.intelCPUs)
	if intelErr != nil && !errors.Is(intelErr, ErrSourceNotFound) {
		return nil, intelErr
	}

	if amdErr != nil && intelErr != nil {
		return nil, errors.Join(amdErr, intelErr)
	}

	return append(amd, intel...), nil
}

// gpus keeps NVIDIA, AMD and Intel cards released since 2020, newest first.
func (s *KaggleSource) gpus(rows []row) []models.Record {
	type candidate struct {
		r    row
		year int
	}

	var kept []candidate

	for _, r := range rows {
		year, ok := r.integer("releaseYear")
		if !ok || year < 2020 {
			continue
		}

		if !slices.Contains([]string{"NVIDIA", "AMD", "Intel"}, r.textOr("manufacturer", "")) {
			continue
		}

		if _, ok := r.number("memSize"); !ok {
			continue
		}

		kept = append(kept, candidate{r: r, year: year})
	}

	slices.SortStableFunc(kept, func(a, b candidate) int { return b.year - a.year })

	if s.Limits.GPU > 0 && len(kept) > s.Limits.GPU {
		kept = kept[:s.Limits.GPU]
	}

	records := make([]models.Record, 0, len(kept))

	for _, c := range kept {
		r := c.r
		maker := r.textOr("manufacturer", "")
		product := r.textOr("productName", "")
		memSize, _ := r.number("memSize")

		tdp, ok := r.integer("tdp")
		if !ok {
			tdp = estimateGPUTDP(memSize)
		}

		pcie := "3.0"
		if c.year >= 2022 {
			pcie = "4.0"
		}

		slug := strings.NewReplacer(" ", "-", "/", "-").Replace(strings.ToLower(product))

		records = append(records, models.Record{
			models.FieldObjectID:      fmt.Sprintf("gpu-%s-%s", strings.ToLower(maker), slug),
			models.FieldComponentType: models.GPU.String(),
			"brand":                   maker,
			"model":                   product,
			"vram_gb":                 int(memSize),
			"memory_type":             r.textOr("memType", "GDDR6"),
			"memory_bus_width":        r.optionalInt("memBusWidth"),
			"gpu_clock_mhz":           r.optionalInt("gpuClock"),
			"memory_clock_mhz":        r.optionalInt("memClock"),
			"cuda_cores":              r.optionalInt("unifiedShader"),
			"tdp_watts":               tdp,
			"length_mm":               estimateGPULength(memSize),
			"pcie_version":            pcie,
			"price_usd":               estimateGPUPrice(memSize),
			"release_year":            c.year,
			"bus_interface":           r.textOr("bus", "PCIe 4.0 x16"),
		})
	}

	return records
}

func estimateGPUTDP(memSize float64) int {
	switch {
	case memSize >= 24:
		return 350
	case memSize >= 16:
		return 250
	case memSize >= 12:
		return 200
	case memSize >= 8:
		return 150
	}

	return 100
}

func estimateGPULength(memSize float64) int {
	switch {
	case memSize >= 24:
		return 336
	case memSize >= 16:
		return 320
	case memSize >= 12:
		return 300
	}

	return 280
}

func estimateGPUPrice(memSize float64) int {
	switch {
	case memSize >= 24:
		return 1599
	case memSize >= 16:
		return 999
	case memSize >= 12:
		return 599
	case memSize >= 8:
		return 399
	}

	return 249
}

// amdCPUs keeps desktop Ryzen parts launched since 2020 in file order.
func (s *KaggleSource) amdCPUs(rows []row) []models.Record {
	records := make([]models.Record, 0)

	for _, r := range rows {
		if s.Limits.AMD > 0 && len(records) >= s.Limits.AMD {
			break
		}

		if laptopPattern.MatchString(r.textOr("platform", "")) {
			continue
		}

		launch := r.textOr("launchDate", "")
		model := r.textOr("model", "")

		if !recentYear.MatchString(launch) || !ryzenPattern.MatchString(model) {
			continue
		}

		tdp, ok := r.integer("defaultTDP", "W")
		if !ok {
			tdp = 105
		}

		socket := "AM5"
		if raw, ok := r.text("cpuSocket"); ok {
			switch {
			case strings.Contains(raw, "AM5"):
			case strings.Contains(raw, "AM4"), strings.Contains(raw, "FP"):
				socket = "AM4"
			}
		}

		memType := r.textOr("sysMemType", "DDR5")
		switch {
		case strings.Contains(memType, "DDR5"):
			memType = "DDR5"
		case strings.Contains(memType, "DDR4"):
			memType = "DDR4"
		}

		cores, ok := r.integer("numCores")
		if !ok {
			cores = 8
		}

		threads, ok := r.integer("numThreads")
		if !ok {
			threads = cores * 2
		}

		graphics, hasGraphics := r.text("graphicsModel")
		clean := trademarks.Replace(model)

		records = append(records, models.Record{
			models.FieldObjectID:      "cpu-amd-" + strings.ReplaceAll(strings.ToLower(clean), " ", "-"),
			models.FieldComponentType: models.CPU.String(),
			"brand":                   "AMD",
			"model":                   clean,
			"socket":                  socket,
			"cores":                   cores,
			"threads":                 threads,
			"base_clock_ghz":          r.optionalFloat("baseClock", "GHz"),
			"boost_clock_ghz":         r.optionalFloat("maxboostClock", "GHz"),
			"tdp_watts":               tdp,
			"memory_type":             memType,
			"l3_cache_mb":             r.optionalInt("L3Cache", "MB"),
			"pcie_version":            r.textOr("PCIeVersion", "4.0"),
			"integrated_graphics":     hasGraphics && graphics != "",
			"price_usd":               estimateAMDPrice(cores),
			"launch_year":             launchYear(r, "launchDate"),
		})
	}

	return records
}

func estimateAMDPrice(cores int) int {
	switch {
	case cores >= 16:
		return 549
	case cores >= 12:
		return 399
	case cores >= 8:
		return 299
	case cores >= 6:
		return 199
	}

	return 149
}

// intelCPUs keeps launched Core i3/i5/i7/i9 and Core Ultra parts released
// since 2020 in file order.
func (s *KaggleSource) intelCPUs(rows []row) []models.Record {
	records := make([]models.Record, 0)

	for _, r := range rows {
		if s.Limits.Intel > 0 && len(records) >= s.Limits.Intel {
			break
		}

		product := r.textOr("product", "")

		if r.textOr("status", "") != "Launched" ||
			!recentYear.MatchString(r.textOr("releaseDate", "")) ||
			!intelDesktop.MatchString(product) {
			continue
		}

		tdp, ok := r.integer("TDP", "W")
		if !ok {
			tdp = 125
		}

		socket := IntelSocket(product)

		cores, ok := r.integer("cores")
		if !ok {
			cores = 8
		}

		threads, ok := r.integer("threads")
		if !ok {
			threads = cores * 2
		}

		var memoryType any = "DDR4"
		if socket == "LGA1700" {
			memoryType = []any{"DDR4", "DDR5"}
		}

		graphics, hasGraphics := r.text("integratedG")
		clean := trademarks.Replace(product)

		records = append(records, models.Record{
			models.FieldObjectID:      "cpu-intel-" + strings.ReplaceAll(strings.ToLower(clean), " ", "-"),
			models.FieldComponentType: models.CPU.String(),
			"brand":                   "Intel",
			"model":                   clean,
			"socket":                  socket,
			"cores":                   cores,
			"threads":                 threads,
			"base_clock_ghz":          r.optionalFloat("baseClock", "GHz"),
			"boost_clock_ghz":         r.optionalFloat("maxTurboClock", "GHz"),
			"tdp_watts":               tdp,
			"memory_type":             memoryType,
			"integrated_graphics":     hasGraphics && !strings.Contains(graphics, "N/A"),
			"price_usd":               estimateIntelPrice(product),
			"launch_year":             launchYear(r, "releaseDate"),
		})
	}

	return records
}

// IntelSocket maps a Core product name onto its socket by generation:
// Core Ultra is LGA1851, 12th to 14th gen LGA1700, older LGA1200.
func IntelSocket(product string) string {
	if strings.Contains(product, "Ultra") {
		return "LGA1851"
	}

	for _, gen := range []string{"14", "13", "12"} {
		if strings.Contains(product, "-"+gen) || strings.Contains(product, " "+gen) {
			return "LGA1700"
		}
	}

	return "LGA1200"
}

func estimateIntelPrice(product string) int {
	switch {
	case strings.Contains(product, "i9"), strings.Contains(product, "Ultra 9"):
		return 589
	case strings.Contains(product, "i7"), strings.Contains(product, "Ultra 7"):
		return 409
	case strings.Contains(product, "i5"), strings.Contains(product, "Ultra 5"):
		return 249
	}

	return 149
}

func launchYear(r row, col string) any {
	if year, ok := r.year(col); ok {
		return year
	}

	return nil
}

// ramBrands maps name fragments onto the vendor names used in the index.
var ramBrands = []struct {
	fragments []string
	brand     string
}{
	{[]string{"kingston"}, "Kingston"},
	{[]string{"g skill", "g.skill", "gskill"}, "G.Skill"},
	{[]string{"corsair"}, "Corsair"},
	{[]string{"crucial"}, "Crucial"},
	{[]string{"samsung"}, "Samsung"},
	{[]string{"teamgroup", "team group"}, "TeamGroup"},
	{[]string{"patriot"}, "Patriot Memory (PDP Systems)"},
	{[]string{"a-data", "adata"}, "ADATA"},
	{[]string{"v-color"}, "V-Color Technology Inc."},
	{[]string{"apacer"}, "Apacer Technology"},
	{[]string{"mushkin"}, "Mushkin"},
	{[]string{"pny"}, "PNY"},
}

// RAMBrand returns the vendor named in a benchmark entry, or "Generic".
func RAMBrand(name string) string {
	lower := strings.ToLower(name)

	for _, b := range ramBrands {
		for _, fragment := range b.fragments {
			if strings.Contains(lower, fragment) {
				return b.brand
			}
		}
	}

	return "Generic"
}

// RAMSpeed reads the first four or five digit run in name as MHz, keeping
// it only inside the plausible range for the generation.
func RAMSpeed(name, gen string) int {
	speed, lo, hi := 3200, 2133, 5000
	if gen == "DDR5" {
		speed, lo, hi = 5600, 4800, 8000
	}

	if m := ramSpeed.FindString(name); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n >= lo && n <= hi {
			return n
		}
	}

	return speed
}

// RAMCapacity reads a kit size from name, defaulting to 16 GB.
func RAMCapacity(name string) int {
	for _, gb := range []int{64, 32, 16, 8} {
		if strings.Contains(name, strconv.Itoa(gb)+"GB") {
			return gb
		}
	}

	return 16
}

// ram takes the fastest DDR4 and DDR5 entries of each generation up to its
// limit, one per brand, speed and capacity combination.
func (s *KaggleSource) ram(rows []row) []models.Record {
	type candidate struct {
		r    row
		read float64
	}

	byGen := map[string][]candidate{}

	for _, r := range rows {
		gen := r.textOr("gen", "")
		if gen != "DDR4" && gen != "DDR5" {
			continue
		}

		if _, ok := r.text("memoryName"); !ok {
			continue
		}

		read, ok := r.number("readUncached")
		if !ok {
			continue
		}

		byGen[gen] = append(byGen[gen], candidate{r: r, read: read})
	}

	records := make([]models.Record, 0)
	seen := map[string]bool{}

	for _, gen := range []string{"DDR4", "DDR5"} {
		limit := s.Limits.DDR4
		if gen == "DDR5" {
			limit = s.Limits.DDR5
		}

		candidates := byGen[gen]
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			switch {
			case a.read > b.read:
				return -1
			case a.read < b.read:
				return 1
			}

			return 0
		})

		if limit > 0 && len(candidates) > limit*2 {
			candidates = candidates[:limit*2]
		}

		count := 0

		for _, c := range candidates {
			if limit > 0 && count >= limit {
				break
			}

			name := c.r.textOr("memoryName", "")
			brand := RAMBrand(name)
			capacity := RAMCapacity(name)
			speed := RAMSpeed(name, gen)

			key := fmt.Sprintf("%s-%s-%d-%d", brand, gen, speed, capacity)
			if seen[key] {
				continue
			}

			seen[key] = true

			price, ok := c.r.number("price")
			if !ok || price == 0 {
				price = estimateRAMPrice(gen, capacity, speed)
			}

			brandSlug := strings.ReplaceAll(strings.ReplaceAll(strings.ToLower(brand), " ", "-"), ".", "")

			model := name
			if runes := []rune(name); len(runes) > 80 {
				model = string(runes[:80])
			}

			records = append(records, models.Record{
				models.FieldObjectID:      fmt.Sprintf("ram-%s-%s-%d-%dgb-%d", brandSlug, strings.ToLower(gen), speed, capacity, len(records)),
				models.FieldComponentType: models.RAM.String(),
				"brand":                   brand,
				"model":                   model,
				"memory_type":             gen,
				"capacity_gb":             capacity,
				"speed_mhz":               speed,
				"modules":                 1,
				"latency":                 c.r.optionalInt("latency"),
				"read_speed":              c.read,
				"write_speed":             c.r.optionalFloat("write"),
				"price_usd":               price,
			})
			count++
		}

		s.logger.Debug("Mapped RAM benchmarks", "generation", gen, "count", count)
	}

	return records
}

func estimateRAMPrice(gen string, capacity, speed int) float64 {
	if gen == "DDR5" {
		return 89 + float64(capacity-16)*3 + float64(speed-5600)*0.02
	}

	return 49 + float64(capacity-16)*2 + float64(speed-3200)*0.01
}
