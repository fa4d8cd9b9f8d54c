package extractor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speclogic/internal/models"
)

func TestPCPartPickerSource_Motherboards(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "motherboard.csv", "\ufeffname,price,socket,form_factor,max_memory,memory_slots,color\n"+
		"MSI MAG B650 TOMAHAWK WIFI,189.99,AM5,ATX,192,4,Black\n"+
		"Gigabyte B550M DS3H,,AM4,Micro ATX,128,4,Black\n"+
		",99.99,AM4,ATX,64,2,\n"+
		"ASRock Z790 Pro RS DDR4,159.99,LGA1700,,128,0,\n")

	records, err := NewPCPartPickerSource(dir, nil).Extract(context.Background(), models.Motherboard)
	require.NoError(t, err)
	require.Len(t, records, 2)

	msi := records[0]
	assert.Equal(t, "mb_0", msi["objectID"])
	assert.Equal(t, "Motherboard", msi["component_type"])
	assert.Equal(t, "MSI", msi["brand"])
	assert.Equal(t, "MAG B650 TOMAHAWK WIFI", msi["model"])
	assert.Equal(t, "AM5", msi["socket"])
	assert.Equal(t, 192, msi["max_memory_gb"])
	assert.Equal(t, "DDR5", msi["memory_type"])
	assert.Equal(t, 189.99, msi["price_usd"])
	assert.Equal(t, "Black", msi["color"])

	asrock := records[1]
	assert.Equal(t, "mb_3", asrock["objectID"])
	assert.Equal(t, "LGA1700", asrock["socket"])
	assert.Equal(t, "ATX", asrock["form_factor"])
	assert.Equal(t, 4, asrock["memory_slots"])
	assert.Equal(t, "DDR4", asrock["memory_type"])
	assert.Nil(t, asrock["color"])
}

func TestPCPartPickerSource_PowerSupplies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "power-supply.csv", "name,price,type,efficiency,wattage,modular,color\n"+
		"Corsair RM850x,129.99,ATX,gold,850,Full,Black\n"+
		"Generic Brick,19.99,ATX,,,,\n"+
		"SilverStone SX700-PT,139.99,SFX,platinum,700,,\n")

	records, err := NewPCPartPickerSource(dir, nil).Extract(context.Background(), models.PSU)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "psu_0", records[0]["objectID"])
	assert.Equal(t, 850, records[0]["wattage"])
	assert.Equal(t, "80+ Gold", records[0]["efficiency_rating"])
	assert.Equal(t, "Full", records[0]["modular"])

	assert.Equal(t, "psu_2", records[1]["objectID"])
	assert.Equal(t, "80+ Platinum", records[1]["efficiency_rating"])
	assert.Equal(t, "Non-Modular", records[1]["modular"])
	assert.Equal(t, "SFX", records[1]["form_factor"])
}

func TestPCPartPickerSource_CasesWithImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "case.csv", "name,price,type,color,side_panel\n"+
		"Fractal Design North,139.99,ATX Mid Tower,Black,\n"+
		"Lian Li O11 Dynamic EVO XL,229.99,ATX Full Tower,White,Tempered Glass\n"+
		"Cooler Master NR200P,99.99,Mini ITX Tower,Black,Mesh\n")
	writeFile(t, dir, "images.json", `{"cases":{"case_1":{"image_url":"https://img.example/evo.jpg"}}}`)

	src := NewPCPartPickerSource(dir, nil)
	src.ImageManifest = filepath.Join(dir, "images.json")

	records, err := src.Extract(context.Background(), models.Case)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []any{"ATX", "Micro-ATX", "Mini-ITX"}, records[0]["form_factor_support"])
	assert.Equal(t, 350, records[0]["max_gpu_length_mm"])
	assert.Equal(t, "Tempered Glass", records[0]["side_panel"])
	assert.NotContains(t, records[0], "image_url")

	assert.Equal(t, []any{"E-ATX", "ATX", "Micro-ATX", "Mini-ITX"}, records[1]["form_factor_support"])
	assert.Equal(t, 400, records[1]["max_gpu_length_mm"])
	assert.Equal(t, "https://img.example/evo.jpg", records[1]["image_url"])

	assert.Equal(t, "Cooler Master", records[2]["brand"])
	assert.Equal(t, []any{"Mini-ITX"}, records[2]["form_factor_support"])
	assert.Equal(t, 280, records[2]["max_gpu_length_mm"])
}

func TestPCPartPickerSource_Coolers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cpu-cooler.csv", "name,price,rpm,noise_level,color\n"+
		"Noctua NH-D15,109.95,300 - 1500,24.6 dB,Brown\n"+
		"NZXT Kraken 360mm,169.99,500-1800,,Black\n")

	records, err := NewPCPartPickerSource(dir, nil).Extract(context.Background(), models.Cooler)
	require.NoError(t, err)
	require.Len(t, records, 2)

	noctua := records[0]
	assert.Equal(t, "Air", noctua["cooler_type"])
	assert.Equal(t, 160, noctua["height_mm"])
	assert.Equal(t, 1500, noctua["max_rpm"])
	assert.Equal(t, 24.6, noctua["noise_db"])
	assert.Contains(t, noctua["socket_support"], "AM5")

	kraken := records[1]
	assert.Equal(t, "AIO", kraken["cooler_type"])
	assert.Equal(t, 55, kraken["height_mm"])
	assert.Equal(t, 1800, kraken["max_rpm"])
	assert.Nil(t, kraken["noise_db"])
}

func TestPCPartPickerSource_MaxRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "case.csv", "name,price,type\n"+
		"NZXT H5 Flow,94.99,ATX Mid Tower\n"+
		"NZXT H9 Flow,159.99,ATX Mid Tower\n"+
		"NZXT H1,299.99,Mini ITX Tower\n")

	src := NewPCPartPickerSource(dir, nil)
	src.MaxRows = 2

	records, err := src.Extract(context.Background(), models.Case)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPCPartPickerSource_UncoveredTypes(t *testing.T) {
	src := NewPCPartPickerSource(t.TempDir(), nil)

	_, err := src.Extract(context.Background(), models.CPU)
	assert.True(t, errors.Is(err, ErrSourceNotFound))

	_, err = src.Extract(context.Background(), models.PSU)
	assert.True(t, errors.Is(err, ErrSourceNotFound), "missing export file")
}

func TestPCPartPickerHelpers(t *testing.T) {
	assert.Equal(t, "Unknown", ExtractBrand("  "))
	assert.Equal(t, "Acme", ExtractBrand("Acme Widget 3000"))
	assert.Equal(t, "be quiet!", ExtractBrand("be quiet! Pure Power 12 M"))

	assert.Equal(t, "AM4", SocketFamily("Socket AM4"))
	assert.Equal(t, "LGA1851", SocketFamily("LGA 1851"))
	assert.Equal(t, "sTRX4", SocketFamily("sTR5"))
	assert.Equal(t, "BGA", SocketFamily("BGA"))

	assert.Equal(t, "DDR5", MemoryTypeFromName("ASUS PRIME B650-PLUS"))
	assert.Equal(t, "DDR4", MemoryTypeFromName("ASUS PRIME B550-PLUS"))

	assert.Equal(t, "AIO", CoolerType("Arctic Liquid Freezer III 280"))
	assert.Equal(t, "Air", CoolerType("Thermalright Peerless Assassin 120"))

	support, length := CaseLayout("MicroATX Mini Tower")
	assert.Equal(t, []any{"Micro-ATX", "Mini-ITX"}, support)
	assert.Equal(t, 280, length)
}
