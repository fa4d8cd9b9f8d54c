package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speclogic/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCSVSource_ExtractCPU(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cpus.csv", "name,brand,cores,threads,tdp,price,integrated_graphics,socket\n"+
		"Ryzen 7 9700X,AMD,8,16,65W,359.99,False,AM5\n"+
		"Core i5-14600K,Intel,14,20,125,N/A,TRUE,LGA 1700\n")

	src := NewCSVSource(dir, nil)

	records, err := src.Extract(context.Background(), models.CPU)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "CPU", first["component_type"])
	assert.Equal(t, 8, first["cores"])
	assert.Equal(t, "65W", first["tdp"])
	assert.Equal(t, 359.99, first["price"])
	assert.Equal(t, false, first["integrated_graphics"])

	second := records[1]
	assert.Nil(t, second["price"])
	assert.Contains(t, second, "price")
	assert.Equal(t, true, second["integrated_graphics"])
	assert.Equal(t, "LGA 1700", second["socket"])
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(t.TempDir(), nil)

	_, err := src.Extract(context.Background(), models.RAM)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceNotFound))

	var srcErr *SourceError
	assert.False(t, errors.As(err, &srcErr))
}

func TestCSVSource_MissingRequiredColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gpus.csv", "name,memory\nRTX 4090,24\n")

	_, err := NewCSVSource(dir, nil).Extract(context.Background(), models.GPU)

	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, models.GPU, srcErr.Type)
	assert.Equal(t, []string{"brand", "vram"}, srcErr.Missing)
	assert.Contains(t, err.Error(), "missing required columns: brand, vram")
}

func TestCSVSource_EmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "coolers.csv", "")
	writeFile(t, dir, "cpus.csv", "")
	writeFile(t, dir, "cases.csv", "brand,model\n")

	src := NewCSVSource(dir, nil)

	records, err := src.Extract(context.Background(), models.Cooler)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = src.Extract(context.Background(), models.Case)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = src.Extract(context.Background(), models.CPU)

	var srcErr *SourceError
	assert.True(t, errors.As(err, &srcErr))
}

func TestCSVSource_ShortRowsAndBOM(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "psus.csv", "\ufeffbrand,model,wattage\nCorsair,RM850x\n")

	records, err := NewCSVSource(dir, nil).Extract(context.Background(), models.PSU)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Corsair", records[0]["brand"])
	assert.Contains(t, records[0], "wattage")
	assert.Nil(t, records[0]["wattage"])
}

func TestCSVSource_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ram.csv", "brand,model\nG.Skill,Trident Z5\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVSource(dir, nil).Extract(ctx, models.RAM)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVSource_UnknownType(t *testing.T) {
	_, err := NewCSVSource(t.TempDir(), nil).Extract(context.Background(), models.ComponentType(0))
	assert.ErrorIs(t, err, models.ErrUnknownComponentType)
}

func TestInferCell(t *testing.T) {
	tests := []struct {
		cell string
		want any
	}{
		{"", nil},
		{"NA", nil},
		{"N/A", nil},
		{"nan", nil},
		{"<NA>", nil},
		{"None", nil},
		{"42", 42},
		{" 7 ", 7},
		{"3.5", 3.5},
		{"True", true},
		{"false", false},
		{"inf", "inf"},
		{"AM5", "AM5"},
		{"65W", "65W"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InferCell(tt.cell), "cell %q", tt.cell)
	}
}

func TestFileNames(t *testing.T) {
	for _, ct := range models.AllComponentTypes() {
		assert.NotEmpty(t, FileName(ct), ct.String())
	}

	assert.Equal(t, "ram.csv", FileName(models.RAM))
	assert.Equal(t, []string{"name", "brand", "cores", "threads"}, RequiredColumns(models.CPU))
	assert.Empty(t, RequiredColumns(models.Cooler))
}
