package weather

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-world/common"
)

//go:embed assets/timecyc.dat
var defaultTableSource []byte

// HoursPerDay is the number of hourly keyframes per preset.
const HoursPerDay = 24

// Preset selects a weather kind.
type Preset int

const (
	PresetSunny Preset = iota
	PresetCloudy
	PresetRainy
	PresetFoggy
	presetCount
)

var presetNames = [presetCount]string{"SUNNY", "CLOUDY", "RAINY", "FOGGY"}

func (p Preset) String() string {
	if p < 0 || p >= presetCount {
		return fmt.Sprintf("Preset(%d)", int(p))
	}
	return presetNames[p]
}

// ParsePreset resolves a preset name, case-insensitively.
//
// Parameters:
//   - name: the preset name, such as "sunny"
//
// Returns:
//   - Preset: the preset
//   - error: an error if the name is unknown
func ParsePreset(name string) (Preset, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range presetNames {
		if n == upper {
			return Preset(i), nil
		}
	}
	return 0, fmt.Errorf("weather: unknown preset %q", name)
}

// Conditions is the weather state at one moment.
type Conditions struct {
	SkyTop    common.Color
	SkyBottom common.Color
	Ambient   common.Color
	Direct    common.Color
	FogStart  float32
	FarClip   float32
}

func (c Conditions) lerp(o Conditions, t float32) Conditions {
	return Conditions{
		SkyTop:    c.SkyTop.Lerp(o.SkyTop, t),
		SkyBottom: c.SkyBottom.Lerp(o.SkyBottom, t),
		Ambient:   c.Ambient.Lerp(o.Ambient, t),
		Direct:    c.Direct.Lerp(o.Direct, t),
		FogStart:  c.FogStart + (o.FogStart-c.FogStart)*t,
		FarClip:   c.FarClip + (o.FarClip-c.FarClip)*t,
	}
}

// Table holds hourly conditions for every preset.
type Table struct {
	entries [presetCount][HoursPerDay]Conditions
}

// Sample interpolates conditions at a fractional hour. Hours wrap at 24.
//
// Parameters:
//   - preset: the weather preset
//   - hour: the hour of day, 13.5 is half past one in the afternoon
//
// Returns:
//   - Conditions: the interpolated conditions
func (t *Table) Sample(preset Preset, hour float32) Conditions {
	if preset < 0 || preset >= presetCount {
		preset = PresetSunny
	}
	hour = common.WrapFloat(hour, HoursPerDay)
	base := float32(math.Floor(float64(hour)))
	h0 := int(base) % HoursPerDay
	h1 := (h0 + 1) % HoursPerDay
	return t.entries[preset][h0].lerp(t.entries[preset][h1], hour-base)
}

// Entry returns the keyframe for one hour.
//
// Parameters:
//   - preset: the weather preset
//   - hour: the whole hour, 0 to 23
//
// Returns:
//   - Conditions: the stored keyframe
func (t *Table) Entry(preset Preset, hour int) Conditions {
	return t.entries[preset][((hour%HoursPerDay)+HoursPerDay)%HoursPerDay]
}

// LoadTable parses a weather table. Each non-comment line holds a preset name, an hour, four rgb byte
// triples for sky top, sky bottom, ambient and direct light, then fog start and far clip distances.
// Every preset must define all 24 hours.
//
// Parameters:
//   - r: the table source
//
// Returns:
//   - *Table: the parsed table
//   - error: an error describing the first malformed or missing entry
func LoadTable(r io.Reader) (*Table, error) {
	t := &Table{}
	var seen [presetCount][HoursPerDay]bool

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 16 {
			return nil, fmt.Errorf("weather: line %d: expected 16 fields, got %d", lineNo, len(fields))
		}
		preset, err := ParsePreset(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		hour, err := strconv.Atoi(fields[1])
		if err != nil || hour < 0 || hour >= HoursPerDay {
			return nil, fmt.Errorf("weather: line %d: bad hour %q", lineNo, fields[1])
		}

		nums := make([]float32, 14)
		for i := range nums {
			v, err := strconv.ParseFloat(fields[i+2], 32)
			if err != nil {
				return nil, fmt.Errorf("weather: line %d: field %d: %w", lineNo, i+3, err)
			}
			nums[i] = float32(v)
		}
		t.entries[preset][hour] = Conditions{
			SkyTop:    byteColor(nums[0:3]),
			SkyBottom: byteColor(nums[3:6]),
			Ambient:   byteColor(nums[6:9]),
			Direct:    byteColor(nums[9:12]),
			FogStart:  nums[12],
			FarClip:   nums[13],
		}
		seen[preset][hour] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading weather table: %w", err)
	}

	for p := range seen {
		for h, ok := range seen[p] {
			if !ok {
				return nil, fmt.Errorf("weather: %s hour %d missing", Preset(p), h)
			}
		}
	}
	return t, nil
}

// DefaultTable returns the built-in weather table.
//
// Returns:
//   - *Table: the parsed default table
func DefaultTable() *Table {
	t, err := LoadTable(bytes.NewReader(defaultTableSource))
	if err != nil {
		panic("weather: embedded table is invalid: " + err.Error())
	}
	return t
}

func byteColor(rgb []float32) common.Color {
	return common.RGB(rgb[0]/255, rgb[1]/255, rgb[2]/255)
}
