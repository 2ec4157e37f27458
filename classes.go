package looper

import (
	"strconv"
	"strings"
)

// spacingUnit is the pixel size of one step on the numeric spacing scale
// (gap-8 = 32px).
const spacingUnit = 4

// arbitraryValue is a bracketed class value: "gap-[20px]" -> {gap, 20px}.
type arbitraryValue struct {
	Property string
	Value    string
}

// ParseClasses applies utility classes to base and returns the result.
// Example: "marquee-reverse marquee-speed-[30] gap-8 fade-[64px]"
//
// Recognized classes:
//
//	marquee-forward, marquee-reverse      direction
//	marquee-per-item, marquee-whole-set   tiling mode
//	marquee-speed-[N]                     px per second
//	gap-N, gap-[Npx]                      tile gap
//	fade, fade-none, fade-N, fade-[Npx]   edge fade
//
// Unknown classes are ignored.
func ParseClasses(base Config, classStr string) Config {
	cfg := base
	for _, class := range strings.Fields(classStr) {
		// Variant prefixes (hover:, md:) do not apply to a track; use the base utility.
		if i := strings.LastIndex(class, ":"); i >= 0 {
			class = class[i+1:]
		}

		if strings.Contains(class, "[") && strings.HasSuffix(class, "]") {
			if arb := extractArbitraryValue(class); arb != nil {
				applyArbitrary(&cfg, arb)
			}
			continue
		}
		applyUtility(&cfg, class)
	}
	return cfg
}

func applyUtility(cfg *Config, class string) {
	switch class {
	case "marquee-forward", "marquee-left":
		cfg.Direction = Forward
		return
	case "marquee-reverse", "marquee-right":
		cfg.Direction = Reverse
		return
	case "marquee-per-item":
		cfg.TilingMode = PerItem
		return
	case "marquee-whole-set":
		cfg.TilingMode = WholeSet
		return
	case "fade":
		cfg.FadeEdges = true
		return
	case "fade-none":
		cfg.FadeEdges = false
		return
	}

	switch {
	case strings.HasPrefix(class, "gap-"):
		if v := parseScale(strings.TrimPrefix(class, "gap-")); v != nil {
			cfg.GapPx = *v
		}
	case strings.HasPrefix(class, "fade-"):
		if v := parseScale(strings.TrimPrefix(class, "fade-")); v != nil {
			cfg.FadeEdges = true
			cfg.FadeWidthPx = *v
		}
	}
}

func applyArbitrary(cfg *Config, arb *arbitraryValue) {
	switch arb.Property {
	case "marquee-speed":
		if v := parseFloat(arb.Value); v != nil {
			cfg.SpeedPxPerSec = *v
		}
	case "gap":
		if v := parseDimension(arb.Value); v != nil {
			cfg.GapPx = *v
		}
	case "fade":
		if v := parseDimension(arb.Value); v != nil {
			cfg.FadeEdges = true
			cfg.FadeWidthPx = *v
		}
	}
}

// extractArbitraryValue parses arbitrary value syntax
// "gap-[20px]" -> arbitraryValue{Property: "gap", Value: "20px"}
func extractArbitraryValue(class string) *arbitraryValue {
	bracketIdx := strings.Index(class, "[")
	if bracketIdx == -1 {
		return nil
	}

	return &arbitraryValue{
		Property: strings.TrimSuffix(class[:bracketIdx], "-"),
		Value:    strings.TrimSuffix(class[bracketIdx+1:], "]"),
	}
}

// parseScale parses a step on the spacing scale ("8" -> 32, "px" -> 1).
func parseScale(value string) *float64 {
	if value == "px" {
		v := 1.0
		return &v
	}
	n := parseFloat(value)
	if n == nil || *n < 0 {
		return nil
	}
	v := *n * spacingUnit
	return &v
}

// parseDimension parses a pixel length: "20px", "20" or "1.5rem" (16px rem).
func parseDimension(value string) *float64 {
	value = strings.TrimSpace(value)
	switch {
	case strings.HasSuffix(value, "px"):
		return parseFloat(strings.TrimSuffix(value, "px"))
	case strings.HasSuffix(value, "rem"):
		v := parseFloat(strings.TrimSuffix(value, "rem"))
		if v == nil {
			return nil
		}
		px := *v * 16
		return &px
	default:
		return parseFloat(value)
	}
}

func parseFloat(value string) *float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &v
}
