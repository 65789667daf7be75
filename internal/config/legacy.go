package config

import (
	"strings"

	"github.com/spf13/cast"
)

// Legacy envelope documents carried suffixed flat keys, optionally nested
// under Chinese tray-type headings. These tables map them onto the current
// records.
var (
	legacyValveEnvelopeKeys = map[string]string{
		"mist_carry_FL_A": "mist_slope",
		"mist_carry_FL_B": "mist_intercept",
		"Vs_min_FL":       "weep_vs",
		"flood_C1_FL":     "flood_c1",
		"flood_C2_FL":     "flood_c2",
		"flood_C3_FL":     "flood_c3",
		"Ls_max_FL":       "ls_max",
		"Ls_min_FL":       "ls_min",
		"op_Vs_FL":        "op_vs",
		"op_Ls_FL":        "op_ls",
	}
	legacySieveEnvelopeKeys = map[string]string{
		"mist_carry_SL_C": "mist_coeff",
		"mist_carry_SL_D": "mist_offset",
		"weeping_C1_SL":   "weep_c1",
		"weeping_C2_SL":   "weep_c2",
		"weeping_C3_SL":   "weep_c3",
		"flood_C1_SL":     "flood_c1",
		"flood_C2_SL":     "flood_c2",
		"flood_C3_SL":     "flood_c3",
		"Ls_max_SL":       "ls_max",
		"Ls_min_SL":       "ls_min",
		"op_Vs_SL":        "op_vs",
		"op_Ls_SL":        "op_ls",
	}
	legacyTrayTypeNames = map[string]TrayKind{
		"浮阀塔":   TrayValve,
		"筛板塔":   TraySieve,
		"valve": TrayValve,
		"sieve": TraySieve,
	}
)

// isLegacyEnvelope reports whether a raw envelope document predates the
// current layout.
func isLegacyEnvelope(raw map[string]any) bool {
	if _, ok := raw["plate_type"]; ok {
		return true
	}
	for key := range raw {
		if _, ok := legacyTrayTypeNames[key]; ok {
			return true
		}
		if strings.HasSuffix(key, "_FL") || strings.HasSuffix(key, "_SL") {
			return true
		}
	}
	return false
}

// migrateEnvelope folds a legacy document onto cfg. Suffixed keys may sit
// at the top level or inside the per-tray sections; all values may be
// strings.
func migrateEnvelope(raw map[string]any, cfg *EnvelopeConfig) {
	if name, ok := raw["plate_type"]; ok {
		if kind, ok := legacyTrayTypeNames[cast.ToString(name)]; ok {
			cfg.TrayType = kind
		}
	}

	apply := func(section map[string]any) {
		for key, target := range legacyValveEnvelopeKeys {
			if v, ok := section[key]; ok {
				setValveField(&cfg.Valve, target, cast.ToFloat64(v))
			}
		}
		for key, target := range legacySieveEnvelopeKeys {
			if v, ok := section[key]; ok {
				setSieveField(&cfg.Sieve, target, cast.ToFloat64(v))
			}
		}
	}

	apply(raw)
	for key := range legacyTrayTypeNames {
		if nested, ok := raw[key].(map[string]any); ok {
			apply(nested)
		}
	}
}

func setValveField(v *ValveEnvelope, field string, value float64) {
	switch field {
	case "mist_slope":
		v.MistSlope = value
	case "mist_intercept":
		v.MistIntercept = value
	case "weep_vs":
		v.WeepVs = value
	case "flood_c1":
		v.FloodC1 = value
	case "flood_c2":
		v.FloodC2 = value
	case "flood_c3":
		v.FloodC3 = value
	case "ls_max":
		v.LsMax = value
	case "ls_min":
		v.LsMin = value
	case "op_vs":
		v.OpVs = value
	case "op_ls":
		v.OpLs = value
	}
}

func setSieveField(s *SieveEnvelope, field string, value float64) {
	switch field {
	case "mist_coeff":
		s.MistCoeff = value
	case "mist_offset":
		s.MistOffset = value
	case "weep_c1":
		s.WeepC1 = value
	case "weep_c2":
		s.WeepC2 = value
	case "weep_c3":
		s.WeepC3 = value
	case "flood_c1":
		s.FloodC1 = value
	case "flood_c2":
		s.FloodC2 = value
	case "flood_c3":
		s.FloodC3 = value
	case "ls_max":
		s.LsMax = value
	case "ls_min":
		s.LsMin = value
	case "op_vs":
		s.OpVs = value
	case "op_ls":
		s.OpLs = value
	}
}

// isLegacyHoles reports whether a raw holes document is the old single
// record layout without per-tray sections.
func isLegacyHoles(raw map[string]any) bool {
	_, hasValve := raw["valve"]
	_, hasSieve := raw["sieve"]
	return !hasValve && !hasSieve
}
