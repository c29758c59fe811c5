package syncids

// historicalRootNames maps the short root names used by older record
// producers to their extended canonical GUID.
var historicalRootNames = map[string]GUID{
	"places":   RootGUID,
	"root":     RootGUID,
	"mobile":   MobileGUID,
	"menu":     MenuGUID,
	"toolbar":  ToolbarGUID,
	"unfiled":  UnfiledGUID,
}

// NormalizeRootGUID rewrites a historical short root name to its extended
// form. Any other GUID, including one that is already extended, passes
// through unchanged. Applied to every incoming guid and parentID at
// ingress, per the record model's root-GUID normalisation rule.
func NormalizeRootGUID(g GUID) GUID {
	if extended, ok := historicalRootNames[string(g)]; ok {
		return extended
	}
	return g
}

// NormalizeRootGUIDPtr normalises an optional GUID (e.g. a record's
// parentID), leaving nil untouched.
func NormalizeRootGUIDPtr(g *GUID) *GUID {
	if g == nil {
		return nil
	}
	normalized := NormalizeRootGUID(*g)
	return &normalized
}
