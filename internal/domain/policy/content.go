package policy

// IsRestricted reports whether content is age restricted: flagged harmful or
// tagged with at least one harmful tool or material category.
func IsRestricted(harmful bool, toolTags, materialTags []string) bool {
	return harmful || len(toolTags) > 0 || len(materialTags) > 0
}
