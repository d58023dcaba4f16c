package selection

// Rule holds the compiled extension filter for one run.
type Rule struct {
	whitelistedExtensions map[string]struct{}
	blacklistedExtensions map[string]struct{}
}

// NewRule compiles the configured whitelist and blacklist extension lists
// into set form. Duplicate entries are harmless.
func NewRule(whitelistExtensions []string, blacklistExtensions []string) Rule {
	rule := Rule{
		whitelistedExtensions: make(map[string]struct{}, len(whitelistExtensions)),
		blacklistedExtensions: make(map[string]struct{}, len(blacklistExtensions)),
	}
	for _, extensionValue := range whitelistExtensions {
		rule.whitelistedExtensions[extensionValue] = struct{}{}
	}
	for _, extensionValue := range blacklistExtensions {
		rule.blacklistedExtensions[extensionValue] = struct{}{}
	}
	return rule
}

// Includes reports whether a file named fileName passes the filter. The
// extension must not be blacklisted, and when the whitelist is non-empty it
// must appear there. The blacklist is tested first and wins when both sets
// name the same extension.
func (rule Rule) Includes(fileName string) bool {
	extensionValue := Extension(fileName)
	if _, isBlacklisted := rule.blacklistedExtensions[extensionValue]; isBlacklisted {
		return false
	}
	if len(rule.whitelistedExtensions) == 0 {
		return true
	}
	_, isWhitelisted := rule.whitelistedExtensions[extensionValue]
	return isWhitelisted
}
