package policy

// fileSchema is the on-disk shape of policy.yaml.
type fileSchema struct {
	// RestrictedPrefixes are appended to the built-in restricted URL
	// prefixes (chrome://, chrome-extension://, about:).
	RestrictedPrefixes []string `yaml:"restricted_prefixes,omitempty"`

	// SkipURLContains lists substrings; a tab whose URL contains one is
	// never archived.
	SkipURLContains []string `yaml:"skip_url_contains,omitempty"`
}
