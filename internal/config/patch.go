package config

// Patches carry only the fields a caller wants to change. A nil pointer
// leaves the stored value alone, and so does a pointer to an empty string:
// an upsert can turn an account off without wiping its credentials.

// ProviderPatch updates a Provider located by Name.
type ProviderPatch struct {
	Name string
	API  *string
	Key  *string
	On   *bool
}

// TranslationPatch updates a Translation located by Name.
type TranslationPatch struct {
	Name   string
	API    *string
	Key    *string
	Secret *string
	Limit  *int
	On     *bool
}

// AIProfilePatch updates an AIProfile located by Name.
type AIProfilePatch struct {
	Name        string
	Provider    *string
	Model       *string
	Prompt      *string
	WebPrompt   *string
	WebMode     *string
	WebSelector *string
	On          *bool
}

// AppSettingsPatch updates the app section.
type AppSettingsPatch struct {
	Locale   *string
	ShowTray *bool
}

// TranslationConfigPatch updates the hotkey section. HotKey is the one
// string field where an empty value is applied: it unregisters the hotkey.
type TranslationConfigPatch struct {
	HotKey *string
	Locale *string
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

func mergeString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}

func mergeBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func mergeInt(dst *int, src *int) {
	if src != nil && *src >= 0 {
		*dst = *src
	}
}

func (p ProviderPatch) apply(dst *Provider) {
	mergeString(&dst.API, p.API)
	mergeString(&dst.Key, p.Key)
	mergeBool(&dst.On, p.On)
}

func (p TranslationPatch) apply(dst *Translation) {
	mergeString(&dst.API, p.API)
	mergeString(&dst.Key, p.Key)
	mergeString(&dst.Secret, p.Secret)
	mergeInt(&dst.Limit, p.Limit)
	mergeBool(&dst.On, p.On)
}

func (p AIProfilePatch) apply(dst *AIProfile) {
	mergeString(&dst.Provider, p.Provider)
	mergeString(&dst.Model, p.Model)
	mergeString(&dst.Prompt, p.Prompt)
	mergeString(&dst.WebPrompt, p.WebPrompt)
	mergeString(&dst.WebMode, p.WebMode)
	mergeString(&dst.WebSelector, p.WebSelector)
	mergeBool(&dst.On, p.On)
}

func (p AppSettingsPatch) apply(dst *AppSettings) {
	mergeString(&dst.Locale, p.Locale)
	mergeBool(&dst.ShowTray, p.ShowTray)
}

func (p TranslationConfigPatch) apply(dst *TranslationConfig) {
	if p.HotKey != nil {
		dst.HotKey = *p.HotKey
	}
	mergeString(&dst.Locale, p.Locale)
}
