package config

// Default values for a freshly created document.
const (
	DefaultLocale = "zh"
	DefaultTarget = "zh"
)

// Web modes for AI profiles.
const (
	WebModeText     = "text"
	WebModeMarkdown = "markdown"
)

// AppSettings holds process-wide UI preferences.
type AppSettings struct {
	Locale   string `json:"locale"`
	ShowTray bool   `json:"showTray"`
}

// Provider is an OpenAI-compatible AI endpoint account.
type Provider struct {
	Name string `json:"name"`
	API  string `json:"api"`
	Key  string `json:"key"`
	On   bool   `json:"on"`
}

// Translation is a machine translation account with its usage counter.
// For aliyun Key is the access key id and Secret the signing secret; for
// baidu Key is the app id and Secret the signing key.
type Translation struct {
	Name           string `json:"name"`
	API            string `json:"api"`
	Key            string `json:"key"`
	Secret         string `json:"secret"`
	Limit          int    `json:"limit"`
	Used           int    `json:"used"`
	LastResetMonth string `json:"last_reset_month"`
	On             bool   `json:"on"`
}

// Remaining returns how many characters are left this month. The second
// return value is false when the account has no limit.
func (t Translation) Remaining() (int, bool) {
	if t.Limit <= 0 {
		return 0, false
	}
	if t.Used >= t.Limit {
		return 0, true
	}
	return t.Limit - t.Used, true
}

// Exhausted reports whether a limited account used up its monthly quota.
func (t Translation) Exhausted() bool {
	left, limited := t.Remaining()
	return limited && left == 0
}

// TranslationConfig configures the clipboard hotkey flow.
type TranslationConfig struct {
	HotKey string `json:"hotKey"`
	Locale string `json:"locale"`
}

// AIProfile binds a purpose (for example "translation") to a provider,
// model and prompts.
type AIProfile struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	WebPrompt   string `json:"web_prompt"`
	WebMode     string `json:"web_mode"`
	WebSelector string `json:"web_selector"`
	On          bool   `json:"on"`
}

// Document is the persisted aggregate.
type Document struct {
	App               AppSettings       `json:"app"`
	Providers         []Provider        `json:"providers"`
	Translations      []Translation     `json:"translations"`
	TranslationConfig TranslationConfig `json:"translationConfig"`
	AI                []AIProfile       `json:"ai"`
}

// DefaultDocument returns the document used when nothing is stored yet.
func DefaultDocument() *Document {
	return &Document{
		App:               AppSettings{Locale: DefaultLocale, ShowTray: true},
		Providers:         []Provider{},
		Translations:      []Translation{},
		TranslationConfig: TranslationConfig{Locale: DefaultTarget},
		AI:                []AIProfile{},
	}
}

// normalize replaces nil collections so the JSON always carries arrays.
func (d *Document) normalize() {
	if d.Providers == nil {
		d.Providers = []Provider{}
	}
	if d.Translations == nil {
		d.Translations = []Translation{}
	}
	if d.AI == nil {
		d.AI = []AIProfile{}
	}
}

func (d *Document) findProvider(name string) int {
	for i := range d.Providers {
		if d.Providers[i].Name == name {
			return i
		}
	}
	return -1
}

func (d *Document) findTranslation(name string) int {
	for i := range d.Translations {
		if d.Translations[i].Name == name {
			return i
		}
	}
	return -1
}

func (d *Document) findAIProfile(name string) int {
	for i := range d.AI {
		if d.AI[i].Name == name {
			return i
		}
	}
	return -1
}
