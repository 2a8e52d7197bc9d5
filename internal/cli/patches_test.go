package cli

import "testing"

func TestPatchesOnlyCarryChangedFlags(t *testing.T) {
	resetViper(t)
	root := CreateRootCommand(NewFlags(), Handlers{})

	cmd := find(t, root, "config", "translation")
	if err := cmd.Flags().Parse([]string{"--secret", "s3cret", "--limit", "2000000", "--on=false"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	p := TranslationPatch(cmd, "aliyun")
	if p.Name != "aliyun" {
		t.Errorf("Expected name aliyun, got %s", p.Name)
	}
	if p.API != nil || p.Key != nil {
		t.Error("Unset flags must stay nil")
	}
	if p.Secret == nil || *p.Secret != "s3cret" {
		t.Errorf("Unexpected secret %v", p.Secret)
	}
	if p.Limit == nil || *p.Limit != 2000000 {
		t.Errorf("Unexpected limit %v", p.Limit)
	}
	if p.On == nil || *p.On {
		t.Errorf("Expected explicit false, got %v", p.On)
	}
}

func TestAIProfilePatch(t *testing.T) {
	resetViper(t)
	root := CreateRootCommand(NewFlags(), Handlers{})

	cmd := find(t, root, "config", "profile")
	if err := cmd.Flags().Parse([]string{"--model", "gpt-4o", "--web-mode", "markdown"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	p := AIProfilePatch(cmd, "translation")
	if p.Model == nil || *p.Model != "gpt-4o" || p.WebMode == nil || *p.WebMode != "markdown" {
		t.Errorf("Unexpected patch %+v", p)
	}
	if p.Provider != nil || p.Prompt != nil || p.On != nil {
		t.Errorf("Unset flags must stay nil: %+v", p)
	}
}

func TestTranslationConfigPatch(t *testing.T) {
	resetViper(t)
	root := CreateRootCommand(NewFlags(), Handlers{})
	cmd := find(t, root, "config", "hotkey")

	p := TranslationConfigPatch(cmd, []string{""})
	if p.HotKey == nil || *p.HotKey != "" {
		t.Errorf("Expected explicit empty hotkey, got %v", p.HotKey)
	}
	if p.Locale != nil {
		t.Error("Locale must stay nil")
	}

	p = TranslationConfigPatch(cmd, nil)
	if p.HotKey != nil {
		t.Error("Missing accelerator must leave the hotkey alone")
	}
}
