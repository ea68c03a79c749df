package agent

import "testing"

func TestProviderNames(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gemini"})
	names := m.ProviderNames()
	want := []string{"deepseek", "gemini", "gemini-legacy"}
	if len(names) != len(want) {
		t.Fatalf("ProviderNames = %v, want %v", names, want)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("ProviderNames[%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestGetProviderRouting(t *testing.T) {
	m := NewManager(Config{
		ActiveProvider: "deepseek",
		Agents: map[string]AgentConfig{
			"technical": {Provider: "gemini-legacy"},
		},
	})

	if p := m.GetProvider("technical"); p != m.providers["gemini-legacy"] {
		t.Error("agent override should win over the active provider")
	}
	if p := m.GetProvider("fundamental"); p != m.providers["deepseek"] {
		t.Error("agents without an override use the active provider")
	}

	// Unknown active provider falls back to the default backend.
	m = NewManager(Config{ActiveProvider: "nope"})
	if p := m.GetProvider("fundamental"); p != m.providers["gemini"] {
		t.Error("unknown active provider should fall back to gemini")
	}
}

func TestSetGlobalProvider(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gemini"})
	if err := m.SetGlobalProvider("deepseek"); err != nil {
		t.Fatalf("SetGlobalProvider: %v", err)
	}
	if m.GetActiveProvider() != "deepseek" {
		t.Errorf("active provider = %q", m.GetActiveProvider())
	}
	if err := m.SetGlobalProvider("unknown"); err == nil {
		t.Error("unknown provider must be rejected")
	}
}
