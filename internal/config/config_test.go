package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 20471 {
		t.Fatalf("port: got %d", cfg.Server.Port)
	}
	if cfg.Advisor.Enabled {
		t.Fatal("Vorschlagsdienst muss standardmäßig aus sein")
	}
	if cfg.Advisor.TimeoutSeconds != 15 {
		t.Fatalf("timeout: got %d", cfg.Advisor.TimeoutSeconds)
	}
	if !cfg.Data.AutoCreateCustomer {
		t.Fatal("autoCreateCustomer muss standardmäßig an sein")
	}
}

func TestIsPortSpecifiedInToml(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want bool
	}{
		{"mit Port", "[server]\nport = 8080\n", true},
		{"ohne Port", "[server]\ndev_mode = true\n", false},
		{"ohne Server-Block", "[data]\ndata_dir = \"data\"\n", false},
		{"kaputtes TOML", "[[[", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPortSpecifiedInToml([]byte(tt.toml)); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("EKSFILLER_ADVISOR_API_KEY", "sk-test")
	t.Setenv("EKSFILLER_TEMPLATE_PATH", "/pfad/eks.xlsx")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Advisor.APIKey != "sk-test" {
		t.Fatalf("api key: got %q", cfg.Advisor.APIKey)
	}
	if cfg.Excel.TemplatePath != "/pfad/eks.xlsx" {
		t.Fatalf("template: got %q", cfg.Excel.TemplatePath)
	}
}
