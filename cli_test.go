package main

import (
	"context"
	"testing"
)

// stubApp records which application method the CLI dispatched to.
type stubApp struct {
	called  string
	cfgPath string
	path    string
}

func (s *stubApp) Serve(_ context.Context, cfgPath string) error {
	s.called, s.cfgPath = "serve", cfgPath
	return nil
}

func (s *stubApp) InitDB(_ context.Context, cfgPath string) error {
	s.called, s.cfgPath = "initdb", cfgPath
	return nil
}

func (s *stubApp) ImportCatalog(_ context.Context, cfgPath, path string) error {
	s.called, s.cfgPath, s.path = "import-catalog", cfgPath, path
	return nil
}

func (s *stubApp) SampleCatalog(_ context.Context, path string) error {
	s.called, s.path = "sample-catalog", path
	return nil
}

func (s *stubApp) ExportCatalog(_ context.Context, cfgPath, path string) error {
	s.called, s.cfgPath, s.path = "export-catalog", cfgPath, path
	return nil
}

func TestBuildCLI(t *testing.T) {

	tests := []struct {
		name    string
		args    []string
		called  string
		cfgPath string
		path    string
	}{
		{
			name:    "serve with default config",
			args:    []string{"cotizador", "serve"},
			called:  "serve",
			cfgPath: "config.yaml",
		},
		{
			name:    "initdb with explicit config",
			args:    []string{"cotizador", "initdb", "-c", "custom.yaml"},
			called:  "initdb",
			cfgPath: "custom.yaml",
		},
		{
			name:    "import with file",
			args:    []string{"cotizador", "import-catalog", "-f", "products.xlsx"},
			called:  "import-catalog",
			cfgPath: "config.yaml",
			path:    "products.xlsx",
		},
		{
			name:   "sample catalog default path",
			args:   []string{"cotizador", "sample-catalog"},
			called: "sample-catalog",
			path:   "products.csv",
		},
		{
			name:    "export with file",
			args:    []string{"cotizador", "export", "-f", "out.csv"},
			called:  "export-catalog",
			cfgPath: "config.yaml",
			path:    "out.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &stubApp{}
			cmd := BuildCLI(app)
			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatal(err)
			}
			if got, want := app.called, tt.called; got != want {
				t.Errorf("got command %q, want %q", got, want)
			}
			if got, want := app.cfgPath, tt.cfgPath; got != want {
				t.Errorf("got config path %q, want %q", got, want)
			}
			if got, want := app.path, tt.path; got != want {
				t.Errorf("got file path %q, want %q", got, want)
			}
		})
	}

	t.Run("export requires file", func(t *testing.T) {
		app := &stubApp{}
		cmd := BuildCLI(app)
		if err := cmd.Run(context.Background(), []string{"cotizador", "export"}); err == nil {
			t.Error("expected error for missing required file flag")
		}
	})
}
