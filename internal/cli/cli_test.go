package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/matfile"
)

const testNetwork = `<?xml version="1.0" encoding="UTF-8"?>
<network xmlns="http://gaslib.zib.de/Gas" xmlns:framework="http://gaslib.zib.de/Framework">
  <framework:nodes>
    <source id="entry01"><height value="1"/><gasTemperature value="15"/></source>
    <sink id="exit01"><height value="2"/></sink>
    <innode id="node_1"/>
  </framework:nodes>
  <framework:connections>
    <pipe id="pipe_1" from="entry01" to="node_1"><length value="3"/></pipe>
    <valve id="valve_1" from="node_1" to="exit01"/>
  </framework:connections>
</network>
`

// runCLI executes the root command with args and returns stdout and the
// logger output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), logs.String(), err
}

func writeNetwork(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.net")
	if err := os.WriteFile(path, []byte(testNetwork), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootNoArguments(t *testing.T) {
	_, _, err := runCLI(t)
	if err == nil {
		t.Fatal("expected error without arguments")
	}
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
	}
	if !strings.Contains(err.Error(), "net2mat /path/to/load/network_name.net") {
		t.Errorf("error should include usage, got %q", err.Error())
	}
}

func TestRootTooManyArguments(t *testing.T) {
	_, _, err := runCLI(t, "a.net", "b.mat", "c")
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
	}
}

func TestRootShorthandConverts(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)

	out, logs, err := runCLI(t, input)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}

	output := filepath.Join(dir, "test.mat")
	f, err := matfile.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(f.Variables) != 10 {
		t.Errorf("got %d variables, want 10", len(f.Variables))
	}

	for _, want := range []string{"Converted", output, "3 nodes", "2 connections", "1 sources", "sha256"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got:\n%s", want, out)
		}
	}
	if !strings.Contains(logs, "Conversion complete") {
		t.Errorf("logs should report completion, got:\n%s", logs)
	}
}

func TestConvertIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)
	outDir := filepath.Join(dir, "results")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "convert", input, outDir); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "test.mat")); err != nil {
		t.Errorf("expected output in directory: %v", err)
	}
}

func TestConvertBadOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)

	_, _, err := runCLI(t, "convert", input, filepath.Join(dir, "out.txt"))
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
	}
}

func TestConvertMissingInput(t *testing.T) {
	_, _, err := runCLI(t, "convert", filepath.Join(t.TempDir(), "missing.net"))
	if !errors.Is(err, errors.ErrCodeDocumentParse) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeDocumentParse)
	}
}

func TestConvertFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "src.net")
	doc := `<network><nodes>
  <source id="s2"><gasTemperature value="2"/></source>
  <source id="s1"><gasTemperature value="1"/></source>
</nodes><connections/></network>`
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, []byte("[convert]\ntemperature_order = \"canonical\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	temperature := func(t *testing.T) []float64 {
		t.Helper()
		f, err := matfile.ReadFile(filepath.Join(dir, "src.mat"))
		if err != nil {
			t.Fatal(err)
		}
		v, ok := f.Lookup("temperature")
		if !ok {
			t.Fatal("temperature missing")
		}
		data, err := v.Float64s()
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	if _, _, err := runCLI(t, "--config", cfg, "convert", input); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if got := temperature(t); got[0] != 1 || got[1] != 2 {
		t.Errorf("config canonical order: temperature = %v, want [1 2]", got)
	}

	if _, _, err := runCLI(t, "--config", cfg, "convert", "--temperature-order", "encounter", input); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if got := temperature(t); got[0] != 2 || got[1] != 1 {
		t.Errorf("flag encounter order: temperature = %v, want [2 1]", got)
	}
}

func TestConvertInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, []byte("[convert]\nduplicates = \"maybe\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "--config", cfg, input)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestVerboseLogsDebug(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)

	_, logs, err := runCLI(t, "-v", input)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if !strings.Contains(logs, "read records") {
		t.Errorf("verbose logs should include debug messages, got:\n%s", logs)
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)
	if _, _, err := runCLI(t, input); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	mat := filepath.Join(dir, "test.mat")

	out, _, err := runCLI(t, "inspect", mat)
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"incidence_matrix", "int32", "3 x 2", "nodes_order", "char", "3 x 7", "temperature", "1 x 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestInspectShow(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)
	if _, _, err := runCLI(t, input); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	mat := filepath.Join(dir, "test.mat")

	tests := []struct {
		name string
		want string
	}{
		{"nodes_order", "entry01\nexit01\nnode_1\n"},
		{"connections_order", "pipe_1\nvalve_1\n"},
		{"incidence_matrix", "-1 0\n0 1\n1 -1\n"},
		{"height", "1 2 0\n"},
		{"length", "3 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, "inspect", "--show", tt.name, mat)
			if err != nil {
				t.Fatalf("inspect error: %v", err)
			}
			if out != tt.want {
				t.Errorf("inspect --show %s = %q, want %q", tt.name, out, tt.want)
			}
		})
	}

	_, _, err := runCLI(t, "inspect", "--show", "nope", mat)
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("unknown variable: code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
	}
}

func TestGraphDOT(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)
	output := filepath.Join(dir, "test.dot")

	if _, _, err := runCLI(t, "graph", input, "-o", output); err != nil {
		t.Fatalf("graph error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"entry01" -> "node_1"`) {
		t.Errorf("DOT output missing pipe edge:\n%s", data)
	}
}

func TestGraphBadFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeNetwork(t, dir)

	_, _, err := runCLI(t, "graph", input, "-o", filepath.Join(dir, "test.pdf"))
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidArgument)
	}
}

func TestCompletion(t *testing.T) {
	out, _, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "net2mat") {
		t.Error("bash completion should mention net2mat")
	}
}

func TestCompleteFileArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"convert input", []string{"convert", ""}, []string{"net", "xml", ":8"}},
		{"convert output", []string{"convert", "in.net", ""}, []string{"mat", ":8"}},
		{"convert past output", []string{"convert", "in.net", "out.mat", ""}, []string{":4"}},
		{"inspect", []string{"inspect", ""}, []string{"mat", ":8"}},
		{"graph input", []string{"graph", ""}, []string{"net", "xml", ":8"}},
		{"graph output flag", []string{"graph", "in.net", "-o", ""}, []string{"svg", "png", "dot", ":8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, append([]string{"__complete"}, tt.args...)...)
			if err != nil {
				t.Fatalf("completion error: %v", err)
			}
			lines := strings.Split(out, "\n")
			for _, want := range tt.want {
				found := false
				for _, l := range lines {
					if l == want {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("completions should contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New(errors.ErrCodeInvalidArgument, "output path %q was not understood", "x.txt"))

	out := buf.String()
	if !strings.Contains(out, `output path "x.txt" was not understood`) {
		t.Errorf("PrintError() = %q, should contain message", out)
	}
	if !strings.Contains(out, "INVALID_ARGUMENT") {
		t.Errorf("PrintError() = %q, should contain code", out)
	}
}
