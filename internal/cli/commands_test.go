package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv points every XDG directory and the working directory at a fresh
// temp dir so commands use an isolated file store and cache.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Chdir(dir)
	return dir
}

// run executes one orgmorph command line and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	defer func() { stdout = prev }()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("orgmorph %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestDataLifecycle(t *testing.T) {
	testEnv(t)

	assertContains(t, mustRun(t, "data", "info"), "No organisation stored")
	assertContains(t, mustRun(t, "data", "init"), "Generated sample organisation")
	assertContains(t, mustRun(t, "data", "init"), "already stored")
	assertContains(t, mustRun(t, "data", "info"), "Managers", "Developers", "Squads")
	assertContains(t, mustRun(t, "data", "show"), `"developers"`, `"director"`)

	assertContains(t, mustRun(t, "data", "backup"), "Backup created")
	if _, err := run(t, "data", "reset"); err == nil {
		t.Error("reset without --yes should fail")
	}
	assertContains(t, mustRun(t, "data", "reset", "--yes"), "reset to sample data")
	assertContains(t, mustRun(t, "data", "restore"), "Backup restored")

	if _, err := run(t, "data", "clear"); err == nil {
		t.Error("clear without --yes should fail")
	}
	mustRun(t, "data", "clear", "--yes")
	assertContains(t, mustRun(t, "data", "info"), "No organisation stored")
	if _, err := run(t, "data", "show"); err == nil {
		t.Error("show on an empty store should fail")
	}
}

func TestPeopleCommands(t *testing.T) {
	testEnv(t)
	mustRun(t, "data", "init")

	assertContains(t, mustRun(t, "people", "add",
		"--first", "Nina", "--last", "Leroy", "--craft", "Infra", "--seniority", "4",
		"--is-manager", "--manager-time", "50"), "Added Nina Leroy")
	assertContains(t, mustRun(t, "people", "add",
		"--first", "Léa", "--last", "Roux", "--craft", "cloud", "--seniority", "2",
		"--manager", "Nina Leroy", "--tech-lead"), "Added Léa Roux")

	assertContains(t, mustRun(t, "people", "show", "Léa Roux"), "Nina Leroy", "Cloud", "T")
	assertContains(t, mustRun(t, "people", "list", "--manager", "leroy nina"), "Roux", "1 of")

	mustRun(t, "people", "update", "Roux Léa", "--seniority", "3", "--tech-lead=false")
	out := mustRun(t, "people", "show", "Léa Roux")
	assertContains(t, out, "3")

	if _, err := run(t, "people", "add", "--first", "Sans", "--last", "Manager", "--craft", "Cloud"); err == nil {
		t.Error("developer without manager should be rejected")
	}
	if _, err := run(t, "people", "add", "--first", "X", "--last", "Y", "--craft", "Cobol", "--manager", "Nina Leroy"); err == nil {
		t.Error("unknown craft should be rejected")
	}
	if _, err := run(t, "people", "update", "Léa Roux"); err != nil {
		t.Errorf("empty update: %v", err)
	}

	assertContains(t, mustRun(t, "people", "delete", "Léa Roux"), "Removed Léa Roux")
	if _, err := run(t, "people", "show", "Léa Roux"); err == nil {
		t.Error("deleted person still found")
	}
}

func TestSquadCommands(t *testing.T) {
	testEnv(t)

	assertContains(t, mustRun(t, "squad", "add", "Squad Omega"), "Created squad Squad Omega")
	if _, err := run(t, "squad", "add", "squad omega"); err == nil {
		t.Error("duplicate squad name should be rejected")
	}
	assertContains(t, mustRun(t, "squad", "list"), "Squad Omega")
	if _, err := run(t, "squad", "update", "Squad Omega"); err == nil {
		t.Error("update without --name should fail")
	}
	assertContains(t, mustRun(t, "squad", "update", "Squad Omega", "--name", "Squad Zeta"), "Squad Zeta")
	assertContains(t, mustRun(t, "squad", "show", "Squad Zeta"), "no members")
	assertContains(t, mustRun(t, "squad", "delete", "Squad Zeta"), "Removed squad Squad Zeta")
	if _, err := run(t, "squad", "show", "Squad Zeta"); err == nil {
		t.Error("deleted squad still found")
	}
}

func TestDirectorAndRTE(t *testing.T) {
	testEnv(t)

	assertContains(t, mustRun(t, "director", "set", "--title", "VP Engineering"), "VP Engineering")
	assertContains(t, mustRun(t, "director"), "VP Engineering", "Managers")
	if _, err := run(t, "director", "set"); err == nil {
		t.Error("director set without flags should fail")
	}

	assertContains(t, mustRun(t, "rte", "set", "--first", "Jeanne", "--last", "Moreau"), "Jeanne Moreau")
	assertContains(t, mustRun(t, "rte"), "Jeanne Moreau", "Train")
}

func TestPrefsAndZoom(t *testing.T) {
	testEnv(t)

	assertContains(t, mustRun(t, "prefs", "show"), "hierarchical", "100%")
	if _, err := run(t, "prefs", "set"); err == nil {
		t.Error("prefs set without flags should fail")
	}
	if _, err := run(t, "prefs", "set", "--view", "matrix"); err == nil {
		t.Error("unknown view should fail")
	}

	assertContains(t, mustRun(t, "prefs", "set", "--view", "functional", "--zoom", "0.8"), "functional", "80%")
	assertContains(t, mustRun(t, "zoom", "in"), "90%")
	assertContains(t, mustRun(t, "zoom", "out"), "80%")
	assertContains(t, mustRun(t, "prefs", "set", "--zoom", "9"), "150%")
	assertContains(t, mustRun(t, "zoom", "in"), "150%")
	assertContains(t, mustRun(t, "zoom", "reset"), "100%")

	mustRun(t, "prefs", "reset")
	assertContains(t, mustRun(t, "prefs", "show"), "hierarchical", "false", "100%")
}

func TestLayoutAndRender(t *testing.T) {
	dir := testEnv(t)

	out := mustRun(t, "layout", "--view", "functional", "-o", "chart.json")
	assertContains(t, out, "Layout complete", "chart.json", "Auto-fit zoom")
	if _, err := os.Stat(filepath.Join(dir, "chart.json")); err != nil {
		t.Fatalf("layout output: %v", err)
	}

	out = mustRun(t, "render", "-f", "svg,json", "-o", "out/org")
	assertContains(t, out, "Render complete", "out/org.svg", "out/org.json")
	svg, err := os.ReadFile(filepath.Join(dir, "out", "org.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg output is not an SVG document")
	}

	// Second run is served from the cache.
	assertContains(t, mustRun(t, "render", "-f", "svg,json", "-o", "out/org"), "cached")

	out = mustRun(t, "render", "--diagram", "tree", "-f", "dot", "--no-cache")
	assertContains(t, out, "orgchart_tree.dot")
	dot, err := os.ReadFile(filepath.Join(dir, "orgchart_tree.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(dot, []byte("digraph")) {
		t.Errorf("dot output starts with %q", dot[:min(len(dot), 20)])
	}

	if _, err := run(t, "render", "-f", "gif"); err == nil {
		t.Error("unknown format should fail")
	}
	if _, err := run(t, "render", "--diagram", "tree", "-f", "json"); err == nil {
		t.Error("tree diagram cannot be rendered as json")
	}

	assertContains(t, mustRun(t, "cache", "path"), filepath.Join(dir, "cache", appName))
	assertContains(t, mustRun(t, "cache", "clear"), "Cleared")
}

func TestRenderFromInput(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, "data", "init")
	mustRun(t, "export", "-f", "json", "-o", "snap.json")
	mustRun(t, "data", "clear", "--yes")

	out := mustRun(t, "render", "--input", "snap.json", "-f", "json", "-o", "from-input.json")
	assertContains(t, out, "from-input.json")
	if _, err := os.Stat(filepath.Join(dir, "from-input.json")); err != nil {
		t.Fatal(err)
	}
	// --input never writes to the store.
	assertContains(t, mustRun(t, "data", "info"), "No organisation stored")
}

func TestTransferCommands(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, "data", "init")

	assertContains(t, mustRun(t, "template", "-f", "csv", "-o", "t.csv"), "Template written")
	assertContains(t, mustRun(t, "template", "-f", "xlsx"), "org_template.xlsx")
	if _, err := run(t, "template", "-f", "ods"); err == nil {
		t.Error("unknown template format should fail")
	}

	assertContains(t, mustRun(t, "import", "t.csv"), "Import complete", "Added")

	assertContains(t, mustRun(t, "export", "-f", "full-csv", "-o", "full.csv"), "Exported")
	assertContains(t, mustRun(t, "export", "-f", "xlsx", "-o", "org.xlsx"), "Exported")
	assertContains(t, mustRun(t, "export", "-f", "json", "-o", "org.json"), "Exported")
	for _, f := range []string{"full.csv", "org.xlsx", "org.json"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("export %s: %v", f, err)
		}
	}

	// Re-importing the full export only modifies existing people.
	out := mustRun(t, "import", "full.csv")
	assertContains(t, out, "Import complete")
	assertContains(t, mustRun(t, "import", "org.xlsx"), "Import complete")
	assertContains(t, mustRun(t, "import", "org.json"), "Organisation replaced")

	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("Nom,Prénom,Métier,Séniorité\n,,Cloud,2\nDoe,Jane,Cobol,9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "import", "bad.csv")
	if err == nil || !strings.Contains(err.Error(), "import rejected") {
		t.Fatalf("bad import error = %v", err)
	}
	assertContains(t, out, "Ligne 2", "Ligne 3")

	if _, err := run(t, "import", "org.txt"); err == nil {
		t.Error("unsupported extension should fail")
	}
	if _, err := run(t, "export", "-f", "ods"); err == nil {
		t.Error("unknown export format should fail")
	}
}
