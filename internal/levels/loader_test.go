package levels_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/beamforge/internal/levels"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func levelDoc(id string, parents ...string) string {
	var sb strings.Builder
	sb.WriteString("id: " + id + "\n")
	if len(parents) > 0 {
		sb.WriteString("parents: [" + strings.Join(parents, ", ") + "]\n")
	}
	sb.WriteString("size: {w: 3, h: 1}\n")
	sb.WriteString("dynamic:\n  - {kind: laser, x: 0, y: 0, dir: right}\n  - {kind: detector, x: 2, y: 0}\n")
	sb.WriteString("cases: [\"11\"]\n")
	return sb.String()
}

func TestLoaderLoadAll(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml":         {Data: []byte(levelDoc("beta", "alpha"))},
		"a.yml":          {Data: []byte(levelDoc("alpha"))},
		"nested/c.yaml":  {Data: []byte(levelDoc("gamma", "beta"))},
		"README.md":      {Data: []byte("# not a level")},
		"broken.yaml":    {Data: []byte("id: [oops")},
		"invalid.yaml":   {Data: []byte("id: bad\nsize: {w: 2, h: 1}\ncases: [\"1\"]\n")},
		"zz-dup.yaml":    {Data: []byte(levelDoc("alpha"))},
		"nested/d.yaml":  {Data: []byte(levelDoc("delta"))},
		"nested/e.txt":   {Data: []byte(levelDoc("epsilon"))},
		"nested/f.YAML":  {Data: []byte(levelDoc("phi"))},
		"nested/g/h.yml": {Data: []byte(levelDoc("eta", "delta"))},
	}

	var logs bytes.Buffer
	loader := levels.NewLoader(fsys, log.New(&logs))

	defs, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	var ids []string
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	want := []string{"alpha", "beta", "delta", "eta", "gamma", "phi"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("ids = %v, want %v", ids, want)
	}

	for _, d := range defs {
		if d.ID == "alpha" && d.FilePath != "a.yml" {
			t.Errorf("first alpha should win, got %s", d.FilePath)
		}
	}

	out := logs.String()
	for _, msg := range []string{"skipping level asset", "broken.yaml", "invalid.yaml", "duplicate level id"} {
		if !strings.Contains(out, msg) {
			t.Errorf("expected %q in log output:\n%s", msg, out)
		}
	}
}

func TestLoaderLoadFile(t *testing.T) {
	fsys := fstest.MapFS{
		"one.yaml": {Data: []byte(levelDoc("one"))},
	}
	loader := levels.NewLoader(fsys, quietLogger())

	def, err := loader.LoadFile("one.yaml")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if def.ID != "one" || def.FilePath != "one.yaml" {
		t.Errorf("unexpected definition %s from %s", def.ID, def.FilePath)
	}

	if _, err := loader.LoadFile("missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoaderEmpty(t *testing.T) {
	cat, err := levels.NewLoader(fstest.MapFS{}, quietLogger()).LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if cat.Len() != 0 {
		t.Errorf("expected empty catalog, got %d levels", cat.Len())
	}
}

func TestBundled(t *testing.T) {
	cat, err := levels.Bundled(quietLogger())
	if err != nil {
		t.Fatalf("Bundled failed: %v", err)
	}
	if cat.Len() < 5 {
		t.Fatalf("expected at least 5 bundled levels, got %d", cat.Len())
	}

	tree := levels.NewTree(cat)
	if roots := tree.Roots(); len(roots) != 1 || roots[0] != "first-light" {
		t.Errorf("roots = %v, want [first-light]", roots)
	}
	if missing := tree.MissingParents(); len(missing) != 0 {
		t.Errorf("bundled campaign has missing parents: %v", missing)
	}
	if walked := tree.Walk(); len(walked) != cat.Len() {
		t.Errorf("every bundled level should be reachable, walked %v", walked)
	}
}
