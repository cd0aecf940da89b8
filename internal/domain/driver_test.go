package domain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/droidmod/gatepatch/internal/adapter"
	m "github.com/droidmod/gatepatch/internal/model"
)

const gsonFixture = `.class public Lcom/google/gson/VipModel;
.super Ljava/lang/Object;

.field private isVip:Z

.method public isVip()Z
    .locals 1

    iget-boolean v0, p0, Lcom/google/gson/VipModel;->isVip:Z

    return v0
.end method
`

func vipFeature(t *testing.T) m.Feature {
	t.Helper()

	feature, ok := FeatureByName("vip-unlock")
	if !ok {
		t.Fatal("vip-unlock missing from catalog")
	}

	return feature
}

func writeUnit(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	return path
}

func TestDriver_ApplyFeature(t *testing.T) {
	t.Run("patches eligible units and counts them", func(t *testing.T) {
		root := t.TempDir()
		unit := writeUnit(t, root, "com/example/app/model/UserModel.smali", userModelFixture)

		driver := NewDriver(adapter.NewLocalSourceFS(), NewScopeBoundary([]string{"com/example/app"}), ScopeDefault)

		var patched []m.Path
		driver.OnPatch = func(_ string, unit m.Path) {
			patched = append(patched, unit)
		}

		delta := driver.ApplyFeature(vipFeature(t), []m.Path{m.Path(root)})

		if delta.Applied != 1 || delta.Skipped != 0 || delta.Failed != 0 {
			t.Fatalf("unexpected ledger: %+v", delta)
		}
		if len(patched) != 1 || string(patched[0]) != unit {
			t.Errorf("OnPatch not notified for %s: %v", unit, patched)
		}

		got, err := os.ReadFile(unit)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !strings.Contains(string(got), "const/4 v0, 0x1") {
			t.Errorf("unit not rewritten on disk:\n%s", got)
		}
	})

	t.Run("excluded namespaces stay untouched", func(t *testing.T) {
		root := t.TempDir()
		unit := writeUnit(t, root, "com/google/gson/VipModel.smali", gsonFixture)

		driver := NewDriver(adapter.NewLocalSourceFS(), NewScopeBoundary([]string{"com/"}), ScopeDefault)
		delta := driver.ApplyFeature(vipFeature(t), []m.Path{m.Path(root)})

		if delta.Applied != 0 {
			t.Errorf("excluded unit was counted as applied: %+v", delta)
		}

		got, err := os.ReadFile(unit)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != gsonFixture {
			t.Error("excluded unit was modified")
		}
	})

	t.Run("absent pattern records one skip", func(t *testing.T) {
		root := t.TempDir()
		writeUnit(t, root, "com/example/app/util/Strings.smali", ".class public Lcom/example/app/util/Strings;\n")

		driver := NewDriver(adapter.NewLocalSourceFS(), NewScopeBoundary([]string{"com/example/app"}), ScopeDefault)
		delta := driver.ApplyFeature(vipFeature(t), []m.Path{m.Path(root)})

		if delta.Skipped != 1 || delta.Applied != 0 || delta.Failed != 0 {
			t.Errorf("expected one skip, got %+v", delta)
		}
	})

	t.Run("matched field without accessor is a skip", func(t *testing.T) {
		text := `.class public Lcom/example/app/model/UserModel;
.super Ljava/lang/Object;

.field private isVip:Z
`
		root := t.TempDir()
		unit := writeUnit(t, root, "com/example/app/model/UserModel.smali", text)

		driver := NewDriver(adapter.NewLocalSourceFS(), NewScopeBoundary([]string{"com/example/app"}), ScopeDefault)
		delta := driver.ApplyFeature(vipFeature(t), []m.Path{m.Path(root)})

		if delta.Applied != 0 || delta.Skipped != 1 {
			t.Errorf("expected a skip for an accessor-less field, got %+v", delta)
		}

		got, err := os.ReadFile(unit)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != text {
			t.Error("unit changed despite having no accessor to rewrite")
		}
	})

	t.Run("second pass applies nothing", func(t *testing.T) {
		root := t.TempDir()
		unit := writeUnit(t, root, "com/example/app/model/UserModel.smali", userModelFixture)

		driver := NewDriver(adapter.NewLocalSourceFS(), NewScopeBoundary([]string{"com/example/app"}), ScopeDefault)
		roots := []m.Path{m.Path(root)}
		feature := vipFeature(t)

		first := driver.ApplyFeature(feature, roots)
		if first.Applied != 1 {
			t.Fatalf("first pass: %+v", first)
		}

		after, err := os.ReadFile(unit)
		if err != nil {
			t.Fatalf("read: %v", err)
		}

		second := driver.ApplyFeature(feature, roots)
		if second.Applied != 0 || second.Skipped != 1 {
			t.Errorf("second pass should be a skip, got %+v", second)
		}

		final, err := os.ReadFile(unit)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(final) != string(after) {
			t.Error("second pass altered an already-patched unit")
		}
	})

	t.Run("missing root never aborts the pass", func(t *testing.T) {
		root := t.TempDir()
		writeUnit(t, root, "com/example/app/model/UserModel.smali", userModelFixture)

		driver := NewDriver(adapter.NewLocalSourceFS(), NewScopeBoundary([]string{"com/example/app"}), ScopeDefault)

		roots := []m.Path{m.Path(filepath.Join(root, "does-not-exist")), m.Path(root)}

		delta := driver.ApplyFeature(vipFeature(t), roots)
		if delta.Applied != 1 {
			t.Errorf("missing root disturbed the pass: %+v", delta)
		}
	})

	t.Run("behavioral feature flips in place", func(t *testing.T) {
		text := `.class public Lcom/example/app/auth/SessionChecker;

.method public isLogin()Z
    .locals 1

    const/4 v0, 0x0

    return v0
.end method
`
		root := t.TempDir()
		unit := writeUnit(t, root, "com/example/app/auth/SessionChecker.smali", text)

		feature, ok := FeatureByName("login-bypass")
		if !ok {
			t.Fatal("login-bypass missing from catalog")
		}

		driver := NewDriver(adapter.NewLocalSourceFS(), NewScopeBoundary([]string{"com/example/app"}), ScopeDefault)
		delta := driver.ApplyFeature(feature, []m.Path{m.Path(root)})

		if delta.Applied != 1 {
			t.Fatalf("unexpected ledger: %+v", delta)
		}

		got, err := os.ReadFile(unit)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !strings.Contains(string(got), "const/4 v0, 0x1") {
			t.Errorf("login gate not flipped:\n%s", got)
		}

		// The flip must not have replaced the body wholesale.
		if strings.Contains(string(got), "# gatepatch") {
			t.Errorf("behavioral edit left a whole-body replacement:\n%s", got)
		}
	})

	t.Run("non-smali files are ignored", func(t *testing.T) {
		root := t.TempDir()
		unit := writeUnit(t, root, "com/example/app/model/notes.txt", "isVip:Z everywhere")

		driver := NewDriver(adapter.NewLocalSourceFS(), NewScopeBoundary([]string{"com/example/app"}), ScopeDefault)
		delta := driver.ApplyFeature(vipFeature(t), []m.Path{m.Path(root)})

		if delta.Applied != 0 {
			t.Errorf("non-smali file counted as applied: %+v", delta)
		}

		got, err := os.ReadFile(unit)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != "isVip:Z everywhere" {
			t.Error("non-smali file was modified")
		}
	})
}
