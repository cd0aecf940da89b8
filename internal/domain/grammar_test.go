package domain

import (
	"strings"
	"testing"

	m "github.com/droidmod/gatepatch/internal/model"
)

const userModelFixture = `.class public Lcom/example/app/model/UserModel;
.super Ljava/lang/Object;

# instance fields
.field private isVip:Z

.field private coinBalance:I

.field public userLevel:I

.field private name:Ljava/lang/String;

# direct methods
.method public constructor <init>()V
    .locals 0

    invoke-direct {p0}, Ljava/lang/Object;-><init>()V

    return-void
.end method

# virtual methods
.method public isVip()Z
    .locals 2

    .line 42
    iget-boolean v0, p0, Lcom/example/app/model/UserModel;->isVip:Z

    return v0
.end method

.method public getUserLevel()I
    .locals 1

    iget v0, p0, Lcom/example/app/model/UserModel;->userLevel:I

    return v0
.end method

.method public setVip(Z)V
    .locals 0

    iput-boolean p1, p0, Lcom/example/app/model/UserModel;->isVip:Z

    return-void
.end method
`

func TestScanFields(t *testing.T) {
	t.Run("boolean fields", func(t *testing.T) {
		fields := ScanFields(userModelFixture, m.TypeBoolean)

		if len(fields) != 1 {
			t.Fatalf("expected 1 boolean field, got %d", len(fields))
		}
		if fields[0].Name != "isVip" {
			t.Errorf("expected field isVip, got %s", fields[0].Name)
		}
		if len(fields[0].Modifiers) != 1 || fields[0].Modifiers[0] != "private" {
			t.Errorf("expected modifiers [private], got %v", fields[0].Modifiers)
		}
	})

	t.Run("integer fields in declaration order", func(t *testing.T) {
		fields := ScanFields(userModelFixture, m.TypeInteger)

		if len(fields) != 2 {
			t.Fatalf("expected 2 integer fields, got %d", len(fields))
		}
		if fields[0].Name != "coinBalance" || fields[1].Name != "userLevel" {
			t.Errorf("unexpected field order: %s, %s", fields[0].Name, fields[1].Name)
		}
	})

	t.Run("reference types never match a primitive scan", func(t *testing.T) {
		for _, field := range ScanFields(userModelFixture, m.TypeBoolean) {
			if field.Name == "name" {
				t.Errorf("reference field matched boolean scan")
			}
		}
	})

	t.Run("initialized static field", func(t *testing.T) {
		text := ".field public static final DEBUG:Z = true\n"

		fields := ScanFields(text, m.TypeBoolean)
		if len(fields) != 1 {
			t.Fatalf("expected 1 field, got %d", len(fields))
		}
		if fields[0].Name != "DEBUG" {
			t.Errorf("expected DEBUG, got %s", fields[0].Name)
		}
		if len(fields[0].Modifiers) != 3 {
			t.Errorf("expected 3 modifiers, got %v", fields[0].Modifiers)
		}
	})

	t.Run("malformed lines are dropped silently", func(t *testing.T) {
		text := ".field\n.field :Z\n.field broken\n"

		if got := ScanFields(text, m.TypeBoolean); len(got) != 0 {
			t.Errorf("expected no fields from malformed input, got %v", got)
		}
	})
}

func TestScanMethods(t *testing.T) {
	t.Run("zero-argument boolean methods only", func(t *testing.T) {
		spans := ScanMethods(userModelFixture, m.TypeBoolean)

		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if spans[0].Name != "isVip" {
			t.Errorf("expected isVip, got %s", spans[0].Name)
		}
		if spans[0].Locals != 2 {
			t.Errorf("expected 2 locals, got %d", spans[0].Locals)
		}
	})

	t.Run("methods with parameters are skipped", func(t *testing.T) {
		text := `.method public isLocked(I)Z
    .locals 1

    const/4 v0, 0x1

    return v0
.end method
`
		if spans := ScanMethods(text, m.TypeBoolean); len(spans) != 0 {
			t.Errorf("parameterized method matched zero-arg scan: %v", spans)
		}
	})

	t.Run("span covers the full method region", func(t *testing.T) {
		lines := strings.Split(userModelFixture, "\n")

		spans := ScanMethods(userModelFixture, m.TypeInteger)
		if len(spans) != 1 {
			t.Fatalf("expected 1 integer span, got %d", len(spans))
		}

		span := spans[0]
		if !strings.HasPrefix(strings.TrimSpace(lines[span.StartLine]), ".method") {
			t.Errorf("span start %d is not a .method line: %q", span.StartLine, lines[span.StartLine])
		}
		if strings.TrimSpace(lines[span.EndLine]) != ".end method" {
			t.Errorf("span end %d is not .end method: %q", span.EndLine, lines[span.EndLine])
		}
	})

	t.Run("unterminated method is dropped", func(t *testing.T) {
		text := `.method public isOpen()Z
    .locals 1

    const/4 v0, 0x1
`
		if spans := ScanMethods(text, m.TypeBoolean); len(spans) != 0 {
			t.Errorf("unterminated method produced a span: %v", spans)
		}
	})

	t.Run("annotation block stays in the preamble", func(t *testing.T) {
		text := `.method public isUnlocked()Z
    .locals 1
    .annotation system Ldalvik/annotation/Signature;
        value = {
            "()Z"
        }
    .end annotation

    const/4 v0, 0x0

    return v0
.end method
`
		spans := ScanMethods(text, m.TypeBoolean)
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}

		span := spans[0]

		preamble := strings.Join(span.Preamble, "\n")
		if !strings.Contains(preamble, ".annotation") || !strings.Contains(preamble, ".end annotation") {
			t.Errorf("annotation block missing from preamble:\n%s", preamble)
		}
		if strings.Contains(preamble, ".locals") {
			t.Errorf("locals directive leaked into preamble:\n%s", preamble)
		}

		body := strings.Join(span.Body, "\n")
		if !strings.Contains(body, "const/4 v0, 0x0") {
			t.Errorf("body missing the constant load:\n%s", body)
		}
		if strings.Contains(body, ".annotation") {
			t.Errorf("annotation leaked into body:\n%s", body)
		}
	})

	t.Run("registers directive counts as locals", func(t *testing.T) {
		text := `.method public isReady()Z
    .registers 3

    const/4 v0, 0x1

    return v0
.end method
`
		spans := ScanMethods(text, m.TypeBoolean)
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if spans[0].Locals != 3 {
			t.Errorf("expected 3 locals from .registers, got %d", spans[0].Locals)
		}
	})
}
