package controller

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	t.Run("non-tty gets the simple UI", func(t *testing.T) {
		ui := NewUI(cmd, false)

		if _, ok := ui.(*SimpleUI); !ok {
			t.Errorf("expected *SimpleUI, got %T", ui)
		}
	})

	t.Run("tty gets the TUI", func(t *testing.T) {
		ui := NewUI(cmd, true)

		if _, ok := ui.(*TUI); !ok {
			t.Errorf("expected *TUI, got %T", ui)
		}
	})
}

func TestIsTTY(t *testing.T) {
	// A plain buffer is not a character device.
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer misdetected as a TTY")
	}
}
