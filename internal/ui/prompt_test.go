package ui

import (
	"context"
	"errors"
	"testing"
)

func TestPrompterHeadless(t *testing.T) {
	t.Parallel()

	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	p := NewPrompter(testTheme(), hm)

	if _, err := p.AskName(context.Background()); !errors.Is(err, ErrHeadless) {
		t.Errorf("AskName() error = %v, want ErrHeadless", err)
	}
	if _, err := p.Confirm(context.Background(), "Delete?"); !errors.Is(err, ErrHeadless) {
		t.Errorf("Confirm() error = %v, want ErrHeadless", err)
	}
}

func TestNewHuhTheme(t *testing.T) {
	t.Parallel()

	th := newHuhTheme()
	if th == nil {
		t.Fatal("newHuhTheme() returned nil")
	}
	if th.Focused.Title.GetForeground() != colorPrimary {
		t.Error("focused title should use the primary color")
	}
}
