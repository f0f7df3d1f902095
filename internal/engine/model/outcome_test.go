package model

import (
	"errors"
	"testing"

	coreerrors "gradlens/internal/core/errors"
)

func TestOutcomeOk(t *testing.T) {
	out := Ok(42)
	if !out.OK() {
		t.Fatal("expected success")
	}
	if out.Value() != 42 {
		t.Errorf("value = %d", out.Value())
	}
	if out.Err() != nil {
		t.Errorf("Err on success = %v", out.Err())
	}
}

func TestOutcomeFail(t *testing.T) {
	cause := errors.New("daemon went away")
	out := FailNote[string](cause, "fetch AndroidProject for :app")
	if out.OK() {
		t.Fatal("expected failure")
	}
	if !errors.Is(out.Err(), cause) {
		t.Errorf("Err should wrap the cause, got %v", out.Err())
	}
	if out.Detail() != "fetch AndroidProject for :app" {
		t.Errorf("Detail = %q", out.Detail())
	}
}

func TestOutcomeDetailFallsBackToCause(t *testing.T) {
	out := Fail[int](errors.New("boom"))
	if out.Detail() != "boom" {
		t.Errorf("Detail = %q", out.Detail())
	}
}

func TestForwardErr(t *testing.T) {
	cause := errors.New("parse error")
	lower := FailNote[*AndroidProject](cause, "decode AndroidProject for :lib")
	higher := ForwardErr[*AndroidProject, []string](lower)
	if higher.OK() {
		t.Fatal("forwarded outcome must stay failed")
	}
	if !errors.Is(higher.Cause(), cause) {
		t.Error("cause lost in forward")
	}
	if higher.Note() != lower.Note() {
		t.Error("note lost in forward")
	}
}

func TestForwardErrOnSuccess(t *testing.T) {
	out := ForwardErr[int, string](Ok(1))
	if out.OK() {
		t.Fatal("forwarding a success must not fabricate one")
	}
	if !coreerrors.IsCode(out.Cause(), coreerrors.CodeInternal) {
		t.Errorf("cause = %v", out.Cause())
	}
}
