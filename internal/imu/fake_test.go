package imu

import (
	"errors"
	"testing"
)

func TestFakeSourceScript(t *testing.T) {
	src := NewFakeSource([]Reading{
		{Z: 1.0},
		{X: 0.3, Z: 1.4},
	})

	x, y, z, err := src.Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if x != 0 || y != 0 || z != 1.0 {
		t.Errorf("unexpected first reading: %v %v %v", x, y, z)
	}

	x, _, z, err = src.Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if x != 0.3 || z != 1.4 {
		t.Errorf("unexpected second reading: %v %v", x, z)
	}

	// Exhausted scripts repeat the last reading.
	for i := 0; i < 3; i++ {
		x, _, z, err = src.Read()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if x != 0.3 || z != 1.4 {
			t.Errorf("exhausted read %d changed: %v %v", i, x, z)
		}
	}
}

func TestFakeSourceEmpty(t *testing.T) {
	src := NewFakeSource(nil)
	if _, _, _, err := src.Read(); err == nil {
		t.Error("expected error with no readings")
	}
}

func TestFakeSourceReadError(t *testing.T) {
	src := NewFakeSource([]Reading{Still()})
	src.ReadError = errors.New("i2c timeout")
	if _, _, _, err := src.Read(); err == nil {
		t.Error("expected configured read error")
	}
}

func TestFakeSourceReset(t *testing.T) {
	src := NewFakeSource([]Reading{{Z: 1.0}, {Z: 1.5}})
	src.Read()
	src.Read()
	src.Close()
	if !src.Closed {
		t.Error("close not recorded")
	}

	src.Reset()
	if src.Closed {
		t.Error("reset should clear closed")
	}
	_, _, z, _ := src.Read()
	if z != 1.0 {
		t.Errorf("reset did not rewind script, got z=%v", z)
	}
}

func TestStill(t *testing.T) {
	r := Still()
	if r.X != 0 || r.Y != 0 || r.Z != 1.0 {
		t.Errorf("unexpected still reading: %+v", r)
	}
}
