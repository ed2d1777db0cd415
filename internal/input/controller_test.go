package input

import "testing"

func TestNew_ShouldCreateControllerWithDefaultState(t *testing.T) {
	c := New()
	if c.buttons != 0 || c.shiftRegister != 0 || c.strobe != false {
		t.Fatalf("expected zero-value controller, got %+v", c)
	}
}

func TestSetButton_ShouldUpdateButtonState(t *testing.T) {
	c := New()
	buttons := []Button{ButtonA, ButtonB, ButtonSelect, ButtonStart, ButtonUp, ButtonDown, ButtonLeft, ButtonRight}

	for _, b := range buttons {
		c.SetButton(b, true)
		if !c.IsPressed(b) {
			t.Errorf("button %d should be pressed after SetButton(true)", b)
		}
		c.SetButton(b, false)
		if c.IsPressed(b) {
			t.Errorf("button %d should not be pressed after SetButton(false)", b)
		}
	}
}

func TestSetButtons_ShouldReplaceFullState(t *testing.T) {
	c := New()
	c.SetButtons([8]bool{true, false, false, true, false, false, false, true})

	if !c.IsPressed(ButtonA) || !c.IsPressed(ButtonStart) || !c.IsPressed(ButtonRight) {
		t.Error("expected A, Start, Right pressed")
	}
	if c.IsPressed(ButtonB) || c.IsPressed(ButtonSelect) {
		t.Error("expected B, Select not pressed")
	}
}

func TestWrite_StrobeHigh_ShouldContinuouslyReloadFromLiveButtons(t *testing.T) {
	c := New()
	c.Write(true)

	c.SetButton(ButtonA, true)
	if c.Read() != 0x01 {
		t.Error("while strobe is high, Read should reflect live ButtonA state")
	}
	c.SetButton(ButtonA, false)
	if c.Read() != 0x00 {
		t.Error("while strobe is high, Read should track ButtonA turning off")
	}
}

func TestRead_StrobeLow_ShouldShiftOutLatchedButtonsInOrder(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)

	c.Write(true)
	c.Write(false)

	expected := []uint8{1, 0, 0, 1, 0, 0, 0, 0} // A, B, Select, Start, Up, Down, Left, Right
	for i, want := range expected {
		if got := c.Read(); got != want {
			t.Errorf("read %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestRead_PastEighthBit_ShouldReturnOneForever(t *testing.T) {
	c := New()
	c.Write(true)
	c.Write(false)

	for i := 0; i < 8; i++ {
		c.Read()
	}
	for i := 0; i < 5; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("extended read %d: expected 1, got %d", i, got)
		}
	}
}

func TestWrite_LatchesAtFallingEdge_NotAtRiseTime(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(true)

	// Mutate button state while strobe is still high; the eventual latch
	// should reflect state at the falling edge, not when strobe first rose.
	c.SetButton(ButtonA, false)
	c.SetButton(ButtonB, true)
	c.Write(false)

	if got := c.Read(); got != 0 {
		t.Errorf("expected A bit 0 (released before falling edge), got %d", got)
	}
	if got := c.Read(); got != 1 {
		t.Errorf("expected B bit 1 (pressed at falling edge), got %d", got)
	}
}

func TestReset_ShouldClearAllState(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(true)
	c.Reset()

	if c.buttons != 0 || c.shiftRegister != 0 || c.strobe != false {
		t.Fatalf("expected zero-value controller after reset, got %+v", c)
	}
}

func TestNewInputState_ShouldCreateTwoDistinctControllers(t *testing.T) {
	is := NewInputState()
	if is.Controller1 == nil || is.Controller2 == nil {
		t.Fatal("expected both controllers constructed")
	}
	if is.Controller1 == is.Controller2 {
		t.Error("expected distinct controller instances")
	}
}

func TestInputState_Read_BothPorts_ShouldAlwaysSetBit6(t *testing.T) {
	is := NewInputState()

	if v := is.Read(0x4016); v&0x40 == 0 {
		t.Errorf("expected bit 6 set on $4016 read, got 0x%02X", v)
	}
	if v := is.Read(0x4017); v&0x40 == 0 {
		t.Errorf("expected bit 6 set on $4017 read, got 0x%02X", v)
	}
}

func TestInputState_Read_ShouldRouteToCorrectController(t *testing.T) {
	is := NewInputState()
	is.Controller1.SetButton(ButtonA, true)
	is.Write(0x4016, 0x01)

	v1 := is.Read(0x4016)
	v2 := is.Read(0x4017)

	if v1 != 0x41 {
		t.Errorf("controller 1: expected 0x41, got 0x%02X", v1)
	}
	if v2 != 0x40 {
		t.Errorf("controller 2 (ButtonA not set): expected 0x40, got 0x%02X", v2)
	}
}

func TestInputState_Write_ShouldStrobeBothControllersTogether(t *testing.T) {
	is := NewInputState()
	is.Write(0x4016, 0x01)

	if is.Controller1.strobe != true || is.Controller2.strobe != true {
		t.Error("expected both controllers strobed high")
	}

	is.Write(0x4016, 0x00)
	if is.Controller1.strobe != false || is.Controller2.strobe != false {
		t.Error("expected both controllers strobed low")
	}
}

func TestInputState_Write_OtherAddresses_ShouldBeIgnored(t *testing.T) {
	is := NewInputState()
	is.Write(0x4017, 0x01)
	if is.Controller1.strobe || is.Controller2.strobe {
		t.Error("expected $4017 write to be ignored")
	}
}

func TestRapidStrobeCycle_ShouldAlwaysRestartAtButtonA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)

	for i := 0; i < 5; i++ {
		c.Write(true)
		c.Write(false)
		if got := c.Read(); got != 1 {
			t.Errorf("cycle %d: expected ButtonA bit first, got %d", i, got)
		}
	}
}
