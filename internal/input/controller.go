// Package input implements the NES controller shift-register protocol.
package input

// Button identifies one of the eight standard controller buttons.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller models one standard NES joypad: a latch of the live button
// state taken on strobe, shifted out one bit per read.
type Controller struct {
	buttons uint8

	strobe         bool
	shiftRegister  uint8
}

// New constructs a Controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButton updates one button's held state.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// SetButtons replaces all eight button states at once, in
// A,B,Select,Start,Up,Down,Left,Right order.
func (c *Controller) SetButtons(buttons [8]bool) {
	var v uint8
	order := [8]Button{ButtonA, ButtonB, ButtonSelect, ButtonStart, ButtonUp, ButtonDown, ButtonLeft, ButtonRight}
	for i, pressed := range buttons {
		if pressed {
			v |= uint8(order[i])
		}
	}
	c.buttons = v
}

// IsPressed reports whether a button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write services a strobe-register write ($4016 bit 0). The shift register
// is reloaded from live button state on every write, high or low, so that
// whichever write last drops strobe low freezes the register at the
// button state current at that instant; Read then shifts it out on each
// subsequent call. While strobe remains high, Read ignores the frozen
// register and reports live button state directly.
func (c *Controller) Write(strobeHigh bool) {
	c.shiftRegister = c.buttons
	c.strobe = strobeHigh
}

// Read shifts out the next bit (A first, then B, Select, Start, Up, Down,
// Left, Right); once exhausted it returns 1 forever until the next strobe.
// While strobe is held high every read returns the live A button state.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons & 0x01
	}
	bit := c.shiftRegister & 0x01
	c.shiftRegister = (c.shiftRegister >> 1) | 0x80
	return bit
}

// Reset clears button and shift-register state.
func (c *Controller) Reset() {
	c.buttons = 0
	c.strobe = false
	c.shiftRegister = 0
}

// InputState owns both controller ports.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState constructs both controller ports.
func NewInputState() *InputState {
	return &InputState{Controller1: New(), Controller2: New()}
}

// Reset clears both controllers.
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

// SetButtons1/SetButtons2 replace a controller's full button state.
func (is *InputState) SetButtons1(buttons [8]bool) { is.Controller1.SetButtons(buttons) }
func (is *InputState) SetButtons2(buttons [8]bool) { is.Controller2.SetButtons(buttons) }

// Read services a CPU read of $4016 or $4017. Bit 6 always reads back set
// (the documented open-bus behavior on both ports); bits 7 and 1-5 are
// open bus on real hardware but this emulation's bus always drives 0 there
// except for the fixed bit 6.
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read() | 0x40
	case 0x4017:
		return is.Controller2.Read() | 0x40
	default:
		return 0x40
	}
}

// Write services a CPU write to $4016; both controllers observe the same
// strobe line.
func (is *InputState) Write(address uint16, value uint8) {
	if address == 0x4016 {
		strobeHigh := value&0x01 != 0
		is.Controller1.Write(strobeHigh)
		is.Controller2.Write(strobeHigh)
	}
}
