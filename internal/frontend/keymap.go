package frontend

import "github.com/hajimehoshi/ebiten/v2"

// keyNames maps the config file's key names to ebiten key codes. Only
// the keys the default mappings actually use are listed; an unknown
// name resolves to the map's zero value, Key(0), which ebiten assigns to
// KeyA, so that button follows the A key.
var keyNames = map[string]ebiten.Key{
	"Up": ebiten.KeyArrowUp, "Down": ebiten.KeyArrowDown,
	"Left": ebiten.KeyArrowLeft, "Right": ebiten.KeyArrowRight,
	"Enter": ebiten.KeyEnter, "Space": ebiten.KeySpace,
	"RShift": ebiten.KeyShiftRight, "RControl": ebiten.KeyControlRight,
	"LShift": ebiten.KeyShiftLeft, "LControl": ebiten.KeyControlLeft,
	"W": ebiten.KeyW, "A": ebiten.KeyA, "S": ebiten.KeyS, "D": ebiten.KeyD,
	"J": ebiten.KeyJ, "K": ebiten.KeyK, "N": ebiten.KeyN, "M": ebiten.KeyM,
}

// controllerKeys is one joypad's eight buttons resolved to ebiten keys;
// poll reports them in the order input.Controller.SetButtons expects.
type controllerKeys struct {
	up, down, left, right, a, b, start, sel ebiten.Key
}

func resolveKeys(m KeyMapping) controllerKeys {
	return controllerKeys{
		up: keyNames[m.Up], down: keyNames[m.Down],
		left: keyNames[m.Left], right: keyNames[m.Right],
		a: keyNames[m.A], b: keyNames[m.B],
		start: keyNames[m.Start], sel: keyNames[m.Select],
	}
}

// poll samples the host keyboard into the eight NES button booleans, in
// A,B,Select,Start,Up,Down,Left,Right order.
func (k controllerKeys) poll() [8]bool {
	return [8]bool{
		ebiten.IsKeyPressed(k.a),
		ebiten.IsKeyPressed(k.b),
		ebiten.IsKeyPressed(k.sel),
		ebiten.IsKeyPressed(k.start),
		ebiten.IsKeyPressed(k.up),
		ebiten.IsKeyPressed(k.down),
		ebiten.IsKeyPressed(k.left),
		ebiten.IsKeyPressed(k.right),
	}
}
