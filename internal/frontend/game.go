package frontend

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"gones/internal/system"
)

// game implements ebiten.Game, driving one System one PPU frame per
// Update call and presenting its framebuffer and sample stream.
type game struct {
	sys    *system.System
	cfg    *Config
	states *StateManager

	player1 controllerKeys
	player2 controllerKeys

	mu          sync.Mutex
	frame       []byte // latest RGB888 framebuffer, width x height x 3
	frameWidth  int
	frameHeight int
	image       *ebiten.Image
	pixBuf      []byte

	audioCtx    *audio.Context
	audioStream *sampleStream
	audioPlayer *audio.Player

	romLoaded  bool
	romName    string
	paused     bool
	escPressed bool
}

// newGame constructs a game with no ROM loaded yet; LoadROM installs one.
func newGame(cfg *Config) *game {
	g := &game{
		cfg:     cfg,
		sys:     system.New(),
		player1: resolveKeys(cfg.Input.Player1),
		player2: resolveKeys(cfg.Input.Player2),
	}
	g.states = newStateManager(cfg.Paths.SaveStates)
	g.sys.PPU.SetSink(g)
	if cfg.Audio.Enabled {
		g.audioCtx = audio.NewContext(cfg.Audio.SampleRate)
		g.sys.APU.SetSampleRate(cfg.Audio.SampleRate)
		g.audioStream = newSampleStream(cfg.Audio.Volume)
	}
	g.resizeFramebuffer()
	return g
}

func (g *game) resizeFramebuffer() {
	g.frameWidth = 256
	g.frameHeight = g.sys.PPU.VisibleScanlines()
	g.image = ebiten.NewImage(g.frameWidth, g.frameHeight)
	g.pixBuf = make([]byte, g.frameWidth*g.frameHeight*4)
}

// RenderFrame implements ppu.FrameSink.
func (g *game) RenderFrame(pixels []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.frame) != len(pixels) {
		g.frame = make([]byte, len(pixels))
	}
	copy(g.frame, pixels)
}

// LoadROM parses and installs a new cartridge, replacing whatever ran
// before. The PPU's video sink and the audio sample rate survive the
// swap since they live on the game, not the System.
func (g *game) LoadROM(data []byte, name string) error {
	if err := g.sys.LoadCartridge(data); err != nil {
		return err
	}
	g.romName = name
	g.sys.PPU.SetSink(g)
	if g.audioCtx != nil {
		g.sys.APU.SetSampleRate(g.cfg.Audio.SampleRate)
	}
	g.sys.PowerOn()
	g.resizeFramebuffer()
	g.romLoaded = true

	if g.audioCtx != nil && g.audioPlayer == nil {
		p, err := newPlayer(g.audioCtx, g.audioStream)
		if err == nil {
			g.audioPlayer = p
		}
	}
	return nil
}

// Update implements ebiten.Game: one NES frame per host frame.
func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		if !g.escPressed {
			g.paused = !g.paused
		}
		g.escPressed = true
	} else {
		g.escPressed = false
	}

	g.handleStateHotkeys()

	if !g.romLoaded || g.paused {
		return nil
	}

	g.sys.Input.SetButtons1(g.player1.poll())
	g.sys.Input.SetButtons2(g.player2.poll())

	g.sys.RunFrame()

	if g.audioStream != nil {
		g.audioStream.push(g.sys.APU.GetSamples())
	}
	return nil
}

// handleStateHotkeys maps F1-F4 to save and Shift+F1-F4 to load, slots 1-4.
func (g *game) handleStateHotkeys() {
	if !g.romLoaded {
		return
	}
	keys := []ebiten.Key{ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4}
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	for i, k := range keys {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		slot := i + 1
		if shift {
			_ = g.states.Load(g.sys, slot, g.romName)
		} else {
			_ = g.states.Save(g.sys, slot, g.romName)
		}
	}
}

// Draw implements ebiten.Game: copy the latest RGB888 framebuffer into
// an RGBA ebiten.Image and blit it scaled to fill the window.
func (g *game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	frame := g.frame
	g.mu.Unlock()

	if len(frame) == g.frameWidth*g.frameHeight*3 {
		for i := 0; i < g.frameWidth*g.frameHeight; i++ {
			g.pixBuf[i*4+0] = frame[i*3+0]
			g.pixBuf[i*4+1] = frame[i*3+1]
			g.pixBuf[i*4+2] = frame[i*3+2]
			g.pixBuf[i*4+3] = 0xFF
		}
		g.image.WritePixels(g.pixBuf)
	}

	screen.Fill(color.Black)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scaleX := float64(sw) / float64(g.frameWidth)
	scaleY := float64(sh) / float64(g.frameHeight)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((float64(sw)-float64(g.frameWidth)*scale)/2, (float64(sh)-float64(g.frameHeight)*scale)/2)
	screen.DrawImage(g.image, op)
}

// Layout implements ebiten.Game.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
