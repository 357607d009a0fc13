package runner

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/sim"
)

// Visual characters for rendering
const (
	PlayerChar = '█'
	CrouchChar = '▄'
	CactusChar = '▓'
	BirdChar   = '▀'
	CoinChar   = 'o'
	MeteorChar = '*'
	StreakChar = '~'
	GroundChar = '═'
	StarChar   = '.'
)

const (
	hudRows = 2
	minW    = 30
	minH    = 10
)

// viewport maps world units (y up) to screen cells (y down). The playfield
// sits between the HUD and the ground line; the top of the world above
// the meteor band is not shown.
type viewport struct {
	sx          float64
	unitsPerRow float64
	groundY     float64
	groundRow   int
	field       core.Rect // cells between the HUD and the ground line
}

func newViewport(world config.WorldConfig, w, h int) viewport {
	groundRow := h - 2
	rows := max(1, groundRow-hudRows)
	visible := world.Height - world.GroundY - 100
	return viewport{
		sx:          float64(w) / world.Width,
		unitsPerRow: visible / float64(rows),
		groundY:     world.GroundY,
		groundRow:   groundRow,
		field:       core.NewRect(0, hudRows, w, rows),
	}
}

func (v viewport) col(x float64) int {
	return int(math.Floor(x * v.sx))
}

func (v viewport) row(y float64) int {
	return v.groundRow - 1 - int(math.Floor((y-v.groundY)/v.unitsPerRow))
}

// rect returns the cells covered by b, at least one.
func (v viewport) rect(b core.Box) core.Rect {
	x0 := v.col(b.X)
	x1 := int(math.Ceil(b.Right() * v.sx))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	top := v.row(b.Top() - 1e-6)
	bottom := v.row(b.Y)
	if bottom < top {
		bottom = top
	}
	return core.NewRect(x0, top, x1-x0, bottom-top+1)
}

// visible reports whether any cell of b falls inside the playfield. Boxes
// above the shown band would otherwise land on the HUD rows.
func (v viewport) visible(b core.Box) bool {
	return v.rect(b).Intersects(v.field)
}

// Render draws the current run.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < minW || h < minH {
		dst.DrawText(0, 0, "Terminal too small")
		return
	}
	res := g.last
	vp := newViewport(g.cfg.World, w, h)

	if res.NightMix > 0.5 {
		g.drawStars(dst, vp)
	}
	groundColor := core.ColorGray
	if res.NightMix > 0.5 {
		groundColor = core.ColorDimGray
	}
	dst.DrawHLine(0, vp.groundRow, w, GroundChar, groundColor)

	for _, e := range g.run.Entities() {
		if !vp.visible(e.Box) {
			continue
		}
		glyph, color := entityLook(e)
		dst.DrawRect(vp.rect(e.Box), glyph, color)
	}
	g.drawPlayer(dst, vp)
	g.drawHUD(dst)
	g.drawBanners(dst)

	dst.DrawTextColored(1, h-1, "space jump  ↓ crouch  ←/→ move  p pause  q quit", core.ColorDimGray)

	if res.Paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume", core.ColorWhite)
	}
	if res.GameOver {
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  Coins: %d  |  Press R to restart", int(res.Score), res.Coins), core.ColorRed)
	}
}

func entityLook(e sim.Entity) (rune, core.Color) {
	switch e.Kind {
	case sim.EntityCactus:
		return CactusChar, core.ColorGreen
	case sim.EntityBird:
		return BirdChar, core.ColorMagenta
	case sim.EntityCoin:
		return CoinChar, core.ColorYellow
	case sim.EntityPowerup:
		switch e.Powerup {
		case sim.PowerupTurbo:
			return 'T', core.ColorOrange
		case sim.PowerupShield:
			return 'S', core.ColorBlue
		default:
			return 'D', core.ColorCyan
		}
	case sim.EntityMeteor:
		return MeteorChar, core.ColorRed
	case sim.EntityWindStreak:
		return StreakChar, core.ColorGray
	}
	return '?', core.ColorDefault
}

func (g *Game) drawPlayer(dst *core.Screen, vp viewport) {
	ch := g.last.Character
	glyph := PlayerChar
	if ch.Crouching {
		glyph = CrouchChar
	}
	color := core.ColorCyan
	switch fx := g.last.Effects; {
	case g.last.Golden:
		color = core.ColorGold
	case fx.Shield > 0:
		color = core.ColorBlue
	case fx.Turbo > 0:
		color = core.ColorOrange
	}
	dst.DrawRect(vp.rect(ch.Box), glyph, color)
}

// drawStars scatters a fixed pattern; it must not depend on the run's RNG.
func (g *Game) drawStars(dst *core.Screen, vp viewport) {
	w := dst.Width()
	band := max(1, (vp.groundRow-hudRows)/2)
	for i := 0; i < w/6; i++ {
		x := (i*37 + 5) % w
		y := hudRows + (i*7)%band
		dst.SetColored(x, y, StarChar, core.ColorGray)
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	res := g.last
	w := dst.Width()

	left := fmt.Sprintf(" Score %d  Coins %d  Lv %d  x%.2f ", int(res.Score), res.Coins, res.Level, res.ScoreMultiplier)
	dst.DrawTextColored(0, 0, left, core.ColorWhite)

	rule := fmt.Sprintf(" %s %s ", res.ActiveRule, stackMeter(res.RuleStack, g.cfg.Rules.StackMax))
	if res.RulesFrozen {
		rule = " [FROZEN]" + rule
	}
	dst.DrawTextColored(w-len([]rune(rule)), 0, rule, core.ColorYellow)

	var parts []string
	if res.ActiveEvent != "" {
		parts = append(parts, fmt.Sprintf("%s %.1fs", res.ActiveEvent, res.EventTimeLeft))
	}
	fx := res.Effects
	if fx.Turbo > 0 {
		parts = append(parts, fmt.Sprintf("TURBO %.1f", fx.Turbo))
	}
	if fx.Shield > 0 {
		parts = append(parts, fmt.Sprintf("SHIELD %.1f", fx.Shield))
	}
	if fx.DoubleJump > 0 {
		parts = append(parts, fmt.Sprintf("2xJUMP %.1f", fx.DoubleJump))
	}
	if res.Golden {
		parts = append(parts, "GOLDEN")
	}
	if res.Wind.Active {
		arrow := ">>>"
		if res.Wind.Dir < 0 {
			arrow = "<<<"
		}
		parts = append(parts, "WIND "+arrow)
	}
	parts = append(parts, fmt.Sprintf("speed x%.2f", res.SpeedMultiplier))
	dst.DrawTextColored(1, 1, strings.Join(parts, "  "), core.ColorCyan)
}

func stackMeter(stack, maxStack int) string {
	return strings.Repeat("■", stack) + strings.Repeat("□", max(0, maxStack-stack))
}

func (g *Game) drawBanners(dst *core.Screen) {
	if g.last.RuleBanner && g.last.ActiveRule != "" {
		text := "» " + g.last.ActiveRule + " «"
		x := (dst.Width() - len([]rune(text))) / 2
		dst.DrawTextColored(x, hudRows+1, text, core.ColorYellow)
	}
	if g.last.LevelBanner {
		text := fmt.Sprintf("LEVEL %d", g.last.Level)
		x := (dst.Width() - len(text)) / 2
		dst.DrawTextColored(x, hudRows+2, text, core.ColorGreen)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Min(core.Max(len(title), len(subtitle))+4, w)
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)

	dst.DrawTextColored(boxX+(boxW-len(title))/2, boxY+1, title, c)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}
