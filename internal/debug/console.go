package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/locomotion/internal/camera"
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/locomotion"
	"github.com/Versifine/locomotion/internal/physics"
	"github.com/Versifine/locomotion/internal/visual"
	"golang.org/x/term"
)

const (
	defaultTickInterval = 50 * time.Millisecond
	defaultMovePulse    = 180 * time.Millisecond
	yawStep             = 5.0
	pitchStep           = 5.0
)

type Character interface {
	Tick(dt float64)
	State() locomotion.State
	Yaw() float64
	Grounded() bool
	Restore(st locomotion.State)
}

type Publisher interface {
	Publish(action input.Action, edge input.Edge)
	SetMoveAxis(v physics.Vec2)
}

type Animator interface {
	Update() (visual.Transition, bool)
	Snapshot() visual.Snapshot
}

type edge struct {
	action input.Action
	edge   input.Edge
}

// Console drives a Character from raw terminal keys. Keys only record intent;
// publishing, commands and ticks all run on the tick goroutine.
type Console struct {
	character Character
	bus       Publisher
	orbit     *camera.Orbit
	animator  Animator
	spawn     physics.Vec3
	out       io.Writer

	tickInterval time.Duration
	movePulse    time.Duration
	cancel       context.CancelFunc

	mu            sync.Mutex
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	jumpUntil     time.Time
	sprinting     bool
	crouching     bool
	edges         []edge
	dYaw, dPitch  float64
	tasks         []func()
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

func NewConsole(character Character, bus Publisher, orbit *camera.Orbit, animator Animator, spawn physics.Vec3) *Console {
	return &Console{
		character:    character,
		bus:          bus,
		orbit:        orbit,
		animator:     animator,
		spawn:        spawn,
		out:          os.Stdout,
		tickInterval: defaultTickInterval,
		movePulse:    defaultMovePulse,
	}
}

func (c *Console) SetTickInterval(d time.Duration) {
	if d > 0 {
		c.tickInterval = d
	}
}

// Do runs fn on the tick goroutine before the next tick.
func (c *Console) Do(fn func()) {
	c.mu.Lock()
	c.tasks = append(c.tasks, fn)
	c.mu.Unlock()
}

// SetCharacter replaces the driven character. Call it through Do.
func (c *Console) SetCharacter(ch Character) {
	c.character = ch
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.character == nil {
		return fmt.Errorf("console character is nil")
	}
	if c.bus == nil {
		return fmt.Errorf("console input bus is nil")
	}
	if c.orbit == nil {
		return fmt.Errorf("console camera is nil")
	}
	if c.animator == nil {
		return fmt.Errorf("console animator is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	ctx, c.cancel = context.WithCancel(ctx)
	ticking := make(chan struct{})
	defer func() {
		c.cancel()
		<-ticking
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, [ crouch, ] sprint, E interact, arrows, :)\r\n")

	go func() {
		defer close(ticking)
		c.tickLoop(ctx)
	}()

	keys := make(chan byte)
	errs := make(chan error, 1)
	reader := bufio.NewReader(os.Stdin)
	go func() {
		for {
			b, err := reader.ReadByte()
			if err != nil {
				errs <- err
				return
			}
			select {
			case keys <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		case b := <-keys:
			c.handleKey(b, func() (byte, bool) {
				select {
				case next := <-keys:
					return next, true
				case <-time.After(50 * time.Millisecond):
					return 0, false
				}
			})
		}
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	dt := c.tickInterval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.step(now, dt)
			c.renderStatusLine()
		}
	}
}

// step applies recorded intent, then advances the character and the animator.
func (c *Console) step(now time.Time, dt float64) {
	c.mu.Lock()
	c.expirePulsesLocked(now)
	axis := c.axisLocked(now)
	edges := c.edges
	c.edges = nil
	tasks := c.tasks
	c.tasks = nil
	dYaw, dPitch := c.dYaw, c.dPitch
	c.dYaw, c.dPitch = 0, 0
	c.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	c.orbit.Rotate(dYaw, dPitch)
	c.bus.SetMoveAxis(axis)
	for _, e := range edges {
		c.bus.Publish(e.action, e.edge)
	}

	c.character.Tick(dt)
	if tr, ok := c.animator.Update(); ok {
		slog.Debug("debug clip", "clip", tr.Clip, "cross_fade", tr.CrossFade)
	}
}

func (c *Console) handleKey(b byte, next func() (byte, bool)) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
	case 'w', 'W':
		c.pulse(&c.forwardUntil, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.backwardUntil, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.leftUntil, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.rightUntil, &c.leftUntil)
	case ' ':
		c.jump()
	case '[':
		c.toggleCrouch()
	case ']':
		c.toggleSprint()
	case 'e', 'E':
		c.queue(input.ActionInteract, input.Pressed)
		c.queue(input.ActionInteract, input.Released)
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		if b, ok := next(); !ok || b != '[' {
			return
		}
		arrow, ok := next()
		if !ok {
			return
		}
		switch arrow {
		case 'D': // left
			c.rotate(-yawStep, 0)
		case 'C': // right
			c.rotate(yawStep, 0)
		case 'A': // up
			c.rotate(0, -pitchStep)
		case 'B': // down
			c.rotate(0, pitchStep)
		}
	}
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		c.Do(func() {
			st := c.character.State()
			fmt.Fprintf(c.out, "[debug] pos=%v vy=%.3f speed=%.3f grounded_for=%.2fs hanging=%t\r\n",
				st.Position, st.VerticalVelocity, st.Speed, st.GroundedTimer, st.Hanging)
		})
	case "tp":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		c.teleport(physics.Vec3{X: x, Y: y, Z: z})
		fmt.Fprintf(c.out, "[debug] tp set to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	case "reset":
		c.teleport(c.spawn)
		fmt.Fprintf(c.out, "[debug] reset to spawn %v\r\n", c.spawn)
	case "quit", "q":
		if c.cancel != nil {
			c.cancel()
		}
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

// teleport keeps the modifier flags and drops motion.
func (c *Console) teleport(pos physics.Vec3) {
	c.Do(func() {
		st := c.character.State()
		c.character.Restore(locomotion.State{
			Position:  pos,
			Sprinting: st.Sprinting,
			Crouching: st.Crouching,
		})
	})
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump (released after one pulse)\r\n")
	fmt.Fprint(c.out, "  [: toggle crouch\r\n")
	fmt.Fprint(c.out, "  ]: toggle sprint\r\n")
	fmt.Fprint(c.out, "  E: interact\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: camera yaw +/-5\r\n")
	fmt.Fprint(c.out, "  Arrow Up/Down: camera pitch +/-5\r\n")
	fmt.Fprint(c.out, "  X: release all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :reset\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :quit\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

// renderStatusLine runs on the tick goroutine only.
func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	c.mu.Unlock()

	line := c.statusLine()
	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) statusLine() string {
	st := c.character.State()
	anim := c.animator.Snapshot()
	return fmt.Sprintf(
		"[SPR:%s CRH:%s HANG:%s GND:%s | YAW:%.1f CAM:%.1f/%.1f | X:%.2f Y:%.2f Z:%.2f VY:%.2f SPD:%.2f | %s]",
		boolLabel(st.Sprinting),
		boolLabel(st.Crouching),
		boolLabel(st.Hanging),
		boolLabel(c.character.Grounded()),
		c.character.Yaw(),
		c.orbit.Yaw,
		c.orbit.Pitch,
		st.Position.X,
		st.Position.Y,
		st.Position.Z,
		st.VerticalVelocity,
		st.Speed,
		anim.Clip,
	)
}

func (c *Console) queue(action input.Action, e input.Edge) {
	c.mu.Lock()
	c.edges = append(c.edges, edge{action: action, edge: e})
	c.mu.Unlock()
}

func (c *Console) rotate(dYaw, dPitch float64) {
	c.mu.Lock()
	c.dYaw += dYaw
	c.dPitch += dPitch
	c.mu.Unlock()
}

func (c *Console) pulse(until, opposite *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*until = time.Now().Add(c.movePulse)
	*opposite = time.Time{}
}

func (c *Console) jump() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.jumpUntil.IsZero() {
		return
	}
	c.jumpUntil = time.Now().Add(c.movePulse)
	c.edges = append(c.edges, edge{action: input.ActionJump, edge: input.Pressed})
}

func (c *Console) toggleCrouch() {
	c.mu.Lock()
	c.crouching = !c.crouching
	e := input.Released
	if c.crouching {
		e = input.Pressed
	}
	c.edges = append(c.edges, edge{action: input.ActionCrouch, edge: e})
	enabled := c.crouching
	c.mu.Unlock()
	slog.Debug("debug crouch toggled", "enabled", enabled)
}

func (c *Console) toggleSprint() {
	c.mu.Lock()
	c.sprinting = !c.sprinting
	e := input.Released
	if c.sprinting {
		e = input.Pressed
	}
	c.edges = append(c.edges, edge{action: input.ActionSprint, edge: e})
	enabled := c.sprinting
	c.mu.Unlock()
	slog.Debug("debug sprint toggled", "enabled", enabled)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	if !c.jumpUntil.IsZero() {
		c.jumpUntil = time.Time{}
		c.edges = append(c.edges, edge{action: input.ActionJump, edge: input.Released})
	}
	if c.sprinting {
		c.sprinting = false
		c.edges = append(c.edges, edge{action: input.ActionSprint, edge: input.Released})
	}
	if c.crouching {
		c.crouching = false
		c.edges = append(c.edges, edge{action: input.ActionCrouch, edge: input.Released})
	}
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func (c *Console) expirePulsesLocked(now time.Time) {
	for _, until := range []*time.Time{&c.forwardUntil, &c.backwardUntil, &c.leftUntil, &c.rightUntil} {
		if !until.IsZero() && !now.Before(*until) {
			*until = time.Time{}
		}
	}
	if !c.jumpUntil.IsZero() && !now.Before(c.jumpUntil) {
		c.jumpUntil = time.Time{}
		c.edges = append(c.edges, edge{action: input.ActionJump, edge: input.Released})
	}
}

func (c *Console) axisLocked(now time.Time) physics.Vec2 {
	var axis physics.Vec2
	if now.Before(c.forwardUntil) {
		axis.Y++
	}
	if now.Before(c.backwardUntil) {
		axis.Y--
	}
	if now.Before(c.leftUntil) {
		axis.X--
	}
	if now.Before(c.rightUntil) {
		axis.X++
	}
	return axis
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
