package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
)

// KEY_HOLD_FRAMES is how long a key stays pressed after the terminal last
// reported it. Terminals report key repeats, never key releases.
const KEY_HOLD_FRAMES = 6

// keyMap maps the QWERTY block to the COSMAC VIP hex keypad.
var keyMap = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

var errQuit = errors.New("quit")

// terminal renders the display and collects keys from a raw mode tty.
type terminal struct {
	fd    int
	state *term.State
	input chan byte
	held  [cpu.KEY_COUNT]int
	beep  bool
}

func newTerminal() (tty *terminal, err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		err = fmt.Errorf("stdin is not a terminal")
		return
	}

	width, height, err := term.GetSize(fd)
	if err != nil {
		return
	}
	if width < cpu.SCREEN_WIDTH || height < cpu.SCREEN_HEIGHT/2 {
		err = fmt.Errorf("terminal %dx%d is smaller than %dx%d", width, height, cpu.SCREEN_WIDTH, cpu.SCREEN_HEIGHT/2)
		return
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	tty = &terminal{
		fd:    fd,
		state: state,
		input: make(chan byte, 64),
	}

	go func() {
		buf := make([]byte, 16)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(tty.input)
				return
			}
			for _, b := range buf[:n] {
				tty.input <- b
			}
		}
	}()

	// Clear screen, hide cursor.
	fmt.Print("\033[2J\033[?25l")

	return
}

func (tty *terminal) Close() {
	fmt.Print("\033[?25h\033[0m\r\n")
	_ = term.Restore(tty.fd, tty.state)
}

// poll applies pending key presses, and releases keys not seen recently.
func (tty *terminal) poll(emu *emulator.Emulator) (err error) {
	for {
		select {
		case b, ok := <-tty.input:
			if !ok || b == 0x1b || b == 0x03 {
				err = errQuit
				return
			}
			key, ok := keyMap[b|0x20]
			if !ok {
				continue
			}
			tty.held[key] = KEY_HOLD_FRAMES
			err = emu.Cpu.SetKey(key, true)
			if err != nil {
				return
			}
		default:
			for key := range tty.held {
				if tty.held[key] == 0 {
					continue
				}
				tty.held[key]--
				if tty.held[key] == 0 {
					err = emu.Cpu.SetKey(key, false)
					if err != nil {
						return
					}
				}
			}
			return
		}
	}
}

// draw renders two display rows per terminal line with half blocks.
func (tty *terminal) draw(display *cpu.Display) {
	var buf bytes.Buffer
	buf.WriteString("\033[H")
	pixels := display.Pixels()
	for y := 0; y < cpu.SCREEN_HEIGHT; y += 2 {
		for x := range cpu.SCREEN_WIDTH {
			top, bottom := pixels[y][x], pixels[y+1][x]
			switch {
			case top && bottom:
				buf.WriteString("█")
			case top:
				buf.WriteString("▀")
			case bottom:
				buf.WriteString("▄")
			default:
				buf.WriteByte(' ')
			}
		}
		buf.WriteString("\r\n")
	}
	_, _ = os.Stdout.Write(buf.Bytes())
}

// run drives the emulator at 60Hz until the user quits or the program faults.
func run(emu *emulator.Emulator) (err error) {
	tty, err := newTerminal()
	if err != nil {
		return
	}
	defer tty.Close()

	ticker := time.NewTicker(time.Second / emulator.TIMER_HZ)
	defer ticker.Stop()

	for range ticker.C {
		err = tty.poll(emu)
		if errors.Is(err, errQuit) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		err = emu.Frame()
		if err != nil {
			return
		}

		if emu.Cpu.TakeRedraw() {
			tty.draw(&emu.Cpu.Display)
		}

		buzzer := emu.Cpu.Buzzer()
		if buzzer && !tty.beep {
			fmt.Print("\a")
		}
		tty.beep = buzzer
	}

	return
}
