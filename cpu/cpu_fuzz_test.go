package cpu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzStep(f *testing.F) {
	for _, word := range []uint16{0x00e0, 0x00ee, 0x2abc, 0x8014, 0xd125, 0xf055, 0xff65, 0xf00a, 0xe012} {
		f.Add(word, uint16(0x300), uint8(0x12), uint8(0x34), uint8(0))
		f.Add(word, uint16(0xffe), uint8(0xff), uint8(0x01), uint8(STACK_LIMIT))
	}

	f.Fuzz(func(t *testing.T, word uint16, index uint16, va uint8, vb uint8, depth uint8) {
		assert := assert.New(t)

		cpu := newTestCpu(t, word)
		cpu.Index = index
		for n := range REG_COUNT {
			cpu.Register[n] = va + uint8(n)*vb
		}
		for n := range int(depth) % (STACK_LIMIT + 1) {
			cpu.Stack.Push(uint16(0x300 + 2*n))
		}
		cpu.Delay = Timer(va)
		cpu.Sound = Timer(vb)
		cpu.Display.Draw(int(va), int(vb), []byte{0xaa, 0x55})
		cpu.Display.Redraw()

		memory := cpu.Memory
		register := cpu.Register
		stack := slices.Clone(cpu.Stack.Data)
		pixels := cpu.Display.Pixels()

		err := cpu.Step()
		if err != nil {
			assert.Equal(memory, cpu.Memory)
			assert.Equal(register, cpu.Register)
			assert.Equal(index, cpu.Index)
			assert.Equal(uint16(PROGRAM_START), cpu.Pc)
			assert.Equal(stack, cpu.Stack.Data)
			assert.Equal(Timer(va), cpu.Delay)
			assert.Equal(Timer(vb), cpu.Sound)
			assert.Equal(pixels, cpu.Display.Pixels())
			assert.False(cpu.TakeRedraw())
			assert.Equal(STATE_RUNNING, cpu.State())
			assert.Equal(0, cpu.Ticks)
			return
		}

		assert.Equal(1, cpu.Ticks)

		code, err := Decode(word)
		assert.NoError(err)
		if code.Op.IsSkip() {
			assert.Contains([]uint16{PROGRAM_START + 2, PROGRAM_START + 4}, cpu.Pc)
		}
		if code.Op == OP_LD_VX_K {
			assert.Equal(STATE_AWAITING_KEY, cpu.State())
			assert.Equal(uint16(PROGRAM_START+2), cpu.Pc)
		}
		assert.LessOrEqual(cpu.Stack.Depth(), STACK_LIMIT)
	})
}
