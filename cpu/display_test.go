package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay_Draw(t *testing.T) {
	assert := assert.New(t)

	var d Display
	assert.False(d.Redraw())

	collision := d.Draw(0, 0, []byte{0b1010_0000})
	assert.False(collision)
	assert.True(d.Redraw())
	assert.False(d.Redraw())
	assert.True(d.Pixel(0, 0))
	assert.False(d.Pixel(1, 0))
	assert.True(d.Pixel(2, 0))

	// Overlapping only an unset pixel is not a collision.
	collision = d.Draw(1, 0, []byte{0b1000_0000})
	assert.False(collision)
	assert.True(d.Pixel(1, 0))

	collision = d.Draw(0, 0, []byte{0b1000_0000})
	assert.True(collision)
	assert.False(d.Pixel(0, 0))
	assert.True(d.Pixel(1, 0))

	// An empty sprite still requests a redraw.
	d.Redraw()
	assert.False(d.Draw(5, 5, nil))
	assert.True(d.Redraw())
}

func TestDisplay_Clear(t *testing.T) {
	assert := assert.New(t)

	var d Display
	d.Draw(60, 30, []byte{0xff, 0xff, 0xff})
	d.Redraw()

	d.Clear()
	assert.True(d.Redraw())
	assert.Equal([SCREEN_HEIGHT][SCREEN_WIDTH]bool{}, d.Pixels())
}

func TestDisplay_String(t *testing.T) {
	assert := assert.New(t)

	var d Display
	d.Draw(SCREEN_WIDTH-1, SCREEN_HEIGHT-1, []byte{0xc0})

	lines := strings.Split(d.String(), "\n")
	assert.Equal(SCREEN_HEIGHT+1, len(lines))
	assert.Equal("", lines[SCREEN_HEIGHT])
	assert.Equal("#"+strings.Repeat(".", SCREEN_WIDTH-2)+"#", lines[SCREEN_HEIGHT-1])
	assert.Equal(strings.Repeat(".", SCREEN_WIDTH), lines[0])
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	mem.Reset()
	assert.Equal(byte(0xF0), mem[FONT_ADDR])
	assert.Equal(byte(0x80), mem[FontAddr(0xf)+4])
	assert.Equal(uint16(FONT_ADDR+5*0xa), FontAddr(0x3a))

	err := mem.Write(0xffe, []byte{0x12, 0x34})
	assert.NoError(err)
	word, err := mem.Word(0xffe)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), word)

	err = mem.Write(0xfff, []byte{0x56, 0x78})
	assert.ErrorIs(err, ErrMemoryAccess{})
	assert.Equal(byte(0x34), mem[0xfff])

	_, err = mem.Read(-1, 1)
	assert.ErrorIs(err, ErrMemoryAccess{})
	data, err := mem.Read(MEMORY_SIZE, 0)
	assert.NoError(err)
	assert.Empty(data)

	_, err = mem.Word(MEMORY_SIZE - 1)
	assert.ErrorIs(err, ErrMemoryAccess{})
}

func TestKeypad(t *testing.T) {
	assert := assert.New(t)

	var kp Keypad
	assert.True(kp.Set(3, true))
	assert.False(kp.Set(3, true))
	assert.True(kp.Pressed(3))
	assert.True(kp.Pressed(0xf3))
	assert.False(kp.Set(3, false))
	assert.False(kp.Pressed(3))
}

func TestTimer(t *testing.T) {
	assert := assert.New(t)

	timer := Timer(2)
	assert.True(timer.Active())
	timer.Tick()
	timer.Tick()
	assert.False(timer.Active())
	timer.Tick()
	assert.Equal(Timer(0), timer)
}
