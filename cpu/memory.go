package cpu

const (
	MEMORY_SIZE   = 0x1000 // Addressable bytes.
	PROGRAM_START = 0x200  // Load address of programs.
	PROGRAM_LIMIT = MEMORY_SIZE - PROGRAM_START
	FONT_ADDR     = 0x050 // Address of the built-in hex digit sprites.
	FONT_HEIGHT   = 5     // Rows per hex digit sprite.
)

// font is the 4x5 sprite for each hex digit, 0 through F.
var font = [16 * FONT_HEIGHT]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat byte-addressable store for code and data.
type Memory [MEMORY_SIZE]byte

// check validates an access of size bytes at addr.
func (mem *Memory) check(addr int, size int) (err error) {
	if addr < 0 || size < 0 || addr+size > len(mem) {
		err = ErrMemoryAccess{Addr: addr, Size: size}
	}
	return
}

// Read returns a view of size bytes at addr.
func (mem *Memory) Read(addr int, size int) (data []byte, err error) {
	err = mem.check(addr, size)
	if err != nil {
		return
	}

	data = mem[addr : addr+size]
	return
}

// Write copies data to memory at addr. Nothing is written if any byte
// would fall out of bounds.
func (mem *Memory) Write(addr int, data []byte) (err error) {
	err = mem.check(addr, len(data))
	if err != nil {
		return
	}

	copy(mem[addr:], data)
	return
}

// Word reads the big-endian instruction word at addr.
func (mem *Memory) Word(addr int) (word uint16, err error) {
	data, err := mem.Read(addr, 2)
	if err != nil {
		return
	}

	word = (uint16(data[0]) << 8) | uint16(data[1])
	return
}

// Reset clears memory and installs the font sprites.
func (mem *Memory) Reset() {
	clear(mem[:])
	copy(mem[FONT_ADDR:], font[:])
}

// FontAddr is the address of the sprite for the hex digit in the low
// nibble of digit.
func FontAddr(digit uint8) uint16 {
	return FONT_ADDR + uint16(digit&0xf)*FONT_HEIGHT
}
