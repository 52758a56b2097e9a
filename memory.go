package cpc

// bankSize is the size of one addressable RAM bank / ROM image quadrant.
const bankSize = 0x4000

// maxBanks is the largest bank count any supported model uses (128 KiB
// extended RAM = eight 16 KiB banks).
const maxBanks = 8

// memory owns the machine's RAM banks and the four-entry page table that
// maps each 16 KiB CPU address quadrant onto one of them. ROM overlay for
// quadrants 0 and 3 is controlled by the Gate Array's lowerRom/upperRom
// flags, read directly from the gateArray the memory is wired to.
type memory struct {
	ram  [maxBanks * bankSize]byte
	page [4]uint8 // bank index backing each quadrant

	ga *gateArray
	r  *romSet
}

func newMemory(ga *gateArray, r *romSet) *memory {
	m := &memory{ga: ga, r: r}
	m.reset()
	return m
}

func (m *memory) reset() {
	m.selectRam(0)
}

// setPage points quadrant page at bank, mirroring the original's pointer
// arithmetic (`mem[page] = &ram[bank*0x4000]`) as an index instead.
func (m *memory) setPage(page, bank uint8) {
	m.page[page&3] = bank & (maxBanks - 1)
}

// selectRam implements the 128K paging command decoded from Gate Array
// register-group 0xC0 writes (the low 3 bits of the data byte).
func (m *memory) selectRam(b uint8) {
	switch b & 0x7 {
	case 0:
		m.setPage(0, 0)
		m.setPage(1, 1)
		m.setPage(2, 2)
		m.setPage(3, 3)
	case 1:
		m.setPage(0, 0)
		m.setPage(1, 1)
		m.setPage(2, 2)
		m.setPage(3, 7)
	case 2:
		m.setPage(0, 4)
		m.setPage(1, 5)
		m.setPage(2, 6)
		m.setPage(3, 7)
	case 3:
		m.setPage(0, 0)
		m.setPage(1, 3)
		m.setPage(2, 2)
		m.setPage(3, 7)
	default: // 4..7
		m.setPage(0, 0)
		m.setPage(1, b&0x7)
		m.setPage(2, 2)
		m.setPage(3, 3)
	}
}

// bankOffset returns the RAM slice offset backing quadrant page.
func (m *memory) bankOffset(page uint8) int {
	return int(m.page[page&3]) * bankSize
}

// read implements the spec's memory-read decision: lower quadrant reads
// the firmware lower ROM when lowerRom is set, upper quadrant reads the
// currently selected upper ROM when upperRom is set, otherwise both (and
// the two middle quadrants unconditionally) read paged RAM.
func (m *memory) read(addr uint16) byte {
	area := addr >> 14
	offset := addr & 0x3FFF
	switch area {
	case 0:
		if m.ga.lowerRom {
			return m.r.lowerROM[offset]
		}
	case 3:
		if m.ga.upperRom {
			return m.r.upperROM()[offset]
		}
	}
	return m.ram[m.bankOffset(uint8(area))+int(offset)]
}

// write always targets paged RAM; the ROM overlay never intercepts writes.
func (m *memory) write(addr uint16, value byte) {
	area := uint8(addr >> 14)
	offset := addr & 0x3FFF
	m.ram[m.bankOffset(area)+int(offset)] = value
}

// videoFetch returns the byte the Gate Array's address multiplexer reads
// for the current CRTC byte address, overlaid with the clock sequencer's
// cClk offset bit exactly as the hardware's shared address bus does.
func (m *memory) videoFetch(byteAddress uint16, cClkOffset uint8) byte {
	return m.ram[int(byteAddress|uint16(cClkOffset))&(maxBanks*bankSize-1)]
}
