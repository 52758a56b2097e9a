package cpc

import "testing"

// TestMemorySelectRamBankIsolation is spec scenario 3: writing through one
// bank selection and reading back through another must not alias.
func TestMemorySelectRamBankIsolation(t *testing.T) {
	ga := newGateArray(newCRTC(crtcPreASIC), nil)
	r := newROMSet()
	m := newMemory(ga, r)

	m.selectRam(0xC4) // low 3 bits = 4: page[1] = bank 4
	m.write(0x4000, 0xAA)
	if got := m.read(0x4000); got != 0xAA {
		t.Fatalf("read back 0x%02X, want 0xAA", got)
	}

	m.selectRam(0xC0) // low 3 bits = 0: page[1] = bank 1
	m.write(0x4000, 0xBB)
	if got := m.read(0x4000); got != 0xBB {
		t.Fatalf("read back 0x%02X, want 0xBB", got)
	}

	m.selectRam(0xC4) // back to bank 4
	if got := m.read(0x4000); got != 0xAA {
		t.Fatalf("bank 4 aliased with bank 1: read 0x%02X, want 0xAA", got)
	}
}

func TestMemoryAllSelectRamModes(t *testing.T) {
	ga := newGateArray(newCRTC(crtcPreASIC), nil)
	r := newROMSet()
	m := newMemory(ga, r)

	want := [8][4]uint8{
		0: {0, 1, 2, 3},
		1: {0, 1, 2, 7},
		2: {4, 5, 6, 7},
		3: {0, 3, 2, 7},
		4: {0, 4, 2, 3},
		5: {0, 5, 2, 3},
		6: {0, 6, 2, 3},
		7: {0, 7, 2, 3},
	}

	for b := 0; b < 8; b++ {
		m.selectRam(uint8(b))
		if m.page != want[b] {
			t.Fatalf("selectRam(%d): pages = %v, want %v", b, m.page, want[b])
		}
	}
}

func TestMemoryLowerRomOverlay(t *testing.T) {
	ga := newGateArray(newCRTC(crtcPreASIC), nil)
	r := newROMSet()
	r.lowerROM[0x10] = 0x42
	m := newMemory(ga, r)

	ga.lowerRom = true
	if got := m.read(0x0010); got != 0x42 {
		t.Fatalf("read 0x%02X from lower ROM, want 0x42", got)
	}

	ga.lowerRom = false
	m.write(0x0010, 0x99)
	if got := m.read(0x0010); got != 0x99 {
		t.Fatalf("read 0x%02X from RAM with lowerRom off, want 0x99", got)
	}
}

// TestMemoryRomBankFallback is spec scenario 6: selecting a not-ready
// expansion slot falls back to the on-board upper ROM.
func TestMemoryRomBankFallback(t *testing.T) {
	ga := newGateArray(newCRTC(crtcPreASIC), nil)
	r := newROMSet()
	r.defaultUpper[0x00] = 0x77
	m := newMemory(ga, r)

	ga.upperRom = true
	r.selectROMBank(0x07) // slot 7 (AMSDOS) not ready

	if got := m.read(0xC000); got != 0x77 {
		t.Fatalf("read 0x%02X from upper ROM fallback, want 0x77", got)
	}
}
