package cpc

// Indexed (DD/FD) and extended (ED) opcode groups, kept in their own file
// the way the base/CB groups are kept in z80.go: one file per opcode-space
// concern. DD and FD are mirror images of each other over IX/IY, so the FD
// table is a copy of the DD table with its entries re-wired to the IY ops.

func (c *Z80) initDDOps() {
	for i := range c.ddOps {
		c.ddOps[i] = (*Z80).opDDUnimplemented
	}
	c.ddOps[0x21] = (*Z80).opLDIXNN
	c.ddOps[0x22] = (*Z80).opLDNNIX
	c.ddOps[0x2A] = (*Z80).opLDIXNNMem
	c.ddOps[0xE5] = (*Z80).opPUSHIX
	c.ddOps[0xE1] = (*Z80).opPOPIX
	c.ddOps[0xF9] = (*Z80).opLDSPIX
	c.ddOps[0x36] = (*Z80).opLDIXdN
	c.ddOps[0x34] = (*Z80).opINCIXd
	c.ddOps[0x35] = (*Z80).opDECIXd
	c.ddOps[0xE9] = (*Z80).opJPIX
	c.ddOps[0xCB] = (*Z80).opDDCBPrefix
	c.ddOps[0xE3] = (*Z80).opEXSPIX
	c.ddOps[0x09] = (*Z80).opADDIXBC
	c.ddOps[0x19] = (*Z80).opADDIXDE
	c.ddOps[0x29] = (*Z80).opADDIXIX
	c.ddOps[0x39] = (*Z80).opADDIXSP
	c.ddOps[0x23] = (*Z80).opINCIX
	c.ddOps[0x2B] = (*Z80).opDECIX

	// LD r,r' over B/C/D/E/A (H/L fold onto IXH/IXL via opLDRegReg's use of
	// readReg8/writeReg8). The (IX+d) forms at dest==6 or src==6 need a
	// displacement fetch and are wired separately below.
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dest := byte((opcode >> 3) & 0x07)
		src := byte(opcode & 0x07)
		if dest == 6 || src == 6 {
			continue
		}
		c.ddOps[opcode] = func(cpu *Z80) { cpu.opLDRegReg(dest, src) }
	}
	for reg := byte(0); reg <= 7; reg++ {
		if reg == 6 {
			continue
		}
		dest := reg
		src := reg
		c.ddOps[0x70|dest] = func(cpu *Z80) { cpu.opLDIXdReg(src) }
		c.ddOps[0x46|(dest<<3)] = func(cpu *Z80) { cpu.opLDRegIXd(dest) }
	}
	ldImm := map[byte]byte{0x06: 0, 0x0E: 1, 0x16: 2, 0x1E: 3, 0x3E: 7}
	for opcode, reg := range ldImm {
		dest := reg
		c.ddOps[opcode] = func(cpu *Z80) { cpu.opLDRegImm(dest) }
	}
	aluGroups := []struct {
		lo, hi byte
		op     aluOp
	}{
		{0x80, 0x87, aluAdd}, {0x88, 0x8F, aluAdc}, {0x90, 0x97, aluSub}, {0x98, 0x9F, aluSbc},
		{0xA0, 0xA7, aluAnd}, {0xA8, 0xAF, aluXor}, {0xB0, 0xB7, aluOr}, {0xB8, 0xBF, aluCp},
	}
	for _, g := range aluGroups {
		op := g.op
		for opcode := int(g.lo); opcode <= int(g.hi); opcode++ {
			src := byte(opcode & 0x07)
			if src == 6 {
				c.ddOps[opcode] = func(cpu *Z80) { cpu.opALUIXd(op) }
				continue
			}
			c.ddOps[opcode] = func(cpu *Z80) { cpu.opALUReg(op, src) }
		}
	}
}

func (c *Z80) initFDOps() {
	for i := 0; i < 256; i++ {
		c.fdOps[i] = c.ddOps[i]
	}
	c.fdOps[0x09] = (*Z80).opADDIYBC
	c.fdOps[0x19] = (*Z80).opADDIYDE
	c.fdOps[0x29] = (*Z80).opADDIYIY
	c.fdOps[0x39] = (*Z80).opADDIYSP
	c.fdOps[0x21] = (*Z80).opLDIYNN
	c.fdOps[0x22] = (*Z80).opLDNNIY
	c.fdOps[0x2A] = (*Z80).opLDIYNNMem
	c.fdOps[0xE5] = (*Z80).opPUSHIY
	c.fdOps[0xE1] = (*Z80).opPOPIY
	c.fdOps[0xF9] = (*Z80).opLDSPIY
	c.fdOps[0x36] = (*Z80).opLDIYdN
	c.fdOps[0x34] = (*Z80).opINCIYd
	c.fdOps[0x35] = (*Z80).opDECIYd
	c.fdOps[0xE9] = (*Z80).opJPIY
	c.fdOps[0xCB] = (*Z80).opFDCBPrefix
	c.fdOps[0xE3] = (*Z80).opEXSPIY
	c.fdOps[0x23] = (*Z80).opINCIY
	c.fdOps[0x2B] = (*Z80).opDECIY

	// The copied table still points the (IX+d) load/store/ALU closures at
	// IX; re-wire them onto the IY-shaped equivalents.
	for reg := byte(0); reg <= 7; reg++ {
		if reg == 6 {
			continue
		}
		dest := reg
		src := reg
		c.fdOps[0x70|dest] = func(cpu *Z80) { cpu.opLDIYdReg(src) }
		c.fdOps[0x46|(dest<<3)] = func(cpu *Z80) { cpu.opLDRegIYd(dest) }
	}
	aluGroups := []struct {
		lo byte
		op aluOp
	}{
		{0x80, aluAdd}, {0x88, aluAdc}, {0x90, aluSub}, {0x98, aluSbc},
		{0xA0, aluAnd}, {0xA8, aluXor}, {0xB0, aluOr}, {0xB8, aluCp},
	}
	for _, g := range aluGroups {
		op := g.op
		c.fdOps[g.lo+6] = func(cpu *Z80) { cpu.opALUIYd(op) }
	}
}

func (c *Z80) opDDUnimplemented() { c.tick(4) }
func (c *Z80) opFDUnimplemented() { c.tick(4) }

func (c *Z80) opLDIXNN()    { c.IX = c.fetchWord(); c.tick(14) }
func (c *Z80) opLDIYNN()    { c.IY = c.fetchWord(); c.tick(14) }
func (c *Z80) opLDSPIX()    { c.SP = c.IX; c.tick(10) }
func (c *Z80) opLDSPIY()    { c.SP = c.IY; c.tick(10) }
func (c *Z80) opPUSHIX()    { c.pushWord(c.IX); c.tick(15) }
func (c *Z80) opPUSHIY()    { c.pushWord(c.IY); c.tick(15) }
func (c *Z80) opPOPIX()     { c.IX = c.popWord(); c.tick(14) }
func (c *Z80) opPOPIY()     { c.IY = c.popWord(); c.tick(14) }
func (c *Z80) opJPIX()      { c.PC = c.IX; c.tick(8) }
func (c *Z80) opJPIY()      { c.PC = c.IY; c.tick(8) }
func (c *Z80) opINCIX()     { c.IX++; c.tick(10) }
func (c *Z80) opINCIY()     { c.IY++; c.tick(10) }
func (c *Z80) opDECIX()     { c.IX--; c.tick(10) }
func (c *Z80) opDECIY()     { c.IY--; c.tick(10) }
func (c *Z80) opADDIXBC()   { c.addIX(c.BC()); c.tick(15) }
func (c *Z80) opADDIXDE()   { c.addIX(c.DE()); c.tick(15) }
func (c *Z80) opADDIXIX()   { c.addIX(c.IX); c.tick(15) }
func (c *Z80) opADDIXSP()   { c.addIX(c.SP); c.tick(15) }
func (c *Z80) opADDIYBC()   { c.addIY(c.BC()); c.tick(15) }
func (c *Z80) opADDIYDE()   { c.addIY(c.DE()); c.tick(15) }
func (c *Z80) opADDIYIY()   { c.addIY(c.IY); c.tick(15) }
func (c *Z80) opADDIYSP()   { c.addIY(c.SP); c.tick(15) }

func (c *Z80) opLDNNIX() {
	addr := c.fetchWord()
	c.write(addr, byte(c.IX))
	c.write(addr+1, byte(c.IX>>8))
	c.tick(20)
}

func (c *Z80) opLDNNIY() {
	addr := c.fetchWord()
	c.write(addr, byte(c.IY))
	c.write(addr+1, byte(c.IY>>8))
	c.tick(20)
}

func (c *Z80) opLDIXNNMem() {
	addr := c.fetchWord()
	c.IX = uint16(c.read(addr+1))<<8 | uint16(c.read(addr))
	c.tick(20)
}

func (c *Z80) opLDIYNNMem() {
	addr := c.fetchWord()
	c.IY = uint16(c.read(addr+1))<<8 | uint16(c.read(addr))
	c.tick(20)
}

func (c *Z80) opLDIXdN() {
	disp := int8(c.fetchByte())
	value := c.fetchByte()
	c.write(uint16(int32(c.IX)+int32(disp)), value)
	c.tick(19)
}

func (c *Z80) opLDIYdN() {
	disp := int8(c.fetchByte())
	value := c.fetchByte()
	c.write(uint16(int32(c.IY)+int32(disp)), value)
	c.tick(19)
}

func (c *Z80) opINCIXd() {
	addr := uint16(int32(c.IX) + int32(int8(c.fetchByte())))
	c.write(addr, c.inc8(c.read(addr)))
	c.tick(23)
}

func (c *Z80) opINCIYd() {
	addr := uint16(int32(c.IY) + int32(int8(c.fetchByte())))
	c.write(addr, c.inc8(c.read(addr)))
	c.tick(23)
}

func (c *Z80) opDECIXd() {
	addr := uint16(int32(c.IX) + int32(int8(c.fetchByte())))
	c.write(addr, c.dec8(c.read(addr)))
	c.tick(23)
}

func (c *Z80) opDECIYd() {
	addr := uint16(int32(c.IY) + int32(int8(c.fetchByte())))
	c.write(addr, c.dec8(c.read(addr)))
	c.tick(23)
}

func (c *Z80) opEXSPIX() {
	low := c.read(c.SP)
	high := c.read(c.SP + 1)
	c.write(c.SP, byte(c.IX))
	c.write(c.SP+1, byte(c.IX>>8))
	c.IX = uint16(high)<<8 | uint16(low)
	c.tick(23)
}

func (c *Z80) opEXSPIY() {
	low := c.read(c.SP)
	high := c.read(c.SP + 1)
	c.write(c.SP, byte(c.IY))
	c.write(c.SP+1, byte(c.IY>>8))
	c.IY = uint16(high)<<8 | uint16(low)
	c.tick(23)
}

// opDDCBPrefix/opFDCBPrefix handle the DD/FD CB d op encoding: displacement
// byte first, then the CB-space opcode, always against (IX+d)/(IY+d).
func (c *Z80) opDDCBPrefix() {
	disp := int8(c.fetchByte())
	opcode := c.fetchByte()
	c.cbOpsIndexed(uint16(int32(c.IX)+int32(disp)), opcode)
}

func (c *Z80) opFDCBPrefix() {
	disp := int8(c.fetchByte())
	opcode := c.fetchByte()
	c.cbOpsIndexed(uint16(int32(c.IY)+int32(disp)), opcode)
}

func (c *Z80) cbOpsIndexed(addr uint16, opcode byte) {
	group := opcode >> 6
	switch group {
	case 0:
		c.cbIndexedRotateShift(addr, opcode)
	case 1:
		c.cbIndexedBIT(addr, opcode)
	case 2:
		c.cbIndexedRES(addr, opcode)
	case 3:
		c.cbIndexedSET(addr, opcode)
	}
}

func (c *Z80) cbIndexedRotateShift(addr uint16, opcode byte) {
	value := c.read(addr)
	rotGroup := (opcode >> 3) & 0x07
	var res byte
	var carry bool
	switch rotGroup {
	case 0:
		carry = value&0x80 != 0
		res = value<<1 | value>>7
	case 1:
		carry = value&0x01 != 0
		res = value>>1 | value<<7
	case 2:
		res, carry = c.rotate8Left(value, c.Flag(z80FlagC))
	case 3:
		res, carry = c.rotate8Right(value, c.Flag(z80FlagC))
	case 4:
		res, carry = c.shiftLeftArithmetic(value)
	case 5:
		res, carry = c.shiftRightArithmetic(value)
	case 6:
		res, carry = c.shiftLeftArithmetic(value)
		res |= 0x01
	case 7:
		res, carry = c.shiftRightLogical(value)
	}
	c.write(addr, res)
	c.F &^= z80FlagN | z80FlagH | z80FlagC
	if carry {
		c.F |= z80FlagC
	}
	c.setSZPFlags(res)
	c.tick(23)
}

func (c *Z80) cbIndexedBIT(addr uint16, opcode byte) {
	bit := (opcode >> 3) & 0x07
	value := c.read(addr)
	mask := byte(1 << bit)
	c.F &^= z80FlagN | z80FlagZ | z80FlagS | z80FlagPV | z80FlagX | z80FlagY
	c.F |= z80FlagH
	if value&mask == 0 {
		c.F |= z80FlagZ | z80FlagPV
	}
	if bit == 7 && value&mask != 0 {
		c.F |= z80FlagS
	}
	c.F |= byte(addr>>8) & (z80FlagX | z80FlagY)
	c.tick(20)
}

func (c *Z80) cbIndexedRES(addr uint16, opcode byte) {
	bit := (opcode >> 3) & 0x07
	value := c.read(addr)
	c.write(addr, value&^(1<<bit))
	c.tick(23)
}

func (c *Z80) cbIndexedSET(addr uint16, opcode byte) {
	bit := (opcode >> 3) & 0x07
	value := c.read(addr)
	c.write(addr, value|(1<<bit))
	c.tick(23)
}

func (c *Z80) opLDRegIXd(dest byte) {
	disp := int8(c.fetchByte())
	c.writeReg8Plain(dest, c.read(uint16(int32(c.IX)+int32(disp))))
	c.tick(19)
}

func (c *Z80) opLDIXdReg(src byte) {
	disp := int8(c.fetchByte())
	c.write(uint16(int32(c.IX)+int32(disp)), c.readReg8Plain(src))
	c.tick(19)
}

func (c *Z80) opALUIXd(op aluOp) {
	disp := int8(c.fetchByte())
	c.performALU(op, c.read(uint16(int32(c.IX)+int32(disp))))
	c.tick(19)
}

func (c *Z80) opLDRegIYd(dest byte) {
	disp := int8(c.fetchByte())
	c.writeReg8Plain(dest, c.read(uint16(int32(c.IY)+int32(disp))))
	c.tick(19)
}

func (c *Z80) opLDIYdReg(src byte) {
	disp := int8(c.fetchByte())
	c.write(uint16(int32(c.IY)+int32(disp)), c.readReg8Plain(src))
	c.tick(19)
}

func (c *Z80) opALUIYd(op aluOp) {
	disp := int8(c.fetchByte())
	c.performALU(op, c.read(uint16(int32(c.IY)+int32(disp))))
	c.tick(19)
}

// readReg8Plain/writeReg8Plain always mean B,C,D,E,H,L,(HL),A literally,
// used by the (IX+d)/(IY+d) load forms where the *other* operand is a plain
// register never subject to the HL->index-register substitution.
func (c *Z80) readReg8Plain(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read(c.HL())
	case 7:
		return c.A
	default:
		return 0
	}
}

func (c *Z80) writeReg8Plain(code byte, value byte) {
	switch code {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		c.H = value
	case 5:
		c.L = value
	case 6:
		c.write(c.HL(), value)
	case 7:
		c.A = value
	}
}

// --- ED-prefixed extended instruction group ---

func (c *Z80) initEDOps() {
	for i := range c.edOps {
		c.edOps[i] = (*Z80).opEDUnimplemented
	}

	c.edOps[0x47] = (*Z80).opLDIA
	c.edOps[0x4F] = (*Z80).opLDRA
	c.edOps[0x57] = (*Z80).opLDAI
	c.edOps[0x5F] = (*Z80).opLDAR
	c.edOps[0x44] = (*Z80).opNEG
	c.edOps[0x4C] = (*Z80).opNEG
	c.edOps[0x54] = (*Z80).opNEG
	c.edOps[0x5C] = (*Z80).opNEG
	c.edOps[0x64] = (*Z80).opNEG
	c.edOps[0x6C] = (*Z80).opNEG
	c.edOps[0x74] = (*Z80).opNEG
	c.edOps[0x7C] = (*Z80).opNEG
	c.edOps[0x46] = (*Z80).opIM0
	c.edOps[0x4E] = (*Z80).opIM0
	c.edOps[0x56] = (*Z80).opIM1
	c.edOps[0x66] = (*Z80).opIM0
	c.edOps[0x5E] = (*Z80).opIM2
	c.edOps[0x6E] = (*Z80).opIM0
	c.edOps[0x76] = (*Z80).opIM1
	c.edOps[0x7E] = (*Z80).opIM2
	c.edOps[0x45] = (*Z80).opRETN
	c.edOps[0x55] = (*Z80).opRETN
	c.edOps[0x65] = (*Z80).opRETN
	c.edOps[0x75] = (*Z80).opRETN
	c.edOps[0x4D] = (*Z80).opRETI
	c.edOps[0x6F] = (*Z80).opRLD
	c.edOps[0x67] = (*Z80).opRRD

	c.edOps[0xA0] = (*Z80).opLDI
	c.edOps[0xB0] = (*Z80).opLDIR
	c.edOps[0xA8] = (*Z80).opLDD
	c.edOps[0xB8] = (*Z80).opLDDR
	c.edOps[0xA1] = (*Z80).opCPI
	c.edOps[0xB1] = (*Z80).opCPIR
	c.edOps[0xA9] = (*Z80).opCPD
	c.edOps[0xB9] = (*Z80).opCPDR
	c.edOps[0xA2] = (*Z80).opINI
	c.edOps[0xB2] = (*Z80).opINIR
	c.edOps[0xAA] = (*Z80).opIND
	c.edOps[0xBA] = (*Z80).opINDR
	c.edOps[0xA3] = (*Z80).opOUTI
	c.edOps[0xB3] = (*Z80).opOTIR
	c.edOps[0xAB] = (*Z80).opOUTD
	c.edOps[0xBB] = (*Z80).opOTDR

	c.edOps[0x43] = (*Z80).opLDNNBC
	c.edOps[0x4B] = (*Z80).opLDBCNNED
	c.edOps[0x53] = (*Z80).opLDNNDE
	c.edOps[0x5B] = (*Z80).opLDDENNED
	c.edOps[0x63] = (*Z80).opLDNNHLed
	c.edOps[0x6B] = (*Z80).opLDHLNNed
	c.edOps[0x73] = (*Z80).opLDNNSP
	c.edOps[0x7B] = (*Z80).opLDSPNNED

	c.edOps[0x4A] = (*Z80).opADCHLBC
	c.edOps[0x5A] = (*Z80).opADCHLDE
	c.edOps[0x6A] = (*Z80).opADCHLHL
	c.edOps[0x7A] = (*Z80).opADCHLSP
	c.edOps[0x42] = (*Z80).opSBCHLBC
	c.edOps[0x52] = (*Z80).opSBCHLDE
	c.edOps[0x62] = (*Z80).opSBCHLHL
	c.edOps[0x72] = (*Z80).opSBCHLSP

	inOps := map[byte]byte{0x40: 0, 0x48: 1, 0x50: 2, 0x58: 3, 0x60: 4, 0x68: 5, 0x78: 7}
	for opcode, reg := range inOps {
		dest := reg
		c.edOps[opcode] = func(cpu *Z80) { cpu.opINRegC(dest) }
	}
	c.edOps[0x70] = (*Z80).opINFC
	outOps := map[byte]byte{0x41: 0, 0x49: 1, 0x51: 2, 0x59: 3, 0x61: 4, 0x69: 5, 0x79: 7}
	for opcode, reg := range outOps {
		src := reg
		c.edOps[opcode] = func(cpu *Z80) { cpu.opOUTCReg(src) }
	}
	c.edOps[0x71] = (*Z80).opOUTC0
}

func (c *Z80) opEDUnimplemented() { c.tick(8) }

func (c *Z80) opLDIA() { c.I = c.A; c.tick(9) }
func (c *Z80) opLDRA() { c.R = c.A; c.tick(9) }

func (c *Z80) opLDAI() {
	c.A = c.I
	c.updateLDAIRFlags()
	c.tick(9)
}

func (c *Z80) opLDAR() {
	c.A = c.R
	c.updateLDAIRFlags()
	c.tick(9)
}

func (c *Z80) updateLDAIRFlags() {
	carry := c.F & z80FlagC
	c.F = carry
	if c.A == 0 {
		c.F |= z80FlagZ
	}
	if c.A&0x80 != 0 {
		c.F |= z80FlagS
	}
	if c.IFF2 {
		c.F |= z80FlagPV
	}
	c.F |= c.A & (z80FlagX | z80FlagY)
}

func (c *Z80) opNEG() {
	value := c.A
	c.A = 0
	c.subA(value, 0, true)
	c.tick(8)
}

func (c *Z80) opIM0() { c.IM = 0; c.tick(8) }
func (c *Z80) opIM1() { c.IM = 1; c.tick(8) }
func (c *Z80) opIM2() { c.IM = 2; c.tick(8) }

func (c *Z80) opRETN() {
	c.PC = c.popWord()
	c.IFF1 = c.IFF2
	c.tick(14)
}

func (c *Z80) opRETI() {
	c.PC = c.popWord()
	c.IFF1 = c.IFF2
	c.tick(14)
}

func (c *Z80) opRRD() {
	addr := c.HL()
	mem := c.read(addr)
	res := (c.A&0x0F)<<4 | (mem >> 4)
	c.A = (c.A & 0xF0) | (mem & 0x0F)
	c.write(addr, res)
	c.updateAParityFlagsPreserveCarry()
	c.tick(18)
}

func (c *Z80) opRLD() {
	addr := c.HL()
	mem := c.read(addr)
	res := mem<<4 | (c.A & 0x0F)
	c.A = (c.A & 0xF0) | (mem >> 4)
	c.write(addr, res)
	c.updateAParityFlagsPreserveCarry()
	c.tick(18)
}

func (c *Z80) updateAParityFlagsPreserveCarry() {
	carry := c.F & z80FlagC
	value := c.A
	c.F = carry
	if value == 0 {
		c.F |= z80FlagZ
	}
	if value&0x80 != 0 {
		c.F |= z80FlagS
	}
	if parity8(value) {
		c.F |= z80FlagPV
	}
	c.F |= value & (z80FlagX | z80FlagY)
}

func (c *Z80) updateLDIFlags(value byte, bc uint16) {
	c.F &^= z80FlagN | z80FlagH | z80FlagPV | z80FlagX | z80FlagY
	if bc != 0 {
		c.F |= z80FlagPV
	}
	n := value + c.A
	c.F |= n & z80FlagX
	if n&0x02 != 0 {
		c.F |= z80FlagY
	}
}

func (c *Z80) opLDI() {
	value := c.read(c.HL())
	c.write(c.DE(), value)
	c.SetHL(c.HL() + 1)
	c.SetDE(c.DE() + 1)
	c.SetBC(c.BC() - 1)
	c.updateLDIFlags(value, c.BC())
	c.tick(16)
}

func (c *Z80) opLDIR() {
	c.opLDI()
	if c.BC() != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *Z80) opLDD() {
	value := c.read(c.HL())
	c.write(c.DE(), value)
	c.SetHL(c.HL() - 1)
	c.SetDE(c.DE() - 1)
	c.SetBC(c.BC() - 1)
	c.updateLDIFlags(value, c.BC())
	c.tick(16)
}

func (c *Z80) opLDDR() {
	c.opLDD()
	if c.BC() != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *Z80) updateBlockCPFlags(value byte) {
	a := c.A
	res := a - value
	c.F = (c.F & z80FlagC) | z80FlagN
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if int(a&0x0F)-int(value&0x0F) < 0 {
		c.F |= z80FlagH
	}
	if c.BC() != 0 {
		c.F |= z80FlagPV
	}
	n := res
	if c.F&z80FlagH != 0 {
		n--
	}
	c.F |= n & z80FlagX
	if n&0x02 != 0 {
		c.F |= z80FlagY
	}
}

func (c *Z80) opCPI() {
	value := c.read(c.HL())
	c.SetHL(c.HL() + 1)
	c.SetBC(c.BC() - 1)
	c.updateBlockCPFlags(value)
	c.tick(16)
}

func (c *Z80) opCPIR() {
	c.opCPI()
	if c.BC() != 0 && c.F&z80FlagZ == 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *Z80) opCPD() {
	value := c.read(c.HL())
	c.SetHL(c.HL() - 1)
	c.SetBC(c.BC() - 1)
	c.updateBlockCPFlags(value)
	c.tick(16)
}

func (c *Z80) opCPDR() {
	c.opCPD()
	if c.BC() != 0 && c.F&z80FlagZ == 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *Z80) updateBlockIOFlags(value byte) {
	c.F &^= z80FlagZ
	if c.B == 0 {
		c.F |= z80FlagZ
	}
	c.F |= z80FlagN
}

func (c *Z80) opINI() {
	value := c.in(c.BC())
	c.write(c.HL(), value)
	c.B--
	c.SetHL(c.HL() + 1)
	c.updateBlockIOFlags(value)
	c.tick(16)
}

func (c *Z80) opINIR() {
	c.opINI()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *Z80) opIND() {
	value := c.in(c.BC())
	c.write(c.HL(), value)
	c.B--
	c.SetHL(c.HL() - 1)
	c.updateBlockIOFlags(value)
	c.tick(16)
}

func (c *Z80) opINDR() {
	c.opIND()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *Z80) opOUTI() {
	value := c.read(c.HL())
	c.B--
	c.out(c.BC(), value)
	c.SetHL(c.HL() + 1)
	c.updateBlockIOFlags(value)
	c.tick(16)
}

func (c *Z80) opOTIR() {
	c.opOUTI()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *Z80) opOUTD() {
	value := c.read(c.HL())
	c.B--
	c.out(c.BC(), value)
	c.SetHL(c.HL() - 1)
	c.updateBlockIOFlags(value)
	c.tick(16)
}

func (c *Z80) opOTDR() {
	c.opOUTD()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *Z80) opLDNNBC() {
	addr := c.fetchWord()
	c.write(addr, c.C)
	c.write(addr+1, c.B)
	c.tick(20)
}

func (c *Z80) opLDBCNNED() {
	addr := c.fetchWord()
	c.C = c.read(addr)
	c.B = c.read(addr + 1)
	c.tick(20)
}

func (c *Z80) opLDNNDE() {
	addr := c.fetchWord()
	c.write(addr, c.E)
	c.write(addr+1, c.D)
	c.tick(20)
}

func (c *Z80) opLDDENNED() {
	addr := c.fetchWord()
	c.E = c.read(addr)
	c.D = c.read(addr + 1)
	c.tick(20)
}

func (c *Z80) opLDNNHLed() {
	addr := c.fetchWord()
	c.write(addr, c.L)
	c.write(addr+1, c.H)
	c.tick(20)
}

func (c *Z80) opLDHLNNed() {
	addr := c.fetchWord()
	c.L = c.read(addr)
	c.H = c.read(addr + 1)
	c.tick(20)
}

func (c *Z80) opLDNNSP() {
	addr := c.fetchWord()
	c.write(addr, byte(c.SP))
	c.write(addr+1, byte(c.SP>>8))
	c.tick(20)
}

func (c *Z80) opLDSPNNED() {
	addr := c.fetchWord()
	c.SP = uint16(c.read(addr+1))<<8 | uint16(c.read(addr))
	c.tick(20)
}

func (c *Z80) opADCHLBC() { c.adcHL(c.BC()); c.tick(15) }
func (c *Z80) opADCHLDE() { c.adcHL(c.DE()); c.tick(15) }
func (c *Z80) opADCHLHL() { c.adcHL(c.HL()); c.tick(15) }
func (c *Z80) opADCHLSP() { c.adcHL(c.SP); c.tick(15) }
func (c *Z80) opSBCHLBC() { c.sbcHL(c.BC()); c.tick(15) }
func (c *Z80) opSBCHLDE() { c.sbcHL(c.DE()); c.tick(15) }
func (c *Z80) opSBCHLHL() { c.sbcHL(c.HL()); c.tick(15) }
func (c *Z80) opSBCHLSP() { c.sbcHL(c.SP); c.tick(15) }

func (c *Z80) opINRegC(dest byte) {
	value := c.in(c.BC())
	c.writeReg8Plain(dest, value)
	c.updateInFlags(value)
	c.tick(12)
}

func (c *Z80) opINFC() {
	value := c.in(c.BC())
	c.updateInFlags(value)
	c.tick(12)
}

func (c *Z80) updateInFlags(value byte) {
	carry := c.F & z80FlagC
	c.F = carry
	c.setSZPFlags(value)
}

func (c *Z80) opOUTCReg(src byte) {
	c.out(c.BC(), c.readReg8Plain(src))
	c.tick(12)
}

func (c *Z80) opOUTC0() {
	c.out(c.BC(), 0)
	c.tick(12)
}
