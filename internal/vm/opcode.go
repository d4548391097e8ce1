package vm

// OpCode is a single bytecode instruction. The mnemonic set mirrors the
// engine's native instruction table; each opcode's operand width is
// looked up in widthTable rather than encoded in the opcode value itself
// (spec §4.C: "instructions are variable-width, selected by opcode").
type OpCode byte

const (
	OpNOP OpCode = iota

	// Stack / constant loading
	OpPSHN // push nil
	OpPSHC // push constant [idx]
	OpDUP  // duplicate top
	OpPOP  // discard top
	OpPOPC // pop and discard N
	OpPLT  // pop, push literal tuple built from top N

	// Name / scope resolution
	OpLDLC    // load local [idx]
	OpSTLC    // store local [idx]
	OpLDGBL   // load global [idx]
	OpSTGBL   // store global [idx]
	OpLDENC   // load enclosed (closure) [idx]
	OpSTENC   // store enclosed [idx]
	OpLDSCOPE // load from lexical scope chain [idx]
	OpSTSCOPE // store into lexical scope chain [idx]
	OpLDATTR  // pop obj; push obj.attr [idx into literals]
	OpSTATTR  // pop obj, val; obj.attr = val
	OpLDMETH  // pop obj; push bound method [idx]
	OpLSTATIC // load static member [idx]
	OpNGV     // resolve name as a new global (declaration)

	// Arithmetic / bitwise
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpIDIV
	OpMOD
	OpSHL
	OpSHR
	OpLAND
	OpLOR
	OpLXOR
	OpNEG
	OpPOS
	OpINV
	OpNOT
	OpINC   // pop a; push a+1 (post-construction of the ++ expression form)
	OpDEC   // pop a; push a-1
	OpIPADD // in-place add; pushes result, may mutate receiver
	OpIPSUB // in-place sub

	// Comparison / test
	OpCMP  // pop b, a; push compare(a, b, mode) [mode operand]
	OpEQST // identity-equal (is) test
	OpTEST // truthiness test without popping (used before JF/JT)

	// Control flow
	OpJMP  // unconditional jump [offset]
	OpJT   // pop; jump if truthy [offset]
	OpJF   // pop; jump if falsy [offset]
	OpJTOP // jump if truthy, else pop [offset] (short-circuit OR)
	OpJFOP // jump if falsy, else pop [offset] (short-circuit AND)
	OpJNIL // jump if top is nil, without popping [offset]
	OpJNN  // jump if top is not nil, without popping [offset]
	OpJEX  // unconditional jump [offset]; no iterator or handler state is tested

	// Calls / returns
	OpCALL // pop callee + N args; push result
	OpMTH  // call bound method [argc]
	OpRET  // pop value; return it from current frame

	// Composite construction
	OpMKLT     // build list from top N
	OpMKTP     // build tuple from top N
	OpMKDT     // build dict/map from top N pairs
	OpMKST     // build set from top N
	OpMKBND    // build Bounds from top 2 (start, stop)
	OpMKFN     // build closure [hi16: Code literal index, lo16: enclosed value count] from Code constant + N popped enclosed values
	OpMKTRAIT  // build trait/interface type [hi16: base count] from name + N base types
	OpMKSTRUCT // build struct/record type [hi16: base count, lo16: field count] from name + bases + field names
	OpUNPACK   // destructure top list into N stack values (multiple-assignment)
	OpEXTD     // extend top sequence with N more values (spread)

	// Iteration
	OpLDITER // pop iterable; push iterator
	OpNXT    // push next value above the iterator, or pop the iterator and jump [offset] on exhaustion

	// Subscripting
	OpSUBSCR   // pop key, obj; push obj[key]
	OpSTSUBSCR // pop obj, key, val; obj[key] = val, dispatching set_item/set_slice by key type
	OpST       // arm a trap (try) block [handler offset], recording the operand-stack depth; no panic-chain baseline is kept

	// Panic / trap / defer
	OpPANIC // pop error; begin unwind
	OpTRAP  // disarm the innermost trap, materializing Result(value, error) on the stack
	OpDFR   // register top-of-stack callable as a deferred call

	// Generators / async
	OpYLD   // yield current value, suspend frame, resume on next NXT
	OpSPW   // spawn a new fiber running top callable; push future
	OpAWAIT // pop future; block fiber until resolved, push result

	// Synchronization
	OpSYNC   // pop monitor object; no monitor is acquired
	OpUNSYNC // no-op release counterpart of SYNC; pops nothing

	// Imports
	OpIMPMOD // import a module by name constant [idx]
	OpIMPFRM // import named symbols from a module
	OpIMPALL // import all exported symbols from a module

	// Misc
	OpINIT    // pop kwargs map and type; push a bare instance with the kwargs set as attributes (no constructor runs)
	OpCNT     // dispatch item_in / item_not_in membership test [mode: 0=in, 1=not in]
	OpDTMERGE // merge top dict into the one below it
	OpTSTORE  // store a value into task-local storage
	OpGETTOP  // duplicate arbitrary stack depth reference (debug/inspection aid)

	opCodeCount
)

var opcodeNames = [...]string{
	OpNOP: "NOP", OpPSHN: "PSHN", OpPSHC: "PSHC", OpDUP: "DUP", OpPOP: "POP",
	OpPOPC: "POPC", OpPLT: "PLT", OpLDLC: "LDLC", OpSTLC: "STLC",
	OpLDGBL: "LDGBL", OpSTGBL: "STGBL", OpLDENC: "LDENC", OpSTENC: "STENC",
	OpLDSCOPE: "LDSCOPE", OpSTSCOPE: "STSCOPE", OpLDATTR: "LDATTR",
	OpSTATTR: "STATTR", OpLDMETH: "LDMETH", OpLSTATIC: "LSTATIC", OpNGV: "NGV",
	OpADD: "ADD", OpSUB: "SUB", OpMUL: "MUL", OpDIV: "DIV", OpIDIV: "IDIV",
	OpMOD: "MOD", OpSHL: "SHL", OpSHR: "SHR", OpLAND: "LAND", OpLOR: "LOR",
	OpLXOR: "LXOR", OpNEG: "NEG", OpPOS: "POS", OpINV: "INV", OpNOT: "NOT",
	OpINC: "INC", OpDEC: "DEC", OpIPADD: "IPADD", OpIPSUB: "IPSUB",
	OpCMP: "CMP", OpEQST: "EQST", OpTEST: "TEST",
	OpJMP: "JMP", OpJT: "JT", OpJF: "JF", OpJTOP: "JTOP", OpJFOP: "JFOP",
	OpJNIL: "JNIL", OpJNN: "JNN", OpJEX: "JEX",
	OpCALL: "CALL", OpMTH: "MTH", OpRET: "RET",
	OpMKLT: "MKLT", OpMKTP: "MKTP", OpMKDT: "MKDT", OpMKST: "MKST",
	OpMKBND: "MKBND", OpMKFN: "MKFN", OpMKTRAIT: "MKTRAIT",
	OpMKSTRUCT: "MKSTRUCT", OpUNPACK: "UNPACK", OpEXTD: "EXTD",
	OpLDITER: "LDITER", OpNXT: "NXT",
	OpSUBSCR: "SUBSCR", OpSTSUBSCR: "STSUBSCR", OpST: "ST",
	OpPANIC: "PANIC", OpTRAP: "TRAP", OpDFR: "DFR",
	OpYLD: "YLD", OpSPW: "SPW", OpAWAIT: "AWAIT",
	OpSYNC: "SYNC", OpUNSYNC: "UNSYNC",
	OpIMPMOD: "IMPMOD", OpIMPFRM: "IMPFRM", OpIMPALL: "IMPALL",
	OpINIT: "INIT", OpCNT: "CNT", OpDTMERGE: "DTMERGE", OpTSTORE: "TSTORE",
	OpGETTOP: "GETTOP",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}

// OperandWidth is how many bytes of immediate operand follow an opcode.
type OperandWidth int

const (
	Width0 OperandWidth = 0 // no operand
	Width2 OperandWidth = 2 // one uint16 operand (index/offset)
	Width4 OperandWidth = 4 // two uint16 operands (e.g. MKFN code-literal index + enclosed count)
)

// widthTable maps each opcode to its operand width, mirroring the
// teacher's per-instruction size table used to advance the IP after
// dispatch without re-deriving it from the opcode's semantic group.
var widthTable = map[OpCode]OperandWidth{
	OpNOP: Width0, OpPSHN: Width0, OpDUP: Width0, OpPOP: Width0,
	OpPSHC: Width2, OpPOPC: Width2, OpPLT: Width2,
	OpLDLC: Width2, OpSTLC: Width2, OpLDGBL: Width2, OpSTGBL: Width2,
	OpLDENC: Width2, OpSTENC: Width2, OpLDSCOPE: Width2, OpSTSCOPE: Width2,
	OpLDATTR: Width2, OpSTATTR: Width2, OpLDMETH: Width2, OpLSTATIC: Width2,
	OpNGV: Width2,
	OpADD: Width0, OpSUB: Width0, OpMUL: Width0, OpDIV: Width0, OpIDIV: Width0,
	OpMOD: Width0, OpSHL: Width0, OpSHR: Width0, OpLAND: Width0, OpLOR: Width0,
	OpLXOR: Width0, OpNEG: Width0, OpPOS: Width0, OpINV: Width0, OpNOT: Width0,
	OpINC: Width0, OpDEC: Width0, OpIPADD: Width0, OpIPSUB: Width0,
	OpCMP: Width2, OpEQST: Width0, OpTEST: Width0,
	OpJMP: Width2, OpJT: Width2, OpJF: Width2, OpJTOP: Width2, OpJFOP: Width2,
	OpJNIL: Width2, OpJNN: Width2, OpJEX: Width2,
	OpCALL: Width2, OpMTH: Width2, OpRET: Width0,
	OpMKLT: Width2, OpMKTP: Width2, OpMKDT: Width2, OpMKST: Width2,
	OpMKBND: Width0, OpMKFN: Width4, OpMKTRAIT: Width4, OpMKSTRUCT: Width4,
	OpUNPACK: Width2, OpEXTD: Width2,
	OpLDITER: Width0, OpNXT: Width2,
	OpSUBSCR: Width0, OpSTSUBSCR: Width0, OpST: Width2,
	OpPANIC: Width0, OpTRAP: Width0, OpDFR: Width0,
	OpYLD: Width0, OpSPW: Width0, OpAWAIT: Width0,
	OpSYNC: Width0, OpUNSYNC: Width0,
	OpIMPMOD: Width2, OpIMPFRM: Width2, OpIMPALL: Width0,
	OpINIT: Width2, OpCNT: Width2, OpDTMERGE: Width0, OpTSTORE: Width0,
	OpGETTOP: Width2,
}

// Width returns how many operand bytes follow op in the instruction stream.
func (op OpCode) Width() OperandWidth {
	return widthTable[op]
}
