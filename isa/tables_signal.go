package isa

// SignalMapEntry is one row of the per-version 32-entry signal table
// the unpacker indexes the 5-bit sig field through. Reserved rows
// exist (index used, no bits set) and must fail rather than silently
// decode to "no signal".
type SignalMapEntry struct {
	Signals  Signals
	Reserved bool
}

// signalMapV33/v40/v41/v71 are the four per-era dense signal tables.
// Real hardware packs combinations of signals into one sig field value
// (e.g. index 7 is THRSW+LDTMU+LDUNIF together), not one bit per
// index, so these are transcribed as full Signals composites rather
// than built from single-bit setters. Index 0 always means "no
// signal" and is never reserved; every other index not given an entry
// here is reserved.
var signalMapV33 = map[uint8]Signals{
	0:  {},
	1:  {ThreadSwitch: true},
	2:  {LoadUnif: true},
	3:  {ThreadSwitch: true, LoadUnif: true},
	4:  {LoadTMU: true},
	5:  {ThreadSwitch: true, LoadTMU: true},
	6:  {LoadTMU: true, LoadUnif: true},
	7:  {ThreadSwitch: true, LoadTMU: true, LoadUnif: true},
	8:  {LoadVary: true},
	9:  {ThreadSwitch: true, LoadVary: true},
	10: {LoadVary: true, LoadUnif: true},
	11: {ThreadSwitch: true, LoadVary: true, LoadUnif: true},
	12: {LoadVary: true, LoadTMU: true},
	13: {ThreadSwitch: true, LoadVary: true, LoadTMU: true},
	14: {SmallImmB: true, LoadVary: true},
	15: {SmallImmB: true},
	16: {LoadTLB: true},
	17: {LoadTLBU: true},
	// 18-21 reserved
	22: {UCB: true},
	23: {Rotate: true},
	24: {LoadVPM: true},
	25: {ThreadSwitch: true, LoadVPM: true},
	26: {LoadVPM: true, LoadUnif: true},
	27: {ThreadSwitch: true, LoadVPM: true, LoadUnif: true},
	28: {LoadVPM: true, LoadTMU: true},
	29: {ThreadSwitch: true, LoadVPM: true, LoadTMU: true},
	30: {SmallImmB: true, LoadVPM: true},
	31: {SmallImmB: true},
}

var signalMapV40 = map[uint8]Signals{
	0:  {},
	1:  {ThreadSwitch: true},
	2:  {LoadUnif: true},
	3:  {ThreadSwitch: true, LoadUnif: true},
	4:  {LoadTMU: true},
	5:  {ThreadSwitch: true, LoadTMU: true},
	6:  {LoadTMU: true, LoadUnif: true},
	7:  {ThreadSwitch: true, LoadTMU: true, LoadUnif: true},
	8:  {LoadVary: true},
	9:  {ThreadSwitch: true, LoadVary: true},
	10: {LoadVary: true, LoadUnif: true},
	11: {ThreadSwitch: true, LoadVary: true, LoadUnif: true},
	// 12-13 reserved
	14: {SmallImmB: true, LoadVary: true},
	15: {SmallImmB: true},
	16: {LoadTLB: true},
	17: {LoadTLBU: true},
	18: {WrTMUC: true},
	19: {ThreadSwitch: true, WrTMUC: true},
	20: {LoadVary: true, WrTMUC: true},
	21: {ThreadSwitch: true, LoadVary: true, WrTMUC: true},
	22: {UCB: true},
	23: {Rotate: true},
	// 24-30 reserved
	31: {SmallImmB: true, LoadTMU: true},
}

var signalMapV41 = map[uint8]Signals{
	0:  {},
	1:  {ThreadSwitch: true},
	2:  {LoadUnif: true},
	3:  {ThreadSwitch: true, LoadUnif: true},
	4:  {LoadTMU: true},
	5:  {ThreadSwitch: true, LoadTMU: true},
	6:  {LoadTMU: true, LoadUnif: true},
	7:  {ThreadSwitch: true, LoadTMU: true, LoadUnif: true},
	8:  {LoadVary: true},
	9:  {ThreadSwitch: true, LoadVary: true},
	10: {LoadVary: true, LoadUnif: true},
	11: {ThreadSwitch: true, LoadVary: true, LoadUnif: true},
	12: {LoadUnifRF: true},
	13: {ThreadSwitch: true, LoadUnifRF: true},
	14: {SmallImmB: true, LoadVary: true},
	15: {SmallImmB: true},
	16: {LoadTLB: true},
	17: {LoadTLBU: true},
	18: {WrTMUC: true},
	19: {ThreadSwitch: true, WrTMUC: true},
	20: {LoadVary: true, WrTMUC: true},
	21: {ThreadSwitch: true, LoadVary: true, WrTMUC: true},
	22: {UCB: true},
	23: {Rotate: true},
	24: {LoadUnifA: true},
	25: {LoadUnifARF: true},
	// 26-30 reserved
	31: {SmallImmB: true, LoadTMU: true},
}

var signalMapV71 = map[uint8]Signals{
	0:  {},
	1:  {ThreadSwitch: true},
	2:  {LoadUnif: true},
	3:  {ThreadSwitch: true, LoadUnif: true},
	4:  {LoadTMU: true},
	5:  {ThreadSwitch: true, LoadTMU: true},
	6:  {LoadTMU: true, LoadUnif: true},
	7:  {ThreadSwitch: true, LoadTMU: true, LoadUnif: true},
	8:  {LoadVary: true},
	9:  {ThreadSwitch: true, LoadVary: true},
	10: {LoadVary: true, LoadUnif: true},
	11: {ThreadSwitch: true, LoadVary: true, LoadUnif: true},
	12: {LoadUnifRF: true},
	13: {ThreadSwitch: true, LoadUnifRF: true},
	14: {SmallImmA: true},
	15: {SmallImmB: true},
	16: {LoadTLB: true},
	17: {LoadTLBU: true},
	18: {WrTMUC: true},
	19: {ThreadSwitch: true, WrTMUC: true},
	20: {LoadVary: true, WrTMUC: true},
	21: {ThreadSwitch: true, LoadVary: true, WrTMUC: true},
	22: {UCB: true},
	// 23 reserved
	24: {LoadUnifA: true},
	25: {LoadUnifARF: true},
	// 26-29 reserved
	30: {SmallImmC: true},
	31: {SmallImmD: true},
}

// SignalMap builds the 32-entry signal table applicable to dev,
// selecting among the four era-specific tables by exact version: v7.1,
// v4.1/v4.2, v4.0, and v3.3. Any unrecognized version gets the v3.3
// table.
func SignalMap(dev Device) [32]SignalMapEntry {
	var src map[uint8]Signals
	switch dev.Ver {
	case Ver71:
		src = signalMapV71
	case Ver41, Ver42:
		src = signalMapV41
	case Ver40:
		src = signalMapV40
	default:
		src = signalMapV33
	}

	var table [32]SignalMapEntry
	for i := range table {
		s, ok := src[uint8(i)]
		if !ok {
			table[i] = SignalMapEntry{Reserved: true}
			continue
		}
		table[i] = SignalMapEntry{Signals: s}
	}
	return table
}

// SignalIndex returns the 5-bit sig value that encodes exactly the
// bits set in s under dev, or false if no table row matches (e.g. more
// than one bit set, or a bit unavailable on this version).
func SignalIndex(dev Device, s Signals) (uint8, bool) {
	table := SignalMap(dev)
	for i, e := range table {
		if e.Reserved {
			continue
		}
		if e.Signals == s {
			return uint8(i), true
		}
	}
	return 0, false
}
