package fuzz

import (
	"testing"

	"github.com/v3dqpu/qpuasm/codec"
	"github.com/v3dqpu/qpuasm/isa"
)

const corpusSize = 200

func TestRoundTrip_AllVersions(t *testing.T) {
	tests := []struct {
		name string
		ver  isa.Version
	}{
		{"v3.3", isa.Ver33},
		{"v4.0", isa.Ver40},
		{"v4.1", isa.Ver41},
		{"v4.2", isa.Ver42},
		{"v7.1", isa.Ver71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := isa.NewDevice(tt.ver)
			g := NewGenerator(dev, 1)

			for i := 0; i < corpusSize; i++ {
				inst := g.Next()
				first, second, err := RoundTrip(dev, inst)
				if err != nil {
					t.Fatalf("instruction %d (%+v): round trip failed: %v", i, inst, err)
				}
				if first != second {
					t.Fatalf("instruction %d (%+v): pack/unpack/pack diverged: %#016x != %#016x", i, inst, first, second)
				}
			}
		})
	}
}

func TestRoundTrip_AllAddOpcodes(t *testing.T) {
	for _, ver := range []isa.Version{isa.Ver42, isa.Ver71} {
		dev := isa.NewDevice(ver)
		g := NewGenerator(dev, 2)

		for _, entry := range isa.AddTable {
			if !inRangeVer(dev.Ver, entry.FirstVer, entry.LastVer) {
				continue
			}
			for i := 0; i < 5; i++ {
				inst := g.ALU()
				inst.Add.Op = entry.Op
				if entry.HasMagicDiscrim {
					inst.Add.MagicWrite = false
				}
				first, second, err := RoundTrip(dev, inst)
				if err != nil {
					t.Fatalf("%v/%s: round trip failed: %v", ver, entry.Op, err)
				}
				if first != second {
					t.Fatalf("%v/%s: pack/unpack/pack diverged", ver, entry.Op)
				}
			}
		}
	}
}

func TestRoundTrip_AllMulOpcodes(t *testing.T) {
	for _, ver := range []isa.Version{isa.Ver42, isa.Ver71} {
		dev := isa.NewDevice(ver)
		g := NewGenerator(dev, 3)

		for _, entry := range isa.MulTable {
			if !inRangeVer(dev.Ver, entry.FirstVer, entry.LastVer) {
				continue
			}
			for i := 0; i < 5; i++ {
				inst := g.ALU()
				inst.Mul.Op = entry.Op
				first, second, err := RoundTrip(dev, inst)
				if err != nil {
					t.Fatalf("%v/%s: round trip failed: %v", ver, entry.Op, err)
				}
				if first != second {
					t.Fatalf("%v/%s: pack/unpack/pack diverged", ver, entry.Op)
				}
			}
		}
	}
}

func TestRoundTrip_Branches(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	g := NewGenerator(dev, 4)

	for i := 0; i < corpusSize; i++ {
		inst := g.Branch()
		first, second, err := RoundTrip(dev, inst)
		if err != nil {
			t.Fatalf("branch %d (%+v): round trip failed: %v", i, inst.Branch, err)
		}
		if first != second {
			t.Fatalf("branch %d (%+v): pack/unpack/pack diverged", i, inst.Branch)
		}
	}
}

// TestRoundTrip_KnownWord anchors the generator-based corpus to a
// concrete packed word, independent of any generator behavior.
func TestRoundTrip_KnownWord(t *testing.T) {
	dev := isa.NewDevice(isa.Ver42)
	const word = uint64(0x3c003186bb800000)

	inst, err := codec.Unpack(dev, word)
	if err != nil {
		t.Fatalf("unpack failed: %v", err)
	}

	first, second, err := RoundTrip(dev, inst)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if first != second {
		t.Fatalf("pack/unpack/pack diverged: %#016x != %#016x", first, second)
	}
}
