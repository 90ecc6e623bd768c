package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"flag"
	"math/rand"
	"strconv"

	"github.com/plan-systems/klog"

	"github.com/exmem-systems/listrank/gen"
)

// listgen writes input.bin and the matching output.expected.bin, either for
// a random cyclic permutation of a given size or for an explicit cycle
// expression:
//
//	listgen 100000
//	listgen -cycle "3>1>4>2"
func main() {

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	cycle := flag.String("cycle", "", "explicit cycle expression, e.g. \"3>1>4>2\"")
	flag.Parse()

	var seed [8]byte
	crand.Read(seed[:])
	rng := rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))

	var order []uint32
	switch {
	case *cycle != "":
		var err error
		if order, err = gen.ParseCycle(*cycle); err != nil {
			klog.Fatalf("%v", err)
		}
	case flag.NArg() == 1:
		n, err := strconv.Atoi(flag.Arg(0))
		if err != nil || n < 1 {
			klog.Fatalf("bad size %q", flag.Arg(0))
		}
		order = gen.Random(n, rng)
	default:
		klog.Fatalf("usage: listgen <size> | listgen -cycle <expr>")
	}

	if err := gen.WriteInput("input.bin", gen.Edges(order, rng)); err != nil {
		klog.Fatalf("%v", err)
	}
	if err := gen.WriteExpected("output.expected.bin", gen.Expected(order)); err != nil {
		klog.Fatalf("%v", err)
	}
	klog.Infof("generated %d-node cycle", len(order))

	klog.Flush()
}
