package main

import (
	"flag"
	"os"

	"github.com/plan-systems/klog"

	"github.com/exmem-systems/listrank/catalog"
	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/rank"
)

func main() {

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	catalogDir := flag.String("catalog", "", "import the ranking into a badger catalog at this path")
	flag.Parse()

	in, err := os.Open("input.bin")
	if err != nil {
		klog.Fatalf("%v", err)
	}
	out, err := os.Create("output.bin")
	if err != nil {
		klog.Fatalf("%v", err)
	}

	cfg := rank.Config{
		Dir: listrank.DefaultDir,
	}
	if err = rank.Run(in, out, cfg); err != nil {
		klog.Fatalf("%v", err)
	}
	in.Close()
	if err = out.Close(); err != nil {
		klog.Fatalf("%v", err)
	}

	if *catalogDir != "" {
		cat, err := catalog.OpenCatalog(catalog.Opts{DbPathName: *catalogDir})
		if err != nil {
			klog.Fatalf("%v", err)
		}
		n, err := cat.ImportRanked(listrank.RankedFile(cfg.Dir, 0))
		if err != nil {
			klog.Fatalf("%v", err)
		}
		if err = cat.Close(); err != nil {
			klog.Fatalf("%v", err)
		}
		klog.Infof("cataloged %d ranks into %s", n, *catalogDir)
	}

	klog.Flush()
}
