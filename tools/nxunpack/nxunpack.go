package main

import (
	"archive/zip"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

func unpackBundle(bundle, outDir string) error {
	zr, err := zip.OpenReader(bundle)
	if err != nil {
		return err
	}
	defer zr.Close()

	if err := os.MkdirAll(outDir, 0776); err != nil {
		return err
	}

	count := 0
	for _, zf := range zr.File {
		target := filepath.Join(outDir, filepath.FromSlash(zf.Name))
		// keep members inside the output directory
		if !strings.HasPrefix(target, filepath.Clean(outDir)+string(os.PathSeparator)) {
			log.Printf("Skipping %q: escapes output directory", zf.Name)
			continue
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0776); err != nil {
				return err
			}
			continue
		}

		log.Println(zf.Name)
		if err := os.MkdirAll(filepath.Dir(target), 0776); err != nil {
			return err
		}
		src, err := zf.Open()
		if err != nil {
			return err
		}
		dst, err := os.Create(target)
		if err != nil {
			src.Close()
			return err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return err
		}
		count++
	}

	log.Printf("Unpacked %d files into %s", count, outDir)
	return nil
}

func main() {
	var bundle, outDir string
	flag.StringVar(&bundle, "bundle", "", "Path to bundle file to unpack")
	flag.StringVar(&outDir, "out", "nxb_content", "Path where to unpack the bundle")
	flag.Parse()

	if bundle == "" {
		log.Fatal("Provide path to a bundle. Use --help if you stuck.")
	}

	if err := unpackBundle(bundle, outDir); err != nil {
		log.Fatal(err)
	}
	log.Println("Complete !")
}
