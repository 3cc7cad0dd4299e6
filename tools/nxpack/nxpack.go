package main

import (
	"archive/zip"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nxengine/nx_player/project"
	"github.com/nxengine/nx_player/vfs"
)

func packBuild(dir, out string) error {
	outAbs, err := filepath.Abs(out)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	count := 0
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		// the bundle may be created inside the build directory
		if abs, err := filepath.Abs(path); err == nil && abs == outAbs {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		if _, err := io.Copy(w, src); err != nil {
			return err
		}
		log.Println(rel)
		count++
		return nil
	})
	if err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	log.Printf("Packed %d files into %s", count, out)
	return nil
}

func main() {
	var inDir, outPath string
	flag.StringVar(&inDir, "i", "", "Path to an exported project build directory")
	flag.StringVar(&outPath, "o", "", "Output bundle path (default <build dir>.nxb)")
	flag.Parse()

	if inDir == "" {
		log.Fatal("Provide path to folder with the build. Use --help if you stuck.")
	}
	if outPath == "" {
		outPath = strings.TrimSuffix(filepath.Clean(inDir), string(os.PathSeparator)) + vfs.BUNDLE_EXTENSION
	}

	p, err := project.LoadFromDirectory(vfs.NewDirectoryDriver(inDir))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Packing project %q version %q, %d scenes", p.Name, p.Version, len(p.Manifest.Scenes))

	if err := packBuild(inDir, outPath); err != nil {
		log.Fatal(err)
	}
	log.Println("Complete !")
}
