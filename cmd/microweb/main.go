// Command microweb runs the browser engine against a single URL given
// on the command line, headless: it drives Engine.Tick to completion
// and reports the outcome, for smoke-testing the pipeline without a
// real video/input driver.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jhhoward/microweb-go"
)

// videoMode is one entry in the picker's mode table: a name, pixel
// dimensions, and the surface bit depth those dimensions are packed
// at. Grounded on VideoModeList's (name, width, height, surfaceFormat)
// columns; the BIOS mode number and VRAM page addresses have no
// counterpart in a software surface and are dropped.
type videoMode struct {
	name          string
	width, height int
	bpp           int
}

var videoModes = []videoMode{
	{"640x200 monochrome (CGA)", 640, 200, 1},
	{"320x200 4 colours (CGA)", 320, 200, 2},
	{"320x200 16 colours (Composite CGA)", 320, 200, 4},
	{"640x200 16 colours (EGA)", 640, 200, 4},
	{"640x350 monochrome (EGA)", 640, 350, 1},
	{"640x350 16 colours (EGA)", 640, 350, 4},
	{"640x480 monochrome (VGA)", 640, 480, 1},
	{"640x480 16 colours (VGA)", 640, 480, 4},
	{"320x200 256 colours (VGA)", 320, 200, 8},
}

// defaultVideoMode is "640x480 16 colours (VGA)", matching DataPack::Default.
const defaultVideoMode = 7

func pickVideoMode(letter string) (videoMode, error) {
	if letter == "" {
		return videoModes[defaultVideoMode], nil
	}
	if len(letter) != 1 || letter[0] < 'a' || int(letter[0]-'a') >= len(videoModes) {
		return videoMode{}, fmt.Errorf("microweb: -video=%s is not a valid mode letter (a-%c)", letter, 'a'+len(videoModes)-1)
	}
	return videoModes[letter[0]-'a'], nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		noImages     = flag.Bool("noimages", false, "suppress image loading entirely")
		dumpPage     = flag.Bool("dumppage", false, "write raw page bytes to dump.htm")
		invertColors = flag.Bool("i", false, "invert screen colors")
		useSwap      = flag.Bool("useswap", false, "enable disk swap file microweb.swp (capped at 1 MiB)")
		noEMS        = flag.Bool("noems", false, "disable expanded-memory backing even if present")
		video        = flag.String("video", "", "pick a video mode by letter index (a-i); default h")
		listModes    = flag.Bool("listvideomodes", false, "list available -video mode letters and exit")
	)
	flag.Parse()

	if *listModes {
		for i, m := range videoModes {
			fmt.Printf("(%c) %s\n", 'a'+i, m.name)
		}
		return 0
	}

	mode, err := pickVideoMode(*video)
	if err != nil {
		log.Print(err)
		return 1
	}

	opts := []microweb.Option{microweb.WithBPP(mode.bpp)}
	if *noImages {
		opts = append(opts, microweb.WithNoImages())
	}
	if *invertColors {
		opts = append(opts, microweb.WithInvertColors())
	}
	if *useSwap {
		opts = append(opts, microweb.WithSwap(1<<20))
	}
	if !*noEMS {
		opts = append(opts, microweb.WithExpandedMemory(1<<20))
	}

	var dumpFile *os.File
	if *dumpPage {
		dumpFile, err = os.Create("dump.htm")
		if err != nil {
			log.Printf("microweb: could not create dump.htm: %v", err)
			return 1
		}
		defer dumpFile.Close()
		opts = append(opts, microweb.WithPageDump(dumpFile))
	}

	eng := microweb.New(mode.width, mode.height, opts...)

	url := flag.Arg(0)
	if url == "" {
		log.Print("microweb: no URL given")
		return 1
	}

	if err := eng.OpenURL(url); err != nil {
		log.Printf("microweb: %s: %v", url, err)
		return 1
	}

	for eng.Tick() {
	}

	log.Printf("microweb: %s loaded (%s)", url, mode.name)
	return 0
}
