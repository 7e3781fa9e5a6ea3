package encoding

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"lottie2video/internal/capture"
	"lottie2video/internal/config"
)

// PaletteFile is the gif palette written inside the frames directory so
// concurrent jobs never share one.
const PaletteFile = "palette.png"

// Command is one external invocation.
type Command struct {
	Binary string
	Args   []string
}

func (c Command) String() string {
	return c.Binary + " " + strings.Join(c.Args, " ")
}

// Recipe holds the binaries and fixed codec knobs.
type Recipe struct {
	FFmpeg     string
	Img2WebP   string
	MP4Codec   string
	MP4Bitrate string
}

// RecipeFromConfig reads encoder settings from cfg.
func RecipeFromConfig(cfg *config.Config) Recipe {
	r := DefaultRecipe()
	if cfg == nil {
		return r
	}
	r.FFmpeg = cfg.Encoder.FFmpeg
	r.Img2WebP = cfg.Encoder.Img2WebP
	r.MP4Codec = cfg.Encoder.MP4Codec
	r.MP4Bitrate = cfg.Encoder.MP4Bitrate
	return r
}

// DefaultRecipe matches the stock configuration.
func DefaultRecipe() Recipe {
	return Recipe{
		FFmpeg:     "ffmpeg",
		Img2WebP:   "img2webp",
		MP4Codec:   "h264_videotoolbox",
		MP4Bitrate: "10M",
	}
}

// Commands returns the invocations that turn the frames in dir into output.
// The webp recipe lists the frame files explicitly, so they must already
// exist.
func (r Recipe) Commands(format Format, dir string, fps int, output string) ([]Command, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}
	pattern := capture.Set{Dir: dir}.Pattern()
	rate := strconv.Itoa(fps)
	ffmpegInput := []string{"-y", "-threads", "0", "-framerate", rate, "-i", pattern}

	switch format {
	case FormatGIF:
		palette := filepath.Join(dir, PaletteFile)
		return []Command{
			{Binary: r.FFmpeg, Args: []string{"-y", "-threads", "0", "-i", pattern, "-filter_complex", "[0:v]palettegen", palette}},
			{Binary: r.FFmpeg, Args: append(ffmpegInput, "-i", palette, "-filter_complex", "[0:v][1:v]paletteuse", output)},
		}, nil
	case FormatAPNG:
		return []Command{{Binary: r.FFmpeg, Args: append(ffmpegInput, "-plays", "0", "-c:v", "apng", output)}}, nil
	case FormatWebM:
		return []Command{{Binary: r.FFmpeg, Args: append(ffmpegInput,
			"-c:v", "libvpx-vp9", "-lossless", "1", "-pix_fmt", "yuva420p",
			"-auto-alt-ref", "0", "-row-mt", "1", "-deadline", "realtime", output)}}, nil
	case FormatMP4:
		return []Command{{Binary: r.FFmpeg, Args: append(ffmpegInput,
			"-c:v", r.MP4Codec, "-b:v", r.MP4Bitrate, "-pix_fmt", "yuv420p", output)}}, nil
	case FormatWebP:
		files, err := FrameFiles(dir)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no frames in %s", dir)
		}
		args := []string{"-lossless", "-loop", "0", "-d", strconv.Itoa(FrameDelayMillis(fps))}
		args = append(args, files...)
		args = append(args, "-o", output)
		return []Command{{Binary: r.Img2WebP, Args: args}}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// FrameDelayMillis is the per-frame display time img2webp expects.
func FrameDelayMillis(fps int) int {
	if fps <= 0 {
		return 0
	}
	return int(math.Round(1000 / float64(fps)))
}

// FrameFiles lists frame_*.png in dir sorted by name. The zero padding makes
// lexical order match index order.
func FrameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "frame_") || !strings.HasSuffix(name, ".png") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
