package config

const (
	defaultRoot         = "."
	defaultInputDir     = "_1_inputLottie"
	defaultRenderDir    = "_2_renderPNG"
	defaultOutputDir    = "_3_convertVideo"
	defaultHistoryDB    = "~/.local/share/lottie2video/history.db"
	defaultFPS          = 60
	defaultLottieScript = "node_modules/lottie-web/build/player/lottie.min.js"
	defaultFrameTimeout = 30
	defaultFFmpeg       = "ffmpeg"
	defaultImg2WebP     = "img2webp"
	defaultMP4Codec     = "h264_videotoolbox"
	defaultMP4Bitrate   = "10M"
	defaultConcurrency  = 5
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultLogRetention = 14
	maxBatchConcurrency = 64
	maxRenderWidth      = 16384
	maxFrameTimeout     = 600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Root:      defaultRoot,
			InputDir:  defaultInputDir,
			RenderDir: defaultRenderDir,
			OutputDir: defaultOutputDir,
			HistoryDB: defaultHistoryDB,
		},
		Render: Render{
			FPS:          defaultFPS,
			LottieScript: defaultLottieScript,
			FrameTimeout: defaultFrameTimeout,
		},
		Encoder: Encoder{
			FFmpeg:     defaultFFmpeg,
			Img2WebP:   defaultImg2WebP,
			MP4Codec:   defaultMP4Codec,
			MP4Bitrate: defaultMP4Bitrate,
		},
		Batch: Batch{
			Concurrency: defaultConcurrency,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetention,
		},
	}
}
