// Package config loads, normalizes, and validates lottie2video configuration.
//
// It supplies repository defaults (60 fps, five concurrent jobs, the
// _1_inputLottie/_2_renderPNG/_3_convertVideo layout), expands user paths,
// reads TOML files, and honours environment fallbacks such as CHROME_PATH.
// CLI flags layer on top of the loaded Config; they never re-read the file.
package config
