// Package browser implements capture.Renderer with headless Chrome driven
// over the DevTools protocol by chromedp. lottie-web's canvas renderer is
// injected from the configured script, and frames are read back with
// canvas.toDataURL.
package browser
